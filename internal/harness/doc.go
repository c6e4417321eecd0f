// Package harness runs topic map scenarios.
//
// A scenario builds one or more topic maps from inline documents, applies
// a sequence of mutation steps and checks assertions against the result.
// Every run also renders a deterministic summary of the final maps, which
// golden files pin down.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	maps:
//	  music:
//	    base: http://example.org/music/
//	    topics:
//	      - id: puccini
//	        subject_identifiers: [puccini]
//	        names: [{value: Puccini}]
//	steps:
//	  - op: add_identity
//	    map: music
//	    topic: sid:puccini
//	    kind: iid
//	    iri: giacomo
//	assertions:
//	  - type: topic_count
//	    map: music
//	    count: 1
//	  - type: label
//	    map: music
//	    topic: iid:giacomo
//	    value: Puccini
//
// # References
//
// Steps and assertions name topics by identity: "sid:", "slo:" or "iid:"
// followed by an IRI. Relative IRIs resolve against the map's base, as
// they do inside documents. "map" names the topic map itself where a
// construct is expected.
//
// # Steps
//
//   - merge_maps: merges map "from" into "map"
//   - merge_topics: merges "other" into "topic"
//   - add_identity, remove_identity: "kind" iid, sid or slo with "iri"
//   - set_reifier: reifies "construct" with "topic", or clears it
//   - remove_duplicates: runs a duplicate pass over the map
//   - remove: removes "construct"
//   - create_variant: adds a variant to the name "construct"
//
// A step with expect_error passes only if it fails with that error class.
// A failed step has no effect on the map.
//
// # Assertion Types
//
//   - topic_count, association_count: map-level counts
//   - name_count, occurrence_count, variant_count: counts on a topic
//   - has_identity: a topic holds an identity
//   - label: the atomified label of a topic in a context
//   - reifies: a topic reifies a construct
//   - event_count: events of a kind dispatched by the steps
//
// # Deterministic Testing
//
// Maps are built in alias order and topics are summarized by identity, so
// the summary of a scenario is stable across runs.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/merge.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
