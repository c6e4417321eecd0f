package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const operaScenario = `
name: opera
description: "Assertion checks against a small map"
maps:
  opera:
    base: http://example.org/opera/
    reifier: catalogue
    topics:
      - id: tosca
        subject_identifiers: [tosca]
        names:
          - value: Tosca
            item_identifiers: [tosca-name]
            variants:
              - value: tosca
                scope: [sort]
          - value: La Tosca
            scope: [italian]
        occurrences:
          - type: premiere
            value: "1900"
      - id: premiere
        subject_identifiers: [premiere]
      - id: sort
        subject_identifiers: [sort]
      - id: italian
        subject_identifiers: [italian]
      - id: catalogue
        item_identifiers: [catalogue]
      - id: name-note
        subject_identifiers: [name-note]
        reifies: tosca-name
assertions:
  - type: topic_count
    map: opera
    count: 7
`

func evaluateOne(t *testing.T, a Assertion) error {
	t.Helper()
	s := mustParse(t, operaScenario)
	s.Assertions = []Assertion{a}
	require.NoError(t, validateScenario(s))

	result, err := Run(s)
	require.NoError(t, err)
	if result.Pass {
		return nil
	}
	require.Len(t, result.Errors, 1)
	return assert.AnError
}

func count(n int) *int { return &n }

func TestAssertions_Pass(t *testing.T) {
	tests := []struct {
		name string
		a    Assertion
	}{
		{"topic count", Assertion{Type: AssertTopicCount, Map: "opera", Count: count(7)}},
		{"association count", Assertion{Type: AssertAssociationCount, Map: "opera", Count: count(0)}},
		{"name count", Assertion{Type: AssertNameCount, Map: "opera", Topic: "sid:tosca", Count: count(2)}},
		{"occurrence count", Assertion{Type: AssertOccurrenceCount, Map: "opera", Topic: "sid:tosca", Count: count(1)}},
		{"variant count", Assertion{Type: AssertVariantCount, Map: "opera", Topic: "sid:tosca", Count: count(1)}},
		{"has identity", Assertion{Type: AssertHasIdentity, Map: "opera", Topic: "sid:tosca", Kind: "sid", IRI: "tosca"}},
		{"label in unconstrained scope", Assertion{Type: AssertLabel, Map: "opera", Topic: "sid:tosca", Value: "Tosca"}},
		{"label in context", Assertion{Type: AssertLabel, Map: "opera", Topic: "sid:tosca", Context: []string{"sid:italian"}, Value: "La Tosca"}},
		{"label from identifier", Assertion{Type: AssertLabel, Map: "opera", Topic: "sid:premiere", Value: "premiere"}},
		{"reifies map", Assertion{Type: AssertReifies, Map: "opera", Topic: "iid:catalogue", Construct: "map"}},
		{"reifies name", Assertion{Type: AssertReifies, Map: "opera", Topic: "sid:name-note", Construct: "iid:tosca-name"}},
		{"no events", Assertion{Type: AssertEventCount, Map: "opera", Kind: "topics-merged", Count: count(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, evaluateOne(t, tt.a))
		})
	}
}

func TestAssertions_Fail(t *testing.T) {
	tests := []struct {
		name string
		a    Assertion
	}{
		{"topic count", Assertion{Type: AssertTopicCount, Map: "opera", Count: count(3)}},
		{"name count", Assertion{Type: AssertNameCount, Map: "opera", Topic: "sid:tosca", Count: count(1)}},
		{"missing identity", Assertion{Type: AssertHasIdentity, Map: "opera", Topic: "sid:tosca", Kind: "slo", IRI: "tosca"}},
		{"wrong label", Assertion{Type: AssertLabel, Map: "opera", Topic: "sid:tosca", Value: "La Tosca"}},
		{"reifies nothing", Assertion{Type: AssertReifies, Map: "opera", Topic: "sid:premiere", Construct: "map"}},
		{"unknown topic", Assertion{Type: AssertNameCount, Map: "opera", Topic: "sid:aida", Count: count(0)}},
		{"not a topic", Assertion{Type: AssertNameCount, Map: "opera", Topic: "iid:tosca-name", Count: count(1)}},
		{"missing prefix", Assertion{Type: AssertNameCount, Map: "opera", Topic: "tosca", Count: count(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, evaluateOne(t, tt.a))
		})
	}
}

func TestAssertionError_Message(t *testing.T) {
	err := &AssertionError{
		Type:     AssertTopicCount,
		Map:      "opera",
		Expected: "3 topic",
		Actual:   "7",
	}
	assert.Equal(t, "Assertion failed: topic_count on map opera\n  Expected: 3 topic\n  Actual: 7", err.Error())
}

func TestAssertCount_Message(t *testing.T) {
	err := assertCount(Assertion{Type: AssertNameCount, Map: "opera", Topic: "sid:tosca", Count: count(1)}, 2)
	var aerr *AssertionError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "1 name of sid:tosca", aerr.Expected)
	assert.Equal(t, "2", aerr.Actual)
}
