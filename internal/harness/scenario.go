package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tmengine/internal/tm"
	"github.com/roach88/tmengine/internal/tmdoc"
)

// Scenario defines a topic map scenario.
// Maps are built from inline documents, the steps mutate them and the
// assertions check the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden
	// file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Maps are the topic maps of the scenario, keyed by alias.
	// Each map is built by importing its document into an empty map.
	Maps map[string]tmdoc.Document `yaml:"maps"`

	// Steps run in order after every map has been built.
	Steps []Step `yaml:"steps,omitempty"`

	// Assertions validate the final maps and the trace.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one mutation applied to a map.
//
// Topic, Other and Scope entries are topic references: "sid:", "slo:" or
// "iid:" followed by an IRI, which may be relative to the map's base.
// Construct may also be "map" for the topic map itself.
type Step struct {
	// Op is the operation, one of the Op* constants.
	Op string `yaml:"op"`

	// Map is the alias of the map the step applies to.
	Map string `yaml:"map"`

	// From is the alias of the merged map (merge_maps).
	From string `yaml:"from,omitempty"`

	// Topic is the receiving topic (merge_topics, add_identity,
	// remove_identity) or the reifier (set_reifier, empty clears it).
	Topic string `yaml:"topic,omitempty"`

	// Other is the topic merged into Topic (merge_topics).
	Other string `yaml:"other,omitempty"`

	// Kind is the identity kind: iid, sid or slo.
	Kind string `yaml:"kind,omitempty"`

	// IRI is the identity added or removed.
	IRI string `yaml:"iri,omitempty"`

	// Construct is the target of set_reifier, remove and create_variant.
	Construct string `yaml:"construct,omitempty"`

	// Value, Datatype and Scope describe the variant (create_variant).
	Value    string   `yaml:"value,omitempty"`
	Datatype string   `yaml:"datatype,omitempty"`
	Scope    []string `yaml:"scope,omitempty"`

	// ExpectError makes the step pass only if it fails with the given
	// class: identity_violation, constraint_violation, usage, internal
	// or any.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Step operations.
const (
	OpMergeMaps        = "merge_maps"
	OpMergeTopics      = "merge_topics"
	OpAddIdentity      = "add_identity"
	OpRemoveIdentity   = "remove_identity"
	OpSetReifier       = "set_reifier"
	OpRemoveDuplicates = "remove_duplicates"
	OpRemove           = "remove"
	OpCreateVariant    = "create_variant"
)

// Expected error classes.
const (
	ErrClassIdentity   = "identity_violation"
	ErrClassConstraint = "constraint_violation"
	ErrClassUsage      = "usage"
	ErrClassInternal   = "internal"
	ErrClassAny        = "any"
)

// Assertion validates a final map or the trace.
type Assertion struct {
	// Type specifies the assertion type, one of the Assert* constants.
	Type string `yaml:"type"`

	// Map is the alias of the map under test.
	Map string `yaml:"map"`

	// Topic is a topic reference (has_identity, name_count,
	// occurrence_count, variant_count, label, reifies).
	Topic string `yaml:"topic,omitempty"`

	// Kind is the identity kind (has_identity) or the event kind
	// (event_count).
	Kind string `yaml:"kind,omitempty"`

	// IRI is the identity expected on Topic (has_identity).
	IRI string `yaml:"iri,omitempty"`

	// Construct is the construct Topic must reify (reifies).
	Construct string `yaml:"construct,omitempty"`

	// Count is the expected number (the *_count assertions).
	Count *int `yaml:"count,omitempty"`

	// Value is the expected label (label).
	Value string `yaml:"value,omitempty"`

	// Context lists the topic references forming the label scope.
	Context []string `yaml:"context,omitempty"`
}

// Assertion type constants.
const (
	AssertTopicCount       = "topic_count"
	AssertAssociationCount = "association_count"
	AssertHasIdentity      = "has_identity"
	AssertNameCount        = "name_count"
	AssertOccurrenceCount  = "occurrence_count"
	AssertVariantCount     = "variant_count"
	AssertLabel            = "label"
	AssertReifies          = "reifies"
	AssertEventCount       = "event_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every .yaml and .yml scenario in dir, sorted by file
// name. A non-empty filter keeps only scenarios whose name contains it.
func LoadDir(dir, filter string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var scenarios []*Scenario
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if filter != "" && !strings.Contains(s.Name, filter) {
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
// Document contents are validated when the maps are built.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Maps) == 0 {
		return fmt.Errorf("maps is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step, s.Maps); err != nil {
			return err
		}
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, s.Maps); err != nil {
			return err
		}
	}
	return nil
}

// validateStep validates a single step based on its operation.
func validateStep(index int, st *Step, maps map[string]tmdoc.Document) error {
	if st.Op == "" {
		return fmt.Errorf("steps[%d]: op is required", index)
	}
	if _, ok := maps[st.Map]; !ok {
		return fmt.Errorf("steps[%d]: unknown map %q", index, st.Map)
	}
	if st.ExpectError != "" && !slices.Contains([]string{
		ErrClassIdentity, ErrClassConstraint, ErrClassUsage, ErrClassInternal, ErrClassAny,
	}, st.ExpectError) {
		return fmt.Errorf("steps[%d]: unknown error class %q", index, st.ExpectError)
	}

	switch st.Op {
	case OpMergeMaps:
		if _, ok := maps[st.From]; !ok {
			return fmt.Errorf("steps[%d]: unknown map %q in from", index, st.From)
		}
		if st.From == st.Map {
			return fmt.Errorf("steps[%d]: cannot merge map %q into itself", index, st.Map)
		}
	case OpMergeTopics:
		if st.Topic == "" || st.Other == "" {
			return fmt.Errorf("steps[%d]: topic and other are required for %s", index, st.Op)
		}
	case OpAddIdentity, OpRemoveIdentity:
		if st.Topic == "" || st.IRI == "" {
			return fmt.Errorf("steps[%d]: topic and iri are required for %s", index, st.Op)
		}
		if _, ok := tm.ParseIdentityKind(st.Kind); !ok {
			return fmt.Errorf("steps[%d]: kind must be iid, sid or slo", index)
		}
	case OpSetReifier, OpRemove:
		if st.Construct == "" {
			return fmt.Errorf("steps[%d]: construct is required for %s", index, st.Op)
		}
	case OpCreateVariant:
		if st.Construct == "" || len(st.Scope) == 0 {
			return fmt.Errorf("steps[%d]: construct and scope are required for %s", index, st.Op)
		}
	case OpRemoveDuplicates:
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, maps map[string]tmdoc.Document) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if _, ok := maps[a.Map]; !ok {
		return fmt.Errorf("assertions[%d]: unknown map %q", index, a.Map)
	}

	needCount := func() error {
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for %s", index, a.Type)
		}
		return nil
	}
	needTopic := func() error {
		if a.Topic == "" {
			return fmt.Errorf("assertions[%d]: topic is required for %s", index, a.Type)
		}
		return nil
	}

	switch a.Type {
	case AssertTopicCount, AssertAssociationCount:
		return needCount()
	case AssertEventCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for %s", index, a.Type)
		}
		return needCount()
	case AssertNameCount, AssertOccurrenceCount, AssertVariantCount:
		if err := needTopic(); err != nil {
			return err
		}
		return needCount()
	case AssertHasIdentity:
		if err := needTopic(); err != nil {
			return err
		}
		if _, ok := tm.ParseIdentityKind(a.Kind); !ok {
			return fmt.Errorf("assertions[%d]: kind must be iid, sid or slo", index)
		}
		if a.IRI == "" {
			return fmt.Errorf("assertions[%d]: iri is required for %s", index, a.Type)
		}
	case AssertLabel:
		return needTopic()
	case AssertReifies:
		if err := needTopic(); err != nil {
			return err
		}
		if a.Construct == "" {
			return fmt.Errorf("assertions[%d]: construct is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
