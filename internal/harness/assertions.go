package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/tmengine/internal/tm"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Map      string // Alias of the map under test
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s on map %s\n", e.Type, e.Map)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against the maps and trace of
// h and returns the failure messages.
func EvaluateAssertions(h *Harness, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(h, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(h *Harness, a Assertion) error {
	m, ok := h.Map(a.Map)
	if !ok {
		return fmt.Errorf("unknown map %q", a.Map)
	}

	switch a.Type {
	case AssertTopicCount:
		return assertCount(a, m.TopicCount())
	case AssertAssociationCount:
		return assertCount(a, m.AssociationCount())
	case AssertEventCount:
		n := 0
		for _, e := range h.result.Trace {
			if e.Map == a.Map && e.Kind == a.Kind {
				n++
			}
		}
		return assertCount(a, n)
	}

	t, err := ResolveTopic(m, a.Topic)
	if err != nil {
		return err
	}

	switch a.Type {
	case AssertNameCount:
		return assertCount(a, len(t.Names()))
	case AssertOccurrenceCount:
		return assertCount(a, len(t.Occurrences()))
	case AssertVariantCount:
		n := 0
		for _, name := range t.Names() {
			n += len(name.Variants())
		}
		return assertCount(a, n)
	case AssertHasIdentity:
		return assertHasIdentity(m, t, a)
	case AssertLabel:
		return assertLabel(m, t, a)
	case AssertReifies:
		return assertReifies(m, t, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func assertCount(a Assertion, actual int) error {
	if actual == *a.Count {
		return nil
	}
	what := strings.TrimSuffix(a.Type, "_count")
	if a.Topic != "" {
		what += " of " + a.Topic
	}
	if a.Kind != "" {
		what += " " + a.Kind
	}
	return &AssertionError{
		Type:     a.Type,
		Map:      a.Map,
		Expected: fmt.Sprintf("%d %s", *a.Count, what),
		Actual:   fmt.Sprintf("%d", actual),
	}
}

func assertHasIdentity(m *tm.TopicMap, t *tm.Topic, a Assertion) error {
	abs, err := resolveIRI(m, a.IRI)
	if err != nil {
		return err
	}
	kind, _ := tm.ParseIdentityKind(a.Kind)
	var held []string
	switch kind {
	case tm.SubjectIdentifier:
		held = t.SubjectIdentifiers()
	case tm.SubjectLocator:
		held = t.SubjectLocators()
	default:
		held = t.ItemIdentifiers()
	}
	for _, id := range held {
		if id == abs {
			return nil
		}
	}
	return &AssertionError{
		Type:     a.Type,
		Map:      a.Map,
		Expected: fmt.Sprintf("%s %s %s", TopicRef(t), kind, abs),
		Actual:   fmt.Sprintf("%s %v", kind, held),
	}
}

func assertLabel(m *tm.TopicMap, t *tm.Topic, a Assertion) error {
	ctx, err := ResolveTopics(m, a.Context)
	if err != nil {
		return err
	}
	label, err := tm.Atomify(t, ctx...)
	if err != nil {
		return err
	}
	if label == a.Value {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Map:      a.Map,
		Expected: fmt.Sprintf("label %q", a.Value),
		Actual:   fmt.Sprintf("label %q", label),
	}
}

func assertReifies(m *tm.TopicMap, t *tm.Topic, a Assertion) error {
	want, err := resolveConstruct(m, a.Construct)
	if err != nil {
		return err
	}
	got := t.Reified()
	if got != nil && tm.Construct(got) == want {
		return nil
	}
	actual := "nothing"
	if got != nil {
		actual = describe(got)
	}
	return &AssertionError{
		Type:     a.Type,
		Map:      a.Map,
		Expected: fmt.Sprintf("%s reifies %s", TopicRef(t), a.Construct),
		Actual:   actual,
	}
}
