package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/tmengine/internal/tm"
	"github.com/roach88/tmengine/internal/tmdoc"
)

// Harness is the scenario execution engine.
// It owns the maps of one scenario and records their events.
type Harness struct {
	maps    map[string]*tm.TopicMap
	aliases []string
	result  *Result
	logger  *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Build every map from its document, in alias order
// 2. Subscribe the trace recorder to every map
// 3. Execute the steps, checking expected errors
// 4. Evaluate assertions and render the summary
//
// The returned error reports a scenario that could not be set up; step
// and assertion failures are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with the maps logging to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	h := &Harness{
		maps:   make(map[string]*tm.TopicMap, len(scenario.Maps)),
		result: NewResult(),
		logger: logger,
	}

	for alias := range scenario.Maps {
		h.aliases = append(h.aliases, alias)
	}
	slices.Sort(h.aliases)

	for _, alias := range h.aliases {
		doc := scenario.Maps[alias]
		m, err := h.build(alias, &doc)
		if err != nil {
			return nil, fmt.Errorf("failed to build map %q: %w", alias, err)
		}
		h.maps[alias] = m
	}

	for _, alias := range h.aliases {
		h.trace(alias, h.maps[alias])
	}

	h.executeSteps(scenario.Steps)

	for _, errMsg := range EvaluateAssertions(h, scenario.Assertions) {
		h.result.AddError(errMsg)
	}

	h.result.Summary = h.summary()
	return h.result, nil
}

// Map returns the map built for alias.
func (h *Harness) Map(alias string) (*tm.TopicMap, bool) {
	m, ok := h.maps[alias]
	return m, ok
}

func (h *Harness) build(alias string, doc *tmdoc.Document) (*tm.TopicMap, error) {
	base := doc.Base
	if base == "" {
		base = "http://harness.test/" + alias + "/"
	}
	m := tm.New(tm.WithIRI(base), tm.WithLogger(h.logger.With("map", alias)))
	if err := tmdoc.Import(m, doc); err != nil {
		return nil, err
	}
	return m, nil
}

// trace records every event of m in the result.
func (h *Harness) trace(alias string, m *tm.TopicMap) {
	m.Bus().SubscribeAll(func(e tm.Event) error {
		source := "-"
		if e.Source != nil {
			source = fmt.Sprintf("%s#%d", e.Source.Kind(), e.Source.ID())
		}
		h.result.AddTrace(alias, string(e.Kind), source)
		return nil
	})
}

// executeSteps runs the steps in order. A failing step is reported and
// the remaining steps still run.
func (h *Harness) executeSteps(steps []Step) {
	for i, st := range steps {
		err := h.execute(&st)
		if msg := checkStepError(st.ExpectError, err); msg != "" {
			h.result.AddError(fmt.Sprintf("steps[%d] %s: %s", i, st.Op, msg))
		}
	}
}

// checkStepError compares a step outcome with the expected error class.
// It returns a failure message, or "" when the outcome is as expected.
func checkStepError(class string, err error) string {
	if class == "" {
		if err != nil {
			return fmt.Sprintf("unexpected error: %v", err)
		}
		return ""
	}
	if err == nil {
		return fmt.Sprintf("expected %s error, got success", class)
	}
	var match bool
	switch class {
	case ErrClassIdentity:
		match = tm.IsIdentityViolation(err)
	case ErrClassConstraint:
		match = tm.IsConstraintViolation(err)
	case ErrClassUsage:
		match = tm.IsUsageError(err)
	case ErrClassInternal:
		match = tm.IsInternalError(err)
	case ErrClassAny:
		match = true
	}
	if !match {
		return fmt.Sprintf("expected %s error, got: %v", class, err)
	}
	return ""
}

func (h *Harness) execute(st *Step) error {
	m := h.maps[st.Map]

	switch st.Op {
	case OpMergeMaps:
		return m.MergeIn(h.maps[st.From])

	case OpMergeTopics:
		t, err := ResolveTopic(m, st.Topic)
		if err != nil {
			return err
		}
		other, err := ResolveTopic(m, st.Other)
		if err != nil {
			return err
		}
		return t.MergeIn(other)

	case OpAddIdentity, OpRemoveIdentity:
		t, err := ResolveTopic(m, st.Topic)
		if err != nil {
			return err
		}
		abs, err := resolveIRI(m, st.IRI)
		if err != nil {
			return err
		}
		kind, _ := tm.ParseIdentityKind(st.Kind)
		if st.Op == OpAddIdentity {
			return addIdentity(t, kind, abs)
		}
		return removeIdentity(t, kind, abs)

	case OpSetReifier:
		c, err := resolveConstruct(m, st.Construct)
		if err != nil {
			return err
		}
		r, ok := c.(tm.Reifiable)
		if !ok {
			return fmt.Errorf("a %s cannot be reified", c.Kind())
		}
		var reifier *tm.Topic
		if st.Topic != "" {
			if reifier, err = ResolveTopic(m, st.Topic); err != nil {
				return err
			}
		}
		return r.SetReifier(reifier)

	case OpRemoveDuplicates:
		_, err := m.RemoveDuplicates()
		return err

	case OpRemove:
		c, err := resolveConstruct(m, st.Construct)
		if err != nil {
			return err
		}
		if c == tm.Construct(m) {
			return errors.New("the topic map cannot be removed by a step")
		}
		return c.Remove()

	case OpCreateVariant:
		c, err := resolveConstruct(m, st.Construct)
		if err != nil {
			return err
		}
		n, ok := c.(*tm.Name)
		if !ok {
			return fmt.Errorf("reference %q: %s is not a name", st.Construct, c.Kind())
		}
		themes, err := ResolveTopics(m, st.Scope)
		if err != nil {
			return err
		}
		_, err = n.CreateVariant(st.Value, st.Datatype, themes...)
		return err
	}
	return fmt.Errorf("unknown op %q", st.Op)
}

func addIdentity(t *tm.Topic, kind tm.IdentityKind, iri string) error {
	switch kind {
	case tm.SubjectIdentifier:
		return t.AddSubjectIdentifier(iri)
	case tm.SubjectLocator:
		return t.AddSubjectLocator(iri)
	}
	return t.AddItemIdentifier(iri)
}

func removeIdentity(t *tm.Topic, kind tm.IdentityKind, iri string) error {
	switch kind {
	case tm.SubjectIdentifier:
		return t.RemoveSubjectIdentifier(iri)
	case tm.SubjectLocator:
		return t.RemoveSubjectLocator(iri)
	}
	return t.RemoveItemIdentifier(iri)
}

func (h *Harness) summary() string {
	parts := make([]string, len(h.aliases))
	for i, alias := range h.aliases {
		parts[i] = Summarize(alias, h.maps[alias])
	}
	return strings.Join(parts, "\n")
}
