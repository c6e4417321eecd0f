package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/tmengine/internal/iri"
	"github.com/roach88/tmengine/internal/tm"
)

// mapRef names the topic map itself in construct references.
const mapRef = "map"

// resolveConstruct resolves a construct reference in m.
func resolveConstruct(m *tm.TopicMap, ref string) (tm.Construct, error) {
	if ref == mapRef {
		return m, nil
	}
	prefix, raw, ok := strings.Cut(ref, ":")
	if !ok {
		return nil, fmt.Errorf("reference %q: missing sid:, slo: or iid: prefix", ref)
	}
	kind, ok := tm.ParseIdentityKind(prefix)
	if !ok {
		return nil, fmt.Errorf("reference %q: unknown prefix %q", ref, prefix)
	}
	abs, err := iri.Resolve(m.IRI(), raw)
	if err != nil {
		return nil, fmt.Errorf("reference %q: %w", ref, err)
	}
	c, ok := m.Lookup(kind, abs)
	if !ok {
		return nil, fmt.Errorf("reference %q: no such construct", ref)
	}
	return c, nil
}

// ResolveTopic resolves a topic reference in m. A reference is "sid:",
// "slo:" or "iid:" followed by an IRI, which may be relative to the
// map's base.
func ResolveTopic(m *tm.TopicMap, ref string) (*tm.Topic, error) {
	c, err := resolveConstruct(m, ref)
	if err != nil {
		return nil, err
	}
	t, ok := c.(*tm.Topic)
	if !ok {
		return nil, fmt.Errorf("reference %q: %s is not a topic", ref, c.Kind())
	}
	return t, nil
}

// ResolveTopics resolves every reference in refs.
func ResolveTopics(m *tm.TopicMap, refs []string) ([]*tm.Topic, error) {
	out := make([]*tm.Topic, 0, len(refs))
	for _, ref := range refs {
		t, err := ResolveTopic(m, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// resolveIRI resolves raw against the base of m.
func resolveIRI(m *tm.TopicMap, raw string) (string, error) {
	return iri.Resolve(m.IRI(), raw)
}
