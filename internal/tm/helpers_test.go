package tm

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

const testBase = "http://example.org/map"

func newTestMap(t *testing.T, opts ...Option) *TopicMap {
	t.Helper()
	opts = append([]Option{
		WithIRI(testBase),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	return New(opts...)
}

func mustSID(t *testing.T, m *TopicMap, iri string) *Topic {
	t.Helper()
	topic, err := m.CreateTopicBySubjectIdentifier(iri)
	require.NoError(t, err)
	return topic
}

func mustTopic(t *testing.T, m *TopicMap) *Topic {
	t.Helper()
	topic, err := m.CreateTopic()
	require.NoError(t, err)
	return topic
}

func mustName(t *testing.T, topic *Topic, value string, themes ...*Topic) *Name {
	t.Helper()
	n, err := topic.CreateName(value, nil, themes...)
	require.NoError(t, err)
	return n
}

// recorder collects the kinds of every dispatched event.
type recorder struct {
	kinds []EventKind
}

func record(m *TopicMap) *recorder {
	r := &recorder{}
	m.Bus().SubscribeAll(func(e Event) error {
		r.kinds = append(r.kinds, e.Kind)
		return nil
	})
	return r
}
