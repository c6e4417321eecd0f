package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tmengine/internal/tm"
)

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewMap creates a topic map with base IRI base and a discarding logger.
// opts are applied after the defaults.
func NewMap(t testing.TB, base string, opts ...tm.Option) *tm.TopicMap {
	t.Helper()
	return tm.New(append([]tm.Option{tm.WithIRI(base), tm.WithLogger(DiscardLogger())}, opts...)...)
}

// MustSID returns the topic with subject identifier iri, creating it if
// needed. The test fails on error.
func MustSID(t testing.TB, m *tm.TopicMap, iri string) *tm.Topic {
	t.Helper()
	topic, err := m.CreateTopicBySubjectIdentifier(iri)
	require.NoError(t, err)
	return topic
}

// MustName creates a default-typed name on topic. The test fails on error.
func MustName(t testing.TB, topic *tm.Topic, value string, themes ...*tm.Topic) *tm.Name {
	t.Helper()
	n, err := topic.CreateName(value, nil, themes...)
	require.NoError(t, err)
	return n
}
