package index

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tmengine/internal/tm"
)

const testBase = "http://example.org/index/"

func newTestMap(t *testing.T) *tm.TopicMap {
	t.Helper()
	return tm.New(
		tm.WithIRI(testBase),
		tm.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func mustSID(t *testing.T, m *tm.TopicMap, local string) *tm.Topic {
	t.Helper()
	topic, err := m.CreateTopicBySubjectIdentifier(testBase + local)
	require.NoError(t, err)
	return topic
}

func constructs[T tm.Construct](items ...T) []tm.Construct {
	out := make([]tm.Construct, len(items))
	for i, c := range items {
		out[i] = c
	}
	return out
}
