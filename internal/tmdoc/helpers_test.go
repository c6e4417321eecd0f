package tmdoc

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tmengine/internal/tm"
)

const musicBase = "http://example.org/music/"

func newTestMap(t *testing.T) *tm.TopicMap {
	t.Helper()
	return tm.New(
		tm.WithIRI(musicBase),
		tm.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func loadOpera(t *testing.T) *Document {
	t.Helper()
	doc, err := Load("testdata/opera.yaml")
	require.NoError(t, err)
	return doc
}

func fieldCodes(errs []ValidationError) map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field] = e.Code
	}
	return out
}
