package store

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/roach88/tmengine/internal/tm"
	"github.com/roach88/tmengine/internal/tmdoc"
)

const testBase = "http://example.org/store/"

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	return createTestStoreAt(t, filepath.Join(t.TempDir(), "test.db"))
}

// createTestStoreAt opens the store at path and closes it on cleanup.
func createTestStoreAt(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestMap creates an empty map with a fixed base IRI and a silent
// logger.
func createTestMap(t *testing.T) *tm.TopicMap {
	t.Helper()
	return tm.New(
		tm.WithIRI(testBase),
		tm.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

// createTestDocument creates a document with one named topic per name.
func createTestDocument(names ...string) *tmdoc.Document {
	doc := &tmdoc.Document{Base: testBase}
	for _, n := range names {
		doc.Topics = append(doc.Topics, tmdoc.TopicDoc{
			ID:                 n,
			SubjectIdentifiers: []string{"#" + n},
			Names:              []tmdoc.NameDoc{{Value: n}},
		})
	}
	return doc
}
