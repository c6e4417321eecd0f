package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tmengine/internal/store"
	"github.com/roach88/tmengine/internal/tm"
)

func TestJournal_RecordsEvents(t *testing.T) {
	db := tempDB(t)

	out, err := execute(t, "journal", docPath("opera.yaml"), docPath("composers.yaml"), "--db", db, "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse[JournalResult](t, out)
	assert.Equal(t, "http://example.org/opera/", resp.Data.MapIRI)
	assert.Equal(t, 2, resp.Data.Documents)
	assert.Equal(t, 8, resp.Data.Topics)
	assert.Positive(t, resp.Data.Events)

	out, err = execute(t, "trace", "--db", db, "--map", resp.Data.MapIRI, "--format", "json")
	require.NoError(t, err)

	trace := decodeResponse[TraceResult](t, out)
	assert.Equal(t, resp.Data.Events, trace.Data.Stats.TotalEvents)
	require.Len(t, trace.Data.Events, resp.Data.Events)
	assert.Equal(t, 1, trace.Data.Stats.ByKind[string(tm.EventDuplicateRemoved)])

	for i, rec := range trace.Data.Events {
		assert.Equal(t, resp.Data.MapIRI, rec.MapIRI)
		if i > 0 {
			assert.Greater(t, rec.Seq, trace.Data.Events[i-1].Seq)
		}
	}
}

func TestJournal_Text(t *testing.T) {
	db := tempDB(t)
	out, err := execute(t, "journal", docPath("opera.yaml"), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "for http://example.org/opera/")
}

func TestJournal_InvalidDocument(t *testing.T) {
	db := tempDB(t)
	_, err := execute(t, "journal", docPath("invalid.yaml"), "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestTrace_FilterByKind(t *testing.T) {
	db := tempDB(t)
	_, err := execute(t, "journal", docPath("opera.yaml"), "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "trace", "--db", db, "--map", "http://example.org/opera/", "--kind", string(tm.EventDuplicateRemoved), "--format", "json")
	require.NoError(t, err)

	trace := decodeResponse[TraceResult](t, out)
	require.Len(t, trace.Data.Events, 1)
	assert.Equal(t, string(tm.EventDuplicateRemoved), trace.Data.Events[0].Kind)
	assert.Equal(t, "name", trace.Data.Events[0].SourceKind)
}

func TestTrace_Text(t *testing.T) {
	db := tempDB(t)
	_, err := execute(t, "journal", docPath("opera.yaml"), "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "trace", "--db", db, "--map", "http://example.org/opera/")
	require.NoError(t, err)
	assert.Contains(t, out, "Journal of http://example.org/opera/")
	assert.Contains(t, out, string(tm.EventConstructAdded))
	assert.Contains(t, out, "event(s)")
}

func TestTrace_UnknownMap(t *testing.T) {
	db := tempDB(t)
	_, err := execute(t, "journal", docPath("opera.yaml"), "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "trace", "--db", db, "--map", "http://example.org/other/")
	require.NoError(t, err)
	assert.Contains(t, out, "No events found for map: http://example.org/other/")
}

func TestFilterEvents(t *testing.T) {
	records := []store.EventRecord{
		{Seq: 1, Kind: "construct-added"},
		{Seq: 2, Kind: "topics-merged"},
		{Seq: 3, Kind: "construct-added"},
	}
	assert.Len(t, filterEvents(records, ""), 3)
	assert.Len(t, filterEvents(records, "construct-added"), 2)
	assert.Empty(t, filterEvents(records, "value-changed"))
	assert.NotNil(t, filterEvents(records, "value-changed"))
}
