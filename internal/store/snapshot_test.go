package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tmengine/internal/tmdoc"
)

func TestSnapshot_SaveAndLoad(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	doc := createTestDocument("tosca", "puccini")

	snap, err := s.SaveSnapshot(ctx, "operas", doc)
	require.NoError(t, err)
	assert.Equal(t, "operas", snap.Name)
	assert.Equal(t, int64(1), snap.Seq)

	want, err := tmdoc.Hash(doc)
	require.NoError(t, err)
	assert.Equal(t, want, snap.Hash)

	loaded, err := s.LoadSnapshot(ctx, "operas")
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestSnapshot_LoadMissing(t *testing.T) {
	s := createTestStore(t)

	_, err := s.LoadSnapshot(context.Background(), "missing")
	require.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestSnapshot_ReplaceMovesToEnd(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.SaveSnapshot(ctx, "a", createTestDocument("x"))
	require.NoError(t, err)
	_, err = s.SaveSnapshot(ctx, "b", createTestDocument("y"))
	require.NoError(t, err)
	replaced, err := s.SaveSnapshot(ctx, "a", createTestDocument("z"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), replaced.Seq)

	list, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Name)
	assert.Equal(t, "a", list[1].Name)

	loaded, err := s.LoadSnapshot(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "z", loaded.Topics[0].ID)
}

func TestSnapshot_ListEmpty(t *testing.T) {
	s := createTestStore(t)

	list, err := s.ListSnapshots(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSnapshot_ByHash(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.SaveSnapshot(ctx, "first", createTestDocument("x"))
	require.NoError(t, err)
	_, err = s.SaveSnapshot(ctx, "copy", createTestDocument("x"))
	require.NoError(t, err)
	_, err = s.SaveSnapshot(ctx, "other", createTestDocument("y"))
	require.NoError(t, err)

	same, err := s.SnapshotsByHash(ctx, first.Hash)
	require.NoError(t, err)
	require.Len(t, same, 2)
	assert.Equal(t, "first", same[0].Name)
	assert.Equal(t, "copy", same[1].Name)
}

func TestSnapshot_Delete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.SaveSnapshot(ctx, "a", createTestDocument("x"))
	require.NoError(t, err)
	require.NoError(t, s.DeleteSnapshot(ctx, "a"))

	_, err = s.LoadSnapshot(ctx, "a")
	require.ErrorIs(t, err, ErrSnapshotNotFound)
	require.ErrorIs(t, s.DeleteSnapshot(ctx, "a"), ErrSnapshotNotFound)
}

func TestSnapshot_DetectsCorruption(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.SaveSnapshot(ctx, "a", createTestDocument("x"))
	require.NoError(t, err)
	_, err = s.db.Exec(`UPDATE snapshots SET hash = 'tampered' WHERE name = 'a'`)
	require.NoError(t, err)

	_, err = s.LoadSnapshot(ctx, "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hash mismatch")
}

func TestSnapshot_RequiresName(t *testing.T) {
	s := createTestStore(t)

	_, err := s.SaveSnapshot(context.Background(), "", createTestDocument("x"))
	require.Error(t, err)
}

func TestSnapshot_ExportedMapRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	m := createTestMap(t)
	require.NoError(t, tmdoc.Import(m, createTestDocument("tosca", "puccini")))

	_, err := s.SaveSnapshot(ctx, "map", tmdoc.Export(m))
	require.NoError(t, err)
	doc, err := s.LoadSnapshot(ctx, "map")
	require.NoError(t, err)

	restored := createTestMap(t)
	require.NoError(t, tmdoc.Import(restored, doc))
	assert.Equal(t, m.TopicCount(), restored.TopicCount())
	assert.NotNil(t, restored.TopicBySubjectIdentifier(testBase+"#tosca"))
}
