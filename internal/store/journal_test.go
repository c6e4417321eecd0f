package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tmengine/internal/tm"
)

func TestJournal_RecordsEvents(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	m := createTestMap(t)

	j := s.Attach(ctx, m)
	defer j.Detach()

	topic, err := m.CreateTopicBySubjectIdentifier(testBase + "#tosca")
	require.NoError(t, err)

	events, err := s.ReadEvents(ctx, m.IRI())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 2, j.Count())

	assert.Equal(t, string(tm.EventConstructAdded), events[0].Kind)
	assert.Equal(t, "topicmap", events[0].SourceKind)
	assert.Equal(t, int64(1), events[0].SourceID)
	assert.Equal(t, "topic#2", events[0].New)

	assert.Equal(t, string(tm.EventIdentityAdded), events[1].Kind)
	assert.Equal(t, "topic", events[1].SourceKind)
	assert.Equal(t, topic.ID(), events[1].SourceID)
	assert.Equal(t, "sid:"+testBase+"#tosca", events[1].New)
	assert.Less(t, events[0].Seq, events[1].Seq)
}

func TestJournal_EncodesPayloads(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	m := createTestMap(t)

	topic, err := m.CreateTopic()
	require.NoError(t, err)
	typ, err := m.CreateTopic()
	require.NoError(t, err)
	theme, err := m.CreateTopic()
	require.NoError(t, err)
	o, err := topic.CreateOccurrence(typ, "old", "")
	require.NoError(t, err)

	j := s.Attach(ctx, m)
	defer j.Detach()

	require.NoError(t, o.SetValue("new", ""))
	require.NoError(t, o.SetScope(theme))

	events, err := s.ReadEvents(ctx, m.IRI())
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, string(tm.EventValueChanged), events[0].Kind)
	assert.Equal(t, `"old"^^<`+tm.XSDString+`>`, events[0].Old)
	assert.Equal(t, `"new"^^<`+tm.XSDString+`>`, events[0].New)

	assert.Equal(t, string(tm.EventScopeChanged), events[1].Kind)
	assert.Equal(t, "[]", events[1].Old)
	assert.Equal(t, "[topic#4]", events[1].New)
}

func TestJournal_DetachStopsRecording(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	m := createTestMap(t)

	j := s.Attach(ctx, m)
	_, err := m.CreateTopic()
	require.NoError(t, err)
	j.Detach()
	j.Detach()

	_, err = m.CreateTopic()
	require.NoError(t, err)

	events, err := s.ReadEvents(ctx, m.IRI())
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, 0, m.Bus().Len())
}

func TestJournal_WriteFailureAbortsMutation(t *testing.T) {
	s := createTestStore(t)
	m := createTestMap(t)

	ctx, cancel := context.WithCancel(context.Background())
	j := s.Attach(ctx, m)
	defer j.Detach()
	cancel()

	_, err := m.CreateTopicBySubjectIdentifier(testBase + "#tosca")
	require.Error(t, err)

	var herr *tm.HandlerError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, 0, m.TopicCount())
	assert.Nil(t, m.TopicBySubjectIdentifier(testBase+"#tosca"))
}

func TestJournal_SeparatesMaps(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	a := createTestMap(t)
	b := tm.New(tm.WithIRI("http://example.org/other/"), tm.WithLogger(a.Logger()))
	ja := s.Attach(ctx, a)
	defer ja.Detach()
	jb := s.Attach(ctx, b)
	defer jb.Detach()

	_, err := a.CreateTopic()
	require.NoError(t, err)
	_, err = b.CreateTopic()
	require.NoError(t, err)
	_, err = b.CreateTopic()
	require.NoError(t, err)

	ea, err := s.ReadEvents(ctx, a.IRI())
	require.NoError(t, err)
	eb, err := s.ReadEvents(ctx, b.IRI())
	require.NoError(t, err)
	assert.Len(t, ea, 1)
	assert.Len(t, eb, 2)

	none, err := s.ReadEvents(ctx, "http://example.org/none/")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestJournal_MergeIsJournaled(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	m := createTestMap(t)

	a, err := m.CreateTopicBySubjectIdentifier(testBase + "#a")
	require.NoError(t, err)
	b, err := m.CreateTopicBySubjectIdentifier(testBase + "#b")
	require.NoError(t, err)

	j := s.Attach(ctx, m)
	defer j.Detach()

	require.NoError(t, a.MergeIn(b))

	events, err := s.ReadEvents(ctx, m.IRI())
	require.NoError(t, err)

	var merged []EventRecord
	for _, e := range events {
		if e.Kind == string(tm.EventTopicsMerged) {
			merged = append(merged, e)
		}
	}
	require.Len(t, merged, 1)
	assert.Equal(t, a.ID(), merged[0].SourceID)
	assert.Equal(t, "topic#3", merged[0].Old)
}
