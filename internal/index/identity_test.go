package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tmengine/internal/tm"
)

func TestIdentityIndex_MirrorsRegistry(t *testing.T) {
	m := newTestMap(t)
	require.NoError(t, m.AddItemIdentifier(testBase+"map"))
	tosca := mustSID(t, m, "tosca")

	ix := NewIdentityIndex(m)
	defer ix.Close()

	c, ok := ix.Lookup(tm.ItemIdentifier, testBase+"map")
	require.True(t, ok)
	assert.Equal(t, tm.Construct(m), c)

	c, ok = ix.Lookup(tm.SubjectIdentifier, testBase+"tosca")
	require.True(t, ok)
	assert.Equal(t, tm.Construct(tosca), c)

	require.NoError(t, tosca.AddSubjectLocator(testBase+"tosca.html"))
	require.NoError(t, tosca.RemoveSubjectIdentifier(testBase+"tosca"))

	_, ok = ix.Lookup(tm.SubjectIdentifier, testBase+"tosca")
	assert.False(t, ok)
	assert.Equal(t, 1, ix.Len(tm.SubjectLocator))
	assert.Empty(t, ix.Verify())
}

func TestIdentityIndex_AgreesAfterMerges(t *testing.T) {
	m := newTestMap(t)
	ix := NewIdentityIndex(m)
	defer ix.Close()

	a := mustSID(t, m, "a")
	b := mustSID(t, m, "b")
	c := mustSID(t, m, "c")
	require.NoError(t, b.AddItemIdentifier(testBase+"c"))
	require.NoError(t, a.AddItemIdentifier(testBase+"b"))

	assert.Equal(t, 1, m.TopicCount())
	holder, ok := ix.Lookup(tm.SubjectIdentifier, testBase+"c")
	require.True(t, ok)
	assert.Equal(t, a.ID(), holder.ID())
	assert.True(t, c.Removed() || c.ID() == a.ID())
	assert.Empty(t, ix.Verify())
}

func TestIdentityIndex_AgreesAfterMapMerge(t *testing.T) {
	m := newTestMap(t)
	ix := NewIdentityIndex(m)
	defer ix.Close()
	mustSID(t, m, "tosca")

	other := newTestMap(t)
	o := mustSID(t, other, "tosca")
	require.NoError(t, o.AddSubjectLocator(testBase+"tosca.html"))
	mustSID(t, other, "puccini")

	require.NoError(t, m.MergeIn(other))

	assert.Equal(t, 2, ix.Len(tm.SubjectIdentifier))
	assert.Equal(t, 1, ix.Len(tm.SubjectLocator))
	assert.Empty(t, ix.Verify())
}

func TestIdentityIndex_VerifyReportsMissedEvents(t *testing.T) {
	m := newTestMap(t)
	ix := NewIdentityIndex(m)
	ix.Close()

	mustSID(t, m, "tosca")

	problems := ix.Verify()
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "missing from the index")
}
