package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tmengine/internal/tm"
)

func TestScopedIndex_ThemesAndUnconstrained(t *testing.T) {
	m := newTestMap(t)
	topic := mustSID(t, m, "tosca")
	italian := mustSID(t, m, "italian")
	premiere := mustSID(t, m, "premiere")

	n1, err := topic.CreateName("Tosca", nil, italian)
	require.NoError(t, err)

	ix := NewScopedIndex(m)
	defer ix.Close()

	o, err := topic.CreateOccurrence(premiere, "1900", "")
	require.NoError(t, err)

	assert.Equal(t, constructs(n1), ix.Scoped(italian))
	assert.Equal(t, []*tm.Topic{italian}, ix.Themes())
	assert.Contains(t, ix.Unconstrained(), tm.Construct(o))
	assert.NotContains(t, ix.Unconstrained(), tm.Construct(n1))
}

func TestScopedIndex_FollowsScopeChanges(t *testing.T) {
	m := newTestMap(t)
	ix := NewScopedIndex(m)
	defer ix.Close()

	topic := mustSID(t, m, "tosca")
	italian := mustSID(t, m, "italian")
	french := mustSID(t, m, "french")
	n, err := topic.CreateName("Tosca", nil, italian)
	require.NoError(t, err)

	require.NoError(t, n.SetScope(french))
	assert.Empty(t, ix.Scoped(italian))
	assert.Equal(t, constructs(n), ix.Scoped(french))

	require.NoError(t, n.SetScope())
	assert.Empty(t, ix.Scoped(french))
	assert.Contains(t, ix.Unconstrained(), tm.Construct(n))

	require.NoError(t, n.Remove())
	assert.NotContains(t, ix.Unconstrained(), tm.Construct(n))
}

func TestScopedIndex_VariantsListedByOwnThemes(t *testing.T) {
	m := newTestMap(t)
	ix := NewScopedIndex(m)
	defer ix.Close()

	topic := mustSID(t, m, "tosca")
	italian := mustSID(t, m, "italian")
	sortKey := mustSID(t, m, "sort")
	n, err := topic.CreateName("Tosca", nil, italian)
	require.NoError(t, err)
	v, err := n.CreateVariant("tosca", "", sortKey)
	require.NoError(t, err)

	assert.Equal(t, constructs(n), ix.Scoped(italian))
	assert.Equal(t, constructs(v), ix.Scoped(sortKey))
}

func TestScopedIndex_ThemeMerge(t *testing.T) {
	m := newTestMap(t)
	ix := NewScopedIndex(m)
	defer ix.Close()

	topic := mustSID(t, m, "tosca")
	italian := mustSID(t, m, "italian")
	italiano := mustSID(t, m, "italiano")
	n, err := topic.CreateName("Tosca", nil, italiano)
	require.NoError(t, err)

	require.NoError(t, italian.MergeIn(italiano))

	assert.Equal(t, constructs(n), ix.Scoped(italian))
	assert.Equal(t, []*tm.Topic{italian}, ix.Themes())
}
