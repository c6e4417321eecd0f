package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tmengine/internal/tm"
)

func TestSignatureCache_HitsAndMisses(t *testing.T) {
	m := newTestMap(t)
	topic := mustSID(t, m, "tosca")
	n, err := topic.CreateName("Tosca", nil)
	require.NoError(t, err)

	sc := NewSignatureCache(m)
	defer sc.Close()

	want, err := tm.Signature(n)
	require.NoError(t, err)

	for range 3 {
		got, err := sc.Signature(n)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	hits, misses := sc.Stats()
	assert.Equal(t, 2, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, 1, sc.Len())
}

func TestSignatureCache_InvalidatedByChange(t *testing.T) {
	m := newTestMap(t)
	topic := mustSID(t, m, "tosca")
	n, err := topic.CreateName("Tosca", nil)
	require.NoError(t, err)

	sc := NewSignatureCache(m)
	defer sc.Close()

	before, err := sc.Signature(n)
	require.NoError(t, err)

	require.NoError(t, n.SetValue("La Tosca"))
	assert.Zero(t, sc.Len())

	after, err := sc.Signature(n)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestSignatureCache_ClosedDoesNotCache(t *testing.T) {
	m := newTestMap(t)
	topic := mustSID(t, m, "tosca")
	n, err := topic.CreateName("Tosca", nil)
	require.NoError(t, err)

	sc := NewSignatureCache(m)
	sc.Close()

	_, err = sc.Signature(n)
	require.NoError(t, err)
	assert.Zero(t, sc.Len())
}
