package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest_DomainSeparation(t *testing.T) {
	data := []byte(`{"a":1}`)

	sig := Digest(DomainSignature, data)
	doc := Digest(DomainDocument, data)

	assert.Len(t, sig, 64)
	assert.NotEqual(t, sig, doc, "different domains must produce different digests")
	assert.Equal(t, sig, Digest(DomainSignature, data), "digest must be deterministic")
}

func TestHash_KeyOrderIndependent(t *testing.T) {
	a, err := Hash(DomainDocument, Object{"x": Int(1), "y": Int(2)})
	require.NoError(t, err)
	b, err := Hash(DomainDocument, Object{"y": Int(2), "x": Int(1)})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHash_RejectsInvalid(t *testing.T) {
	_, err := Hash(DomainDocument, Array{nil})
	assert.Error(t, err)
}
