package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tmengine/internal/tmdoc"
)

func TestDedupe_Text(t *testing.T) {
	out, err := execute(t, "dedupe", docPath("opera.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 duplicate(s)\n")
	assert.Contains(t, out, "  name: 1\n")
}

func TestDedupe_JSON(t *testing.T) {
	out, err := execute(t, "dedupe", docPath("opera.yaml"), "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse[DedupeResult](t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Removed)
	assert.Equal(t, map[string]int{"name": 1}, resp.Data.ByKind)
	assert.Equal(t, 4, resp.Data.Topics)
}

func TestDedupe_NothingToRemove(t *testing.T) {
	out, err := execute(t, "dedupe", docPath("composers.yaml"), "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse[DedupeResult](t, out)
	assert.Equal(t, 0, resp.Data.Removed)
}

func TestDedupe_WritesCleanDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opera.clean.yaml")
	_, err := execute(t, "dedupe", docPath("opera.yaml"), "--out", path)
	require.NoError(t, err)

	doc, err := tmdoc.Load(path)
	require.NoError(t, err)

	var names []string
	for _, td := range doc.Topics {
		for _, n := range td.Names {
			names = append(names, n.Value)
		}
	}
	assert.ElementsMatch(t, []string{"Tosca", "La Tosca", "Italian", "Puccini"}, names)
}

func TestDedupe_RequiresOneDocument(t *testing.T) {
	_, err := execute(t, "dedupe", docPath("opera.yaml"), docPath("composers.yaml"))
	require.Error(t, err)
}
