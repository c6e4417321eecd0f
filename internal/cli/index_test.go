package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const topicNameRef = "sid:http://psi.topicmaps.org/iso13250/model/topic-name"

func TestIndex_JSON(t *testing.T) {
	out, err := execute(t, "index", docPath("opera.yaml"), "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse[IndexResult](t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Consistent)
	assert.Empty(t, resp.Data.Problems)

	// The duplicate name removed during import is not indexed.
	assert.Equal(t, []UsageEntry{{Topic: topicNameRef, Count: 4}}, resp.Data.Types)
	assert.Equal(t, []UsageEntry{{Topic: "sid:http://example.org/opera/italian", Count: 1}}, resp.Data.Themes)
	assert.Equal(t, 3, resp.Data.Unconstrained)
	assert.Equal(t, map[string]int{"sid": 4, "slo": 0, "iid": 0}, resp.Data.Identities)
	assert.Empty(t, resp.Data.Constructs)

	// Import removes duplicates, so every statement has its own signature.
	assert.GreaterOrEqual(t, resp.Data.Statements, 4)
	assert.Equal(t, resp.Data.Statements, resp.Data.Signatures)
}

func TestIndex_FollowsMerges(t *testing.T) {
	out, err := execute(t, "index", docPath("opera.yaml"), docPath("composers.yaml"), "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse[IndexResult](t, out)
	assert.True(t, resp.Data.Consistent)
	assert.Equal(t, 8, resp.Data.Identities["sid"])
}

func TestIndex_Theme(t *testing.T) {
	out, err := execute(t, "index", docPath("opera.yaml"), "--theme", "sid:italian")
	require.NoError(t, err)
	assert.Equal(t, "name \"La Tosca\"\n", out)
}

func TestIndex_Type(t *testing.T) {
	out, err := execute(t, "index", docPath("opera.yaml"), docPath("composers.yaml"), "--type", "sid:http://example.org/composers/person", "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse[IndexResult](t, out)
	assert.Equal(t, []ConstructEntry{{Kind: "role", Label: "Puccini"}}, resp.Data.Constructs)
}

func TestIndex_Text(t *testing.T) {
	out, err := execute(t, "index", docPath("opera.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "types\n  "+topicNameRef+" 4\n")
	assert.Contains(t, out, "unconstrained 3\n")
	assert.Contains(t, out, "identities sid=4 slo=0 iid=0\n")
	assert.Contains(t, out, "identity index consistent")
}

func TestIndex_UnknownTopic(t *testing.T) {
	_, err := execute(t, "index", docPath("opera.yaml"), "--type", "sid:opera")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
