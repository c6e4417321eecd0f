package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unconstrained", []string{"sid:tosca"}, "Tosca"},
		{"bare_iri", []string{"http://example.org/opera/tosca"}, "Tosca"},
		{"scoped", []string{"sid:tosca", "--scope", "sid:italian"}, "La Tosca"},
		{"bare_scope", []string{"sid:tosca", "--scope", "http://example.org/opera/italian"}, "La Tosca"},
		{"unmatched_scope_falls_back", []string{"sid:tosca", "--scope", "sid:puccini"}, "Tosca"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"label", docPath("opera.yaml")}, tt.args...)
			out, err := execute(t, args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestLabel_JSON(t *testing.T) {
	out, err := execute(t, "label", docPath("opera.yaml"), "sid:tosca", "--scope", "sid:italian", "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse[LabelResult](t, out)
	assert.Equal(t, "La Tosca", resp.Data.Label)
	assert.Equal(t, "sid:tosca", resp.Data.Topic)
	assert.Equal(t, []string{"sid:italian"}, resp.Data.Scope)
}

func TestLabel_UnknownTopic(t *testing.T) {
	out, err := execute(t, "label", docPath("opera.yaml"), "sid:aida")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "no such construct")
}

func TestLabel_UnknownScopeTopic(t *testing.T) {
	_, err := execute(t, "label", docPath("opera.yaml"), "sid:tosca", "--scope", "sid:german")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestTopicRef(t *testing.T) {
	assert.Equal(t, "sid:tosca", topicRef("tosca"))
	assert.Equal(t, "sid:http://example.org/tosca", topicRef("http://example.org/tosca"))
	assert.Equal(t, "slo:http://example.org/tosca", topicRef("slo:http://example.org/tosca"))
	assert.Equal(t, "iid:t1", topicRef("iid:t1"))
}
