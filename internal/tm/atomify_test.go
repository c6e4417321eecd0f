package tm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomify_Topic(t *testing.T) {
	m := newTestMap(t)
	nick := mustSID(t, m, "http://x/nick")
	typ := mustSID(t, m, "http://x/label-type")

	tests := []struct {
		name  string
		setup func(t *testing.T) *Topic
		ctx   []*Topic
		want  string
	}{
		{
			name: "default type in unconstrained scope wins",
			setup: func(t *testing.T) *Topic {
				topic := mustTopic(t, m)
				mustName(t, topic, "Al", nick)
				_, err := topic.CreateName("Typed", typ)
				require.NoError(t, err)
				mustName(t, topic, "Alice")
				return topic
			},
			want: "Alice",
		},
		{
			name: "default type in requested scope",
			setup: func(t *testing.T) *Topic {
				topic := mustTopic(t, m)
				mustName(t, topic, "Alice")
				mustName(t, topic, "Al", nick)
				return topic
			},
			ctx:  []*Topic{nick},
			want: "Al",
		},
		{
			name: "any name in requested scope",
			setup: func(t *testing.T) *Topic {
				topic := mustTopic(t, m)
				mustName(t, topic, "Alice")
				_, err := topic.CreateName("Ally", typ, nick)
				require.NoError(t, err)
				return topic
			},
			ctx:  []*Topic{nick},
			want: "Ally",
		},
		{
			name: "unconstrained name when context does not match",
			setup: func(t *testing.T) *Topic {
				topic := mustTopic(t, m)
				_, err := topic.CreateName("Typed", typ)
				require.NoError(t, err)
				return topic
			},
			ctx:  []*Topic{nick},
			want: "Typed",
		},
		{
			name: "local part of subject identifier relative to base",
			setup: func(t *testing.T) *Topic {
				return mustSID(t, m, testBase+"#bob")
			},
			want: "bob",
		},
		{
			name: "fragment of subject identifier",
			setup: func(t *testing.T) *Topic {
				return mustSID(t, m, "http://other.example/vocab#carol")
			},
			want: "carol",
		},
		{
			name: "non-ascii fragment is not escaped",
			setup: func(t *testing.T) *Topic {
				topic := mustSID(t, m, "http://other.example/people#M\u00fcller")
				assert.Equal(t, []string{"http://other.example/people#M\u00fcller"}, topic.SubjectIdentifiers())
				return topic
			},
			want: "M\u00fcller",
		},
		{
			name: "fragment of item identifier",
			setup: func(t *testing.T) *Topic {
				topic, err := m.CreateTopicByItemIdentifier("http://other.example/doc#dave")
				require.NoError(t, err)
				return topic
			},
			want: "dave",
		},
		{
			name: "item identifier before subject identifier",
			setup: func(t *testing.T) *Topic {
				topic := mustSID(t, m, "http://other.example/vocab#erin")
				require.NoError(t, topic.AddItemIdentifier("http://other.example/doc#erin-item"))
				return topic
			},
			want: "erin-item",
		},
		{
			name: "any name as last resort",
			setup: func(t *testing.T) *Topic {
				topic := mustTopic(t, m)
				mustName(t, topic, "Scoped", nick)
				return topic
			},
			want: "Scoped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topic := tt.setup(t)
			got, err := Atomify(topic, tt.ctx...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAtomify_StructuralFallback(t *testing.T) {
	m := newTestMap(t)
	topic := mustTopic(t, m)

	got, err := Atomify(topic)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("[topic %d]", topic.ID()), got)
}

func TestAtomify_NonTopics(t *testing.T) {
	m := newTestMap(t)
	knows := mustSID(t, m, "http://x/vocab#knows")
	alice := mustSID(t, m, "http://x/people#alice")
	assoc, err := m.CreateAssociation(knows)
	require.NoError(t, err)
	role, err := assoc.CreateRole(knows, alice)
	require.NoError(t, err)
	occ, err := alice.CreateOccurrence(knows, "value", "")
	require.NoError(t, err)

	got, err := Atomify(assoc)
	require.NoError(t, err)
	assert.Equal(t, "knows", got)

	got, err = Atomify(role)
	require.NoError(t, err)
	assert.Equal(t, "alice", got)

	got, err = Atomify(occ)
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	got, err = Atomify(m)
	require.NoError(t, err)
	assert.Equal(t, testBase, got)

	reifier := mustTopic(t, m)
	mustName(t, reifier, "The Map")
	require.NoError(t, m.SetReifier(reifier))
	got, err = Atomify(m)
	require.NoError(t, err)
	assert.Equal(t, "The Map", got)

	_, err = Atomify(nil)
	assert.True(t, IsUsageError(err))
}

func TestPredicates(t *testing.T) {
	m := newTestMap(t)
	typ := mustSID(t, m, "http://x/type")
	theme := mustSID(t, m, "http://x/theme")
	extra := mustSID(t, m, "http://x/extra")
	topic := mustTopic(t, m)
	assoc, err := m.CreateAssociation(typ, theme)
	require.NoError(t, err)
	role, err := assoc.CreateRole(typ, topic)
	require.NoError(t, err)
	n := mustName(t, topic, "Name", theme)
	v, err := n.CreateVariant("v", "", extra)
	require.NoError(t, err)
	require.NoError(t, assoc.SetReifier(typ))

	got, err := TypeOf(assoc)
	require.NoError(t, err)
	assert.Same(t, typ, got)
	_, err = TypeOf(v)
	assert.True(t, IsUsageError(err))

	scope, err := ScopeOf(v)
	require.NoError(t, err)
	assert.Equal(t, []*Topic{extra}, scope)
	scope, err = EffectiveScope(v)
	require.NoError(t, err)
	assert.Equal(t, []*Topic{theme, extra}, scope)
	_, err = ScopeOf(topic)
	assert.True(t, IsUsageError(err))
	_, err = ScopeOf(role)
	assert.True(t, IsUsageError(err))

	player, err := PlayerOf(role)
	require.NoError(t, err)
	assert.Same(t, topic, player)
	_, err = PlayerOf(n)
	assert.True(t, IsUsageError(err))

	parent, err := ParentOf(v)
	require.NoError(t, err)
	assert.Same(t, n, parent)
	parent, err = ParentOf(topic)
	require.NoError(t, err)
	assert.Same(t, m, parent)
	_, err = ParentOf(m)
	assert.True(t, IsUsageError(err))

	reifier, err := ReifierOf(assoc)
	require.NoError(t, err)
	assert.Same(t, typ, reifier)
	_, err = ReifierOf(topic)
	assert.True(t, IsUsageError(err))

	reified, err := ReifiedOf(typ)
	require.NoError(t, err)
	assert.Same(t, assoc, reified)
	_, err = ReifiedOf(n)
	assert.True(t, IsUsageError(err))
}
