package tmdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tmengine/internal/tm"
)

func TestImport_Opera(t *testing.T) {
	m := newTestMap(t)
	require.NoError(t, Import(m, loadOpera(t)))

	// 8 document topics, the type-instance vocabulary (3) and the
	// default name type.
	assert.Equal(t, 12, m.TopicCount())
	assert.Equal(t, 2, m.AssociationCount())

	puccini := m.TopicBySubjectIdentifier("http://en.wikipedia.org/wiki/Giacomo_Puccini")
	require.NotNil(t, puccini)
	composer := m.TopicBySubjectIdentifier(musicBase + "#composer")
	require.NotNil(t, composer)
	assert.Equal(t, []*tm.Topic{composer}, puccini.Types())

	names := puccini.Names()
	require.Len(t, names, 1)
	assert.Equal(t, "Giacomo Puccini", names[0].Value())
	require.Len(t, names[0].Variants(), 1)
	assert.Equal(t, "Puccini, Giacomo", names[0].Variants()[0].Value())

	tosca, ok := m.ConstructByItemIdentifier(musicBase + "tosca").(*tm.Topic)
	require.True(t, ok)
	occs := tosca.Occurrences()
	require.Len(t, occs, 1)
	assert.Equal(t, "http://www.w3.org/2001/XMLSchema#date", occs[0].Datatype())

	roles := tosca.RolesPlayed()
	require.Len(t, roles, 1)
	label, err := tm.Atomify(roles[0].Association())
	require.NoError(t, err)
	assert.Equal(t, "composed-by", label)

	assert.Equal(t, []string{musicBase + "opera-map"}, m.ItemIdentifiers())
	require.NotNil(t, m.Reifier())
	assert.Equal(t, "Opera catalogue", m.Reifier().Names()[0].Value())
}

func TestImport_MergesWithExistingTopics(t *testing.T) {
	m := newTestMap(t)
	existing, err := m.CreateTopicBySubjectIdentifier(musicBase + "#composer")
	require.NoError(t, err)
	_, err = existing.CreateName("Composer", nil)
	require.NoError(t, err)

	require.NoError(t, Import(m, loadOpera(t)))

	composer := m.TopicBySubjectIdentifier(musicBase + "#composer")
	assert.Equal(t, existing.ID(), composer.ID())
	assert.Len(t, composer.Names(), 1, "identical names are deduplicated")
	assert.Equal(t, 12, m.TopicCount())
}

func TestImport_TwiceIsIdempotent(t *testing.T) {
	m := newTestMap(t)
	require.NoError(t, Import(m, loadOpera(t)))
	first := Export(m)

	// The catalogue topic has no identity, so a second import can only
	// find it through the map reifier.
	require.NoError(t, Import(m, loadOpera(t)))

	assert.Equal(t, len(first.Topics), m.TopicCount())
	assert.Equal(t, 2, m.AssociationCount())
}

func TestImport_FailureLeavesMapUntouched(t *testing.T) {
	m := newTestMap(t)
	holder := mustTopicWithOccurrence(t, m, musicBase+"tosca")
	before := Export(m)

	err := Import(m, loadOpera(t))
	require.Error(t, err)
	assert.True(t, tm.IsIdentityViolation(err), "got %v", err)

	assert.Equal(t, before, Export(m))
	assert.Equal(t, holder, m.ConstructByItemIdentifier(musicBase+"tosca"))
}

func TestImport_Reifies(t *testing.T) {
	doc := &Document{
		Base: musicBase,
		Topics: []TopicDoc{
			{ID: "premiere-event", Reifies: "#first-night", Names: []NameDoc{{Value: "First night"}}},
			{ID: "tosca", SubjectIdentifiers: []string{"#tosca"}},
			{ID: "rome", SubjectIdentifiers: []string{"#rome"}},
			{ID: "premiered-in", SubjectIdentifiers: []string{"#premiered-in"}},
			{ID: "work", SubjectIdentifiers: []string{"#work"}},
			{ID: "place", SubjectIdentifiers: []string{"#place"}},
		},
		Associations: []AssociationDoc{{
			Type:            "premiered-in",
			ItemIdentifiers: []string{"#first-night"},
			Roles: []RoleDoc{
				{Type: "work", Player: "tosca"},
				{Type: "place", Player: "rome"},
			},
		}},
	}

	m := newTestMap(t)
	require.NoError(t, Import(m, doc))

	a, ok := m.ConstructByItemIdentifier(musicBase + "#first-night").(*tm.Association)
	require.True(t, ok)
	require.NotNil(t, a.Reifier())
	assert.Equal(t, "First night", a.Reifier().Names()[0].Value())

	label, err := tm.Atomify(a)
	require.NoError(t, err)
	assert.Equal(t, "First night", label)
}

func TestImport_ReifiesUnknownConstruct(t *testing.T) {
	doc := &Document{
		Base:   musicBase,
		Topics: []TopicDoc{{ID: "r", Reifies: "#nothing"}},
	}

	m := newTestMap(t)
	err := Import(m, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no construct has this item identifier")
	assert.Equal(t, 0, m.TopicCount())
}

func TestImport_RejectsInvalidDocument(t *testing.T) {
	m := newTestMap(t)
	err := Import(m, &Document{Topics: []TopicDoc{{ID: "a", Types: []string{"b"}}}})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, ErrUndefinedTopic, verrs[0].Code)
	assert.Equal(t, 0, m.TopicCount())
}

func TestImport_RelativeIRIsUseMapBase(t *testing.T) {
	doc := &Document{Topics: []TopicDoc{{ID: "a", SubjectIdentifiers: []string{"#a"}}}}

	m := newTestMap(t)
	require.NoError(t, Import(m, doc))
	assert.NotNil(t, m.TopicBySubjectIdentifier(musicBase+"#a"))
}

func mustTopicWithOccurrence(t *testing.T, m *tm.TopicMap, iid string) tm.Construct {
	t.Helper()
	topic, err := m.CreateTopic()
	require.NoError(t, err)
	typ, err := m.CreateTopic()
	require.NoError(t, err)
	o, err := topic.CreateOccurrence(typ, "x", "")
	require.NoError(t, err)
	require.NoError(t, o.AddItemIdentifier(iid))
	return o
}
