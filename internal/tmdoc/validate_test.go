package tmdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_StructRules(t *testing.T) {
	tests := []struct {
		name  string
		doc   Document
		field string
		code  string
	}{
		{
			name:  "missing topic id",
			doc:   Document{Topics: []TopicDoc{{}}},
			field: "topics[0].id",
			code:  ErrRequiredField,
		},
		{
			name:  "malformed subject identifier",
			doc:   Document{Topics: []TopicDoc{{ID: "a", SubjectIdentifiers: []string{"http://exa mple.org/"}}}},
			field: "topics[0].subject_identifiers[0]",
			code:  ErrInvalidIRI,
		},
		{
			name:  "empty item identifier",
			doc:   Document{ItemIdentifiers: []string{""}},
			field: "item_identifiers[0]",
			code:  ErrInvalidIRI,
		},
		{
			name:  "relative base",
			doc:   Document{Base: "music/"},
			field: "base",
			code:  ErrInvalidIRI,
		},
		{
			name: "occurrence without type",
			doc: Document{Topics: []TopicDoc{{
				ID:          "a",
				Occurrences: []OccurrenceDoc{{Value: "x"}},
			}}},
			field: "topics[0].occurrences[0].type",
			code:  ErrRequiredField,
		},
		{
			name:  "association without roles",
			doc:   Document{Associations: []AssociationDoc{{Type: "a"}}},
			field: "associations[0].roles",
			code:  ErrRequiredField,
		},
		{
			name:  "association with empty roles",
			doc:   Document{Associations: []AssociationDoc{{Type: "a", Roles: []RoleDoc{}}}},
			field: "associations[0].roles",
			code:  ErrTooFewElements,
		},
		{
			name: "role without player",
			doc: Document{Associations: []AssociationDoc{{
				Type:  "a",
				Roles: []RoleDoc{{Type: "r"}},
			}}},
			field: "associations[0].roles[0].player",
			code:  ErrRequiredField,
		},
		{
			name: "variant without scope",
			doc: Document{Topics: []TopicDoc{{
				ID:    "a",
				Names: []NameDoc{{Value: "A", Variants: []VariantDoc{{Value: "a"}}}},
			}}},
			field: "topics[0].names[0].variants[0].scope",
			code:  ErrRequiredField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.doc)
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.code, fieldCodes(errs)[tt.field], "errors: %v", errs)
		})
	}
}

func TestValidate_References(t *testing.T) {
	doc := &Document{
		Reifier: "ghost",
		Topics: []TopicDoc{
			{ID: "a", Types: []string{"b"}},
			{ID: "a"},
			{ID: "c", Names: []NameDoc{{Value: "C", Scope: []string{"nowhere"}}}},
		},
		Associations: []AssociationDoc{{
			Type:  "c",
			Roles: []RoleDoc{{Type: "c", Player: "missing"}},
		}},
	}

	codes := fieldCodes(Validate(doc))
	assert.Equal(t, map[string]string{
		"topics[1].id":                    ErrDuplicateTopicID,
		"reifier":                         ErrUndefinedTopic,
		"topics[0].types[0]":              ErrUndefinedTopic,
		"topics[2].names[0].scope[0]":     ErrUndefinedTopic,
		"associations[0].roles[0].player": ErrUndefinedTopic,
	}, codes)
}

func TestValidate_MultipleReification(t *testing.T) {
	doc := &Document{
		Reifier: "r",
		Topics: []TopicDoc{
			{ID: "r", Names: []NameDoc{{Value: "R", Reifier: "r"}}},
		},
	}

	errs := Validate(doc)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrMultipleReification, errs[0].Code)
	assert.Equal(t, "topics[0].names[0].reifier", errs[0].Field)
	assert.Contains(t, errs[0].Message, "the topic map")
}

func TestValidate_ReifiesCountsAsReification(t *testing.T) {
	doc := &Document{
		Topics: []TopicDoc{
			{ID: "r", Reifies: "#assoc"},
		},
		Associations: []AssociationDoc{{
			Type:    "r",
			Reifier: "r",
			Roles:   []RoleDoc{{Type: "r", Player: "r"}},
		}},
	}

	errs := Validate(doc)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrMultipleReification, errs[0].Code)
	assert.Equal(t, "associations[0].reifier", errs[0].Field)
}

func TestValidate_StructErrorsSkipReferences(t *testing.T) {
	doc := &Document{Topics: []TopicDoc{{ID: "", Types: []string{"missing"}}}}

	errs := Validate(doc)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrRequiredField, errs[0].Code)
}

func TestValidate_Nil(t *testing.T) {
	errs := Validate(nil)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrRequiredField, errs[0].Code)
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "topics[0].id", Message: "is required", Code: ErrRequiredField},
		{Field: "reifier", Message: "undefined topic \"x\"", Code: ErrUndefinedTopic},
	}
	assert.Equal(t, "[E201] topics[0].id: is required (and 1 more)", errs.Error())
	assert.Equal(t, "[E201] topics[0].id: is required", errs[:1].Error())
}
