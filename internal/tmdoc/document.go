package tmdoc

// Document is the interchange form of a topic map.
type Document struct {
	Base            string           `json:"base,omitempty" yaml:"base,omitempty" validate:"omitempty,absiri"`
	ItemIdentifiers []string         `json:"item_identifiers,omitempty" yaml:"item_identifiers,omitempty" validate:"dive,iri"`
	Reifier         string           `json:"reifier,omitempty" yaml:"reifier,omitempty"`
	Topics          []TopicDoc       `json:"topics,omitempty" yaml:"topics,omitempty" validate:"dive"`
	Associations    []AssociationDoc `json:"associations,omitempty" yaml:"associations,omitempty" validate:"dive"`
}

// TopicDoc describes one topic. ID is the key other parts of the document
// use to refer to it; it does not survive import.
type TopicDoc struct {
	ID                 string          `json:"id" yaml:"id" validate:"required"`
	SubjectIdentifiers []string        `json:"subject_identifiers,omitempty" yaml:"subject_identifiers,omitempty" validate:"dive,iri"`
	SubjectLocators    []string        `json:"subject_locators,omitempty" yaml:"subject_locators,omitempty" validate:"dive,iri"`
	ItemIdentifiers    []string        `json:"item_identifiers,omitempty" yaml:"item_identifiers,omitempty" validate:"dive,iri"`
	Types              []string        `json:"types,omitempty" yaml:"types,omitempty"`
	Names              []NameDoc       `json:"names,omitempty" yaml:"names,omitempty" validate:"dive"`
	Occurrences        []OccurrenceDoc `json:"occurrences,omitempty" yaml:"occurrences,omitempty" validate:"dive"`

	// Reifies is an item identifier of the construct this topic reifies.
	Reifies string `json:"reifies,omitempty" yaml:"reifies,omitempty" validate:"omitempty,iri"`
}

// NameDoc describes a topic name. An empty Type means the default name
// type.
type NameDoc struct {
	Value           string       `json:"value" yaml:"value"`
	Type            string       `json:"type,omitempty" yaml:"type,omitempty"`
	Scope           []string     `json:"scope,omitempty" yaml:"scope,omitempty"`
	Reifier         string       `json:"reifier,omitempty" yaml:"reifier,omitempty"`
	ItemIdentifiers []string     `json:"item_identifiers,omitempty" yaml:"item_identifiers,omitempty" validate:"dive,iri"`
	Variants        []VariantDoc `json:"variants,omitempty" yaml:"variants,omitempty" validate:"dive"`
}

// VariantDoc describes a variant. Scope lists the variant's own themes,
// without the name's.
type VariantDoc struct {
	Value           string   `json:"value" yaml:"value"`
	Datatype        string   `json:"datatype,omitempty" yaml:"datatype,omitempty" validate:"omitempty,iri"`
	Scope           []string `json:"scope" yaml:"scope" validate:"required,min=1"`
	Reifier         string   `json:"reifier,omitempty" yaml:"reifier,omitempty"`
	ItemIdentifiers []string `json:"item_identifiers,omitempty" yaml:"item_identifiers,omitempty" validate:"dive,iri"`
}

// OccurrenceDoc describes an occurrence.
type OccurrenceDoc struct {
	Type            string   `json:"type" yaml:"type" validate:"required"`
	Value           string   `json:"value" yaml:"value"`
	Datatype        string   `json:"datatype,omitempty" yaml:"datatype,omitempty" validate:"omitempty,iri"`
	Scope           []string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Reifier         string   `json:"reifier,omitempty" yaml:"reifier,omitempty"`
	ItemIdentifiers []string `json:"item_identifiers,omitempty" yaml:"item_identifiers,omitempty" validate:"dive,iri"`
}

// AssociationDoc describes an association and its roles.
type AssociationDoc struct {
	Type            string    `json:"type" yaml:"type" validate:"required"`
	Scope           []string  `json:"scope,omitempty" yaml:"scope,omitempty"`
	Reifier         string    `json:"reifier,omitempty" yaml:"reifier,omitempty"`
	ItemIdentifiers []string  `json:"item_identifiers,omitempty" yaml:"item_identifiers,omitempty" validate:"dive,iri"`
	Roles           []RoleDoc `json:"roles" yaml:"roles" validate:"required,min=1,dive"`
}

// RoleDoc describes an association role.
type RoleDoc struct {
	Type            string   `json:"type" yaml:"type" validate:"required"`
	Player          string   `json:"player" yaml:"player" validate:"required"`
	Reifier         string   `json:"reifier,omitempty" yaml:"reifier,omitempty"`
	ItemIdentifiers []string `json:"item_identifiers,omitempty" yaml:"item_identifiers,omitempty" validate:"dive,iri"`
}
