package tm

// Variant is an alternative form of a name, distinguished by extra themes.
type Variant struct {
	base
	name    *Name
	value   Literal
	themes  []*Topic
	reifier *Topic
}

// newVariant creates a variant under n. enforce applies the variant scope
// rule; copies made while merging maps skip it, because theme mapping can
// collapse a valid scope onto the name's.
func (m *TopicMap) newVariant(n *Name, value Literal, themes []*Topic, enforce bool) (*Variant, error) {
	if err := checkAttached(n); err != nil {
		return nil, err
	}
	themes, err := validThemes(n, themes)
	if err != nil {
		return nil, err
	}
	if enforce {
		if err := variantScopeRule(n, themes, n.themes); err != nil {
			return nil, err
		}
	}

	v := &Variant{
		base:   newBase(m),
		themes: themes,
	}
	if v.value, err = m.normalizeLiteral(n, value); err != nil {
		return nil, err
	}
	if err := m.attach(v, n); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Variant) ID() int64             { return v.id }
func (v *Variant) Kind() Kind            { return KindVariant }
func (v *Variant) TopicMap() *TopicMap   { return v.tm }
func (v *Variant) Parent() Construct     { return v.name }
func (v *Variant) Removed() bool         { return v.removed }
func (v *Variant) themeSlot() *[]*Topic  { return &v.themes }
func (v *Variant) reifierSlot() **Topic  { return &v.reifier }
func (v *Variant) literalSlot() *Literal { return &v.value }

// Name returns the owning name.
func (v *Variant) Name() *Name { return v.name }

// Value returns the variant value.
func (v *Variant) Value() string { return v.value.Value }

// Datatype returns the datatype IRI of the value.
func (v *Variant) Datatype() string { return v.value.Datatype }

// Literal returns value and datatype together.
func (v *Variant) Literal() Literal { return v.value }

// Scope returns the variant's own themes, without the name's.
func (v *Variant) Scope() []*Topic { return themeSet(v.themes) }

// EffectiveScope returns the union of the variant's own themes and the
// owning name's scope.
func (v *Variant) EffectiveScope() []*Topic {
	all := append([]*Topic(nil), v.themes...)
	if v.name != nil {
		all = append(all, v.name.themes...)
	}
	return themeSet(all)
}

// Reifier returns the reifying topic, or nil.
func (v *Variant) Reifier() *Topic { return v.reifier }

// ItemIdentifiers returns the item identifiers, sorted.
func (v *Variant) ItemIdentifiers() []string { return sortedSet(v.iids) }

// AddItemIdentifier binds iri as an item identifier.
func (v *Variant) AddItemIdentifier(iri string) error {
	return v.tm.run(func() error { return v.tm.bind(v, ItemIdentifier, iri) })
}

// RemoveItemIdentifier unbinds iri.
func (v *Variant) RemoveItemIdentifier(iri string) error {
	return v.tm.run(func() error { return v.tm.unbind(v, ItemIdentifier, iri) })
}

// SetScope replaces the variant's own themes. The variant scope rule
// applies against the name's current scope.
func (v *Variant) SetScope(themes ...*Topic) error {
	return v.tm.run(func() error { return v.tm.assignScope(v, themes) })
}

// SetValue replaces value and datatype. An empty datatype means xsd:string.
func (v *Variant) SetValue(value, datatype string) error {
	return v.tm.run(func() error {
		return v.tm.assignValue(v, Literal{Value: value, Datatype: datatype})
	})
}

// SetReifier sets or clears (nil) the reifying topic.
func (v *Variant) SetReifier(t *Topic) error {
	return v.tm.run(func() error { return v.tm.assignReifier(v, t) })
}

// Remove removes the variant.
func (v *Variant) Remove() error {
	return v.tm.run(func() error { return v.tm.removeConstruct(v) })
}
