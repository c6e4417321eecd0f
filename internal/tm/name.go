package tm

// Name is a topic name. Its scope flows into the effective scope of each
// of its variants.
type Name struct {
	base
	topic    *Topic
	typ      *Topic
	value    Literal
	themes   []*Topic
	variants map[*Variant]struct{}
	reifier  *Topic
}

func (m *TopicMap) newName(t *Topic, value string, typ *Topic, themes []*Topic) (*Name, error) {
	if err := checkAttached(t); err != nil {
		return nil, err
	}
	if typ == nil {
		var err error
		if typ, err = m.getOrCreateTopic(SubjectIdentifier, PSITopicName); err != nil {
			return nil, err
		}
	}
	typ, err := validType(t, typ)
	if err != nil {
		return nil, err
	}
	themes, err = validThemes(t, themes)
	if err != nil {
		return nil, err
	}

	n := &Name{
		base:     newBase(m),
		typ:      typ,
		value:    Literal{Value: value, Datatype: XSDString},
		themes:   themes,
		variants: make(map[*Variant]struct{}),
	}
	if err := m.attach(n, t.live()); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Name) ID() int64            { return n.id }
func (n *Name) Kind() Kind           { return KindName }
func (n *Name) TopicMap() *TopicMap  { return n.tm }
func (n *Name) Parent() Construct    { return n.topic }
func (n *Name) Removed() bool        { return n.removed }
func (n *Name) typeSlot() **Topic    { return &n.typ }
func (n *Name) themeSlot() *[]*Topic { return &n.themes }
func (n *Name) reifierSlot() **Topic { return &n.reifier }
func (n *Name) literalSlot() *Literal {
	return &n.value
}

// Topic returns the topic owning the name.
func (n *Name) Topic() *Topic { return n.topic }

// Type returns the name type.
func (n *Name) Type() *Topic { return n.typ }

// Value returns the name string.
func (n *Name) Value() string { return n.value.Value }

// Scope returns the name's themes.
func (n *Name) Scope() []*Topic { return themeSet(n.themes) }

// Reifier returns the reifying topic, or nil.
func (n *Name) Reifier() *Topic { return n.reifier }

// Variants returns the name's variants ordered by id.
func (n *Name) Variants() []*Variant { return sortedMembers(n.variants) }

// ItemIdentifiers returns the item identifiers, sorted.
func (n *Name) ItemIdentifiers() []string { return sortedSet(n.iids) }

// AddItemIdentifier binds iri as an item identifier.
func (n *Name) AddItemIdentifier(iri string) error {
	return n.tm.run(func() error { return n.tm.bind(n, ItemIdentifier, iri) })
}

// RemoveItemIdentifier unbinds iri.
func (n *Name) RemoveItemIdentifier(iri string) error {
	return n.tm.run(func() error { return n.tm.unbind(n, ItemIdentifier, iri) })
}

// SetType replaces the name type. nil is rejected.
func (n *Name) SetType(t *Topic) error {
	return n.tm.run(func() error { return n.tm.assignType(n, t) })
}

// SetScope replaces the themes. Variants see the change through their
// effective scope.
func (n *Name) SetScope(themes ...*Topic) error {
	return n.tm.run(func() error { return n.tm.assignScope(n, themes) })
}

// SetValue replaces the name string.
func (n *Name) SetValue(value string) error {
	return n.tm.run(func() error {
		if err := checkAttached(n); err != nil {
			return err
		}
		return n.tm.setValue(n, Literal{Value: value, Datatype: XSDString})
	})
}

// SetReifier sets or clears (nil) the reifying topic.
func (n *Name) SetReifier(t *Topic) error {
	return n.tm.run(func() error { return n.tm.assignReifier(n, t) })
}

// CreateVariant creates a variant. themes must add at least one theme not
// already in the name's scope.
func (n *Name) CreateVariant(value, datatype string, themes ...*Topic) (*Variant, error) {
	var v *Variant
	err := n.tm.run(func() error {
		var err error
		v, err = n.tm.newVariant(n, Literal{Value: value, Datatype: datatype}, themes, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Remove removes the name and its variants.
func (n *Name) Remove() error {
	return n.tm.run(func() error { return n.tm.removeConstruct(n) })
}
