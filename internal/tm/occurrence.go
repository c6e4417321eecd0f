package tm

// Occurrence links a topic to a typed, scoped value.
type Occurrence struct {
	base
	topic   *Topic
	typ     *Topic
	value   Literal
	themes  []*Topic
	reifier *Topic
}

func (m *TopicMap) newOccurrence(t *Topic, typ *Topic, value Literal, themes []*Topic) (*Occurrence, error) {
	if err := checkAttached(t); err != nil {
		return nil, err
	}
	typ, err := validType(t, typ)
	if err != nil {
		return nil, err
	}
	themes, err = validThemes(t, themes)
	if err != nil {
		return nil, err
	}

	o := &Occurrence{
		base:   newBase(m),
		typ:    typ,
		themes: themes,
	}
	if o.value, err = m.normalizeLiteral(t, value); err != nil {
		return nil, err
	}
	if err := m.attach(o, t); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Occurrence) ID() int64             { return o.id }
func (o *Occurrence) Kind() Kind            { return KindOccurrence }
func (o *Occurrence) TopicMap() *TopicMap   { return o.tm }
func (o *Occurrence) Parent() Construct     { return o.topic }
func (o *Occurrence) Removed() bool         { return o.removed }
func (o *Occurrence) typeSlot() **Topic     { return &o.typ }
func (o *Occurrence) themeSlot() *[]*Topic  { return &o.themes }
func (o *Occurrence) reifierSlot() **Topic  { return &o.reifier }
func (o *Occurrence) literalSlot() *Literal { return &o.value }

// Topic returns the owning topic.
func (o *Occurrence) Topic() *Topic { return o.topic }

// Type returns the occurrence type.
func (o *Occurrence) Type() *Topic { return o.typ }

// Value returns the occurrence value.
func (o *Occurrence) Value() string { return o.value.Value }

// Datatype returns the datatype IRI of the value.
func (o *Occurrence) Datatype() string { return o.value.Datatype }

// Literal returns value and datatype together.
func (o *Occurrence) Literal() Literal { return o.value }

// Scope returns the themes.
func (o *Occurrence) Scope() []*Topic { return themeSet(o.themes) }

// Reifier returns the reifying topic, or nil.
func (o *Occurrence) Reifier() *Topic { return o.reifier }

// ItemIdentifiers returns the item identifiers, sorted.
func (o *Occurrence) ItemIdentifiers() []string { return sortedSet(o.iids) }

// AddItemIdentifier binds iri as an item identifier.
func (o *Occurrence) AddItemIdentifier(iri string) error {
	return o.tm.run(func() error { return o.tm.bind(o, ItemIdentifier, iri) })
}

// RemoveItemIdentifier unbinds iri.
func (o *Occurrence) RemoveItemIdentifier(iri string) error {
	return o.tm.run(func() error { return o.tm.unbind(o, ItemIdentifier, iri) })
}

// SetType replaces the occurrence type. nil is rejected.
func (o *Occurrence) SetType(t *Topic) error {
	return o.tm.run(func() error { return o.tm.assignType(o, t) })
}

// SetScope replaces the themes.
func (o *Occurrence) SetScope(themes ...*Topic) error {
	return o.tm.run(func() error { return o.tm.assignScope(o, themes) })
}

// SetValue replaces value and datatype. An empty datatype means xsd:string.
func (o *Occurrence) SetValue(value, datatype string) error {
	return o.tm.run(func() error {
		return o.tm.assignValue(o, Literal{Value: value, Datatype: datatype})
	})
}

// SetReifier sets or clears (nil) the reifying topic.
func (o *Occurrence) SetReifier(t *Topic) error {
	return o.tm.run(func() error { return o.tm.assignReifier(o, t) })
}

// Remove removes the occurrence.
func (o *Occurrence) Remove() error {
	return o.tm.run(func() error { return o.tm.removeConstruct(o) })
}
