package tm

// Association is a typed, scoped relationship between role players.
type Association struct {
	base
	typ     *Topic
	themes  []*Topic
	roles   map[*Role]struct{}
	reifier *Topic
}

func (m *TopicMap) newAssociation(typ *Topic, themes []*Topic) (*Association, error) {
	typ, err := validType(m, typ)
	if err != nil {
		return nil, err
	}
	themes, err = validThemes(m, themes)
	if err != nil {
		return nil, err
	}

	a := &Association{
		base:   newBase(m),
		typ:    typ,
		themes: themes,
		roles:  make(map[*Role]struct{}),
	}
	if err := m.attach(a, m); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Association) ID() int64            { return a.id }
func (a *Association) Kind() Kind           { return KindAssociation }
func (a *Association) TopicMap() *TopicMap  { return a.tm }
func (a *Association) Parent() Construct    { return a.tm }
func (a *Association) Removed() bool        { return a.removed }
func (a *Association) typeSlot() **Topic    { return &a.typ }
func (a *Association) themeSlot() *[]*Topic { return &a.themes }
func (a *Association) reifierSlot() **Topic { return &a.reifier }

// Type returns the association type.
func (a *Association) Type() *Topic { return a.typ }

// Scope returns the themes.
func (a *Association) Scope() []*Topic { return themeSet(a.themes) }

// Reifier returns the reifying topic, or nil.
func (a *Association) Reifier() *Topic { return a.reifier }

// Roles returns the roles ordered by id.
func (a *Association) Roles() []*Role { return sortedMembers(a.roles) }

// RolesByType returns the roles of type typ ordered by id.
func (a *Association) RolesByType(typ *Topic) []*Role {
	if typ == nil {
		return nil
	}
	typ = typ.live()
	var out []*Role
	for _, r := range a.Roles() {
		if r.typ == typ {
			out = append(out, r)
		}
	}
	return out
}

// ItemIdentifiers returns the item identifiers, sorted.
func (a *Association) ItemIdentifiers() []string { return sortedSet(a.iids) }

// AddItemIdentifier binds iri as an item identifier.
func (a *Association) AddItemIdentifier(iri string) error {
	return a.tm.run(func() error { return a.tm.bind(a, ItemIdentifier, iri) })
}

// RemoveItemIdentifier unbinds iri.
func (a *Association) RemoveItemIdentifier(iri string) error {
	return a.tm.run(func() error { return a.tm.unbind(a, ItemIdentifier, iri) })
}

// SetType replaces the association type. nil is rejected.
func (a *Association) SetType(t *Topic) error {
	return a.tm.run(func() error { return a.tm.assignType(a, t) })
}

// SetScope replaces the themes.
func (a *Association) SetScope(themes ...*Topic) error {
	return a.tm.run(func() error { return a.tm.assignScope(a, themes) })
}

// SetReifier sets or clears (nil) the reifying topic.
func (a *Association) SetReifier(t *Topic) error {
	return a.tm.run(func() error { return a.tm.assignReifier(a, t) })
}

// CreateRole adds a role of type typ played by player.
func (a *Association) CreateRole(typ, player *Topic) (*Role, error) {
	var r *Role
	err := a.tm.run(func() error {
		var err error
		r, err = a.tm.newRole(a, typ, player)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Remove removes the association and its roles.
func (a *Association) Remove() error {
	return a.tm.run(func() error { return a.tm.removeConstruct(a) })
}
