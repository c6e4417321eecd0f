package tm

// Role is a topic's participation in an association.
type Role struct {
	base
	assoc   *Association
	typ     *Topic
	player  *Topic
	reifier *Topic
}

func (m *TopicMap) newRole(a *Association, typ, player *Topic) (*Role, error) {
	if err := checkAttached(a); err != nil {
		return nil, err
	}
	typ, err := validType(a, typ)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, NewConstraintViolation(a, "role player must not be nil")
	}
	player = player.live()
	if err := sameTopicMap(a, player); err != nil {
		return nil, err
	}

	r := &Role{
		base:   newBase(m),
		typ:    typ,
		player: player,
	}
	if err := m.attach(r, a); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Role) ID() int64            { return r.id }
func (r *Role) Kind() Kind           { return KindRole }
func (r *Role) TopicMap() *TopicMap  { return r.tm }
func (r *Role) Parent() Construct    { return r.assoc }
func (r *Role) Removed() bool        { return r.removed }
func (r *Role) typeSlot() **Topic    { return &r.typ }
func (r *Role) reifierSlot() **Topic { return &r.reifier }

// Association returns the owning association.
func (r *Role) Association() *Association { return r.assoc }

// Type returns the role type.
func (r *Role) Type() *Topic { return r.typ }

// Player returns the topic playing the role.
func (r *Role) Player() *Topic { return r.player }

// Reifier returns the reifying topic, or nil.
func (r *Role) Reifier() *Topic { return r.reifier }

// ItemIdentifiers returns the item identifiers, sorted.
func (r *Role) ItemIdentifiers() []string { return sortedSet(r.iids) }

// AddItemIdentifier binds iri as an item identifier.
func (r *Role) AddItemIdentifier(iri string) error {
	return r.tm.run(func() error { return r.tm.bind(r, ItemIdentifier, iri) })
}

// RemoveItemIdentifier unbinds iri.
func (r *Role) RemoveItemIdentifier(iri string) error {
	return r.tm.run(func() error { return r.tm.unbind(r, ItemIdentifier, iri) })
}

// SetType replaces the role type. nil is rejected.
func (r *Role) SetType(t *Topic) error {
	return r.tm.run(func() error { return r.tm.assignType(r, t) })
}

// SetPlayer replaces the player. nil is rejected.
func (r *Role) SetPlayer(t *Topic) error {
	return r.tm.run(func() error {
		if err := checkAttached(r); err != nil {
			return err
		}
		if t == nil {
			return NewConstraintViolation(r, "role player must not be nil")
		}
		t = t.live()
		if err := sameTopicMap(r, t); err != nil {
			return err
		}
		return r.tm.setPlayer(r, t)
	})
}

// SetReifier sets or clears (nil) the reifying topic.
func (r *Role) SetReifier(t *Topic) error {
	return r.tm.run(func() error { return r.tm.assignReifier(r, t) })
}

// Remove removes the role from its association.
func (r *Role) Remove() error {
	return r.tm.run(func() error { return r.tm.removeConstruct(r) })
}
