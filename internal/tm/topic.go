package tm

// Topic represents a subject. A topic's identity is the union of its item
// identifiers, subject identifiers and subject locators.
//
// A *Topic handle outlives merges: once a topic has been merged into
// another, every method on the old handle operates on the survivor.
type Topic struct {
	base
	sids        map[string]struct{}
	slos        map[string]struct{}
	names       map[*Name]struct{}
	occurrences map[*Occurrence]struct{}
	rolesPlayed map[*Role]struct{}
	reified     Reifiable
	mergedInto  *Topic
}

// live follows merge forwarding to the surviving topic.
func (t *Topic) live() *Topic {
	for t.mergedInto != nil {
		t = t.mergedInto
	}
	return t
}

func (m *TopicMap) newTopic() (*Topic, error) {
	t := &Topic{
		base:        newBase(m),
		sids:        make(map[string]struct{}),
		slos:        make(map[string]struct{}),
		names:       make(map[*Name]struct{}),
		occurrences: make(map[*Occurrence]struct{}),
		rolesPlayed: make(map[*Role]struct{}),
	}
	if err := m.attach(t, m); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Topic) core() *base { return &t.live().base }

// ID returns the identifier of the surviving topic.
func (t *Topic) ID() int64 { return t.live().id }

// Kind returns KindTopic.
func (t *Topic) Kind() Kind { return KindTopic }

// TopicMap returns the owning map.
func (t *Topic) TopicMap() *TopicMap { return t.tm }

// Parent returns the owning map.
func (t *Topic) Parent() Construct { return t.tm }

// Removed reports whether the topic has been removed. A merged handle
// reports on its survivor.
func (t *Topic) Removed() bool { return t.live().removed }

// ItemIdentifiers returns the item identifiers, sorted.
func (t *Topic) ItemIdentifiers() []string { return sortedSet(t.live().iids) }

// SubjectIdentifiers returns the subject identifiers, sorted.
func (t *Topic) SubjectIdentifiers() []string { return sortedSet(t.live().sids) }

// SubjectLocators returns the subject locators, sorted.
func (t *Topic) SubjectLocators() []string { return sortedSet(t.live().slos) }

// Names returns the topic's names ordered by id.
func (t *Topic) Names() []*Name { return sortedMembers(t.live().names) }

// Occurrences returns the topic's occurrences ordered by id.
func (t *Topic) Occurrences() []*Occurrence { return sortedMembers(t.live().occurrences) }

// RolesPlayed returns the roles the topic plays, ordered by id.
func (t *Topic) RolesPlayed() []*Role { return sortedMembers(t.live().rolesPlayed) }

// Reified returns the construct this topic reifies, or nil.
func (t *Topic) Reified() Reifiable { return t.live().reified }

// AddItemIdentifier binds iri as an item identifier. A topic already
// holding iri as an item or subject identifier is merged with t.
func (t *Topic) AddItemIdentifier(iri string) error {
	return t.tm.run(func() error { return t.tm.bind(t, ItemIdentifier, iri) })
}

// RemoveItemIdentifier unbinds iri.
func (t *Topic) RemoveItemIdentifier(iri string) error {
	return t.tm.run(func() error { return t.tm.unbind(t, ItemIdentifier, iri) })
}

// AddSubjectIdentifier binds iri as a subject identifier. A topic already
// holding iri as a subject or item identifier is merged with t.
func (t *Topic) AddSubjectIdentifier(iri string) error {
	return t.tm.run(func() error { return t.tm.bind(t, SubjectIdentifier, iri) })
}

// RemoveSubjectIdentifier unbinds iri.
func (t *Topic) RemoveSubjectIdentifier(iri string) error {
	return t.tm.run(func() error { return t.tm.unbind(t, SubjectIdentifier, iri) })
}

// AddSubjectLocator binds iri as a subject locator. A topic already
// holding iri as a subject locator is merged with t.
func (t *Topic) AddSubjectLocator(iri string) error {
	return t.tm.run(func() error { return t.tm.bind(t, SubjectLocator, iri) })
}

// RemoveSubjectLocator unbinds iri.
func (t *Topic) RemoveSubjectLocator(iri string) error {
	return t.tm.run(func() error { return t.tm.unbind(t, SubjectLocator, iri) })
}

// CreateName creates a name. A nil typ selects the default name type
// (the TMDM topic-name subject).
func (t *Topic) CreateName(value string, typ *Topic, themes ...*Topic) (*Name, error) {
	var n *Name
	err := t.tm.run(func() error {
		var err error
		n, err = t.tm.newName(t.live(), value, typ, themes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// CreateOccurrence creates an occurrence. An empty datatype means
// xsd:string.
func (t *Topic) CreateOccurrence(typ *Topic, value, datatype string, themes ...*Topic) (*Occurrence, error) {
	var o *Occurrence
	err := t.tm.run(func() error {
		var err error
		o, err = t.tm.newOccurrence(t.live(), typ, Literal{Value: value, Datatype: datatype}, themes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// MergeIn merges other into t. t survives; other's handle forwards to t.
func (t *Topic) MergeIn(other *Topic) error {
	if other == nil {
		return NewUsageError(t, "cannot merge a nil topic")
	}
	return t.tm.run(func() error {
		if err := checkAttached(t); err != nil {
			return err
		}
		if err := checkAttached(other); err != nil {
			return err
		}
		_, err := t.tm.mergeTopics(other, t)
		return err
	})
}

// Removable reports whether the topic can be removed: it must not reify
// anything, play a role, or be used as a type or theme.
func (t *Topic) Removable() bool {
	return t.tm.removalBlocker(t.live()) == ""
}

// Remove removes the topic with its names and occurrences.
func (t *Topic) Remove() error {
	return t.tm.run(func() error { return t.tm.removeTopic(t.live()) })
}
