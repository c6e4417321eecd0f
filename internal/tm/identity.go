package tm

// registry is the map-wide index from identity IRI to owning construct.
//
// INVARIANTS:
//   - an IRI is the item identifier of at most one construct
//   - an IRI is the subject identifier of at most one topic
//   - an IRI is the subject locator of at most one topic
//   - no topic holds an item identifier that another topic holds as a
//     subject identifier (such pairs are merged on contact)
//   - no IRI is a subject identifier of one topic and a subject locator
//     of another
//
// An IRI may be a subject identifier of a topic and an item identifier of
// a non-topic construct at the same time.
type registry struct {
	iids map[string]Construct
	sids map[string]*Topic
	slos map[string]*Topic
}

func newRegistry() *registry {
	return &registry{
		iids: make(map[string]Construct),
		sids: make(map[string]*Topic),
		slos: make(map[string]*Topic),
	}
}

func (r *registry) lookup(kind IdentityKind, iri string) Construct {
	switch kind {
	case ItemIdentifier:
		if c, ok := r.iids[iri]; ok {
			return c
		}
	case SubjectIdentifier:
		if t, ok := r.sids[iri]; ok {
			return t
		}
	case SubjectLocator:
		if t, ok := r.slos[iri]; ok {
			return t
		}
	}
	return nil
}

// topicByIID returns the topic holding iri as an item identifier.
func (r *registry) topicByIID(iri string) *Topic {
	t, _ := r.iids[iri].(*Topic)
	return t
}

func (r *registry) put(kind IdentityKind, iri string, c Construct) {
	switch kind {
	case ItemIdentifier:
		r.iids[iri] = c
	case SubjectIdentifier:
		r.sids[iri] = c.(*Topic)
	case SubjectLocator:
		r.slos[iri] = c.(*Topic)
	}
}

func (r *registry) remove(kind IdentityKind, iri string) {
	switch kind {
	case ItemIdentifier:
		delete(r.iids, iri)
	case SubjectIdentifier:
		delete(r.sids, iri)
	case SubjectLocator:
		delete(r.slos, iri)
	}
}

// Len returns the number of bound identities of kind.
func (r *registry) Len(kind IdentityKind) int {
	switch kind {
	case ItemIdentifier:
		return len(r.iids)
	case SubjectIdentifier:
		return len(r.sids)
	case SubjectLocator:
		return len(r.slos)
	}
	return 0
}

func (t *Topic) has(kind IdentityKind, iri string) bool {
	_, ok := identitySet(t, kind)[iri]
	return ok
}

// bind attaches iri to c under kind, merging topics where the collision
// rules call for it.
//
// Collision rules:
//   - iid held by another topic, or sid held by another topic: merge
//   - topic iid equal to another topic's sid (either direction): merge
//   - slo held by another topic: merge
//   - iid held by a non-topic, or c is a non-topic and iid is held: fail
//   - sid of one topic equal to slo of another: fail
//
// The topic already holding the identity survives the merge.
func (m *TopicMap) bind(c Construct, kind IdentityKind, raw string) error {
	if err := checkAttached(c); err != nil {
		return err
	}
	key, err := m.normalizeIRI(c, raw)
	if err != nil {
		return err
	}

	t, isTopic := c.(*Topic)
	if !isTopic {
		if kind != ItemIdentifier {
			return NewUsageError(c, "%s can only be attached to a topic", kind)
		}
		if holder := m.reg.lookup(ItemIdentifier, key); holder != nil {
			if holder == c {
				return nil
			}
			return NewIdentityViolation(c, holder, kind, key)
		}
		return m.addIdentity(c, kind, key)
	}

	t = t.live()
	if t.has(kind, key) {
		return nil
	}

	var target *Topic
	switch kind {
	case ItemIdentifier:
		if holder := m.reg.lookup(ItemIdentifier, key); holder != nil {
			ht, ok := holder.(*Topic)
			if !ok {
				return NewIdentityViolation(t, holder, kind, key)
			}
			target = ht
		} else if h := m.reg.sids[key]; h != nil {
			target = h
		}
	case SubjectIdentifier:
		if h := m.reg.sids[key]; h != nil {
			target = h
		} else if h := m.reg.topicByIID(key); h != nil {
			target = h
		}
		if h := m.reg.slos[key]; h != nil && h != t && h != target {
			return NewIdentityViolation(t, h, kind, key)
		}
	case SubjectLocator:
		if h := m.reg.sids[key]; h != nil && h != t {
			return NewIdentityViolation(t, h, kind, key)
		}
		target = m.reg.slos[key]
	}

	if target != nil && target != t {
		if m.cfg.strict {
			return NewIdentityViolation(t, target, kind, key)
		}
		survivor, err := m.mergeTopics(t, target)
		if err != nil {
			return err
		}
		t = survivor
		if t.has(kind, key) {
			return nil
		}
	}

	return m.addIdentity(t, kind, key)
}

// unbind detaches iri from c. Unknown IRIs are ignored.
func (m *TopicMap) unbind(c Construct, kind IdentityKind, raw string) error {
	if err := checkAttached(c); err != nil {
		return err
	}
	if t, ok := c.(*Topic); ok {
		c = t.live()
	} else if kind != ItemIdentifier {
		return NewUsageError(c, "%s can only be attached to a topic", kind)
	}

	key, err := m.normalizeIRI(c, raw)
	if err != nil {
		return err
	}
	if _, ok := identitySet(c, kind)[key]; !ok {
		return nil
	}
	return m.removeIdentity(c, kind, key)
}

// clearIdentities removes every identity c holds. Used by removal.
func (m *TopicMap) clearIdentities(c Construct) error {
	for _, iri := range sortedSet(c.core().iids) {
		if err := m.removeIdentity(c, ItemIdentifier, iri); err != nil {
			return err
		}
	}
	if t, ok := c.(*Topic); ok {
		for _, iri := range sortedSet(t.sids) {
			if err := m.removeIdentity(t, SubjectIdentifier, iri); err != nil {
				return err
			}
		}
		for _, iri := range sortedSet(t.slos) {
			if err := m.removeIdentity(t, SubjectLocator, iri); err != nil {
				return err
			}
		}
	}
	return nil
}
