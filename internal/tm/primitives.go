package tm

import "slices"

// Primitive mutations. Each one dispatches a single event, applies the
// change, and records its inverse on the current transaction. Everything
// else in the package is built from these, which is what makes rollback
// complete.
//
// INVARIANT: the usage indexes (typedBy, themedBy, rolesPlayed) contain
// exactly the attached constructs. link and unlink are the only places
// that add or drop a construct's uses wholesale.

func addUse(idx map[*Topic]map[Construct]struct{}, t *Topic, c Construct) {
	if t == nil {
		return
	}
	set, ok := idx[t]
	if !ok {
		set = make(map[Construct]struct{})
		idx[t] = set
	}
	set[c] = struct{}{}
}

func dropUse(idx map[*Topic]map[Construct]struct{}, t *Topic, c Construct) {
	if t == nil {
		return
	}
	if set, ok := idx[t]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(idx, t)
		}
	}
}

func (m *TopicMap) addUses(c Construct) {
	if tc, ok := c.(Typed); ok {
		addUse(m.typedBy, *tc.typeSlot(), c)
	}
	if sc, ok := c.(Scoped); ok {
		for _, th := range *sc.themeSlot() {
			addUse(m.themedBy, th, c)
		}
	}
	if r, ok := c.(*Role); ok && r.player != nil {
		r.player.rolesPlayed[r] = struct{}{}
	}
}

func (m *TopicMap) dropUses(c Construct) {
	if tc, ok := c.(Typed); ok {
		dropUse(m.typedBy, *tc.typeSlot(), c)
	}
	if sc, ok := c.(Scoped); ok {
		for _, th := range *sc.themeSlot() {
			dropUse(m.themedBy, th, c)
		}
	}
	if r, ok := c.(*Role); ok && r.player != nil {
		delete(r.player.rolesPlayed, r)
	}
}

// link sets c's parent, adds it to the parent's collection and indexes
// its uses.
func (m *TopicMap) link(c Construct, parent Construct) {
	switch x := c.(type) {
	case *Topic:
		m.topics[x.id] = x
	case *Association:
		m.assocs[x.id] = x
	case *Role:
		x.assoc = parent.(*Association)
		x.assoc.roles[x] = struct{}{}
	case *Name:
		x.topic = parent.(*Topic)
		x.topic.names[x] = struct{}{}
	case *Occurrence:
		x.topic = parent.(*Topic)
		x.topic.occurrences[x] = struct{}{}
	case *Variant:
		x.name = parent.(*Name)
		x.name.variants[x] = struct{}{}
	}
	c.core().removed = false
	m.addUses(c)
}

// unlink reverses link. The parent pointer is kept so the construct can
// still report where it lived.
func (m *TopicMap) unlink(c Construct) {
	m.dropUses(c)
	c.core().removed = true
	switch x := c.(type) {
	case *Topic:
		delete(m.topics, x.id)
	case *Association:
		delete(m.assocs, x.id)
	case *Role:
		delete(x.assoc.roles, x)
	case *Name:
		delete(x.topic.names, x)
	case *Occurrence:
		delete(x.topic.occurrences, x)
	case *Variant:
		delete(x.name.variants, x)
	}
}

// rawParent returns c's parent pointer without resolving merged handles.
func rawParent(c Construct) Construct {
	switch x := c.(type) {
	case *Topic, *Association:
		return x.TopicMap()
	case *Role:
		return x.assoc
	case *Name:
		return x.topic
	case *Occurrence:
		return x.topic
	case *Variant:
		return x.name
	}
	return nil
}

func setRawParent(c Construct, parent Construct) {
	switch x := c.(type) {
	case *Role:
		x.assoc, _ = parent.(*Association)
	case *Name:
		x.topic, _ = parent.(*Topic)
	case *Occurrence:
		x.topic, _ = parent.(*Topic)
	case *Variant:
		x.name, _ = parent.(*Name)
	}
}

// attach adds c under parent. Used both for new constructs and for
// characteristics moving between topics.
func (m *TopicMap) attach(c Construct, parent Construct) error {
	prev := rawParent(c)
	ev := Event{Kind: EventConstructAdded, Source: parent, New: c}
	return m.apply(ev,
		func() { m.link(c, parent) },
		func() {
			m.unlink(c)
			if prev != nil {
				setRawParent(c, prev)
			}
		},
	)
}

// detach removes c from its parent. Children, identities and reification
// must already have been cleared by the caller.
func (m *TopicMap) detach(c Construct) error {
	parent := rawParent(c)
	ev := Event{Kind: EventConstructRemoved, Source: parent, Old: c}
	return m.apply(ev,
		func() { m.unlink(c) },
		func() { m.link(c, parent) },
	)
}

func identitySet(c Construct, kind IdentityKind) map[string]struct{} {
	switch kind {
	case SubjectIdentifier:
		return c.(*Topic).sids
	case SubjectLocator:
		return c.(*Topic).slos
	}
	return c.core().iids
}

// addIdentity binds iri to c in the registry and in c's own set.
// Collision handling happens before this is called.
func (m *TopicMap) addIdentity(c Construct, kind IdentityKind, iri string) error {
	ev := Event{Kind: EventIdentityAdded, Source: c, New: Identity{Kind: kind, IRI: iri}}
	return m.apply(ev,
		func() {
			identitySet(c, kind)[iri] = struct{}{}
			m.reg.put(kind, iri, c)
		},
		func() {
			delete(identitySet(c, kind), iri)
			m.reg.remove(kind, iri)
		},
	)
}

func (m *TopicMap) removeIdentity(c Construct, kind IdentityKind, iri string) error {
	ev := Event{Kind: EventIdentityRemoved, Source: c, Old: Identity{Kind: kind, IRI: iri}}
	return m.apply(ev,
		func() {
			delete(identitySet(c, kind), iri)
			m.reg.remove(kind, iri)
		},
		func() {
			identitySet(c, kind)[iri] = struct{}{}
			m.reg.put(kind, iri, c)
		},
	)
}

func (m *TopicMap) setType(c Typed, t *Topic) error {
	old := *c.typeSlot()
	if old == t {
		return nil
	}
	retype := func(from, to *Topic) {
		if !c.core().removed {
			dropUse(m.typedBy, from, c)
			addUse(m.typedBy, to, c)
		}
		*c.typeSlot() = to
	}
	ev := Event{Kind: EventTypeChanged, Source: c, Old: old, New: t}
	return m.apply(ev, func() { retype(old, t) }, func() { retype(t, old) })
}

func (m *TopicMap) setScope(c Scoped, themes []*Topic) error {
	old := slices.Clone(*c.themeSlot())
	themes = themeSet(themes)
	if sameThemes(old, themes) {
		return nil
	}
	rescope := func(from, to []*Topic) {
		if !c.core().removed {
			for _, th := range from {
				dropUse(m.themedBy, th, c)
			}
			for _, th := range to {
				addUse(m.themedBy, th, c)
			}
		}
		*c.themeSlot() = slices.Clone(to)
	}
	ev := Event{Kind: EventScopeChanged, Source: c, Old: old, New: slices.Clone(themes)}
	return m.apply(ev, func() { rescope(old, themes) }, func() { rescope(themes, old) })
}

// valued is implemented by constructs carrying a Literal.
type valued interface {
	Construct
	literalSlot() *Literal
}

func (m *TopicMap) setValue(c valued, v Literal) error {
	old := *c.literalSlot()
	if old == v {
		return nil
	}
	ev := Event{Kind: EventValueChanged, Source: c, Old: old, New: v}
	return m.apply(ev,
		func() { *c.literalSlot() = v },
		func() { *c.literalSlot() = old },
	)
}

// setReifier updates both sides of the reification relation. Validation
// is the caller's job.
func (m *TopicMap) setReifier(r Reifiable, t *Topic) error {
	old := *r.reifierSlot()
	if old == t {
		return nil
	}
	relink := func(from, to *Topic) {
		if from != nil {
			from.reified = nil
		}
		*r.reifierSlot() = to
		if to != nil {
			to.reified = r
		}
	}
	ev := Event{Kind: EventReifierChanged, Source: r, Old: old, New: t}
	return m.apply(ev, func() { relink(old, t) }, func() { relink(t, old) })
}

func (m *TopicMap) setPlayer(r *Role, t *Topic) error {
	old := r.player
	if old == t {
		return nil
	}
	replay := func(from, to *Topic) {
		if !r.removed {
			if from != nil {
				delete(from.rolesPlayed, r)
			}
			if to != nil {
				to.rolesPlayed[r] = struct{}{}
			}
		}
		r.player = to
	}
	ev := Event{Kind: EventPlayerChanged, Source: r, Old: old, New: t}
	return m.apply(ev, func() { replay(old, t) }, func() { replay(t, old) })
}

// markMerged forwards the detached source topic to target.
func (m *TopicMap) markMerged(source, target *Topic) error {
	ev := Event{Kind: EventTopicsMerged, Source: target, Old: source}
	return m.apply(ev,
		func() { source.mergedInto = target },
		func() { source.mergedInto = nil },
	)
}

// noteDuplicate records that dup is being absorbed by survivor.
func (m *TopicMap) noteDuplicate(dup, survivor Construct) error {
	ev := Event{Kind: EventDuplicateRemoved, Source: survivor, Old: dup}
	return m.apply(ev,
		func() { m.tx.absorbed[dup] = survivor },
		func() { delete(m.tx.absorbed, dup) },
	)
}
