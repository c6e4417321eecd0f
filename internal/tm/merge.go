package tm

// mergeTopics merges source into target and resolves every collision the
// merge exposes. Returns the surviving topic.
//
// Phases:
//  1. PENDING: the pair is queued on a worklist
//  2. MERGING: pairs are popped and merged one at a time; each merge may
//     queue more pairs
//  3. SETTLED: the worklist is empty and the duplicate pass runs around
//     every survivor
//
// A failure in any phase is rolled back by the enclosing call.
func (m *TopicMap) mergeTopics(source, target *Topic) (*Topic, error) {
	source, target = source.live(), target.live()
	if source == target {
		return target, nil
	}
	if source.tm != target.tm {
		return nil, NewConstraintViolation(source, "cannot merge topics of different topic maps")
	}

	work := newWorklist()
	work.push(source, target)
	var survivors []*Topic

	for {
		p, ok := work.pop()
		if !ok {
			break
		}
		s, t := p.source.live(), p.target.live()
		if s == t {
			continue
		}
		if err := m.tx.quota.Check(); err != nil {
			return nil, err
		}
		if err := m.mergePair(s, t, work); err != nil {
			return nil, err
		}
		survivors = append(survivors, t)
	}

	m.logger.Debug("merge cascade settled",
		"map", m.id,
		"survivor", target.live().id,
		"merges", len(survivors),
	)

	if _, err := m.dedupeAround(survivors); err != nil {
		return nil, err
	}
	return target.live(), nil
}

// mergePair moves everything source has onto target and retires source.
func (m *TopicMap) mergePair(s, t *Topic, work *worklist) error {
	// Reification: at most one of the two may reify something.
	if s.reified != nil {
		if t.reified != nil && t.reified != s.reified {
			return NewConstraintViolation(s, "cannot merge: topics %d and %d reify different constructs (%s, %s)",
				s.id, t.id, describe(s.reified), describe(t.reified))
		}
		if err := m.setReifier(s.reified, t); err != nil {
			return err
		}
	}

	// Identities.
	for _, kind := range []IdentityKind{ItemIdentifier, SubjectIdentifier, SubjectLocator} {
		for _, iri := range sortedSet(identitySet(s, kind)) {
			if err := m.removeIdentity(s, kind, iri); err != nil {
				return err
			}
			if t.has(kind, iri) {
				continue
			}
			if err := m.addIdentity(t, kind, iri); err != nil {
				return err
			}
		}
	}

	// Role players.
	for _, r := range sortedMembers(s.rolesPlayed) {
		if err := m.setPlayer(r, t); err != nil {
			return err
		}
	}

	// Types and themes.
	for _, c := range sortedMembers(m.typedBy[s]) {
		if err := m.setType(c.(Typed), t); err != nil {
			return err
		}
	}
	for _, c := range sortedMembers(m.themedBy[s]) {
		sc := c.(Scoped)
		themes := make([]*Topic, 0, len(*sc.themeSlot()))
		for _, th := range *sc.themeSlot() {
			if th == s {
				th = t
			}
			themes = append(themes, th)
		}
		if err := m.setScope(sc, themes); err != nil {
			return err
		}
	}

	// Characteristics.
	for _, n := range sortedMembers(s.names) {
		if err := m.moveCharacteristic(n, t); err != nil {
			return err
		}
	}
	for _, o := range sortedMembers(s.occurrences) {
		if err := m.moveCharacteristic(o, t); err != nil {
			return err
		}
	}

	if err := m.detach(s); err != nil {
		return err
	}
	if err := m.markMerged(s, t); err != nil {
		return err
	}

	m.queueCollisions(t, work)
	return nil
}

// moveCharacteristic re-parents a name or occurrence onto t.
func (m *TopicMap) moveCharacteristic(c Construct, t *Topic) error {
	if err := m.detach(c); err != nil {
		return err
	}
	return m.attach(c, t)
}

// queueCollisions re-checks t's identities against the registry and
// queues a merge for every other topic that now collides with t.
func (m *TopicMap) queueCollisions(t *Topic, work *worklist) {
	seen := make(map[*Topic]bool)
	queue := func(other *Topic) {
		if other == nil || other == t || seen[other] {
			return
		}
		seen[other] = true
		work.push(other, t)
	}

	for _, iri := range sortedSet(t.iids) {
		queue(m.reg.sids[iri])
	}
	for _, iri := range sortedSet(t.sids) {
		queue(m.reg.topicByIID(iri))
	}
}
