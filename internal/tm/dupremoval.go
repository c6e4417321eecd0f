package tm

// Duplicate removal.
//
// Siblings are partitioned by Signature. In each group the construct with
// the lowest id survives; every other member is absorbed: its reifier and
// item identifiers move to the survivor, its children move or merge into
// the survivor's, and it is removed.
//
// Inner constructs are deduplicated before outer ones, because an outer
// signature depends on the inner structure: variants before names, roles
// before associations.

// dedupe absorbs the duplicates among items. items must be siblings of
// the same kind.
func dedupe[T Construct](m *TopicMap, items []T) (int, error) {
	if len(items) < 2 {
		return 0, nil
	}
	items = byID(items)

	first := make(map[string]T, len(items))
	removed := 0
	for _, c := range items {
		sig, err := Signature(c)
		if err != nil {
			return removed, err
		}
		keep, ok := first[sig]
		if !ok {
			first[sig] = c
			continue
		}
		k, err := m.absorb(c, keep)
		removed += k
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// absorb merges dup into survivor and removes dup. Returns the number of
// constructs removed as duplicates, counting dup itself and any of its
// children that turned out to duplicate the survivor's.
func (m *TopicMap) absorb(dup, survivor Construct) (int, error) {
	if err := m.noteDuplicate(dup, survivor); err != nil {
		return 0, err
	}
	if err := m.transferReifier(dup.(Reifiable), survivor.(Reifiable)); err != nil {
		return 0, err
	}
	if err := m.moveItemIdentifiers(dup, survivor); err != nil {
		return 0, err
	}

	nested := 0
	switch d := dup.(type) {
	case *Name:
		s := survivor.(*Name)
		for _, v := range d.Variants() {
			if err := m.detach(v); err != nil {
				return 0, err
			}
			if err := m.attach(v, s); err != nil {
				return 0, err
			}
		}
		k, err := m.dedupeVariants(s)
		if err != nil {
			return 0, err
		}
		nested = k
	case *Association:
		if err := m.absorbRoles(d, survivor.(*Association)); err != nil {
			return 0, err
		}
	}

	if err := m.removeConstruct(dup); err != nil {
		return 0, err
	}
	return nested + 1, nil
}

// absorbRoles pairs each role of dup with the survivor's role of equal
// signature and moves reifiers and item identifiers across. Both
// associations have had their roles deduplicated, so the pairing is 1:1.
func (m *TopicMap) absorbRoles(dup, survivor *Association) error {
	bySig := make(map[string]*Role, len(survivor.roles))
	for _, r := range survivor.Roles() {
		sig, err := Signature(r)
		if err != nil {
			return err
		}
		bySig[sig] = r
	}
	for _, r := range dup.Roles() {
		sig, err := Signature(r)
		if err != nil {
			return err
		}
		target, ok := bySig[sig]
		if !ok {
			return NewInternalError("%s has no role matching %s of duplicate %s",
				describe(survivor), describe(r), describe(dup))
		}
		if err := m.transferReifier(r, target); err != nil {
			return err
		}
		if err := m.moveItemIdentifiers(r, target); err != nil {
			return err
		}
	}
	return nil
}

func (m *TopicMap) moveItemIdentifiers(from, to Construct) error {
	for _, iri := range sortedSet(from.core().iids) {
		if err := m.removeIdentity(from, ItemIdentifier, iri); err != nil {
			return err
		}
		if err := m.addIdentity(to, ItemIdentifier, iri); err != nil {
			return err
		}
	}
	return nil
}

func (m *TopicMap) dedupeVariants(n *Name) (int, error) {
	return dedupe(m, n.Variants())
}

func (m *TopicMap) dedupeNames(t *Topic) (int, error) {
	total := 0
	for _, n := range t.Names() {
		k, err := m.dedupeVariants(n)
		if err != nil {
			return total, err
		}
		total += k
	}
	k, err := dedupe(m, t.Names())
	return total + k, err
}

func (m *TopicMap) dedupeOccurrences(t *Topic) (int, error) {
	return dedupe(m, t.Occurrences())
}

// dedupeTopic removes duplicate characteristics of t.
func (m *TopicMap) dedupeTopic(t *Topic) (int, error) {
	occ, err := m.dedupeOccurrences(t)
	if err != nil {
		return occ, err
	}
	names, err := m.dedupeNames(t)
	return occ + names, err
}

func (m *TopicMap) dedupeRoles(a *Association) (int, error) {
	return dedupe(m, a.Roles())
}

// dedupeAssociationsOfType removes duplicate associations typed by typ.
// Association duplicates are found map-wide, not per topic.
func (m *TopicMap) dedupeAssociationsOfType(typ *Topic) (int, error) {
	var assocs []*Association
	for c := range m.typedBy[typ] {
		if a, ok := c.(*Association); ok {
			assocs = append(assocs, a)
		}
	}
	assocs = byID(assocs)

	total := 0
	for _, a := range assocs {
		k, err := m.dedupeRoles(a)
		if err != nil {
			return total, err
		}
		total += k
	}
	k, err := dedupe(m, assocs)
	return total + k, err
}

// removeAllDuplicates runs the whole-map pass: every topic's occurrences
// and names, then associations grouped by type.
func (m *TopicMap) removeAllDuplicates() (int, error) {
	total := 0
	for _, t := range m.Topics() {
		k, err := m.dedupeTopic(t)
		if err != nil {
			return total, err
		}
		total += k
	}

	types := make(map[*Topic]struct{})
	for _, a := range m.assocs {
		types[a.typ] = struct{}{}
	}
	for _, typ := range sortedMembers(types) {
		k, err := m.dedupeAssociationsOfType(typ)
		if err != nil {
			return total, err
		}
		total += k
	}

	m.logger.Debug("duplicate pass finished", "map", m.id, "removed", total)
	return total, nil
}

// dedupeAround runs duplicate removal on everything a merge may have
// made equal: the characteristics of each survivor, the characteristics
// typed or scoped by it, and the associations it plays in, types or
// scopes.
func (m *TopicMap) dedupeAround(survivors []*Topic) (int, error) {
	topics := make(map[*Topic]struct{})
	assocTypes := make(map[*Topic]struct{})

	addUser := func(c Construct) {
		switch x := c.(type) {
		case *Name:
			topics[x.topic] = struct{}{}
		case *Occurrence:
			topics[x.topic] = struct{}{}
		case *Variant:
			topics[x.name.topic] = struct{}{}
		case *Association:
			assocTypes[x.typ] = struct{}{}
		case *Role:
			assocTypes[x.assoc.typ] = struct{}{}
		}
	}

	for _, s := range survivors {
		t := s.live()
		if t.removed {
			continue
		}
		topics[t] = struct{}{}
		for c := range m.typedBy[t] {
			addUser(c)
		}
		for c := range m.themedBy[t] {
			addUser(c)
		}
		for r := range t.rolesPlayed {
			addUser(r)
		}
	}

	total := 0
	for _, t := range sortedMembers(topics) {
		if t.removed {
			continue
		}
		k, err := m.dedupeTopic(t)
		if err != nil {
			return total, err
		}
		total += k
	}
	for _, typ := range sortedMembers(assocTypes) {
		k, err := m.dedupeAssociationsOfType(typ)
		if err != nil {
			return total, err
		}
		total += k
	}

	if total > 0 {
		m.logger.Debug("removed duplicates after merge", "map", m.id, "removed", total)
	}
	return total, nil
}
