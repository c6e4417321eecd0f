package tm

// pendingCopy remembers what still has to be attached to a copied
// construct once duplicates have been removed: its item identifiers and
// the (foreign) topic reifying it.
type pendingCopy struct {
	local   Construct
	iids    []string
	reifier *Topic
}

// mapMerge copies one foreign map into m.
type mapMerge struct {
	m       *TopicMap
	other   *TopicMap
	topics  map[*Topic]*Topic
	pending []pendingCopy
}

// mergeMap merges other into m.
//
// Phases:
//  1. every foreign topic is matched to a local topic by identity, or
//     created; topics matched by several identities are merged
//  2. names, variants, occurrences, associations and roles are copied
//  3. duplicates around the matched topics are removed
//  4. item identifiers and reifiers are attached to the copies (or to
//     whatever absorbed them in step 3)
func (m *TopicMap) mergeMap(other *TopicMap) error {
	mm := &mapMerge{
		m:      m,
		other:  other,
		topics: make(map[*Topic]*Topic, len(other.topics)),
	}

	for _, ot := range other.Topics() {
		if err := mm.matchTopic(ot); err != nil {
			return err
		}
	}
	for _, ot := range other.Topics() {
		if err := mm.copyCharacteristics(ot); err != nil {
			return err
		}
	}
	for _, oa := range other.Associations() {
		if err := mm.copyAssociation(oa); err != nil {
			return err
		}
	}

	locals := make([]*Topic, 0, len(mm.topics))
	for _, t := range mm.topics {
		locals = append(locals, t)
	}
	if _, err := m.dedupeAround(byID(locals)); err != nil {
		return err
	}

	for _, p := range mm.pending {
		c := m.survivor(p.local)
		for _, iri := range p.iids {
			if err := m.bind(c, ItemIdentifier, iri); err != nil {
				return err
			}
		}
		if p.reifier != nil {
			if err := m.mergeReifier(c.(Reifiable), mm.local(p.reifier)); err != nil {
				return err
			}
		}
	}

	for _, iri := range sortedSet(other.iids) {
		if err := m.bind(m, ItemIdentifier, iri); err != nil {
			return err
		}
	}
	if other.reifier != nil {
		if err := m.mergeReifier(m, mm.local(other.reifier)); err != nil {
			return err
		}
	}

	m.logger.Debug("merged topic map",
		"map", m.id,
		"from", other.id,
		"topics", len(other.topics),
		"associations", len(other.assocs),
	)
	return nil
}

// local returns the live local counterpart of a foreign topic.
func (mm *mapMerge) local(ot *Topic) *Topic {
	return mm.topics[ot.live()].live()
}

func (mm *mapMerge) localThemes(themes []*Topic) []*Topic {
	out := make([]*Topic, len(themes))
	for i, th := range themes {
		out[i] = mm.local(th)
	}
	return out
}

// matchTopic finds or creates the local topic for ot and gives it all of
// ot's identities.
func (mm *mapMerge) matchTopic(ot *Topic) error {
	m := mm.m

	seen := make(map[*Topic]struct{})
	var candidates []*Topic
	add := func(t *Topic) {
		if t == nil {
			return
		}
		t = t.live()
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		candidates = append(candidates, t)
	}
	for _, iri := range sortedSet(ot.sids) {
		add(m.reg.sids[iri])
		add(m.reg.topicByIID(iri))
	}
	for _, iri := range sortedSet(ot.slos) {
		add(m.reg.slos[iri])
	}
	for _, iri := range sortedSet(ot.iids) {
		add(m.reg.topicByIID(iri))
		add(m.reg.sids[iri])
	}

	var t *Topic
	if len(candidates) == 0 {
		var err error
		if t, err = m.newTopic(); err != nil {
			return err
		}
	} else {
		candidates = byID(candidates)
		t = candidates[0]
		for _, c := range candidates[1:] {
			survivor, err := m.mergeTopics(c, t)
			if err != nil {
				return err
			}
			t = survivor
		}
	}

	for _, kind := range []IdentityKind{SubjectIdentifier, SubjectLocator, ItemIdentifier} {
		for _, iri := range sortedSet(identitySet(ot, kind)) {
			if err := m.bind(t, kind, iri); err != nil {
				return err
			}
			t = t.live()
		}
	}

	mm.topics[ot] = t
	return nil
}

func (mm *mapMerge) copyCharacteristics(ot *Topic) error {
	m := mm.m

	for _, on := range ot.Names() {
		n, err := m.newName(mm.local(ot), on.value.Value, mm.local(on.typ), mm.localThemes(on.themes))
		if err != nil {
			return err
		}
		mm.remember(n, on)
		for _, ov := range on.Variants() {
			v, err := m.newVariant(n, ov.value, mm.localThemes(ov.themes), false)
			if err != nil {
				return err
			}
			mm.remember(v, ov)
		}
	}
	for _, oo := range ot.Occurrences() {
		o, err := m.newOccurrence(mm.local(ot), mm.local(oo.typ), oo.value, mm.localThemes(oo.themes))
		if err != nil {
			return err
		}
		mm.remember(o, oo)
	}
	return nil
}

func (mm *mapMerge) copyAssociation(oa *Association) error {
	m := mm.m

	a, err := m.newAssociation(mm.local(oa.typ), mm.localThemes(oa.themes))
	if err != nil {
		return err
	}
	mm.remember(a, oa)
	for _, or := range oa.Roles() {
		r, err := m.newRole(a, mm.local(or.typ), mm.local(or.player))
		if err != nil {
			return err
		}
		mm.remember(r, or)
	}
	return nil
}

func (mm *mapMerge) remember(local Construct, foreign Reifiable) {
	p := pendingCopy{
		local:   local,
		iids:    sortedSet(foreign.core().iids),
		reifier: foreign.Reifier(),
	}
	if len(p.iids) == 0 && p.reifier == nil {
		return
	}
	mm.pending = append(mm.pending, p)
}
