package tm

// Type-instance and supertype-subtype relationships are ordinary
// associations typed by the TMDM subjects in vocab.go. A topic's types are
// the players of the "type" role in the type-instance associations where
// the topic plays "instance".

// relation names the association type and the two role types of a binary
// class relationship.
type relation struct {
	assocType string
	upper     string
	lower     string
}

var (
	typeInstance     = relation{assocType: PSITypeInstance, upper: PSIType, lower: PSIInstance}
	supertypeSubtype = relation{assocType: PSISupertypeSubtype, upper: PSISupertype, lower: PSISubtype}
)

// AddType records typ as a type of t. Adding an existing type is a no-op.
func (t *Topic) AddType(typ *Topic) error {
	return t.tm.run(func() error { return t.tm.addRelation(typeInstance, t.live(), typ) })
}

// RemoveType removes typ from t's types. Unknown types are ignored.
func (t *Topic) RemoveType(typ *Topic) error {
	return t.tm.run(func() error { return t.tm.removeRelation(typeInstance, t.live(), typ) })
}

// Types returns t's types ordered by id.
func (t *Topic) Types() []*Topic {
	return t.tm.related(typeInstance, t.live())
}

// AddSupertype records super as a supertype of t.
func (t *Topic) AddSupertype(super *Topic) error {
	return t.tm.run(func() error { return t.tm.addRelation(supertypeSubtype, t.live(), super) })
}

// RemoveSupertype removes super from t's supertypes.
func (t *Topic) RemoveSupertype(super *Topic) error {
	return t.tm.run(func() error { return t.tm.removeRelation(supertypeSubtype, t.live(), super) })
}

// Supertypes returns t's direct supertypes ordered by id.
func (t *Topic) Supertypes() []*Topic {
	return t.tm.related(supertypeSubtype, t.live())
}

// relationAssocs returns the associations of rel in which lower plays the
// lower role, paired with the upper role's player.
func (m *TopicMap) relationAssocs(rel relation, lower *Topic) map[*Association]*Topic {
	out := make(map[*Association]*Topic)
	assocType := m.reg.sids[rel.assocType]
	upperRole := m.reg.sids[rel.upper]
	lowerRole := m.reg.sids[rel.lower]
	if assocType == nil || upperRole == nil || lowerRole == nil {
		return out
	}
	for r := range lower.rolesPlayed {
		a := r.assoc
		if r.typ != lowerRole || a.typ != assocType || len(a.roles) != 2 || len(a.themes) != 0 {
			continue
		}
		for other := range a.roles {
			if other != r && other.typ == upperRole {
				out[a] = other.player
			}
		}
	}
	return out
}

func (m *TopicMap) related(rel relation, lower *Topic) []*Topic {
	seen := make(map[*Topic]struct{})
	for _, upper := range m.relationAssocs(rel, lower) {
		seen[upper] = struct{}{}
	}
	return sortedMembers(seen)
}

func (m *TopicMap) addRelation(rel relation, lower, upper *Topic) error {
	if err := checkAttached(lower); err != nil {
		return err
	}
	upper, err := validType(lower, upper)
	if err != nil {
		return err
	}
	for _, u := range m.relationAssocs(rel, lower) {
		if u == upper {
			return nil
		}
	}

	assocType, err := m.getOrCreateTopic(SubjectIdentifier, rel.assocType)
	if err != nil {
		return err
	}
	upperRole, err := m.getOrCreateTopic(SubjectIdentifier, rel.upper)
	if err != nil {
		return err
	}
	lowerRole, err := m.getOrCreateTopic(SubjectIdentifier, rel.lower)
	if err != nil {
		return err
	}

	a, err := m.newAssociation(assocType, nil)
	if err != nil {
		return err
	}
	if _, err := m.newRole(a, upperRole, upper); err != nil {
		return err
	}
	_, err = m.newRole(a, lowerRole, lower.live())
	return err
}

func (m *TopicMap) removeRelation(rel relation, lower, upper *Topic) error {
	if err := checkAttached(lower); err != nil {
		return err
	}
	if upper == nil {
		return nil
	}
	upper = upper.live()
	assocs := m.relationAssocs(rel, lower)
	for _, a := range sortedAssocKeys(assocs) {
		if assocs[a] != upper {
			continue
		}
		if err := m.removeConstruct(a); err != nil {
			return err
		}
	}
	return nil
}

func sortedAssocKeys(set map[*Association]*Topic) []*Association {
	out := make([]*Association, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	return byID(out)
}
