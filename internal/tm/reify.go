package tm

// assignReifier makes t the reifier of r, or clears the reifier when t is
// nil.
//
// Reification is 1:1. A topic that already reifies a different construct
// is never silently moved: the call fails with a constraint violation
// reported against r.
func (m *TopicMap) assignReifier(r Reifiable, t *Topic) error {
	if err := checkAttached(r); err != nil {
		return err
	}
	if t != nil {
		t = t.live()
		if err := sameTopicMap(r, t); err != nil {
			return err
		}
	}
	if *r.reifierSlot() == t {
		return nil
	}
	if t != nil && t.reified != nil && t.reified != r {
		return NewConstraintViolation(r, "topic %d already reifies %s", t.ID(), describe(t.reified))
	}
	return m.setReifier(r, t)
}

// transferReifier moves the reifier of from onto to. If to already has a
// different reifier the two constructs cannot be unified and the call
// fails.
func (m *TopicMap) transferReifier(from, to Reifiable) error {
	rf := *from.reifierSlot()
	if rf == nil {
		return nil
	}
	rt := *to.reifierSlot()
	if rt != nil && rt != rf {
		return NewConstraintViolation(from, "%s and %s are reified by different topics (%d, %d)",
			describe(from), describe(to), rf.ID(), rt.ID())
	}
	if err := m.setReifier(from, nil); err != nil {
		return err
	}
	return m.setReifier(to, rf)
}

// mergeReifier gives c the reifier t. When c already has a different
// reifier the two reifier topics describe the same subject and are merged.
func (m *TopicMap) mergeReifier(c Reifiable, t *Topic) error {
	if t == nil {
		return nil
	}
	t = t.live()
	cur := *c.reifierSlot()
	switch {
	case cur == nil:
		return m.assignReifier(c, t)
	case cur == t:
		return nil
	}
	_, err := m.mergeTopics(t, cur)
	return err
}
