package tm

import "fmt"

// removalBlocker explains why t cannot be removed, or returns "".
func (m *TopicMap) removalBlocker(t *Topic) string {
	switch {
	case t.reified != nil:
		return fmt.Sprintf("topic reifies %s", describe(t.reified))
	case len(t.rolesPlayed) > 0:
		return fmt.Sprintf("topic plays %d role(s)", len(t.rolesPlayed))
	case len(m.typedBy[t]) > 0:
		return fmt.Sprintf("topic is used as a type by %d construct(s)", len(m.typedBy[t]))
	case len(m.themedBy[t]) > 0:
		return fmt.Sprintf("topic is used as a theme by %d construct(s)", len(m.themedBy[t]))
	}
	return ""
}

func (m *TopicMap) removeTopic(t *Topic) error {
	if err := checkAttached(t); err != nil {
		return err
	}
	if reason := m.removalBlocker(t); reason != "" {
		return NewConstraintViolation(t, "cannot remove topic: %s", reason)
	}
	for _, o := range t.Occurrences() {
		if err := m.removeConstruct(o); err != nil {
			return err
		}
	}
	for _, n := range t.Names() {
		if err := m.removeConstruct(n); err != nil {
			return err
		}
	}
	if err := m.clearIdentities(t); err != nil {
		return err
	}
	return m.detach(t)
}

// removeConstruct removes a non-topic construct and everything it owns.
// Children go first so each detach event sees a leaf.
func (m *TopicMap) removeConstruct(c Construct) error {
	if err := checkAttached(c); err != nil {
		return err
	}

	switch x := c.(type) {
	case *Name:
		for _, v := range x.Variants() {
			if err := m.removeConstruct(v); err != nil {
				return err
			}
		}
	case *Association:
		for _, r := range x.Roles() {
			if err := m.removeConstruct(r); err != nil {
				return err
			}
		}
	case *Topic:
		return m.removeTopic(x.live())
	case *TopicMap:
		return NewUsageError(c, "a topic map cannot be removed")
	}

	if r, ok := c.(Reifiable); ok {
		if err := m.setReifier(r, nil); err != nil {
			return err
		}
	}
	if err := m.clearIdentities(c); err != nil {
		return err
	}
	return m.detach(c)
}
