package tm

func (m *TopicMap) assignType(c Typed, t *Topic) error {
	if err := checkAttached(c); err != nil {
		return err
	}
	t, err := validType(c, t)
	if err != nil {
		return err
	}
	return m.setType(c, t)
}

func (m *TopicMap) assignScope(c Scoped, themes []*Topic) error {
	if err := checkAttached(c); err != nil {
		return err
	}
	themes, err := validThemes(c, themes)
	if err != nil {
		return err
	}
	if v, ok := c.(*Variant); ok {
		if err := variantScopeRule(v, themes, v.name.themes); err != nil {
			return err
		}
	}
	return m.setScope(c, themes)
}

func (m *TopicMap) assignValue(c valued, v Literal) error {
	if err := checkAttached(c); err != nil {
		return err
	}
	v, err := m.normalizeLiteral(c, v)
	if err != nil {
		return err
	}
	return m.setValue(c, v)
}
