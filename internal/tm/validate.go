package tm

// Validation predicates. Every mutating operation runs the relevant checks
// before its first primitive, so a rejected call dispatches no events.

// checkAttached fails if c has been removed.
func checkAttached(c Construct) error {
	if c.Removed() {
		return NewUsageError(c, "construct has been removed")
	}
	return nil
}

// sameTopicMap fails if t does not belong to reporter's map, or has been
// removed from it.
func sameTopicMap(reporter Construct, t *Topic) error {
	if t.TopicMap() != reporter.TopicMap() {
		return NewConstraintViolation(reporter, "topic %d belongs to a different topic map", t.ID())
	}
	if t.Removed() {
		return NewConstraintViolation(reporter, "topic %d has been removed", t.ID())
	}
	return nil
}

// typeNotNull rejects setting a type to nothing.
func typeNotNull(reporter Construct, t *Topic) error {
	if t == nil {
		return NewConstraintViolation(reporter, "type must not be nil")
	}
	return nil
}

// validType combines typeNotNull and sameTopicMap and returns the live
// handle of t.
func validType(reporter Construct, t *Topic) (*Topic, error) {
	if err := typeNotNull(reporter, t); err != nil {
		return nil, err
	}
	t = t.live()
	if err := sameTopicMap(reporter, t); err != nil {
		return nil, err
	}
	return t, nil
}

// validThemes rejects nil themes and foreign themes, and returns the live,
// deduplicated theme set. An empty result is the unconstrained scope.
func validThemes(reporter Construct, themes []*Topic) ([]*Topic, error) {
	out := make([]*Topic, 0, len(themes))
	for _, th := range themes {
		if th == nil {
			return nil, NewConstraintViolation(reporter, "scope must not contain nil; use no themes for the unconstrained scope")
		}
		th = th.live()
		if err := sameTopicMap(reporter, th); err != nil {
			return nil, err
		}
		out = append(out, th)
	}
	return themeSet(out), nil
}

// variantScopeRule requires a variant's own themes to add at least one
// theme absent from the parent name's scope.
func variantScopeRule(reporter Construct, themes, nameScope []*Topic) error {
	if len(themes) == 0 {
		return NewConstraintViolation(reporter, "variant scope must not be empty")
	}
	for _, th := range themes {
		if !containsTopic(nameScope, th) {
			return nil
		}
	}
	return NewConstraintViolation(reporter, "variant scope must not be a subset of the name scope")
}

// normalizeLiteral applies the default datatype and normalizes IRI values.
func (m *TopicMap) normalizeLiteral(reporter Construct, v Literal) (Literal, error) {
	if v.Datatype == "" {
		v.Datatype = XSDString
	} else {
		dt, err := m.normalizeIRI(reporter, v.Datatype)
		if err != nil {
			return Literal{}, err
		}
		v.Datatype = dt
	}
	if v.Datatype == XSDAnyURI {
		value, err := m.normalizeIRI(reporter, v.Value)
		if err != nil {
			return Literal{}, err
		}
		v.Value = value
	}
	return v, nil
}
