package tm

// Query predicates for indexes and query engines. Each one accepts any
// construct and fails with a usage error when the construct's kind does
// not have the property asked for.

// TypeOf returns the type of an association, role, occurrence or name.
func TypeOf(c Construct) (*Topic, error) {
	if t, ok := c.(Typed); ok {
		return t.Type(), nil
	}
	return nil, NewUsageError(c, "%s has no type", kindOf(c))
}

// ScopeOf returns the declared themes of an association, occurrence, name
// or variant.
func ScopeOf(c Construct) ([]*Topic, error) {
	if s, ok := c.(Scoped); ok {
		return s.Scope(), nil
	}
	return nil, NewUsageError(c, "%s has no scope", kindOf(c))
}

// EffectiveScope is ScopeOf, except that a variant also includes its
// name's themes.
func EffectiveScope(c Construct) ([]*Topic, error) {
	if v, ok := c.(*Variant); ok {
		return v.EffectiveScope(), nil
	}
	return ScopeOf(c)
}

// PlayerOf returns the player of a role.
func PlayerOf(c Construct) (*Topic, error) {
	if r, ok := c.(*Role); ok {
		return r.Player(), nil
	}
	return nil, NewUsageError(c, "%s has no player", kindOf(c))
}

// ParentOf returns the owner of any construct except a topic map.
func ParentOf(c Construct) (Construct, error) {
	if c == nil || c.Kind() == KindTopicMap {
		return nil, NewUsageError(c, "%s has no parent", kindOf(c))
	}
	return c.Parent(), nil
}

// ReifierOf returns the reifier of any construct except a topic. The
// result is nil when nothing reifies the construct.
func ReifierOf(c Construct) (*Topic, error) {
	if r, ok := c.(Reifiable); ok {
		return r.Reifier(), nil
	}
	return nil, NewUsageError(c, "%s cannot be reified", kindOf(c))
}

// ReifiedOf returns the construct a topic reifies, or nil.
func ReifiedOf(c Construct) (Reifiable, error) {
	if t, ok := c.(*Topic); ok {
		return t.Reified(), nil
	}
	return nil, NewUsageError(c, "%s cannot reify", kindOf(c))
}

func kindOf(c Construct) string {
	if c == nil {
		return "nil"
	}
	return c.Kind().String()
}
