package index

import (
	"cmp"
	"slices"

	"github.com/roach88/tmengine/internal/tm"
)

// usage maps a topic to the constructs using it in one role (as type or
// as theme).
type usage map[*tm.Topic]map[tm.Construct]struct{}

func (u usage) add(t *tm.Topic, c tm.Construct) {
	if t == nil {
		return
	}
	set, ok := u[t]
	if !ok {
		set = make(map[tm.Construct]struct{})
		u[t] = set
	}
	set[c] = struct{}{}
}

func (u usage) drop(t *tm.Topic, c tm.Construct) {
	set, ok := u[t]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(u, t)
	}
}

// dropAll removes c from every topic's set.
func (u usage) dropAll(c tm.Construct) {
	for t, set := range u {
		if _, ok := set[c]; ok {
			u.drop(t, c)
		}
	}
}

func (u usage) get(t *tm.Topic) []tm.Construct {
	out := make([]tm.Construct, 0, len(u[t]))
	for c := range u[t] {
		out = append(out, c)
	}
	sortByID(out)
	return out
}

func sortByID(cs []tm.Construct) {
	slices.SortFunc(cs, func(a, b tm.Construct) int { return cmp.Compare(a.ID(), b.ID()) })
}

// walk calls fn for c and every construct c owns.
func walk(c tm.Construct, fn func(tm.Construct)) {
	fn(c)
	switch v := c.(type) {
	case *tm.Topic:
		for _, n := range v.Names() {
			walk(n, fn)
		}
		for _, o := range v.Occurrences() {
			fn(o)
		}
	case *tm.Name:
		for _, vr := range v.Variants() {
			fn(vr)
		}
	case *tm.Association:
		for _, r := range v.Roles() {
			fn(r)
		}
	}
}

// walkMap calls fn for every construct of m except m itself.
func walkMap(m *tm.TopicMap, fn func(tm.Construct)) {
	for _, t := range m.Topics() {
		walk(t, fn)
	}
	for _, a := range m.Associations() {
		walk(a, fn)
	}
}

// eventConstruct returns the construct carried by an added or removed
// event.
func eventConstruct(e tm.Event) (tm.Construct, bool) {
	var v any
	switch e.Kind {
	case tm.EventConstructAdded:
		v = e.New
	case tm.EventConstructRemoved:
		v = e.Old
	default:
		return nil, false
	}
	c, ok := v.(tm.Construct)
	return c, ok
}
