package index

import "github.com/roach88/tmengine/internal/tm"

// TypeInstanceIndex maps each topic to the associations, roles,
// occurrences and names typed by it.
type TypeInstanceIndex struct {
	byType      usage
	unsubscribe func()
}

// NewTypeInstanceIndex indexes m and subscribes to its changes.
func NewTypeInstanceIndex(m *tm.TopicMap) *TypeInstanceIndex {
	ix := &TypeInstanceIndex{byType: make(usage)}
	walkMap(m, ix.add)
	ix.unsubscribe = m.Bus().SubscribeAll(ix.handle)
	return ix
}

// Close unsubscribes the index. It keeps answering from its last state.
func (ix *TypeInstanceIndex) Close() {
	if ix.unsubscribe != nil {
		ix.unsubscribe()
		ix.unsubscribe = nil
	}
}

// Typed returns the constructs typed by t, ordered by id.
func (ix *TypeInstanceIndex) Typed(t *tm.Topic) []tm.Construct {
	return ix.byType.get(t)
}

// TypedOfKind returns the constructs of kind typed by t.
func (ix *TypeInstanceIndex) TypedOfKind(t *tm.Topic, kind tm.Kind) []tm.Construct {
	var out []tm.Construct
	for _, c := range ix.byType.get(t) {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// Types returns every topic used as a type, ordered by id.
func (ix *TypeInstanceIndex) Types() []*tm.Topic {
	return keys(ix.byType)
}

func (ix *TypeInstanceIndex) add(c tm.Construct) {
	if typed, ok := c.(tm.Typed); ok {
		ix.byType.add(typed.Type(), c)
	}
}

func (ix *TypeInstanceIndex) drop(c tm.Construct) {
	if _, ok := c.(tm.Typed); ok {
		ix.byType.dropAll(c)
	}
}

func (ix *TypeInstanceIndex) handle(e tm.Event) error {
	switch e.Kind {
	case tm.EventConstructAdded:
		if c, ok := eventConstruct(e); ok {
			walk(c, ix.add)
		}
	case tm.EventConstructRemoved:
		if c, ok := eventConstruct(e); ok {
			walk(c, ix.drop)
		}
	case tm.EventTypeChanged:
		if e.Source.Removed() {
			break
		}
		old, _ := e.Old.(*tm.Topic)
		typ, _ := e.New.(*tm.Topic)
		ix.byType.drop(old, e.Source)
		ix.byType.add(typ, e.Source)
	case tm.EventTopicsMerged:
		if t, ok := e.Old.(*tm.Topic); ok {
			delete(ix.byType, t)
		}
	}
	return nil
}

func keys(u usage) []*tm.Topic {
	cs := make([]tm.Construct, 0, len(u))
	for t := range u {
		cs = append(cs, t)
	}
	sortByID(cs)
	out := make([]*tm.Topic, len(cs))
	for i, c := range cs {
		out[i] = c.(*tm.Topic)
	}
	return out
}
