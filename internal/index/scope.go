package index

import "github.com/roach88/tmengine/internal/tm"

// ScopedIndex maps each topic to the associations, occurrences, names and
// variants that declare it as a theme.
type ScopedIndex struct {
	byTheme       usage
	unconstrained map[tm.Construct]struct{}
	unsubscribe   func()
}

// NewScopedIndex indexes m and subscribes to its changes.
func NewScopedIndex(m *tm.TopicMap) *ScopedIndex {
	ix := &ScopedIndex{
		byTheme:       make(usage),
		unconstrained: make(map[tm.Construct]struct{}),
	}
	walkMap(m, ix.add)
	ix.unsubscribe = m.Bus().SubscribeAll(ix.handle)
	return ix
}

// Close unsubscribes the index.
func (ix *ScopedIndex) Close() {
	if ix.unsubscribe != nil {
		ix.unsubscribe()
		ix.unsubscribe = nil
	}
}

// Scoped returns the constructs declaring theme in their scope, ordered
// by id. Variants are listed by their own themes only.
func (ix *ScopedIndex) Scoped(theme *tm.Topic) []tm.Construct {
	return ix.byTheme.get(theme)
}

// Unconstrained returns the scoped constructs with no declared themes.
func (ix *ScopedIndex) Unconstrained() []tm.Construct {
	out := make([]tm.Construct, 0, len(ix.unconstrained))
	for c := range ix.unconstrained {
		out = append(out, c)
	}
	sortByID(out)
	return out
}

// Themes returns every topic used as a theme, ordered by id.
func (ix *ScopedIndex) Themes() []*tm.Topic {
	return keys(ix.byTheme)
}

func (ix *ScopedIndex) add(c tm.Construct) {
	scoped, ok := c.(tm.Scoped)
	if !ok {
		return
	}
	ix.set(c, scoped.Scope())
}

func (ix *ScopedIndex) drop(c tm.Construct) {
	if _, ok := c.(tm.Scoped); !ok {
		return
	}
	ix.byTheme.dropAll(c)
	delete(ix.unconstrained, c)
}

// set records themes as the scope of c.
func (ix *ScopedIndex) set(c tm.Construct, themes []*tm.Topic) {
	if len(themes) == 0 {
		ix.unconstrained[c] = struct{}{}
		return
	}
	delete(ix.unconstrained, c)
	for _, th := range themes {
		ix.byTheme.add(th, c)
	}
}

func (ix *ScopedIndex) handle(e tm.Event) error {
	switch e.Kind {
	case tm.EventConstructAdded:
		if c, ok := eventConstruct(e); ok {
			walk(c, ix.add)
		}
	case tm.EventConstructRemoved:
		if c, ok := eventConstruct(e); ok {
			walk(c, ix.drop)
		}
	case tm.EventScopeChanged:
		if e.Source.Removed() {
			break
		}
		old, _ := e.Old.([]*tm.Topic)
		themes, _ := e.New.([]*tm.Topic)
		for _, th := range old {
			ix.byTheme.drop(th, e.Source)
		}
		ix.set(e.Source, themes)
	case tm.EventTopicsMerged:
		if t, ok := e.Old.(*tm.Topic); ok {
			delete(ix.byTheme, t)
		}
	}
	return nil
}
