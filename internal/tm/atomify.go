package tm

import (
	"fmt"

	"github.com/roach88/tmengine/internal/iri"
)

// Atomify returns a scalar label for c. It is a pure query.
//
// For a topic the first rule that yields a value wins:
//  1. a name of the default name type whose scope equals ctx
//  2. any name whose scope equals ctx
//  3. any name in the unconstrained scope
//  4. the local part of an item identifier, then of a subject identifier
//  5. any name
//  6. "[topic <id>]"
//
// An empty ctx is the unconstrained scope. Where several names qualify,
// the one with the lowest id is used.
//
// Names, occurrences and variants atomify to their value. An association
// atomifies to its reifier's label, or else to its type's label in the
// association's scope. A role atomifies to its player's label and the map
// to its reifier's label or its IRI.
func Atomify(c Construct, ctx ...*Topic) (string, error) {
	if c == nil {
		return "", NewUsageError(nil, "cannot atomify nil")
	}
	switch x := c.(type) {
	case *Topic:
		return atomifyTopic(x.live(), ctx), nil
	case *Name:
		return x.value.Value, nil
	case *Occurrence:
		return x.value.Value, nil
	case *Variant:
		return x.value.Value, nil
	case *Role:
		return atomifyTopic(x.player.live(), ctx), nil
	case *Association:
		if x.reifier != nil {
			return atomifyTopic(x.reifier, ctx), nil
		}
		return atomifyTopic(x.typ, x.themes), nil
	case *TopicMap:
		if x.reifier != nil {
			return atomifyTopic(x.reifier, ctx), nil
		}
		return x.iri, nil
	}
	return "", NewUsageError(c, "cannot atomify %s", c.Kind())
}

func atomifyTopic(t *Topic, ctx []*Topic) string {
	live := make([]*Topic, 0, len(ctx))
	for _, th := range ctx {
		if th != nil {
			live = append(live, th.live())
		}
	}
	ctx = themeSet(live)

	names := t.Names()
	defaultType := t.tm.reg.sids[PSITopicName]

	for _, n := range names {
		if n.typ == defaultType && sameThemes(n.themes, ctx) {
			return n.value.Value
		}
	}
	for _, n := range names {
		if sameThemes(n.themes, ctx) {
			return n.value.Value
		}
	}
	for _, n := range names {
		if len(n.themes) == 0 {
			return n.value.Value
		}
	}

	base := t.tm.iri
	for _, s := range append(sortedSet(t.iids), sortedSet(t.sids)...) {
		if local, ok := iri.Local(base, s); ok {
			return local
		}
	}

	if len(names) > 0 {
		return names[0].value.Value
	}
	return fmt.Sprintf("[topic %d]", t.id)
}
