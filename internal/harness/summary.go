package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/tmengine/internal/tm"
)

// TopicRef returns the reference used for t in summaries: its first
// subject identifier, subject locator or item identifier, or "t<id>" when
// it has none.
func TopicRef(t *tm.Topic) string {
	if t == nil {
		return "-"
	}
	if sids := t.SubjectIdentifiers(); len(sids) > 0 {
		return "sid:" + sids[0]
	}
	if slos := t.SubjectLocators(); len(slos) > 0 {
		return "slo:" + slos[0]
	}
	if iids := t.ItemIdentifiers(); len(iids) > 0 {
		return "iid:" + iids[0]
	}
	return fmt.Sprintf("t%d", t.ID())
}

// Summarize renders m as text. Topics and associations are ordered by
// their rendering rather than by id, so two maps holding the same
// identified content produce the same summary.
func Summarize(alias string, m *tm.TopicMap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "map %s %s\n", alias, m.IRI())
	fmt.Fprintf(&b, "topics %d\n", m.TopicCount())
	fmt.Fprintf(&b, "associations %d\n", m.AssociationCount())
	if r := m.Reifier(); r != nil {
		fmt.Fprintf(&b, "reifier %s\n", TopicRef(r))
	}
	for _, id := range m.ItemIdentifiers() {
		fmt.Fprintf(&b, "iid %s\n", id)
	}

	blocks := make([]string, 0, m.TopicCount()+m.AssociationCount())
	topics := make([]string, 0, m.TopicCount())
	for _, t := range m.Topics() {
		topics = append(topics, topicBlock(t))
	}
	slices.Sort(topics)
	blocks = append(blocks, topics...)

	assocs := make([]string, 0, m.AssociationCount())
	for _, a := range m.Associations() {
		assocs = append(assocs, associationBlock(a))
	}
	slices.Sort(assocs)
	blocks = append(blocks, assocs...)

	for _, block := range blocks {
		b.WriteString("\n")
		b.WriteString(block)
	}
	return b.String()
}

func topicBlock(t *tm.Topic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "topic %s\n", TopicRef(t))
	for _, id := range t.SubjectIdentifiers() {
		fmt.Fprintf(&b, "  sid %s\n", id)
	}
	for _, id := range t.SubjectLocators() {
		fmt.Fprintf(&b, "  slo %s\n", id)
	}
	for _, id := range t.ItemIdentifiers() {
		fmt.Fprintf(&b, "  iid %s\n", id)
	}
	if r := t.Reified(); r != nil {
		fmt.Fprintf(&b, "  reifies %s\n", describe(r))
	}

	names := make([]string, 0, len(t.Names()))
	for _, n := range t.Names() {
		line := fmt.Sprintf("  name %q type %s%s%s\n",
			n.Value(), TopicRef(n.Type()), scopeSuffix(n.Scope()), reifierSuffix(n.Reifier()))
		variants := make([]string, 0, len(n.Variants()))
		for _, v := range n.Variants() {
			variants = append(variants, fmt.Sprintf("    variant %q%s%s%s\n",
				v.Value(), datatypeSuffix(v.Datatype()), scopeSuffix(v.Scope()), reifierSuffix(v.Reifier())))
		}
		slices.Sort(variants)
		names = append(names, line+strings.Join(variants, ""))
	}
	slices.Sort(names)
	for _, n := range names {
		b.WriteString(n)
	}

	occs := make([]string, 0, len(t.Occurrences()))
	for _, o := range t.Occurrences() {
		occs = append(occs, fmt.Sprintf("  occurrence %q type %s%s%s%s\n",
			o.Value(), TopicRef(o.Type()), datatypeSuffix(o.Datatype()), scopeSuffix(o.Scope()), reifierSuffix(o.Reifier())))
	}
	slices.Sort(occs)
	for _, o := range occs {
		b.WriteString(o)
	}
	return b.String()
}

func associationBlock(a *tm.Association) string {
	var b strings.Builder
	fmt.Fprintf(&b, "association %s%s%s\n", TopicRef(a.Type()), scopeSuffix(a.Scope()), reifierSuffix(a.Reifier()))
	roles := make([]string, 0, len(a.Roles()))
	for _, r := range a.Roles() {
		roles = append(roles, fmt.Sprintf("  role %s %s%s\n", TopicRef(r.Type()), TopicRef(r.Player()), reifierSuffix(r.Reifier())))
	}
	slices.Sort(roles)
	for _, r := range roles {
		b.WriteString(r)
	}
	return b.String()
}

// describe names a reified construct by kind and, where it has one, its
// first item identifier.
func describe(c tm.Construct) string {
	if iids := c.ItemIdentifiers(); len(iids) > 0 {
		return c.Kind().String() + " iid:" + iids[0]
	}
	return c.Kind().String()
}

func scopeSuffix(themes []*tm.Topic) string {
	if len(themes) == 0 {
		return ""
	}
	refs := make([]string, len(themes))
	for i, th := range themes {
		refs[i] = TopicRef(th)
	}
	slices.Sort(refs)
	return " scope [" + strings.Join(refs, " ") + "]"
}

func datatypeSuffix(dt string) string {
	if dt == "" || dt == tm.XSDString {
		return ""
	}
	return " datatype " + dt
}

func reifierSuffix(t *tm.Topic) string {
	if t == nil {
		return ""
	}
	return " reifier " + TopicRef(t)
}
