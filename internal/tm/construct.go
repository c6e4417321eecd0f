package tm

import (
	"cmp"
	"slices"
)

// Kind distinguishes the seven construct kinds.
type Kind int

const (
	KindTopicMap Kind = iota + 1
	KindTopic
	KindAssociation
	KindRole
	KindOccurrence
	KindName
	KindVariant
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindTopicMap:
		return "topicmap"
	case KindTopic:
		return "topic"
	case KindAssociation:
		return "association"
	case KindRole:
		return "role"
	case KindOccurrence:
		return "occurrence"
	case KindName:
		return "name"
	case KindVariant:
		return "variant"
	}
	return "unknown"
}

// Construct is implemented by every node of a topic map.
type Construct interface {
	// ID returns the map-local identifier. Stable for the construct's
	// lifetime and never reused.
	ID() int64

	// Kind returns the construct kind.
	Kind() Kind

	// TopicMap returns the owning map. A TopicMap returns itself.
	TopicMap() *TopicMap

	// Parent returns the owning construct, or nil for a TopicMap.
	Parent() Construct

	// ItemIdentifiers returns the item identifiers, sorted.
	ItemIdentifiers() []string

	// AddItemIdentifier binds iri as an item identifier of the construct.
	AddItemIdentifier(iri string) error

	// RemoveItemIdentifier unbinds iri. Unknown IRIs are ignored.
	RemoveItemIdentifier(iri string) error

	// Remove detaches the construct and everything it owns.
	Remove() error

	// Removed reports whether the construct has been removed or merged away.
	Removed() bool

	core() *base
}

// Typed is implemented by Association, Role, Occurrence and Name.
type Typed interface {
	Construct
	Type() *Topic
	SetType(t *Topic) error
	typeSlot() **Topic
}

// Scoped is implemented by Association, Occurrence, Name and Variant.
type Scoped interface {
	Construct
	// Scope returns the declared themes sorted by id. An empty result is
	// the unconstrained scope.
	Scope() []*Topic
	// SetScope replaces the declared themes. No themes means the
	// unconstrained scope.
	SetScope(themes ...*Topic) error
	themeSlot() *[]*Topic
}

// Reifiable is implemented by every construct except Topic.
type Reifiable interface {
	Construct
	Reifier() *Topic
	SetReifier(t *Topic) error
	reifierSlot() **Topic
}

// IdentityKind distinguishes the three identity channels.
type IdentityKind int

const (
	ItemIdentifier IdentityKind = iota + 1
	SubjectIdentifier
	SubjectLocator
)

// String returns the short identity kind name.
func (k IdentityKind) String() string {
	switch k {
	case ItemIdentifier:
		return "iid"
	case SubjectIdentifier:
		return "sid"
	case SubjectLocator:
		return "slo"
	}
	return "unknown"
}

// ParseIdentityKind parses the short names returned by IdentityKind.String.
func ParseIdentityKind(s string) (IdentityKind, bool) {
	switch s {
	case "iid":
		return ItemIdentifier, true
	case "sid":
		return SubjectIdentifier, true
	case "slo":
		return SubjectLocator, true
	}
	return 0, false
}

// Identity is an (identity kind, IRI) pair. Carried by identity events.
type Identity struct {
	Kind IdentityKind
	IRI  string
}

// Literal is a value with its datatype IRI.
type Literal struct {
	Value    string
	Datatype string
}

// base holds the state shared by all construct kinds.
type base struct {
	id      int64
	tm      *TopicMap
	iids    map[string]struct{}
	removed bool
}

func newBase(m *TopicMap) base {
	return base{
		id:   m.ids.Next(),
		tm:   m,
		iids: make(map[string]struct{}),
	}
}

func (b *base) core() *base { return b }

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// byID orders constructs by identifier, which is creation order.
func byID[T Construct](items []T) []T {
	slices.SortFunc(items, func(a, b T) int { return cmp.Compare(a.ID(), b.ID()) })
	return items
}

// sortedMembers returns the members of set ordered by id.
func sortedMembers[T interface {
	comparable
	Construct
}](set map[T]struct{}) []T {
	out := make([]T, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return byID(out)
}

func topicIDs(ts []*Topic) []int64 {
	ids := make([]int64, len(ts))
	for i, t := range ts {
		ids[i] = t.ID()
	}
	return ids
}

// themeSet deduplicates themes preserving first occurrence, then sorts by id.
func themeSet(themes []*Topic) []*Topic {
	seen := make(map[*Topic]struct{}, len(themes))
	out := make([]*Topic, 0, len(themes))
	for _, t := range themes {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return byID(out)
}

func sameThemes(a, b []*Topic) bool {
	a, b = themeSet(a), themeSet(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsTopic(ts []*Topic, t *Topic) bool {
	return slices.Contains(ts, t)
}
