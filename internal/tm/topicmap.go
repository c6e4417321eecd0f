package tm

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/tmengine/internal/iri"
)

// DefaultMaxCascade bounds the number of pairwise topic merges a single
// call may perform before the engine gives up with an internal error.
const DefaultMaxCascade = 10000

// TopicMap is the root construct. It owns topics and associations, the
// identity registry, the usage indexes and the event bus.
//
// Thread-safety model:
//   - Mutating calls are serialized by the map. A call made while another
//     is running (from a handler or from a second goroutine) fails with a
//     usage error instead of blocking.
//   - Reads are not synchronized. Callers sharing a map across goroutines
//     must provide their own exclusion around reads and writes.
type TopicMap struct {
	base
	reifier *Topic

	iri    string
	logger *slog.Logger
	ids    *idClock
	bus    *Bus
	reg    *registry

	topics map[int64]*Topic
	assocs map[int64]*Association

	// Usage indexes: which attached constructs use a topic as type or theme.
	typedBy  map[*Topic]map[Construct]struct{}
	themedBy map[*Topic]map[Construct]struct{}

	mu  sync.Mutex
	tx  *txn
	cfg config
}

type config struct {
	maxCascade int
	strict     bool
}

// Option configures a TopicMap.
type Option func(*TopicMap)

// WithIRI sets the map's base IRI. Used to resolve document-relative
// references and to shorten identities during atomification.
//
// Default: "urn:uuid:" followed by a fresh UUIDv7.
func WithIRI(base string) Option {
	return func(m *TopicMap) {
		m.iri = strings.TrimSpace(base)
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *TopicMap) {
		m.logger = l
	}
}

// WithMaxCascade bounds the pairwise merges per call.
//
// Default: 10000 (DefaultMaxCascade).
// Use WithMaxCascade(1) in tests to observe the bound.
func WithMaxCascade(n int) Option {
	return func(m *TopicMap) {
		m.cfg.maxCascade = n
	}
}

// WithStrictIdentity disables merge-on-collision. Identity collisions
// between topics fail with an identity violation instead of merging.
// Explicit merges (Topic.MergeIn, TopicMap.MergeIn) are unaffected.
func WithStrictIdentity() Option {
	return func(m *TopicMap) {
		m.cfg.strict = true
	}
}

// New creates an empty topic map.
func New(opts ...Option) *TopicMap {
	m := &TopicMap{
		logger:   slog.Default(),
		ids:      newIDClock(),
		bus:      newBus(),
		reg:      newRegistry(),
		topics:   make(map[int64]*Topic),
		assocs:   make(map[int64]*Association),
		typedBy:  make(map[*Topic]map[Construct]struct{}),
		themedBy: make(map[*Topic]map[Construct]struct{}),
		cfg:      config{maxCascade: DefaultMaxCascade},
	}
	m.base = newBase(m)

	for _, opt := range opts {
		opt(m)
	}

	if m.iri == "" {
		m.iri = "urn:uuid:" + uuid.Must(uuid.NewV7()).String()
	} else if n, err := iri.Normalize(m.iri); err == nil {
		m.iri = n
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}

	return m
}

// ID returns the map's identifier.
func (m *TopicMap) ID() int64 { return m.id }

// Kind returns KindTopicMap.
func (m *TopicMap) Kind() Kind { return KindTopicMap }

// TopicMap returns m.
func (m *TopicMap) TopicMap() *TopicMap { return m }

// Parent returns nil. The map is the root.
func (m *TopicMap) Parent() Construct { return nil }

// Removed always reports false.
func (m *TopicMap) Removed() bool { return false }

// IRI returns the map's base IRI.
func (m *TopicMap) IRI() string { return m.iri }

// Bus returns the map's change notification bus.
func (m *TopicMap) Bus() *Bus { return m.bus }

// Logger returns the map's logger.
func (m *TopicMap) Logger() *slog.Logger { return m.logger }

// ItemIdentifiers returns the map's item identifiers, sorted.
func (m *TopicMap) ItemIdentifiers() []string { return sortedSet(m.iids) }

// AddItemIdentifier binds iri as an item identifier of the map.
func (m *TopicMap) AddItemIdentifier(iri string) error {
	return m.run(func() error { return m.bind(m, ItemIdentifier, iri) })
}

// RemoveItemIdentifier unbinds iri from the map.
func (m *TopicMap) RemoveItemIdentifier(iri string) error {
	return m.run(func() error { return m.unbind(m, ItemIdentifier, iri) })
}

// Remove fails: a map is discarded, not removed.
func (m *TopicMap) Remove() error {
	return NewUsageError(m, "a topic map cannot be removed")
}

// Reifier returns the topic reifying the map, or nil.
func (m *TopicMap) Reifier() *Topic { return m.reifier }

// SetReifier sets or clears (nil) the topic reifying the map.
func (m *TopicMap) SetReifier(t *Topic) error {
	return m.run(func() error { return m.assignReifier(m, t) })
}

func (m *TopicMap) reifierSlot() **Topic { return &m.reifier }

// Topics returns the live topics ordered by id.
func (m *TopicMap) Topics() []*Topic {
	out := make([]*Topic, 0, len(m.topics))
	for _, t := range m.topics {
		out = append(out, t)
	}
	return byID(out)
}

// Associations returns the live associations ordered by id.
func (m *TopicMap) Associations() []*Association {
	out := make([]*Association, 0, len(m.assocs))
	for _, a := range m.assocs {
		out = append(out, a)
	}
	return byID(out)
}

// TopicCount returns the number of live topics.
func (m *TopicMap) TopicCount() int { return len(m.topics) }

// AssociationCount returns the number of live associations.
func (m *TopicMap) AssociationCount() int { return len(m.assocs) }

// Lookup returns the construct holding iri under kind. Subject identifier
// and subject locator lookups always return a *Topic.
func (m *TopicMap) Lookup(kind IdentityKind, raw string) (Construct, bool) {
	key, err := iri.Normalize(raw)
	if err != nil {
		return nil, false
	}
	c := m.reg.lookup(kind, key)
	if c == nil {
		return nil, false
	}
	return c, true
}

// TopicBySubjectIdentifier returns the topic with subject identifier iri.
func (m *TopicMap) TopicBySubjectIdentifier(raw string) *Topic {
	if c, ok := m.Lookup(SubjectIdentifier, raw); ok {
		return c.(*Topic)
	}
	return nil
}

// TopicBySubjectLocator returns the topic with subject locator iri.
func (m *TopicMap) TopicBySubjectLocator(raw string) *Topic {
	if c, ok := m.Lookup(SubjectLocator, raw); ok {
		return c.(*Topic)
	}
	return nil
}

// ConstructByItemIdentifier returns the construct with item identifier iri.
func (m *TopicMap) ConstructByItemIdentifier(raw string) Construct {
	c, _ := m.Lookup(ItemIdentifier, raw)
	return c
}

// CreateTopic creates a topic without identities.
func (m *TopicMap) CreateTopic() (*Topic, error) {
	var t *Topic
	err := m.run(func() error {
		var err error
		t, err = m.newTopic()
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTopicBySubjectIdentifier returns the topic identified by iri,
// creating it if needed. A topic holding iri as an item identifier gains
// it as a subject identifier.
func (m *TopicMap) CreateTopicBySubjectIdentifier(iri string) (*Topic, error) {
	return m.topicByIdentity(SubjectIdentifier, iri)
}

// CreateTopicBySubjectLocator returns the topic located at iri, creating
// it if needed.
func (m *TopicMap) CreateTopicBySubjectLocator(iri string) (*Topic, error) {
	return m.topicByIdentity(SubjectLocator, iri)
}

// CreateTopicByItemIdentifier returns the topic with item identifier iri,
// creating it if needed. Fails with an identity violation if a construct
// other than a topic holds iri.
func (m *TopicMap) CreateTopicByItemIdentifier(iri string) (*Topic, error) {
	return m.topicByIdentity(ItemIdentifier, iri)
}

func (m *TopicMap) topicByIdentity(kind IdentityKind, raw string) (*Topic, error) {
	var t *Topic
	err := m.run(func() error {
		var err error
		t, err = m.getOrCreateTopic(kind, raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t.live(), nil
}

// getOrCreateTopic looks up a topic by identity, falling back to binding
// the identity to a new topic. Binding applies the usual collision rules.
func (m *TopicMap) getOrCreateTopic(kind IdentityKind, raw string) (*Topic, error) {
	key, err := m.normalizeIRI(m, raw)
	if err != nil {
		return nil, err
	}
	if c := m.reg.lookup(kind, key); c != nil {
		if t, ok := c.(*Topic); ok {
			return t.live(), nil
		}
		return nil, NewIdentityViolation(m, c, kind, key)
	}

	t, err := m.newTopic()
	if err != nil {
		return nil, err
	}
	if err := m.bind(t, kind, key); err != nil {
		return nil, err
	}
	return t.live(), nil
}

// CreateAssociation creates an association of type typ. Roles are added
// with Association.CreateRole.
func (m *TopicMap) CreateAssociation(typ *Topic, themes ...*Topic) (*Association, error) {
	var a *Association
	err := m.run(func() error {
		var err error
		a, err = m.newAssociation(typ, themes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// MergeIn merges every construct of other into m. other is not modified.
// Topics sharing an identity with a topic of m merge with it, and
// duplicates created by the merge are removed.
func (m *TopicMap) MergeIn(other *TopicMap) error {
	if other == nil {
		return NewUsageError(m, "cannot merge a nil topic map")
	}
	if other == m {
		return nil
	}
	return m.run(func() error { return m.mergeMap(other) })
}

// RemoveDuplicates removes duplicate characteristics, roles and
// associations across the whole map. Returns the number of constructs
// removed.
func (m *TopicMap) RemoveDuplicates() (int, error) {
	var removed int
	err := m.run(func() error {
		var err error
		removed, err = m.removeAllDuplicates()
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// normalizeIRI normalizes an identity IRI, reporting failures as usage
// errors against reporter.
func (m *TopicMap) normalizeIRI(reporter Construct, raw string) (string, error) {
	key, err := iri.Normalize(raw)
	if err != nil {
		return "", NewUsageError(reporter, "invalid IRI %q: %v", raw, err)
	}
	return key, nil
}
