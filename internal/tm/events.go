package tm

// EventKind names a change notification.
type EventKind string

const (
	// EventConstructAdded: Source is the new parent, New the construct.
	EventConstructAdded EventKind = "construct-added"

	// EventConstructRemoved: Source is the parent, Old the construct.
	EventConstructRemoved EventKind = "construct-removed"

	// EventIdentityAdded: Source is the construct, New an Identity.
	EventIdentityAdded EventKind = "identity-added"

	// EventIdentityRemoved: Source is the construct, Old an Identity.
	EventIdentityRemoved EventKind = "identity-removed"

	// EventTypeChanged: Old and New are *Topic.
	EventTypeChanged EventKind = "type-changed"

	// EventScopeChanged: Old and New are []*Topic (declared themes).
	EventScopeChanged EventKind = "scope-changed"

	// EventValueChanged: Old and New are Literal.
	EventValueChanged EventKind = "value-changed"

	// EventReifierChanged: Old and New are *Topic, either may be nil.
	EventReifierChanged EventKind = "reifier-changed"

	// EventPlayerChanged: Source is the role, Old and New are *Topic.
	EventPlayerChanged EventKind = "player-changed"

	// EventTopicsMerged: Source is the surviving topic, Old the topic
	// merged into it. Dispatched after the merged topic has been detached.
	EventTopicsMerged EventKind = "topics-merged"

	// EventDuplicateRemoved: Source is the surviving construct, Old the
	// duplicate about to be removed.
	EventDuplicateRemoved EventKind = "duplicate-removed"
)

// Event describes one primitive change. Events are dispatched before the
// change is applied, so handlers observe the map in its prior state.
type Event struct {
	Kind   EventKind
	Source Construct
	Old    any
	New    any
}

// inverse returns the event describing the undo of e. Informational events
// have no inverse.
func (e Event) inverse() (Event, bool) {
	inv := Event{Kind: e.Kind, Source: e.Source, Old: e.New, New: e.Old}
	switch e.Kind {
	case EventConstructAdded:
		inv.Kind = EventConstructRemoved
	case EventConstructRemoved:
		inv.Kind = EventConstructAdded
	case EventIdentityAdded:
		inv.Kind = EventIdentityRemoved
	case EventIdentityRemoved:
		inv.Kind = EventIdentityAdded
	case EventTopicsMerged, EventDuplicateRemoved:
		return Event{}, false
	}
	return inv, true
}

// Handler receives events. A non-nil error aborts and rolls back the
// mutation that produced the event.
type Handler func(Event) error

type subscription struct {
	id      int
	kind    EventKind // empty matches every kind
	handler Handler
}

// Bus dispatches events synchronously to subscribed handlers in
// subscription order. Each TopicMap owns one Bus.
//
// CRITICAL: handlers run on the mutating call's stack. A handler must not
// mutate the map that dispatched the event; such calls fail with a usage
// error.
type Bus struct {
	subs   []subscription
	nextID int
}

func newBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for events of kind. Returns a function that
// removes the subscription.
func (b *Bus) Subscribe(kind EventKind, h Handler) (unsubscribe func()) {
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, kind: kind, handler: h})
	return func() { b.unsubscribe(id) }
}

// SubscribeAll registers h for every event kind.
func (b *Bus) SubscribeAll(h Handler) (unsubscribe func()) {
	return b.Subscribe("", h)
}

func (b *Bus) unsubscribe(id int) {
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	return len(b.subs)
}

// dispatch delivers e to every matching handler and stops at the first
// failure. Handlers that already accepted e then receive its inverse, so
// every subscriber ends up in the same state as if e had not been sent.
func (b *Bus) dispatch(e Event) error {
	// Handlers may unsubscribe while being called.
	subs := append([]subscription(nil), b.subs...)
	for i, s := range subs {
		if !s.matches(e.Kind) {
			continue
		}
		if err := s.handler(e); err != nil {
			b.compensate(e, subs[:i])
			return &HandlerError{Kind: e.Kind, Err: err}
		}
	}
	return nil
}

// compensate delivers the inverse of e to subs in reverse order. Errors
// are ignored, as they are during rollback.
func (b *Bus) compensate(e Event, subs []subscription) {
	inv, ok := e.inverse()
	if !ok {
		return
	}
	for i := len(subs) - 1; i >= 0; i-- {
		if subs[i].matches(inv.Kind) {
			_ = subs[i].handler(inv)
		}
	}
}

func (s subscription) matches(kind EventKind) bool {
	return s.kind == "" || s.kind == kind
}
