package tm

// txn records the primitive changes made by one mutating call so they can
// be undone if the call fails.
type txn struct {
	steps []step

	// absorbed maps each duplicate removed during this call to the
	// construct that absorbed it.
	absorbed map[Construct]Construct

	// quota bounds the pairwise merges of the whole call, across every
	// cascade it starts.
	quota *cascadeQuota
}

type step struct {
	event Event
	undo  func()
}

// run executes fn as one atomic mutation.
//
// On error every primitive applied by fn is undone in reverse order and a
// compensating event is dispatched for each, so collaborators that mirror
// the map end up where they started. Errors returned by handlers during
// rollback are logged and otherwise ignored.
func (m *TopicMap) run(fn func() error) error {
	if !m.mu.TryLock() {
		return NewUsageError(m, "topic map is already being mutated")
	}
	defer m.mu.Unlock()

	m.tx = &txn{
		absorbed: make(map[Construct]Construct),
		quota:    newCascadeQuota(m.cfg.maxCascade),
	}
	defer func() { m.tx = nil }()

	err := fn()
	if err != nil {
		m.rollback()
		return err
	}
	return nil
}

func (m *TopicMap) rollback() {
	steps := m.tx.steps
	m.logger.Debug("rolling back topic map mutation", "map", m.id, "steps", len(steps))

	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		if inv, ok := s.event.inverse(); ok {
			if err := m.bus.dispatch(inv); err != nil {
				m.logger.Error("handler failed during rollback",
					"map", m.id,
					"kind", inv.Kind,
					"err", err,
				)
			}
		}
		s.undo()
	}
	m.tx.steps = nil
}

// apply dispatches ev, then performs do and records undo.
// If a handler fails, do is never called.
func (m *TopicMap) apply(ev Event, do, undo func()) error {
	if m.tx == nil {
		return NewInternalError("primitive %s applied outside a mutation", ev.Kind)
	}
	if err := m.bus.dispatch(ev); err != nil {
		return err
	}
	do()
	m.tx.steps = append(m.tx.steps, step{event: ev, undo: undo})
	return nil
}

// survivor follows duplicate absorption recorded in the current call.
func (m *TopicMap) survivor(c Construct) Construct {
	for {
		next, ok := m.tx.absorbed[c]
		if !ok {
			return c
		}
		c = next
	}
}
