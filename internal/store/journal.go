package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/tmengine/internal/tm"
)

// EventRecord is one journaled change notification.
type EventRecord struct {
	Seq        int64  `json:"seq"`
	MapIRI     string `json:"map_iri"`
	Kind       string `json:"kind"`
	SourceKind string `json:"source_kind"`
	SourceID   int64  `json:"source_id"`
	Old        string `json:"old,omitempty"`
	New        string `json:"new,omitempty"`
}

// Journal appends every event of one topic map to the store.
//
// The journal is a synchronous bus subscriber: each event is written
// before the change it describes is applied, and a failed write aborts
// (and rolls back) the mutation. Compensating events dispatched during a
// rollback are journaled like any other.
type Journal struct {
	store       *Store
	ctx         context.Context
	mapIRI      string
	count       int
	unsubscribe func()
}

// Attach subscribes a journal to m. ctx bounds every write made by the
// journal until Detach.
func (s *Store) Attach(ctx context.Context, m *tm.TopicMap) *Journal {
	j := &Journal{store: s, ctx: ctx, mapIRI: m.IRI()}
	j.unsubscribe = m.Bus().SubscribeAll(j.handle)
	return j
}

// Detach stops journaling.
func (j *Journal) Detach() {
	if j.unsubscribe != nil {
		j.unsubscribe()
		j.unsubscribe = nil
	}
}

// Count returns the number of events written by this journal.
func (j *Journal) Count() int {
	return j.count
}

func (j *Journal) handle(e tm.Event) error {
	rec := EventRecord{
		MapIRI:     j.mapIRI,
		Kind:       string(e.Kind),
		SourceKind: e.Source.Kind().String(),
		SourceID:   e.Source.ID(),
		Old:        encodeValue(e.Old),
		New:        encodeValue(e.New),
	}
	if err := j.store.AppendEvent(j.ctx, rec); err != nil {
		return err
	}
	j.count++
	return nil
}

// AppendEvent inserts rec, ignoring its Seq. The store assigns the seq.
func (s *Store) AppendEvent(ctx context.Context, rec EventRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (map_iri, kind, source_kind, source_id, old_value, new_value)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.MapIRI, rec.Kind, rec.SourceKind, rec.SourceID, rec.Old, rec.New)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// ReadEvents returns the journal of the map with base IRI mapIRI.
// Results are ordered by seq.
//
// Returns an empty slice (not nil) if no events exist for the map.
func (s *Store) ReadEvents(ctx context.Context, mapIRI string) ([]EventRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, map_iri, kind, source_kind, source_id, old_value, new_value
		FROM events
		WHERE map_iri = ?
		ORDER BY seq ASC
	`, mapIRI)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	records := []EventRecord{}
	for rows.Next() {
		var rec EventRecord
		if err := rows.Scan(&rec.Seq, &rec.MapIRI, &rec.Kind, &rec.SourceKind, &rec.SourceID, &rec.Old, &rec.New); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return records, nil
}

// encodeValue renders an event payload as text.
//
// Encodings:
//   - construct: kind#id
//   - theme list: [topic#2 topic#5]
//   - identity: kind:IRI
//   - literal: "value"^^<datatype>
//   - nil: empty string
func encodeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case *tm.Topic:
		if val == nil {
			return ""
		}
		return constructRef(val)
	case []*tm.Topic:
		refs := make([]string, len(val))
		for i, t := range val {
			refs[i] = constructRef(t)
		}
		return "[" + strings.Join(refs, " ") + "]"
	case tm.Identity:
		return val.Kind.String() + ":" + val.IRI
	case tm.Literal:
		return fmt.Sprintf("%q^^<%s>", val.Value, val.Datatype)
	case tm.Construct:
		return constructRef(val)
	}
	return fmt.Sprintf("%v", v)
}

func constructRef(c tm.Construct) string {
	return fmt.Sprintf("%s#%d", c.Kind(), c.ID())
}
