// Package index maintains lookup structures over a topic map, driven only
// by the map's change notifications.
//
// Each index subscribes to the map's Bus on creation and keeps itself
// current from the events it receives. None of them reads the engine's
// internal state.
//
// # Critical Patterns
//
// Prior-State Events:
//   - Events arrive before the change is applied
//   - Indexes apply the payload (Old/New) instead of re-reading the map
//   - Added and removed constructs are walked with their descendants so
//     moves and rollbacks keep the index exact
//
// Invalidation:
//   - SignatureCache drops every cached signature on every event
//   - A merged-away topic's entries are forgotten on TopicsMerged
//
// Indexes follow the map's threading model: reads must be serialized with
// mutations by the caller.
package index
