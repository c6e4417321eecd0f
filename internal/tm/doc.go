// Package tm implements an in-memory Topic Maps Data Model engine.
//
// A TopicMap owns topics and associations; topics own names and
// occurrences; names own variants; associations own roles. Every
// construct carries item identifiers, and topics additionally carry
// subject identifiers and subject locators.
//
// ARCHITECTURE:
//
// Identity Registry:
// One registry per map indexes every identity IRI. Binding an identity
// that another topic already holds merges the two topics instead of
// failing. Collisions that cannot be merged (a non-topic involved, or a
// subject identifier meeting a subject locator) fail with an identity
// violation.
//
// Merge Cascade:
// A merge can expose new collisions. Pending merges are kept on a FIFO
// worklist and processed until none remain, then duplicates around every
// survivor are removed. The number of pairwise merges per call is bounded
// by WithMaxCascade.
//
// Change Notification:
// Every primitive change dispatches one Event on the map's Bus before it
// is applied. Handlers run synchronously on the caller's stack.
//
// CRITICAL PATTERNS:
//
// Atomic Calls:
// Every exported mutating method runs as one transaction. Each primitive
// records its undo step; on any error (including a handler error) the
// steps are undone in reverse order and compensating events are
// dispatched. A failed call leaves the map exactly as it was.
//
// Non-Reentrant:
// A mutating call made while another one is running on the same map fails
// with a usage error. This covers handlers that try to mutate the map
// that notified them.
//
// Stable Handles:
// A *Topic merged into another keeps working and forwards to the
// survivor. Identifiers are never reused.
package tm
