// Package tmdoc reads, validates, imports and exports topic map documents.
//
// A Document is a tree-shaped interchange form of a topic map. Topics are
// keyed by document-local IDs, and every topic reference inside the
// document (types, themes, players, reifiers) uses those IDs. IRIs may be
// relative to the document's base.
//
// Documents can be written in YAML, JSON or CUE; Load picks the decoder
// from the file extension.
//
// # Critical Patterns
//
// Validation Before Import:
//   - Validate runs struct-tag checks first, then reference resolution
//   - All errors are collected (not fail-fast) with E2xx codes
//   - Import refuses a document with any validation error
//
// Atomic Import:
//   - A document is built in a scratch map, then merged in with one
//     TopicMap.MergeIn call
//   - Identity collisions merge exactly as they do for map merges
//   - A failed import leaves the target map untouched
//
// Deterministic Export:
//   - Topics and associations in id order, topic keys "t<id>"
//   - Identities sorted, xsd:string datatypes omitted
//   - Hash digests the RFC 8785 canonical JSON of a document
package tmdoc
