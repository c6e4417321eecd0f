// Package canon provides the canonical value model used for structural
// signatures and content hashes.
//
// Values are restricted to strings, integers, booleans, arrays and objects.
// There is no float and no null: every value that participates in a
// signature has exactly one byte representation.
//
// # Serialization
//
// Marshal produces RFC 8785 canonical JSON:
//   - Object keys sorted by UTF-16 code units
//   - No HTML escaping
//   - Strings NFC normalized, so composed and decomposed forms of the same
//     text compare equal
//
// Digest hashes canonical bytes with SHA-256 and a domain prefix. Domains
// carry a version suffix so the algorithm can change without old and new
// digests colliding.
package canon
