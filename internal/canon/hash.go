package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes.
// Version suffix enables future algorithm migration.
const (
	DomainSignature = "tmengine/signature/v1"
	DomainDocument  = "tmengine/document/v1"
)

// Digest computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func Digest(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash marshals v canonically and digests it under domain.
func Hash(domain string, v Value) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return Digest(domain, b), nil
}
