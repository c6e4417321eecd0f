// Package iri normalizes the IRIs used as topic map identities.
//
// Two spellings of the same IRI must land on the same registry key, or a
// collision that should trigger a merge goes unnoticed. Normalize applies
// NFC, lower-cases the scheme and host, and converts internationalized
// host names to their ASCII form.
package iri

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrEmpty is returned for an empty or blank IRI.
	ErrEmpty = errors.New("iri: empty")

	// ErrRelative is returned when an absolute IRI is required.
	ErrRelative = errors.New("iri: not absolute")
)

// hostProfile maps host names for lookup without rejecting the
// underscores and other labels found in real-world identifiers.
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
)

// Normalize returns the canonical form of an absolute IRI.
func Normalize(raw string) (string, error) {
	s := norm.NFC.String(strings.TrimSpace(raw))
	if s == "" {
		return "", ErrEmpty
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("iri: parse %q: %w", raw, err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("%w: %q", ErrRelative, raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)

	if u.Host != "" {
		host, err := normalizeHost(u.Hostname())
		if err != nil {
			return "", fmt.Errorf("iri: host of %q: %w", raw, err)
		}
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
		if port := u.Port(); port != "" {
			host += ":" + port
		}
		u.Host = host
	}

	return norm.NFC.String(unescapeNonASCII(u.String())), nil
}

// unescapeNonASCII decodes the percent-encoded UTF-8 sequences that
// url.URL.String produces for non-ASCII characters, turning the URI back
// into an IRI. Escaped ASCII octets and sequences that are not valid UTF-8
// are left alone.
func unescapeNonASCII(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		var run []byte
		j := i
		for j+2 < len(s) && s[j] == '%' {
			c, ok := unhex(s[j+1], s[j+2])
			if !ok || c < utf8.RuneSelf {
				break
			}
			run = append(run, c)
			j += 3
		}
		if len(run) == 0 {
			b.WriteByte(s[i])
			i++
			continue
		}
		if utf8.Valid(run) {
			b.Write(run)
		} else {
			b.WriteString(s[i:j])
		}
		i = j
	}
	return b.String()
}

func unhex(hi, lo byte) (byte, bool) {
	h, ok1 := fromHex(hi)
	l, ok2 := fromHex(lo)
	return h<<4 | l, ok1 && ok2
}

func fromHex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// MustNormalize is like Normalize but panics on error.
// Use only in tests or for constants.
func MustNormalize(raw string) string {
	s, err := Normalize(raw)
	if err != nil {
		panic(err)
	}
	return s
}

func normalizeHost(host string) (string, error) {
	if isASCII(host) {
		return strings.ToLower(host), nil
	}
	return hostProfile.ToASCII(host)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Resolve resolves ref against base and normalizes the result.
// An absolute ref ignores base. A relative ref with an empty base fails.
func Resolve(base, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrEmpty
	}

	r, err := url.Parse(norm.NFC.String(ref))
	if err != nil {
		return "", fmt.Errorf("iri: parse %q: %w", ref, err)
	}
	if r.IsAbs() {
		return Normalize(ref)
	}
	if base == "" {
		return "", fmt.Errorf("%w: %q", ErrRelative, ref)
	}

	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("iri: parse base %q: %w", base, err)
	}
	return Normalize(b.ResolveReference(r).String())
}

// Local derives a short identifier from s.
//
// When s starts with base, the remainder is used with any leading '#'
// removed. Otherwise the fragment of s is used. Reports false when neither
// yields a non-empty identifier.
func Local(base, s string) (string, bool) {
	if base != "" && strings.HasPrefix(s, base) {
		rest := strings.TrimPrefix(s[len(base):], "#")
		if rest != "" {
			return rest, true
		}
	}
	if i := strings.LastIndexByte(s, '#'); i >= 0 && i < len(s)-1 {
		return s[i+1:], true
	}
	return "", false
}
