package iri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "unchanged", in: "http://example.org/a", want: "http://example.org/a"},
		{name: "scheme and host case", in: "HTTP://Example.ORG/Path", want: "http://example.org/Path"},
		{name: "surrounding space", in: "  http://example.org/a  ", want: "http://example.org/a"},
		{name: "port kept", in: "http://Example.org:8080/a", want: "http://example.org:8080/a"},
		{name: "fragment kept", in: "http://example.org/a#frag", want: "http://example.org/a#frag"},
		{name: "urn", in: "URN:isbn:0451450523", want: "urn:isbn:0451450523"},
		{name: "idna host", in: "http://Bücher.example/a", want: "http://xn--bcher-kva.example/a"},
		{name: "ipv6 host", in: "http://[::1]:80/x", want: "http://[::1]:80/x"},
		{name: "non-ascii path and fragment", in: "http://example.org/Stra\u00dfe#M\u00fcller", want: "http://example.org/Stra\u00dfe#M\u00fcller"},
		{name: "escaped utf-8 decoded", in: "http://example.org/M%C3%BCller", want: "http://example.org/M\u00fcller"},
		{name: "escaped ascii kept", in: "http://example.org/a%2Fb?q=%20", want: "http://example.org/a%2Fb?q=%20"},
		{name: "invalid utf-8 escape kept", in: "http://example.org/%C3x", want: "http://example.org/%C3x"},
		{name: "decomposed fragment composed", in: "http://example.org/#Mu\u0308ller", want: "http://example.org/#M\u00fcller"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	_, err := Normalize("   ")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Normalize("relative/path")
	assert.ErrorIs(t, err, ErrRelative)
}

func TestNormalize_SpellingsCollide(t *testing.T) {
	a := MustNormalize("HTTP://PSI.Example.org/topic")
	b := MustNormalize("http://psi.example.org/topic")
	assert.Equal(t, a, b)

	c := MustNormalize("http://example.org/people#M%C3%BCller")
	d := MustNormalize("http://example.org/people#M\u00fcller")
	assert.Equal(t, c, d)
}

func TestResolve(t *testing.T) {
	got, err := Resolve("http://example.org/maps/base", "#puccini")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/maps/base#puccini", got)

	got, err = Resolve("http://example.org/maps/base", "other")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/maps/other", got)

	got, err = Resolve("http://example.org/maps/base", "HTTP://Elsewhere.org/x")
	require.NoError(t, err)
	assert.Equal(t, "http://elsewhere.org/x", got)

	_, err = Resolve("", "#x")
	assert.ErrorIs(t, err, ErrRelative)
}

func TestLocal(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		in     string
		want   string
		wantOK bool
	}{
		{name: "base prefix with hash", base: "http://example.org/map", in: "http://example.org/map#tosca", want: "tosca", wantOK: true},
		{name: "base prefix plain", base: "http://example.org/map/", in: "http://example.org/map/opera", want: "opera", wantOK: true},
		{name: "fragment fallback", base: "http://example.org/map", in: "http://other.org/psi#aida", want: "aida", wantOK: true},
		{name: "base itself", base: "http://example.org/map", in: "http://example.org/map", wantOK: false},
		{name: "nothing", base: "", in: "http://other.org/psi/", wantOK: false},
		{name: "empty fragment", base: "", in: "http://other.org/psi#", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Local(tt.base, tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
