package index

import (
	"fmt"
	"slices"

	"github.com/roach88/tmengine/internal/tm"
)

type identityKey struct {
	kind tm.IdentityKind
	iri  string
}

// IdentityIndex mirrors the map's identity registry from identity events.
// Verify compares the mirror with the map, which makes it an audit view
// of the notification stream.
type IdentityIndex struct {
	m           *tm.TopicMap
	owners      map[identityKey]tm.Construct
	unsubscribe func()
}

// NewIdentityIndex indexes m and subscribes to its changes.
func NewIdentityIndex(m *tm.TopicMap) *IdentityIndex {
	ix := &IdentityIndex{
		m:      m,
		owners: make(map[identityKey]tm.Construct),
	}
	for _, iri := range m.ItemIdentifiers() {
		ix.owners[identityKey{tm.ItemIdentifier, iri}] = m
	}
	walkMap(m, ix.add)
	ix.unsubscribe = m.Bus().SubscribeAll(ix.handle)
	return ix
}

// Close unsubscribes the index.
func (ix *IdentityIndex) Close() {
	if ix.unsubscribe != nil {
		ix.unsubscribe()
		ix.unsubscribe = nil
	}
}

// Lookup returns the construct holding iri under kind. iri must be in
// normalized form.
func (ix *IdentityIndex) Lookup(kind tm.IdentityKind, iri string) (tm.Construct, bool) {
	c, ok := ix.owners[identityKey{kind, iri}]
	return c, ok
}

// Len returns the number of identities of kind.
func (ix *IdentityIndex) Len(kind tm.IdentityKind) int {
	n := 0
	for k := range ix.owners {
		if k.kind == kind {
			n++
		}
	}
	return n
}

// Verify returns a description of every identity on which the index and
// the map disagree. An empty result means the notification stream was
// complete.
func (ix *IdentityIndex) Verify() []string {
	var problems []string
	for k, c := range ix.owners {
		got, ok := ix.m.Lookup(k.kind, k.iri)
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s %s: indexed on %s#%d, unknown to the map", k.kind, k.iri, c.Kind(), c.ID()))
		case got != c:
			problems = append(problems, fmt.Sprintf("%s %s: indexed on %s#%d, held by %s#%d", k.kind, k.iri, c.Kind(), c.ID(), got.Kind(), got.ID()))
		}
	}

	check := func(kind tm.IdentityKind, iris []string, holder tm.Construct) {
		for _, iri := range iris {
			if c, ok := ix.owners[identityKey{kind, iri}]; !ok || c != holder {
				problems = append(problems, fmt.Sprintf("%s %s: held by %s#%d, missing from the index", kind, iri, holder.Kind(), holder.ID()))
			}
		}
	}
	check(tm.ItemIdentifier, ix.m.ItemIdentifiers(), ix.m)
	walkMap(ix.m, func(c tm.Construct) {
		check(tm.ItemIdentifier, c.ItemIdentifiers(), c)
		if t, ok := c.(*tm.Topic); ok {
			check(tm.SubjectIdentifier, t.SubjectIdentifiers(), t)
			check(tm.SubjectLocator, t.SubjectLocators(), t)
		}
	})

	slices.Sort(problems)
	return slices.Compact(problems)
}

func (ix *IdentityIndex) add(c tm.Construct) {
	for _, iri := range c.ItemIdentifiers() {
		ix.owners[identityKey{tm.ItemIdentifier, iri}] = c
	}
	if t, ok := c.(*tm.Topic); ok {
		for _, iri := range t.SubjectIdentifiers() {
			ix.owners[identityKey{tm.SubjectIdentifier, iri}] = t
		}
		for _, iri := range t.SubjectLocators() {
			ix.owners[identityKey{tm.SubjectLocator, iri}] = t
		}
	}
}

func (ix *IdentityIndex) handle(e tm.Event) error {
	switch e.Kind {
	case tm.EventIdentityAdded:
		if id, ok := e.New.(tm.Identity); ok {
			ix.owners[identityKey{id.Kind, id.IRI}] = e.Source
		}
	case tm.EventIdentityRemoved:
		if id, ok := e.Old.(tm.Identity); ok {
			delete(ix.owners, identityKey{id.Kind, id.IRI})
		}
	}
	return nil
}
