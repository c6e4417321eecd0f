package tmdoc

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/tmengine/internal/canon"
	"github.com/roach88/tmengine/internal/tm"
)

// Export returns the document form of m. Topics are keyed "t1", "t2", ...
// in id order, so the result depends on the map's content and the relative
// order of its topics but not on gaps left in the ids by merges.
func Export(m *tm.TopicMap) *Document {
	topics := m.Topics()
	ex := &exporter{keys: make(map[*tm.Topic]string, len(topics))}
	for i, t := range topics {
		ex.keys[t] = fmt.Sprintf("t%d", i+1)
	}

	doc := &Document{
		Base:            m.IRI(),
		ItemIdentifiers: m.ItemIdentifiers(),
		Reifier:         ex.key(m.Reifier()),
	}
	for _, t := range topics {
		doc.Topics = append(doc.Topics, ex.topic(t))
	}
	for _, a := range m.Associations() {
		doc.Associations = append(doc.Associations, ex.association(a))
	}
	return doc
}

type exporter struct {
	keys map[*tm.Topic]string
}

func (ex *exporter) key(t *tm.Topic) string {
	if t == nil {
		return ""
	}
	return ex.keys[t]
}

// scope returns the keys of themes in key order.
func (ex *exporter) scope(ts []*tm.Topic) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = ex.key(t)
	}
	slices.SortFunc(out, func(a, b string) int {
		return cmp.Or(cmp.Compare(len(a), len(b)), strings.Compare(a, b))
	})
	return out
}

func (ex *exporter) topic(t *tm.Topic) TopicDoc {
	td := TopicDoc{
		ID:                 ex.key(t),
		SubjectIdentifiers: t.SubjectIdentifiers(),
		SubjectLocators:    t.SubjectLocators(),
		ItemIdentifiers:    t.ItemIdentifiers(),
	}
	for _, n := range t.Names() {
		nd := NameDoc{
			Value:           n.Value(),
			Type:            ex.key(n.Type()),
			Scope:           ex.scope(n.Scope()),
			Reifier:         ex.key(n.Reifier()),
			ItemIdentifiers: n.ItemIdentifiers(),
		}
		for _, v := range n.Variants() {
			nd.Variants = append(nd.Variants, VariantDoc{
				Value:           v.Value(),
				Datatype:        exportDatatype(v.Datatype()),
				Scope:           ex.scope(v.Scope()),
				Reifier:         ex.key(v.Reifier()),
				ItemIdentifiers: v.ItemIdentifiers(),
			})
		}
		td.Names = append(td.Names, nd)
	}
	for _, o := range t.Occurrences() {
		td.Occurrences = append(td.Occurrences, OccurrenceDoc{
			Type:            ex.key(o.Type()),
			Value:           o.Value(),
			Datatype:        exportDatatype(o.Datatype()),
			Scope:           ex.scope(o.Scope()),
			Reifier:         ex.key(o.Reifier()),
			ItemIdentifiers: o.ItemIdentifiers(),
		})
	}
	return td
}

func (ex *exporter) association(a *tm.Association) AssociationDoc {
	ad := AssociationDoc{
		Type:            ex.key(a.Type()),
		Scope:           ex.scope(a.Scope()),
		Reifier:         ex.key(a.Reifier()),
		ItemIdentifiers: a.ItemIdentifiers(),
		Roles:           make([]RoleDoc, 0, len(a.Roles())),
	}
	for _, r := range a.Roles() {
		ad.Roles = append(ad.Roles, RoleDoc{
			Type:            ex.key(r.Type()),
			Player:          ex.key(r.Player()),
			Reifier:         ex.key(r.Reifier()),
			ItemIdentifiers: r.ItemIdentifiers(),
		})
	}
	return ad
}

func exportDatatype(dt string) string {
	if dt == tm.XSDString {
		return ""
	}
	return dt
}

// Canonical returns the RFC 8785 canonical JSON encoding of doc.
func Canonical(doc *Document) ([]byte, error) {
	v, err := canonValue(doc)
	if err != nil {
		return nil, err
	}
	return canon.Marshal(v)
}

// Hash returns the domain-separated SHA-256 digest of doc's canonical
// JSON. Documents with equal content hash equally regardless of field
// order in their source.
func Hash(doc *Document) (string, error) {
	v, err := canonValue(doc)
	if err != nil {
		return "", err
	}
	return canon.Hash(canon.DomainDocument, v)
}

func canonValue(doc *Document) (canon.Value, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	v, err := canon.FromAny(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize document: %w", err)
	}
	return v, nil
}
