package tmdoc

import (
	"fmt"

	"github.com/roach88/tmengine/internal/iri"
	"github.com/roach88/tmengine/internal/tm"
)

// Import adds the constructs of doc to m. Topics sharing an identity with
// a topic of m merge with it, and duplicates are removed.
//
// The document is validated first. On any error m is left unchanged.
func Import(m *tm.TopicMap, doc *Document) error {
	if errs := Validate(doc); len(errs) > 0 {
		return fmt.Errorf("import: %w", ValidationErrors(errs))
	}

	base := doc.Base
	if base == "" {
		base = m.IRI()
	}
	im := &importer{
		m:      tm.New(tm.WithIRI(base), tm.WithLogger(m.Logger())),
		base:   base,
		topics: make(map[string]*tm.Topic, len(doc.Topics)),
	}
	if err := im.build(doc); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if err := m.MergeIn(im.m); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return nil
}

// importer builds a document into a scratch map.
type importer struct {
	m      *tm.TopicMap
	base   string
	topics map[string]*tm.Topic
}

func (im *importer) build(doc *Document) error {
	for i := range doc.Topics {
		td := &doc.Topics[i]
		t, err := im.createTopic(td)
		if err != nil {
			return fmt.Errorf("topic %q: %w", td.ID, err)
		}
		im.topics[td.ID] = t
	}
	for i := range doc.Topics {
		td := &doc.Topics[i]
		if err := im.characteristics(td); err != nil {
			return fmt.Errorf("topic %q: %w", td.ID, err)
		}
	}
	for i := range doc.Associations {
		if err := im.association(&doc.Associations[i]); err != nil {
			return fmt.Errorf("association %d: %w", i, err)
		}
	}

	if err := im.identify(im.m, doc.ItemIdentifiers); err != nil {
		return err
	}
	if err := im.reify(im.m, doc.Reifier); err != nil {
		return err
	}

	// Reifies references are item identifiers, so they resolve only once
	// every construct carries its identities.
	for i := range doc.Topics {
		td := &doc.Topics[i]
		if td.Reifies == "" {
			continue
		}
		if err := im.reifies(td); err != nil {
			return fmt.Errorf("topic %q: %w", td.ID, err)
		}
	}
	return nil
}

func (im *importer) createTopic(td *TopicDoc) (*tm.Topic, error) {
	t, err := im.m.CreateTopic()
	if err != nil {
		return nil, err
	}
	add := []struct {
		iris []string
		fn   func(string) error
	}{
		{td.SubjectIdentifiers, t.AddSubjectIdentifier},
		{td.SubjectLocators, t.AddSubjectLocator},
		{td.ItemIdentifiers, t.AddItemIdentifier},
	}
	for _, a := range add {
		for _, raw := range a.iris {
			abs, err := im.resolve(raw)
			if err != nil {
				return nil, err
			}
			if err := a.fn(abs); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func (im *importer) characteristics(td *TopicDoc) error {
	t := im.topics[td.ID]

	for _, typ := range td.Types {
		if err := t.AddType(im.topics[typ]); err != nil {
			return err
		}
	}

	for _, nd := range td.Names {
		n, err := t.CreateName(nd.Value, im.topic(nd.Type), im.themes(nd.Scope)...)
		if err != nil {
			return err
		}
		if err := im.finish(n, nd.ItemIdentifiers, nd.Reifier); err != nil {
			return err
		}
		for _, vd := range nd.Variants {
			dt, err := im.datatype(vd.Datatype)
			if err != nil {
				return err
			}
			v, err := n.CreateVariant(vd.Value, dt, im.themes(vd.Scope)...)
			if err != nil {
				return err
			}
			if err := im.finish(v, vd.ItemIdentifiers, vd.Reifier); err != nil {
				return err
			}
		}
	}

	for _, od := range td.Occurrences {
		dt, err := im.datatype(od.Datatype)
		if err != nil {
			return err
		}
		o, err := t.CreateOccurrence(im.topics[od.Type], od.Value, dt, im.themes(od.Scope)...)
		if err != nil {
			return err
		}
		if err := im.finish(o, od.ItemIdentifiers, od.Reifier); err != nil {
			return err
		}
	}
	return nil
}

func (im *importer) association(ad *AssociationDoc) error {
	a, err := im.m.CreateAssociation(im.topics[ad.Type], im.themes(ad.Scope)...)
	if err != nil {
		return err
	}
	for _, rd := range ad.Roles {
		r, err := a.CreateRole(im.topics[rd.Type], im.topics[rd.Player])
		if err != nil {
			return err
		}
		if err := im.finish(r, rd.ItemIdentifiers, rd.Reifier); err != nil {
			return err
		}
	}
	return im.finish(a, ad.ItemIdentifiers, ad.Reifier)
}

// finish attaches item identifiers and the reifier of a new construct.
func (im *importer) finish(c tm.Reifiable, iids []string, reifier string) error {
	if err := im.identify(c, iids); err != nil {
		return err
	}
	return im.reify(c, reifier)
}

func (im *importer) identify(c tm.Construct, iids []string) error {
	for _, raw := range iids {
		abs, err := im.resolve(raw)
		if err != nil {
			return err
		}
		if err := c.AddItemIdentifier(abs); err != nil {
			return err
		}
	}
	return nil
}

func (im *importer) reify(c tm.Reifiable, id string) error {
	if id == "" {
		return nil
	}
	return c.SetReifier(im.topics[id])
}

func (im *importer) reifies(td *TopicDoc) error {
	abs, err := im.resolve(td.Reifies)
	if err != nil {
		return err
	}
	c := im.m.ConstructByItemIdentifier(abs)
	if c == nil {
		return fmt.Errorf("reifies %q: no construct has this item identifier", abs)
	}
	r, ok := c.(tm.Reifiable)
	if !ok {
		return fmt.Errorf("reifies %q: a %s cannot be reified", abs, c.Kind())
	}
	return r.SetReifier(im.topics[td.ID])
}

// topic returns the topic for a document id, or nil for an empty id.
func (im *importer) topic(id string) *tm.Topic {
	if id == "" {
		return nil
	}
	return im.topics[id]
}

func (im *importer) themes(ids []string) []*tm.Topic {
	out := make([]*tm.Topic, len(ids))
	for i, id := range ids {
		out[i] = im.topics[id]
	}
	return out
}

func (im *importer) resolve(ref string) (string, error) {
	abs, err := iri.Resolve(im.base, ref)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", ref, err)
	}
	return abs, nil
}

func (im *importer) datatype(dt string) (string, error) {
	if dt == "" {
		return "", nil
	}
	return im.resolve(dt)
}
