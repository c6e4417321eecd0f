package tm

import (
	"github.com/roach88/tmengine/internal/canon"
)

// Signature returns the structural signature of a role, association,
// occurrence, name or variant as canonical JSON.
//
// Two constructs of the same kind are duplicates exactly when their
// signatures are equal. Topics are compared by id, scopes are compared as
// sets, and an association's roles are compared as a sorted multiset of
// role signatures. Signatures are recomputed on every call.
func Signature(c Construct) (string, error) {
	v, err := signatureValue(c)
	if err != nil {
		return "", err
	}
	b, err := canon.Marshal(v)
	if err != nil {
		return "", NewInternalError("signature of %s: %v", describe(c), err)
	}
	return string(b), nil
}

func signatureValue(c Construct) (canon.Value, error) {
	switch x := c.(type) {
	case *Role:
		return roleSignature(x)
	case *Association:
		return assocSignature(x)
	case *Occurrence:
		typ, err := sigTopic(x, "type", x.typ)
		if err != nil {
			return nil, err
		}
		return canon.Object{
			"type":     typ,
			"value":    canon.String(x.value.Value),
			"datatype": canon.String(x.value.Datatype),
			"scope":    scopeSignature(x.themes),
		}, nil
	case *Name:
		typ, err := sigTopic(x, "type", x.typ)
		if err != nil {
			return nil, err
		}
		return canon.Object{
			"type":  typ,
			"value": canon.String(x.value.Value),
			"scope": scopeSignature(x.themes),
		}, nil
	case *Variant:
		return canon.Object{
			"value":    canon.String(x.value.Value),
			"datatype": canon.String(x.value.Datatype),
			"scope":    scopeSignature(x.EffectiveScope()),
		}, nil
	case *Topic, *TopicMap:
		return nil, NewUsageError(c, "%s has no signature", c.Kind())
	}
	return nil, NewUsageError(c, "unsupported construct")
}

func roleSignature(r *Role) (canon.Value, error) {
	typ, err := sigTopic(r, "type", r.typ)
	if err != nil {
		return nil, err
	}
	player, err := sigTopic(r, "player", r.player)
	if err != nil {
		return nil, err
	}
	return canon.Object{"type": typ, "player": player}, nil
}

func assocSignature(a *Association) (canon.Value, error) {
	typ, err := sigTopic(a, "type", a.typ)
	if err != nil {
		return nil, err
	}
	roles := make(canon.Array, 0, len(a.roles))
	for r := range a.roles {
		sig, err := roleSignature(r)
		if err != nil {
			return nil, err
		}
		roles = append(roles, sig)
	}
	sorted, err := canon.SortedArray(roles)
	if err != nil {
		return nil, NewInternalError("signature of %s: %v", describe(a), err)
	}
	return canon.Object{
		"type":  typ,
		"roles": sorted,
		"scope": scopeSignature(a.themes),
	}, nil
}

// sigTopic renders a topic reference. A missing type or player means the
// structure is inconsistent.
func sigTopic(c Construct, field string, t *Topic) (canon.Value, error) {
	if t == nil {
		return nil, NewInternalError("signature of %s: %s is unset", describe(c), field)
	}
	return canon.Int(t.ID()), nil
}

func scopeSignature(themes []*Topic) canon.Value {
	return canon.Ints(topicIDs(themes)...)
}
