package index

import "github.com/roach88/tmengine/internal/tm"

// SignatureCache memoizes tm.Signature. Any event empties the cache.
type SignatureCache struct {
	sigs        map[tm.Construct]string
	hits        int
	misses      int
	unsubscribe func()
}

// NewSignatureCache creates an empty cache bound to m's events.
func NewSignatureCache(m *tm.TopicMap) *SignatureCache {
	sc := &SignatureCache{sigs: make(map[tm.Construct]string)}
	sc.unsubscribe = m.Bus().SubscribeAll(sc.handle)
	return sc
}

// Close unsubscribes the cache and empties it.
func (sc *SignatureCache) Close() {
	if sc.unsubscribe != nil {
		sc.unsubscribe()
		sc.unsubscribe = nil
	}
	clear(sc.sigs)
}

// Signature returns the signature of c, computing it on a miss.
func (sc *SignatureCache) Signature(c tm.Construct) (string, error) {
	if sig, ok := sc.sigs[c]; ok {
		sc.hits++
		return sig, nil
	}
	sc.misses++
	sig, err := tm.Signature(c)
	if err != nil {
		return "", err
	}
	if sc.unsubscribe != nil {
		sc.sigs[c] = sig
	}
	return sig, nil
}

// Stats returns the hit and miss counts.
func (sc *SignatureCache) Stats() (hits, misses int) {
	return sc.hits, sc.misses
}

// Len returns the number of cached signatures.
func (sc *SignatureCache) Len() int {
	return len(sc.sigs)
}

func (sc *SignatureCache) handle(tm.Event) error {
	clear(sc.sigs)
	return nil
}
