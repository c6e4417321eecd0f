package tm

// mergePair asks for source to be merged into target.
type mergePair struct {
	source *Topic
	target *Topic
}

// worklist is the FIFO of pending merges for one cascade. Merges that
// expose further collisions push onto it rather than recursing, so stack
// depth stays constant however long the chain.
type worklist struct {
	pairs []mergePair
}

func newWorklist() *worklist {
	return &worklist{pairs: make([]mergePair, 0, 8)}
}

func (w *worklist) push(source, target *Topic) {
	w.pairs = append(w.pairs, mergePair{source: source, target: target})
}

func (w *worklist) pop() (mergePair, bool) {
	if len(w.pairs) == 0 {
		return mergePair{}, false
	}
	p := w.pairs[0]
	w.pairs[0] = mergePair{}
	w.pairs = w.pairs[1:]
	return p, true
}

func (w *worklist) Len() int {
	return len(w.pairs)
}
