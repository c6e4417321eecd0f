package tm

import "fmt"

// cascadeQuota bounds the pairwise merges of one mutating call.
//
// Each pairwise merge removes a topic, so a cascade over a finite map
// always terminates. Hitting the bound therefore means the engine itself
// is looping, and is reported as an internal error.
type cascadeQuota struct {
	max     int
	current int
}

func newCascadeQuota(max int) *cascadeQuota {
	return &cascadeQuota{max: max}
}

// Check counts one merge and fails once the bound is exceeded.
func (q *cascadeQuota) Check() error {
	q.current++
	if q.current > q.max {
		err := NewInternalError("merge cascade exceeded %d steps", q.max)
		err.Details = map[string]string{
			"steps":       fmt.Sprintf("%d", q.current),
			"max_cascade": fmt.Sprintf("%d", q.max),
		}
		return err
	}
	return nil
}

// Current returns the merges counted so far.
func (q *cascadeQuota) Current() int {
	return q.current
}
