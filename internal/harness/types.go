package harness

// TraceEvent is one change notification observed while a scenario ran.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Map    string `json:"map"`
	Kind   string `json:"kind"`
	Source string `json:"source"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step behaved as expected and every
	// assertion held.
	Pass bool `json:"pass"`

	// Trace holds the events dispatched by the steps, in order. Events
	// produced while the maps were built are not traced.
	Trace []TraceEvent `json:"trace"`

	// Errors contains step and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Summary is the deterministic rendering of every map after the
	// steps ran. Golden files compare against it.
	Summary string `json:"summary"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event to the trace.
func (r *Result) AddTrace(alias, kind, source string) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:    int64(len(r.Trace) + 1),
		Map:    alias,
		Kind:   kind,
		Source: source,
	})
}
