package harness

// TraceEvent records the outcome of one step.
// Keys appear by name so traces are readable and stable.
type TraceEvent struct {
	Step         int    `json:"step"`
	Slot         int64  `json:"slot"`
	Receipt      string `json:"receipt"`
	Author       string `json:"author"`
	Tweet        string `json:"tweet"`
	TopicChars   int    `json:"topic_chars"`
	ContentChars int    `json:"content_chars"`
	Timestamp    int64  `json:"timestamp"`
	Status       string `json:"status"`
	ErrorCode    string `json:"error_code,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every step expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failed expectations and assertions.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step event.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}
