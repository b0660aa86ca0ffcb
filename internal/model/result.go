package model

// Result is the outcome of decoding one DBC file.
type Result struct {
	// Messages in file order.
	Messages []Message `json:"messages" yaml:"messages"`
	// Problems in detection order.
	Problems []Problem `json:"problems" yaml:"problems"`
}

// Message returns the first message with the given CAN identifier.
func (r *Result) Message(canID uint32) (*Message, bool) {
	for i := range r.Messages {
		if r.Messages[i].CanID == canID {
			return &r.Messages[i], true
		}
	}
	return nil, false
}

// Count returns the number of problems with severity s.
func (r *Result) Count(s Severity) int {
	n := 0
	for _, p := range r.Problems {
		if p.Severity == s {
			n++
		}
	}
	return n
}

// HasErrors reports whether any error-severity problem was collected.
func (r *Result) HasErrors() bool {
	return r.Count(SeverityError) > 0
}

// Worst returns the highest severity collected, or "" when there are no problems.
func (r *Result) Worst() Severity {
	var worst Severity
	for _, p := range r.Problems {
		if p.Severity.Rank() > worst.Rank() {
			worst = p.Severity
		}
	}
	return worst
}

// SignalCount returns the number of signals across all messages.
func (r *Result) SignalCount() int {
	n := 0
	for _, m := range r.Messages {
		n += len(m.Signals)
	}
	return n
}
