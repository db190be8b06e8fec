package execution

import "time"

// Result is the envelope returned for every execution.
type Result struct {
	ID       string        `json:"id"`
	Success  bool          `json:"success"`
	Context  *Context      `json:"context,omitempty"`
	Duration time.Duration `json:"processing_time"`
	Error    string        `json:"error,omitempty"`
}

// Intent returns the detected intent, if any.
func (r *Result) Intent() string {
	if r == nil || r.Context == nil {
		return ""
	}
	return r.Context.Intent
}

// Response returns the formatted reply, if any.
func (r *Result) Response() string {
	if r == nil || r.Context == nil {
		return ""
	}
	return r.Context.FormattedResponse
}
