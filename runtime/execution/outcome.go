package execution

// Outcome is the result of a single node: either the successor ids to
// continue with, or the failure that halts the traversal.
type Outcome struct {
	Next []string
	Err  error
}

// Continue returns a successful outcome. No ids terminates the traversal.
func Continue(next ...string) *Outcome {
	return &Outcome{Next: next}
}

// Fail returns a failed outcome.
func Fail(err error) *Outcome {
	return &Outcome{Err: err}
}

// Failed reports whether the node failed.
func (o *Outcome) Failed() bool {
	return o != nil && o.Err != nil
}

// NextID returns the first successor, or "" when the traversal ends.
func (o *Outcome) NextID() string {
	if o == nil || len(o.Next) == 0 {
		return ""
	}
	return o.Next[0]
}
