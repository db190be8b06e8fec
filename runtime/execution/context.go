package execution

import (
	"time"
)

// Context is the mutable per-request record threaded through node handlers.
// It is owned by a single execution and never shared.
type Context struct {
	ExecutionID string    `json:"execution_id"`
	StartedAt   time.Time `json:"started_at"`

	SenderID    string `json:"user_phone"`
	Text        string `json:"message_text"`
	Timestamp   string `json:"timestamp"`
	Kind        string `json:"message_type"`
	MessageID   string `json:"message_id"`
	DisplayName string `json:"contact_name"`

	// Intent is empty until a classifier runs.
	Intent string `json:"intent,omitempty"`
	// Confidence is nil until a classifier runs.
	Confidence        *float64      `json:"confidence,omitempty"`
	ResponseData      interface{}   `json:"response_data,omitempty"`
	FormattedResponse string        `json:"formatted_response,omitempty"`
	ProcessingTime    time.Duration `json:"processing_time"`
	// Error is set by the first failing node; no node runs afterwards.
	Error string `json:"error,omitempty"`
}

// NewContext builds a context from the input; a nil input yields empty fields.
func NewContext(id string, startedAt time.Time, input *Input) *Context {
	ret := &Context{ExecutionID: id, StartedAt: startedAt}
	if input == nil {
		return ret
	}
	ret.SenderID = input.SenderID
	ret.Text = input.Text
	ret.Timestamp = input.Timestamp
	ret.Kind = input.Kind
	ret.MessageID = input.MessageID
	ret.DisplayName = input.DisplayName
	return ret
}

// Failed reports whether a node failed.
func (c *Context) Failed() bool {
	return c.Error != ""
}

// SetIntent records the classification outcome.
func (c *Context) SetIntent(intent string, confidence float64) {
	c.Intent = intent
	c.Confidence = &confidence
}

// SetResponse records the rendered reply and its source data.
func (c *Context) SetResponse(data interface{}, text string) {
	c.ResponseData = data
	c.FormattedResponse = text
}

// Field returns an input field by its wire name.
func (c *Context) Field(name string) (string, bool) {
	switch name {
	case "phone_number", "user_phone":
		return c.SenderID, true
	case "message_text":
		return c.Text, true
	case "timestamp":
		return c.Timestamp, true
	case "message_type":
		return c.Kind, true
	case "message_id":
		return c.MessageID, true
	case "contact_name":
		return c.DisplayName, true
	}
	return "", false
}

// Clone returns a shallow copy safe to hand out after the execution ends.
func (c *Context) Clone() *Context {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Confidence != nil {
		confidence := *c.Confidence
		clone.Confidence = &confidence
	}
	return &clone
}
