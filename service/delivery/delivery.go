// Package delivery hands formatted replies to the messaging platform.
package delivery

import (
	"context"
	"time"
)

// TokenPlaceholder is replaced with the API token in header values.
const TokenPlaceholder = "{{WHATSAPP_TOKEN}}"

// Message is an outbound reply.
type Message struct {
	ExecutionID string            `json:"-"`
	Phone       string            `json:"phone"`
	Text        string            `json:"message"`
	Type        string            `json:"type"`
	Endpoint    string            `json:"-"`
	Headers     map[string]string `json:"-"`
	Timeout     time.Duration     `json:"-"`
}

// NewTextMessage creates a text reply.
func NewTextMessage(phone, text string) *Message {
	return &Message{Phone: phone, Text: text, Type: "text"}
}

// Client delivers messages.
type Client interface {
	Send(ctx context.Context, message *Message) error
}
