package delivery

import (
	"context"
	"log/slog"
	"sync"

	"github.com/viant/chatflow/internal/logging"
)

// Sandbox records messages instead of sending them; Send always succeeds.
type Sandbox struct {
	mux      sync.Mutex
	messages []*Message
	logger   *slog.Logger
}

// Send records the intent to send.
func (s *Sandbox) Send(_ context.Context, message *Message) error {
	clone := *message
	s.mux.Lock()
	s.messages = append(s.messages, &clone)
	s.mux.Unlock()
	s.logger.Info("[DEMO] would send message", "phone", message.Phone, "message", message.Text)
	return nil
}

// Messages returns recorded messages.
func (s *Sandbox) Messages() []*Message {
	s.mux.Lock()
	defer s.mux.Unlock()
	return append([]*Message(nil), s.messages...)
}

// NewSandbox creates a sandbox client.
func NewSandbox() *Sandbox {
	return &Sandbox{logger: logging.New("delivery.sandbox")}
}
