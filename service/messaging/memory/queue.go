package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/viant/chatflow/internal/idgen"
	"github.com/viant/chatflow/service/messaging"
)

// ErrProcessed is returned when a message is acknowledged twice.
var ErrProcessed = errors.New("message already processed")

// ErrFull is returned by TryPublish when the buffer is exhausted.
var ErrFull = errors.New("queue is full")

// Config for memory queue implementation
type Config struct {
	// MaxRetries is the number of times a nacked message is redelivered
	// before it moves to the dead letter list.
	MaxRetries  int
	RetryDelay  time.Duration
	QueueBuffer int
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		RetryDelay:  100 * time.Millisecond,
		QueueBuffer: 100,
	}
}

// DeadLetter is a message that exhausted its retries.
type DeadLetter[T any] struct {
	ID      string
	Payload T
	Err     error
}

// Message implements messaging.Message for the in-memory queue
type Message[T any] struct {
	id        string
	payload   T
	queue     *Queue[T]
	attempt   int
	mux       sync.Mutex
	processed bool
}

// ID returns the message id.
func (m *Message[T]) ID() string {
	return m.id
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	return m.settle()
}

// Nack redelivers the message after the retry delay, or dead-letters it once
// retries are exhausted.
func (m *Message[T]) Nack(err error) error {
	if e := m.settle(); e != nil {
		return e
	}
	if m.attempt < m.queue.config.MaxRetries {
		retry := &Message[T]{id: m.id, payload: m.payload, queue: m.queue, attempt: m.attempt + 1}
		time.AfterFunc(m.queue.config.RetryDelay, func() {
			m.queue.messages <- retry
		})
		return nil
	}
	m.queue.mux.Lock()
	m.queue.dlq = append(m.queue.dlq, &DeadLetter[T]{ID: m.id, Payload: m.payload, Err: err})
	m.queue.mux.Unlock()
	return nil
}

func (m *Message[T]) settle() error {
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.processed {
		return ErrProcessed
	}
	m.processed = true
	return nil
}

// Queue implements an in-memory messaging.Queue
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	mux      sync.Mutex
	dlq      []*DeadLetter[T]
}

// Publish adds a new item to the queue, blocking while the buffer is full.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	select {
	case q.messages <- q.newMessage(t):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPublish adds a new item without blocking.
func (q *Queue[T]) TryPublish(t *T) error {
	select {
	case q.messages <- q.newMessage(t):
		return nil
	default:
		return ErrFull
	}
}

func (q *Queue[T]) newMessage(t *T) *Message[T] {
	return &Message[T]{id: idgen.New(), payload: *t, queue: q}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DeadLetters returns a copy of the dead letter list.
func (q *Queue[T]) DeadLetters() []*DeadLetter[T] {
	q.mux.Lock()
	defer q.mux.Unlock()
	return append([]*DeadLetter[T](nil), q.dlq...)
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{messages: make(chan *Message[T], config.QueueBuffer), config: config}
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
