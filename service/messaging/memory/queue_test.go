package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Phone string
	Text  string
}

func TestQueue_PublishConsume(t *testing.T) {
	ctx := context.Background()
	queue := NewQueue[payload](DefaultConfig())
	require.NoError(t, queue.Publish(ctx, &payload{Phone: "+6281", Text: "jadwal shalat"}))
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, "jadwal shalat", message.T().Text)
	assert.NoError(t, message.Ack())
	assert.ErrorIs(t, message.Ack(), ErrProcessed)
	assert.ErrorIs(t, message.Nack(errors.New("late")), ErrProcessed)
}

func TestQueue_Retry(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	queue := NewQueue[payload](Config{MaxRetries: 2, RetryDelay: time.Millisecond, QueueBuffer: 4})
	require.NoError(t, queue.Publish(ctx, &payload{Text: "donasi"}))

	deliveries := 0
	for i := 0; i < 3; i++ {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		deliveries++
		require.NoError(t, message.Nack(errors.New("API call failed: 500")))
	}
	assert.Equal(t, 3, deliveries)
	letters := queue.DeadLetters()
	require.Len(t, letters, 1)
	assert.Equal(t, "donasi", letters[0].Payload.Text)
	assert.EqualError(t, letters[0].Err, "API call failed: 500")
}

func TestQueue_Backpressure(t *testing.T) {
	queue := NewQueue[payload](Config{QueueBuffer: 1})
	require.NoError(t, queue.TryPublish(&payload{Text: "a"}))
	assert.ErrorIs(t, queue.TryPublish(&payload{Text: "b"}), ErrFull)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, queue.Publish(ctx, &payload{Text: "c"}), context.Canceled)
	_, err := NewQueue[payload](Config{}).Consume(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
