package send

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/chatflow/model"
	"github.com/viant/chatflow/runtime/execution"
	"github.com/viant/chatflow/service/delivery"
)

type failingClient struct{}

func (f *failingClient) Send(context.Context, *delivery.Message) error {
	return &delivery.StatusError{Code: 500}
}

func newNode(t *testing.T) *model.Node {
	config := &model.APISenderConfig{APIEndpoint: "https://api.example.com/messages", Headers: map[string]string{"Authorization": "Bearer {{WHATSAPP_TOKEN}}"}, Timeout: "5s"}
	require.NoError(t, config.Init())
	return model.NewNode("whatsapp_sender", model.NodeTypeAPISender, config, model.SequentialOf("activity_logger"))
}

func TestService_Handle(t *testing.T) {
	sandbox := delivery.NewSandbox()
	execCtx := execution.NewContext("exec-1", time.Now(), &execution.Input{SenderID: "+62812345678"})
	execCtx.FormattedResponse = "Salam"
	outcome := New(sandbox).Handle(context.Background(), newNode(t), execCtx)
	require.False(t, outcome.Failed())
	assert.Equal(t, "activity_logger", outcome.NextID())

	messages := sandbox.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "+62812345678", messages[0].Phone)
	assert.Equal(t, "Salam", messages[0].Text)
	assert.Equal(t, "text", messages[0].Type)
	assert.Equal(t, "exec-1", messages[0].ExecutionID)
	assert.Equal(t, 5*time.Second, messages[0].Timeout)
	assert.Equal(t, "https://api.example.com/messages", messages[0].Endpoint)
}

func TestService_Failures(t *testing.T) {
	testCases := []struct {
		description string
		client      delivery.Client
		expectErr   string
	}{
		{description: "delivery failure", client: &failingClient{}, expectErr: "API call failed: 500"},
		{description: "no client", expectErr: "API sender error: no delivery client"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			outcome := New(tc.client).Handle(context.Background(), newNode(t), execution.NewContext("id", time.Now(), nil))
			var handlerErr *execution.HandlerError
			require.True(t, errors.As(outcome.Err, &handlerErr))
			assert.Equal(t, "whatsapp_sender", handlerErr.Node)
			assert.Equal(t, tc.expectErr, outcome.Err.Error())
		})
	}
}
