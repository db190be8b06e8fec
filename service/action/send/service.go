// Package send implements the api_sender node.
package send

import (
	"context"
	"fmt"

	"github.com/viant/chatflow/model"
	"github.com/viant/chatflow/model/types"
	"github.com/viant/chatflow/runtime/execution"
	"github.com/viant/chatflow/service/delivery"
)

// Service hands the formatted reply to the delivery client.
type Service struct {
	client delivery.Client
}

func (s *Service) Type() model.NodeType {
	return model.NodeTypeAPISender
}

func (s *Service) Handle(ctx context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome {
	config, err := types.ConfigOf[*model.APISenderConfig](node)
	if err != nil {
		return execution.Fail(execution.NewHandlerError(node.ID, err))
	}
	if s.client == nil {
		return execution.Fail(execution.NewHandlerError(node.ID, fmt.Errorf("API sender error: no delivery client")))
	}
	message := delivery.NewTextMessage(execCtx.SenderID, execCtx.FormattedResponse)
	message.ExecutionID = execCtx.ExecutionID
	message.Endpoint = config.APIEndpoint
	message.Headers = config.Headers
	message.Timeout = config.TimeoutDuration()
	if err = s.client.Send(ctx, message); err != nil {
		return execution.Fail(execution.NewHandlerError(node.ID, err))
	}
	return execution.Continue(node.Next()...)
}

// New creates a sender handler
func New(client delivery.Client) *Service {
	return &Service{client: client}
}
