// Package activity implements the logger node, the terminal audit step.
package activity

import (
	"context"

	"github.com/viant/chatflow/internal/clock"
	"github.com/viant/chatflow/model"
	"github.com/viant/chatflow/model/types"
	"github.com/viant/chatflow/runtime/execution"
	"github.com/viant/chatflow/service/audit"
)

// Service appends one audit record per execution.
type Service struct {
	sink audit.Sink
}

func (s *Service) Type() model.NodeType {
	return model.NodeTypeLogger
}

// Handle records the activity and ends the traversal.
func (s *Service) Handle(ctx context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome {
	config, err := types.ConfigOf[*model.LoggerConfig](node)
	if err != nil {
		return execution.Fail(execution.NewHandlerError(node.ID, err))
	}
	if s.sink == nil {
		return execution.Continue()
	}
	if err = s.sink.Append(ctx, NewRecord(execCtx, config.LogFile)); err != nil {
		return execution.Fail(execution.NewHandlerError(node.ID, err))
	}
	return execution.Continue()
}

// NewRecord builds an audit record from the execution context.
func NewRecord(execCtx *execution.Context, target string) *audit.Record {
	now := clock.Now()
	ret := &audit.Record{
		Timestamp:   now,
		ExecutionID: execCtx.ExecutionID,
		UserPhone:   execCtx.SenderID,
		Status:      audit.StatusSuccess,
		Target:      target,
	}
	if execCtx.Intent != "" {
		intent := execCtx.Intent
		ret.Intent = &intent
	}
	if execCtx.Failed() {
		ret.Status = audit.StatusError
	}
	if !execCtx.StartedAt.IsZero() {
		ret.ProcessingTime = now.Sub(execCtx.StartedAt).Seconds()
	}
	return ret
}

// New creates a logger handler; a nil sink makes the node a no-op.
func New(sink audit.Sink) *Service {
	return &Service{sink: sink}
}
