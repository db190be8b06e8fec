// Package validate implements the processor node: the input gate every
// execution passes first.
package validate

import (
	"context"
	"strings"

	"github.com/viant/chatflow/model"
	"github.com/viant/chatflow/model/types"
	"github.com/viant/chatflow/runtime/execution"
)

// Service validates required input fields and the sender id format.
type Service struct{}

func (s *Service) Type() model.NodeType {
	return model.NodeTypeProcessor
}

// Handle fails with a *execution.ValidationError on the first violation.
func (s *Service) Handle(_ context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome {
	config, err := types.ConfigOf[*model.ProcessorConfig](node)
	if err != nil {
		return execution.Fail(execution.NewHandlerError(node.ID, err))
	}
	for _, field := range config.Validation.Required {
		if value, _ := execCtx.Field(field); value == "" {
			return execution.Fail(execution.NewValidationError(node.ID, "%s required", label(field)))
		}
	}
	if pattern := config.Validation.PhonePattern(); pattern != nil && execCtx.SenderID != "" {
		if !pattern.MatchString(execCtx.SenderID) {
			return execution.Fail(execution.NewValidationError(node.ID, "Invalid phone format"))
		}
	}
	return execution.Continue(node.Next()...)
}

// label turns phone_number into "Phone number".
func label(field string) string {
	text := strings.ReplaceAll(field, "_", " ")
	if text == "" {
		return text
	}
	return strings.ToUpper(text[:1]) + text[1:]
}

// New creates a processor handler
func New() *Service {
	return &Service{}
}
