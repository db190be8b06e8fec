// Package format implements the formatter node.
package format

import (
	"context"
	"unicode/utf8"

	"github.com/viant/chatflow/model"
	"github.com/viant/chatflow/model/types"
	"github.com/viant/chatflow/runtime/execution"
)

// EmptyResponse replaces a missing reply.
const EmptyResponse = "No response generated"

// Service appends the signature and bounds the reply length.
type Service struct{}

func (s *Service) Type() model.NodeType {
	return model.NodeTypeFormatter
}

func (s *Service) Handle(_ context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome {
	config, err := types.ConfigOf[*model.FormatterConfig](node)
	if err != nil {
		return execution.Fail(execution.NewHandlerError(node.ID, err))
	}
	execCtx.FormattedResponse = Format(execCtx.FormattedResponse, config)
	return execution.Continue(node.Next()...)
}

// Format applies the formatter configuration to text.
func Format(text string, config *model.FormatterConfig) string {
	if text == "" {
		text = EmptyResponse
	}
	if config.AddSignature {
		text += config.SignatureText
	}
	return Truncate(text, config.MaxLength)
}

// Truncate bounds text to maxLength runes, ellipsis included.
func Truncate(text string, maxLength int) string {
	if maxLength <= 0 || utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	runes := []rune(text)
	keep := maxLength - len(model.Ellipsis)
	if keep < 0 {
		return string(runes[:maxLength])
	}
	return string(runes[:keep]) + model.Ellipsis
}

// New creates a formatter handler
func New() *Service {
	return &Service{}
}
