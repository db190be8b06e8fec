// Package classify implements the ai_classifier node.
package classify

import (
	"context"

	"github.com/viant/chatflow/classifier"
	"github.com/viant/chatflow/model"
	"github.com/viant/chatflow/model/types"
	"github.com/viant/chatflow/runtime/execution"
)

// Service detects the message intent and routes by it.
type Service struct{}

func (s *Service) Type() model.NodeType {
	return model.NodeTypeAIClassifier
}

// Handle records intent and confidence, then resolves successors through
// the intent map, the default branch, or none.
func (s *Service) Handle(_ context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome {
	config, err := types.ConfigOf[*model.ClassifierConfig](node)
	if err != nil {
		return execution.Fail(execution.NewHandlerError(node.ID, err))
	}
	result := classifier.Classify(execCtx.Text, config.Classifier())
	execCtx.SetIntent(result.Intent, result.Confidence)
	return execution.Continue(node.Route(result.Intent)...)
}

// New creates a classifier handler
func New() *Service {
	return &Service{}
}
