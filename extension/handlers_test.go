package extension

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/chatflow/model"
	"github.com/viant/chatflow/model/types"
	"github.com/viant/chatflow/runtime/execution"
)

func TestHandlers(t *testing.T) {
	logger := types.NewHandler(model.NodeTypeLogger, func(ctx context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome {
		return execution.Continue()
	})
	formatter := types.NewHandler(model.NodeTypeFormatter, func(ctx context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome {
		return execution.Continue("next")
	})
	registry := NewHandlers(logger, nil, formatter)
	assert.Equal(t, []model.NodeType{model.NodeTypeFormatter, model.NodeTypeLogger}, registry.Types())
	assert.NotNil(t, registry.Lookup(model.NodeTypeLogger))
	assert.Nil(t, registry.Lookup(model.NodeTypeProcessor))

	workflow := model.NewWorkflow("test", "1.0")
	workflow.AddNode(model.NewNode("input_processor", model.NodeTypeProcessor, &model.ProcessorConfig{}, model.SequentialOf("log")))
	workflow.AddNode(model.NewNode("log", model.NodeTypeLogger, &model.LoggerConfig{}, model.Successors{}))
	assert.Equal(t, []model.NodeType{model.NodeTypeProcessor}, registry.Missing(workflow))

	replacement := types.NewHandler(model.NodeTypeFormatter, func(ctx context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome {
		return execution.Continue("replaced")
	})
	registry.Register(replacement)
	outcome := registry.Lookup(model.NodeTypeFormatter).Handle(context.Background(), nil, nil)
	assert.Equal(t, "replaced", outcome.NextID())
}
