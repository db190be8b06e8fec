package types

import (
	"context"
	"fmt"

	"github.com/viant/chatflow/model"
	"github.com/viant/chatflow/runtime/execution"
)

// Handler executes one node type.
type Handler interface {
	Type() model.NodeType
	Handle(ctx context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome
}

// HandlerFunc adapts a function into a Handler for the node type.
type HandlerFunc func(ctx context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome

type funcHandler struct {
	nodeType model.NodeType
	fn       HandlerFunc
}

func (h *funcHandler) Type() model.NodeType {
	return h.nodeType
}

func (h *funcHandler) Handle(ctx context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome {
	return h.fn(ctx, node, execCtx)
}

// NewHandler wraps fn as a handler of nodeType.
func NewHandler(nodeType model.NodeType, fn HandlerFunc) Handler {
	return &funcHandler{nodeType: nodeType, fn: fn}
}

// ConfigOf returns the node configuration as T.
func ConfigOf[T model.NodeConfig](node *model.Node) (T, error) {
	config, ok := node.Config.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("node %s: unexpected config %T for %s", node.ID, node.Config, node.Type)
	}
	return config, nil
}
