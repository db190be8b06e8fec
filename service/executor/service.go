package executor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/viant/chatflow/extension"
	"github.com/viant/chatflow/internal/clock"
	"github.com/viant/chatflow/internal/logging"
	"github.com/viant/chatflow/model"
	"github.com/viant/chatflow/runtime/execution"
	"github.com/viant/chatflow/tracing"
)

// DefaultMaxSteps bounds a single traversal.
const DefaultMaxSteps = 64

// Listener is invoked once a node handler completes, whether it failed or not.
type Listener func(node *model.Node, execCtx *execution.Context, outcome *execution.Outcome, elapsed time.Duration)

// Option is used to customise the executor instance.
type Option func(*Service)

// WithListener overrides the listener invoked after every executed node.
func WithListener(l Listener) Option {
	return func(s *Service) {
		s.listener = l
	}
}

// WithMaxSteps sets the maximum number of nodes visited per execution.
func WithMaxSteps(maxSteps int) Option {
	return func(s *Service) {
		if maxSteps > 0 {
			s.maxSteps = maxSteps
		}
	}
}

// WithLogger overrides the executor logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service represents a node dispatcher.
type Service struct {
	handlers *extension.Handlers
	listener Listener
	maxSteps int
	logger   *slog.Logger
}

// Run traverses the workflow from its entry node. The first failure is
// recorded on execCtx.Error and returned; no node runs after it.
func (s *Service) Run(ctx context.Context, workflow *model.Workflow, execCtx *execution.Context) error {
	err := s.run(ctx, workflow, execCtx)
	if err != nil && execCtx.Error == "" {
		execCtx.Error = err.Error()
	}
	return err
}

func (s *Service) run(ctx context.Context, workflow *model.Workflow, execCtx *execution.Context) error {
	nodeID := workflow.EntryID()
	for step := 0; nodeID != ""; step++ {
		if step >= s.maxSteps {
			return fmt.Errorf("%w: %d nodes visited, last %s", execution.ErrMaxSteps, step, nodeID)
		}
		node := workflow.Lookup(nodeID)
		if node == nil {
			return &execution.NotFoundError{Node: nodeID}
		}
		outcome := s.execute(ctx, node, execCtx)
		if outcome.Failed() {
			return outcome.Err
		}
		nodeID = outcome.NextID()
	}
	return nil
}

func (s *Service) execute(ctx context.Context, node *model.Node, execCtx *execution.Context) (outcome *execution.Outcome) {
	ctx, span := tracing.StartSpan(ctx, "node."+node.ID, tracing.KindInternal)
	span.WithAttributes(map[string]string{
		"node.id":      node.ID,
		"node.type":    string(node.Type),
		"execution.id": execCtx.ExecutionID,
	})
	started := clock.Now()
	defer func() {
		elapsed := clock.Since(started)
		if outcome.Failed() {
			s.logger.Warn("node failed", "node", node.ID, "type", node.Type, "execution", execCtx.ExecutionID, "error", outcome.Err, "elapsed", elapsed)
		} else {
			s.logger.Debug("node executed", "node", node.ID, "type", node.Type, "execution", execCtx.ExecutionID, "next", outcome.NextID(), "elapsed", elapsed)
		}
		if s.listener != nil {
			s.listener(node, execCtx, outcome, elapsed)
		}
		tracing.EndSpan(span, outcome.Err)
	}()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("node panic", "node", node.ID, "panic", r, "stack", string(debug.Stack()))
			outcome = execution.Fail(execution.NewHandlerError(node.ID, fmt.Errorf("panic: %v", r)))
		}
	}()

	handler := s.handlers.Lookup(node.Type)
	if handler == nil {
		return execution.Fail(execution.NewHandlerError(node.ID, fmt.Errorf("%w: %s", ErrHandlerNotFound, node.Type)))
	}
	outcome = handler.Handle(ctx, node, execCtx)
	if outcome == nil {
		outcome = execution.Fail(execution.NewHandlerError(node.ID, ErrNilOutcome))
	}
	return outcome
}

// New creates a new executor service instance.
func New(handlers *extension.Handlers, opts ...Option) *Service {
	s := &Service{
		handlers: handlers,
		maxSteps: DefaultMaxSteps,
		logger:   logging.New("executor"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
