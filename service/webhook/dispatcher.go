package webhook

import (
	"context"
	"errors"
	"log/slog"

	"github.com/viant/chatflow/internal/logging"
	"github.com/viant/chatflow/runtime/execution"
	"github.com/viant/chatflow/service/messaging"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the dispatcher pool size when none is given.
const DefaultWorkers = 4

// Dispatcher executes queued inputs on a fixed pool of workers. Failed
// executions are nacked.
type Dispatcher struct {
	engine  Engine
	queue   messaging.Queue[execution.Input]
	workers int
	logger  *slog.Logger
}

// Run consumes until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		group.Go(func() error {
			return d.work(ctx)
		})
	}
	err := group.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (d *Dispatcher) work(ctx context.Context) error {
	for {
		message, err := d.queue.Consume(ctx)
		if err != nil {
			return err
		}
		ret := d.engine.Execute(ctx, message.T())
		if ret.Success {
			err = message.Ack()
		} else {
			d.logger.Error("workflow execution failed", "from", message.T().SenderID, "execution", ret.ID, "error", ret.Error)
			err = message.Nack(errors.New(ret.Error))
		}
		if err != nil {
			d.logger.Warn("failed to settle message", "execution", ret.ID, "error", err)
		}
	}
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(engine Engine, queue messaging.Queue[execution.Input], workers int) *Dispatcher {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Dispatcher{engine: engine, queue: queue, workers: workers, logger: logging.New("dispatcher")}
}
