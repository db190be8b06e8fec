package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/viant/chatflow"
	"github.com/viant/chatflow/internal/logging"
	"github.com/viant/chatflow/runtime/execution"
	"github.com/viant/chatflow/service/messaging/memory"
	"github.com/viant/chatflow/service/webhook"
	"github.com/viant/chatflow/statistics"
	"github.com/viant/chatflow/tracing"
	"golang.org/x/sync/errgroup"
)

// statusLogInterval is the number of executions between statistics log lines.
const statusLogInterval = 100

func statusLogger(logger *slog.Logger, every int) func(statistics.Snapshot) {
	return func(snapshot statistics.Snapshot) {
		if every <= 0 || snapshot.Total%every != 0 {
			return
		}
		logger.Info("statistics",
			"total", snapshot.Total,
			"successful", snapshot.Successful,
			"failed", snapshot.Failed,
			"average_processing_time", snapshot.AverageProcessingTime,
		)
	}
}

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook HTTP server",
		Long: `Starts an HTTP server exposing the WhatsApp webhook (GET verification,
POST messages), POST /webhook/test, GET /health, GET /workflow/status and
DELETE /workflow/statistics. Statistics are logged every 100 executions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			config, err := root.load(ctx)
			if err != nil {
				return err
			}
			if addr != "" {
				config.Server.Addr = addr
			}
			logger := logging.New("serve")
			stats := statistics.New()
			stats.OnChange(statusLogger(logger, statusLogInterval))
			srv, err := chatflow.NewFromConfig(ctx, config, chatflow.WithStatistics(stats))
			if err != nil {
				return err
			}
			defer srv.Close()
			defer tracing.Shutdown(context.Background())

			wf := srv.Workflow()
			logger.Info("starting chatflow", "workflow", wf.Name, "version", wf.Version, "environment", config.Environment, "sandbox", config.Delivery.Sandbox, "async", config.Server.Async)
			options := []webhook.Option{
				webhook.WithSecret(config.Server.WebhookSecret),
				webhook.WithVerifyToken(config.Server.VerifyToken),
				webhook.WithEnvironment(config.Environment),
				webhook.WithResultStore(srv.Results()),
			}
			group, ctx := errgroup.WithContext(ctx)
			if config.Server.Async {
				queue := memory.NewQueue[execution.Input](memory.Config{QueueBuffer: config.Server.QueueBuffer})
				options = append(options, webhook.WithQueue(queue))
				dispatcher := webhook.NewDispatcher(srv, queue, config.Server.Workers)
				group.Go(func() error {
					return dispatcher.Run(ctx)
				})
			}
			server := webhook.New(srv, options...)
			group.Go(func() error {
				return server.ListenAndServe(ctx, config.Server.Addr)
			})
			return group.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}
