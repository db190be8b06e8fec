package chatflow

import (
	"io"
	"log/slog"

	"github.com/viant/chatflow/model/types"
	"github.com/viant/chatflow/service/audit"
	"github.com/viant/chatflow/service/dao/result"
	"github.com/viant/chatflow/service/dao/schedule"
	"github.com/viant/chatflow/service/delivery"
	"github.com/viant/chatflow/service/executor"
	"github.com/viant/chatflow/statistics"
	"github.com/viant/chatflow/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises a Service.
type Option func(s *Service)

// WithStatistics shares an aggregator between services.
func WithStatistics(stats *statistics.Statistics) Option {
	return func(s *Service) {
		s.statistics = stats
	}
}

// WithScheduleStore sets the lookup store read by database_query nodes.
func WithScheduleStore(store schedule.Store) Option {
	return func(s *Service) {
		s.schedules = store
	}
}

// WithDeliveryClient sets the outbound messaging client.
func WithDeliveryClient(client delivery.Client) Option {
	return func(s *Service) {
		s.delivery = client
	}
}

// WithAuditSink sets the sink used by logger nodes.
func WithAuditSink(sink audit.Sink) Option {
	return func(s *Service) {
		s.audit = sink
	}
}

// WithResultStore sets where finished results are kept.
func WithResultStore(store result.Store) Option {
	return func(s *Service) {
		s.results = store
	}
}

// WithoutHistory disables result keeping.
func WithoutHistory() Option {
	return func(s *Service) {
		s.results = nil
		s.historyDisabled = true
	}
}

// WithHandlers registers additional or replacement node handlers.
func WithHandlers(handlers ...types.Handler) Option {
	return func(s *Service) {
		s.extraHandlers = append(s.extraHandlers, handlers...)
	}
}

// WithMaxSteps bounds the number of nodes visited per execution.
func WithMaxSteps(maxSteps int) Option {
	return func(s *Service) {
		s.executorOptions = append(s.executorOptions, executor.WithMaxSteps(maxSteps))
	}
}

// WithListener is notified after every executed node.
func WithListener(listener executor.Listener) Option {
	return func(s *Service) {
		s.executorOptions = append(s.executorOptions, executor.WithListener(listener))
	}
}

// WithLogger overrides the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
			s.executorOptions = append(s.executorOptions, executor.WithLogger(logger))
		}
	}
}

// WithEnv sets the lookup used for settings missing from the workflow
// environment section.
func WithEnv(env func(string) string) Option {
	return func(s *Service) {
		s.env = env
	}
}

// WithCloser registers a resource released by Service.Close.
func WithCloser(closer io.Closer) Option {
	return func(s *Service) {
		if closer != nil {
			s.closers = append(s.closers, closer)
		}
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The function is
// safe to call multiple times; the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			s.logger.Warn("tracing disabled", "error", err)
		}
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		if err := tracing.InitWithExporter(serviceName, serviceVersion, exporter); err != nil {
			s.logger.Warn("tracing disabled", "error", err)
		}
	}
}
