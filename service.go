package chatflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/viant/afs"
	"github.com/viant/chatflow/extension"
	"github.com/viant/chatflow/internal/clock"
	"github.com/viant/chatflow/internal/idgen"
	"github.com/viant/chatflow/internal/logging"
	"github.com/viant/chatflow/model"
	"github.com/viant/chatflow/model/types"
	"github.com/viant/chatflow/runtime/execution"
	"github.com/viant/chatflow/service/action/activity"
	"github.com/viant/chatflow/service/action/classify"
	"github.com/viant/chatflow/service/action/format"
	"github.com/viant/chatflow/service/action/respond"
	"github.com/viant/chatflow/service/action/send"
	"github.com/viant/chatflow/service/action/validate"
	"github.com/viant/chatflow/service/audit"
	"github.com/viant/chatflow/service/dao/result"
	rfs "github.com/viant/chatflow/service/dao/result/fs"
	rmemory "github.com/viant/chatflow/service/dao/result/memory"
	"github.com/viant/chatflow/service/dao/schedule"
	smemory "github.com/viant/chatflow/service/dao/schedule/memory"
	"github.com/viant/chatflow/service/dao/schedule/sqlite"
	"github.com/viant/chatflow/service/dao/workflow"
	"github.com/viant/chatflow/service/delivery"
	"github.com/viant/chatflow/service/executor"
	"github.com/viant/chatflow/service/secret"
	"github.com/viant/chatflow/statistics"
	"github.com/viant/chatflow/tracing"
)

// Service executes inbound messages against a loaded workflow.
type Service struct {
	workflow        *model.Workflow
	handlers        *extension.Handlers
	executor        *executor.Service
	executorOptions []executor.Option
	extraHandlers   []types.Handler
	statistics      *statistics.Statistics
	schedules       schedule.Store
	delivery        delivery.Client
	audit           audit.Sink
	results         result.Store
	historyDisabled bool
	env             func(string) string
	logger          *slog.Logger
	closers         []io.Closer
}

// Execute runs the workflow for one message and returns its result. It never
// panics; any failure is reported through Result.Error. Statistics are
// recorded exactly once per call.
func (s *Service) Execute(ctx context.Context, input *execution.Input) (ret *execution.Result) {
	started := clock.Now()
	var result *execution.Result
	recorded := false
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s.logger.Error("execute panic", "panic", r, "stack", string(debug.Stack()))
		ret = result
		if ret != nil {
			return
		}
		elapsed := clock.Since(started)
		if !recorded {
			s.statistics.Record(elapsed, true, "")
		}
		ret = &execution.Result{Duration: elapsed, Error: fmt.Sprintf("panic: %v", r)}
	}()

	execCtx := execution.NewContext(idgen.New(), started, input)
	ctx, span := tracing.StartSpan(ctx, "workflow.execute", tracing.KindServer)
	span.WithAttributes(map[string]string{
		"workflow.name": s.workflow.Name,
		"execution.id":  execCtx.ExecutionID,
	})

	err := s.run(ctx, execCtx)
	elapsed := clock.Since(started)
	execCtx.ProcessingTime = elapsed
	s.statistics.Record(elapsed, execCtx.Failed(), execCtx.Intent)
	recorded = true
	result = &execution.Result{
		ID:       execCtx.ExecutionID,
		Success:  !execCtx.Failed(),
		Context:  execCtx,
		Duration: elapsed,
		Error:    execCtx.Error,
	}
	tracing.EndSpan(span, err)

	if result.Success {
		s.logger.Info("workflow executed", "execution", result.ID, "intent", execCtx.Intent, "elapsed", elapsed)
	} else {
		s.logger.Warn("workflow failed", "execution", result.ID, "error", result.Error, "elapsed", elapsed)
	}
	if s.results != nil {
		if err = s.results.Save(ctx, result); err != nil {
			s.logger.Warn("failed to save result", "execution", result.ID, "error", err)
		}
	}
	return result
}

func (s *Service) run(ctx context.Context, execCtx *execution.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("execution panic", "execution", execCtx.ExecutionID, "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", r)
			execCtx.Error = err.Error()
		}
	}()
	return s.executor.Run(ctx, s.workflow, execCtx)
}

// Statistics returns a snapshot of the aggregated counters.
func (s *Service) Statistics() statistics.Snapshot {
	return s.statistics.Snapshot()
}

// ResetStatistics clears the aggregated counters.
func (s *Service) ResetStatistics() {
	s.statistics.Reset()
}

// Workflow returns the loaded workflow definition.
func (s *Service) Workflow() *model.Workflow {
	return s.workflow
}

// Results returns the result store, nil when history is disabled.
func (s *Service) Results() result.Store {
	return s.results
}

// Delivery returns the outbound messaging client.
func (s *Service) Delivery() delivery.Client {
	return s.delivery
}

// Close releases stores and sinks opened by the service.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func (s *Service) lookupEnv(key string) string {
	if value, ok := s.workflow.Environment[key]; ok && value != nil {
		return fmt.Sprint(value)
	}
	return s.env(key)
}

func (s *Service) init(ctx context.Context, options []Option) error {
	for _, option := range options {
		option(s)
	}
	if err := s.ensureBaseSetup(ctx); err != nil {
		return err
	}
	s.handlers = extension.NewHandlers(
		validate.New(),
		classify.New(),
		format.New(),
		send.New(s.delivery),
		activity.New(s.audit),
	)
	s.handlers.Register(respond.Handlers(respond.WithScheduleStore(s.schedules), respond.WithEnv(s.lookupEnv))...)
	s.handlers.Register(s.extraHandlers...)
	if missing := s.handlers.Missing(s.workflow); len(missing) > 0 {
		return fmt.Errorf("no handler registered for node types: %v", missing)
	}
	s.executor = executor.New(s.handlers, s.executorOptions...)
	return nil
}

func (s *Service) ensureBaseSetup(ctx context.Context) error {
	if s.env == nil {
		s.env = os.Getenv
	}
	if s.statistics == nil {
		s.statistics = statistics.New()
	}
	if s.schedules == nil {
		store, err := smemory.New(ctx, schedule.Samples()...)
		if err != nil {
			return err
		}
		s.schedules = store
	}
	if s.delivery == nil {
		s.delivery = delivery.NewSandbox()
	}
	if s.audit == nil {
		s.audit = audit.NewLogSink(logging.New("audit"))
	}
	if s.results == nil && !s.historyDisabled {
		s.results = rmemory.New(rmemory.DefaultLimit)
	}
	return nil
}

// New creates a service for a workflow. Invalid workflows are refused with
// a *model.ConfigurationError.
func New(ctx context.Context, wf *model.Workflow, options ...Option) (*Service, error) {
	if wf == nil {
		return nil, model.NewConfigurationError("", []error{fmt.Errorf("workflow is nil")})
	}
	if issues := wf.Validate(); len(issues) > 0 {
		source := ""
		if wf.Source != nil {
			source = wf.Source.URL
		}
		return nil, model.NewConfigurationError(source, issues)
	}
	ret := &Service{workflow: wf, logger: logging.New("chatflow")}
	if err := ret.init(ctx, options); err != nil {
		_ = ret.Close()
		return nil, err
	}
	return ret, nil
}

// NewFromConfig loads the workflow and builds the collaborators described by
// config. Options are applied after the configured ones and may override them.
func NewFromConfig(ctx context.Context, config *Config, options ...Option) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	fs := afs.New()
	wf, err := workflow.New(workflow.WithFileSystem(fs, "")).Load(ctx, config.Workflow.URL)
	if err != nil {
		return nil, err
	}
	var closers []io.Closer
	release := func() {
		for _, closer := range closers {
			_ = closer.Close()
		}
	}
	var configured []Option
	if config.Engine.MaxSteps > 0 {
		configured = append(configured, WithMaxSteps(config.Engine.MaxSteps))
	}
	if config.Tracing.Enabled {
		configured = append(configured, WithTracing(config.Tracing.ServiceName, wf.Version, config.Tracing.OutputFile))
	}

	store, err := newScheduleStore(ctx, config)
	if err != nil {
		return nil, err
	}
	if closer, ok := store.(io.Closer); ok {
		closers = append(closers, closer)
	}
	configured = append(configured, WithScheduleStore(store))

	client, err := newDeliveryClient(ctx, config)
	if err != nil {
		release()
		return nil, err
	}
	configured = append(configured, WithDeliveryClient(client))

	switch config.Audit.Backend {
	case "log":
		configured = append(configured, WithAuditSink(audit.NewLogSink(logging.New("audit"))))
	default:
		sink := audit.NewFileSink(model.DefaultLogFile, config.Audit.Path)
		closers = append(closers, sink)
		configured = append(configured, WithAuditSink(sink))
	}

	switch config.History.Backend {
	case "fs":
		results, err := rfs.New(ctx, config.History.URL, fs)
		if err != nil {
			release()
			return nil, err
		}
		configured = append(configured, WithResultStore(results))
	case "none":
		configured = append(configured, WithoutHistory())
	default:
		configured = append(configured, WithResultStore(rmemory.New(config.History.Limit)))
	}
	for _, closer := range closers {
		configured = append(configured, WithCloser(closer))
	}
	ret, err := New(ctx, wf, append(configured, options...)...)
	if err != nil {
		release()
		return nil, err
	}
	return ret, nil
}

func newScheduleStore(ctx context.Context, config *Config) (schedule.Store, error) {
	var seed []*schedule.Schedule
	if config.Store.Seed {
		seed = schedule.Samples()
	}
	if config.Store.Driver != "sqlite" {
		store, err := smemory.New(ctx, seed...)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err := sqlite.New(ctx, config.Store.DSN)
	if err != nil {
		return nil, err
	}
	if err = store.Seed(ctx, seed...); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func newDeliveryClient(ctx context.Context, config *Config) (delivery.Client, error) {
	if config.Delivery.Sandbox {
		return delivery.NewSandbox(), nil
	}
	token := config.Delivery.Token
	if config.Delivery.TokenURL != "" {
		revealed, err := secret.New().Reveal(ctx, config.Delivery.TokenURL, config.Delivery.TokenKey)
		if err != nil {
			return nil, err
		}
		token = revealed
	}
	if token == "" {
		token = os.Getenv("WHATSAPP_TOKEN")
	}
	opts := []delivery.HTTPOption{delivery.WithEndpoint(config.Delivery.Endpoint), delivery.WithToken(token)}
	if config.Delivery.Timeout != "" {
		timeout, err := time.ParseDuration(config.Delivery.Timeout)
		if err != nil {
			return nil, err
		}
		opts = append(opts, delivery.WithHTTPClient(&http.Client{Timeout: timeout}))
	}
	return delivery.NewHTTPClient(opts...), nil
}
