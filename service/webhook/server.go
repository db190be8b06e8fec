// Package webhook exposes the engine over HTTP: the WhatsApp webhook, a test
// endpoint, health and status probes.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/viant/chatflow/internal/clock"
	"github.com/viant/chatflow/internal/logging"
	"github.com/viant/chatflow/model"
	"github.com/viant/chatflow/runtime/execution"
	"github.com/viant/chatflow/service/dao"
	"github.com/viant/chatflow/service/dao/result"
	"github.com/viant/chatflow/service/messaging"
	"github.com/viant/chatflow/statistics"
	"github.com/viant/chatflow/tracing"
)

// MaxPayloadSize bounds an inbound request body.
const MaxPayloadSize = 1 << 20

// ErrMissingSecret is returned when the workflow requires signed webhooks but
// no secret is configured.
var ErrMissingSecret = errors.New("webhook secret is required when webhook_verification is enabled")

// DefaultTestMessage is used by the test endpoint when no message is given.
const DefaultTestMessage = "jadwal shalat"

// Engine executes messages.
type Engine interface {
	Execute(ctx context.Context, input *execution.Input) *execution.Result
	Statistics() statistics.Snapshot
	ResetStatistics()
	Workflow() *model.Workflow
}

// Server routes HTTP requests to the engine.
type Server struct {
	engine      Engine
	results     result.Store
	queue       messaging.Queue[execution.Input]
	secret      string
	verifyToken string
	environment string
	logger      *slog.Logger
}

// Option customises the server.
type Option func(*Server)

// WithSecret sets the HMAC secret used when the workflow requires signed webhooks.
func WithSecret(secret string) Option {
	return func(s *Server) {
		s.secret = secret
	}
}

// WithVerifyToken sets the subscription verification token.
func WithVerifyToken(token string) Option {
	return func(s *Server) {
		s.verifyToken = token
	}
}

// WithEnvironment sets the environment name reported by /health.
func WithEnvironment(environment string) Option {
	return func(s *Server) {
		s.environment = environment
	}
}

// WithResultStore enables GET /workflow/executions/{id}.
func WithResultStore(store result.Store) Option {
	return func(s *Server) {
		s.results = store
	}
}

// WithQueue makes the webhook publish inputs to queue instead of executing
// them inline; a Dispatcher consumes them.
func WithQueue(queue messaging.Queue[execution.Input]) Option {
	return func(s *Server) {
		s.queue = queue
	}
}

// WithLogger overrides the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /webhook/whatsapp", s.verify)
	mux.HandleFunc("POST /webhook/whatsapp", s.receive)
	mux.HandleFunc("POST /webhook/test", s.test)
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /workflow/status", s.status)
	mux.HandleFunc("DELETE /workflow/statistics", s.resetStatistics)
	mux.HandleFunc("GET /workflow/executions/{id}", s.execution)
	return mux
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if s.engine.Workflow().Security.WebhookVerification && s.secret == "" {
		return ErrMissingSecret
	}
	server := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- server.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down HTTP server")
	return server.Shutdown(shutdownCtx)
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if s.verifyToken == "" || query.Get("hub.verify_token") != s.verifyToken {
		s.logger.Warn("webhook verification failed")
		http.Error(w, "Verification failed", http.StatusForbidden)
		return
	}
	s.logger.Info("webhook verification successful")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, query.Get("hub.challenge"))
}

func (s *Server) receive(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.StartSpan(r.Context(), "webhook.receive", tracing.KindServer)
	status := http.StatusOK
	defer func() {
		span.SetStatusFromHTTPCode(status)
		tracing.EndSpan(span, nil)
	}()
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxPayloadSize))
	if err != nil {
		status = http.StatusBadRequest
		writeJSON(w, status, map[string]string{"error": "Invalid payload"})
		return
	}
	if s.engine.Workflow().Security.WebhookVerification && !Verify(s.secret, body, r.Header.Get(SignatureHeader)) {
		s.logger.Warn("invalid webhook signature")
		status = http.StatusForbidden
		http.Error(w, "Invalid signature", status)
		return
	}
	payload := &Payload{}
	if err = json.Unmarshal(body, payload); err != nil {
		s.logger.Error("failed to decode webhook payload", "error", err)
		status = http.StatusBadRequest
		writeJSON(w, status, map[string]string{"error": "Invalid payload"})
		return
	}
	for _, input := range payload.Inputs() {
		s.logger.Info("processing message", "from", input.SenderID, "type", input.Kind, "message", input.MessageID)
		if s.queue != nil {
			if err = s.queue.Publish(ctx, input); err != nil {
				s.logger.Error("failed to enqueue message", "from", input.SenderID, "error", err)
				status = http.StatusServiceUnavailable
				writeJSON(w, status, map[string]string{"error": "Service unavailable"})
				return
			}
			continue
		}
		ret := s.engine.Execute(ctx, input)
		if !ret.Success {
			s.logger.Error("workflow execution failed", "from", input.SenderID, "execution", ret.ID, "error", ret.Error)
		}
	}
	writeJSON(w, status, map[string]string{"status": "success"})
}

type testRequest struct {
	Message string `json:"message"`
}

// Response is the JSON view of an execution result.
type Response struct {
	ID             string             `json:"id"`
	Success        bool               `json:"success"`
	Context        *execution.Context `json:"context,omitempty"`
	ProcessingTime float64            `json:"processing_time"`
	Error          string             `json:"error,omitempty"`
}

// NewResponse converts a result, reporting the duration in seconds.
func NewResponse(ret *execution.Result) *Response {
	return &Response{
		ID:             ret.ID,
		Success:        ret.Success,
		Context:        ret.Context,
		ProcessingTime: ret.Duration.Seconds(),
		Error:          ret.Error,
	}
}

func (s *Server) test(w http.ResponseWriter, r *http.Request) {
	request := &testRequest{}
	if r.Body != nil {
		if err := json.NewDecoder(io.LimitReader(r.Body, MaxPayloadSize)).Decode(request); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid payload"})
			return
		}
	}
	if request.Message == "" {
		request.Message = DefaultTestMessage
	}
	now := strconv.FormatInt(clock.Now().Unix(), 10)
	input := &execution.Input{
		SenderID:    "+62812345678",
		Text:        request.Message,
		Timestamp:   now,
		Kind:        "text",
		MessageID:   "test_" + now,
		DisplayName: "Test User",
		ContactID:   "62812345678",
	}
	s.logger.Info("test workflow", "message", input.Text)
	writeJSON(w, http.StatusOK, NewResponse(s.engine.Execute(r.Context(), input)))
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":           "healthy",
		"timestamp":        clock.Now().Format(time.RFC3339),
		"environment":      s.environment,
		"workflow_version": s.engine.Workflow().Version,
	})
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	workflow := s.engine.Workflow()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"workflow_name": workflow.Name,
		"total_nodes":   len(workflow.Nodes),
		"statistics":    s.engine.Statistics(),
	})
}

func (s *Server) resetStatistics(w http.ResponseWriter, _ *http.Request) {
	s.engine.ResetStatistics()
	s.logger.Info("statistics reset")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) execution(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "history disabled"})
		return
	}
	ret, err := s.results.Load(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, dao.ErrNotFound), errors.Is(err, dao.ErrInvalidID):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "execution not found"})
	case err != nil:
		s.logger.Error("failed to load execution", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	default:
		writeJSON(w, http.StatusOK, NewResponse(ret))
	}
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// New creates a server for the engine.
func New(engine Engine, opts ...Option) *Server {
	ret := &Server{engine: engine, environment: "production", logger: logging.New("webhook")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
