package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/viant/chatflow/internal/logging"
	"github.com/viant/chatflow/tracing"
)

// DefaultTimeout bounds a delivery request when the message declares none.
const DefaultTimeout = 30 * time.Second

// StatusError reports a non 200 API response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API call failed: %d", e.Code)
}

// HTTPClient posts messages as JSON to the platform API.
type HTTPClient struct {
	client   *http.Client
	endpoint string
	token    string
	logger   *slog.Logger
}

// HTTPOption customises the HTTP client.
type HTTPOption func(*HTTPClient)

// WithHTTPClient overrides the underlying client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// WithEndpoint overrides the endpoint declared by messages.
func WithEndpoint(endpoint string) HTTPOption {
	return func(c *HTTPClient) {
		c.endpoint = endpoint
	}
}

// WithToken sets the token substituted for TokenPlaceholder.
func WithToken(token string) HTTPOption {
	return func(c *HTTPClient) {
		c.token = token
	}
}

// Send posts the message. Header values are copied, the message is never mutated.
func (c *HTTPClient) Send(ctx context.Context, message *Message) (err error) {
	endpoint := c.endpoint
	if endpoint == "" {
		endpoint = message.Endpoint
	}
	if endpoint == "" {
		return fmt.Errorf("API sender error: endpoint not configured")
	}
	ctx, span := tracing.StartSpan(ctx, "delivery.send", tracing.KindClient)
	defer func() { tracing.EndSpan(span, err) }()

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("API sender error: %w", err)
	}
	timeout := message.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("API sender error: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	for key, value := range message.Headers {
		request.Header.Set(key, strings.ReplaceAll(value, TokenPlaceholder, c.token))
	}
	response, err := c.client.Do(request)
	if err != nil {
		return fmt.Errorf("API sender error: %w", err)
	}
	defer response.Body.Close()
	span.SetStatusFromHTTPCode(response.StatusCode)
	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 4096))
		return &StatusError{Code: response.StatusCode, Body: string(body)}
	}
	c.logger.Info("message delivered", "phone", message.Phone, "execution", message.ExecutionID)
	return nil
}

// NewHTTPClient creates an HTTP delivery client.
func NewHTTPClient(opts ...HTTPOption) *HTTPClient {
	ret := &HTTPClient{
		client: &http.Client{},
		logger: logging.New("delivery"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
