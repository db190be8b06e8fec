package chatflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/chatflow/internal/expr"
	"gopkg.in/yaml.v3"
)

// EnvDevelopment switches delivery to sandbox mode and seeds the schedule store.
const EnvDevelopment = "development"

// Config is a serialisable representation of the engine configuration. The
// zero-value is useful: all nested fields inherit their package defaults.
type Config struct {
	Environment string         `json:"environment" yaml:"environment"`
	Workflow    WorkflowConfig `json:"workflow" yaml:"workflow"`
	Engine      EngineConfig   `json:"engine" yaml:"engine"`
	Store       StoreConfig    `json:"store" yaml:"store"`
	Delivery    DeliveryConfig `json:"delivery" yaml:"delivery"`
	Audit       AuditConfig    `json:"audit" yaml:"audit"`
	History     HistoryConfig  `json:"history" yaml:"history"`
	Tracing     TracingConfig  `json:"tracing" yaml:"tracing"`
	Logging     LoggingConfig  `json:"logging" yaml:"logging"`
	Server      ServerConfig   `json:"server" yaml:"server"`
}

type WorkflowConfig struct {
	URL string `json:"url" yaml:"url"`
}

type EngineConfig struct {
	MaxSteps int `json:"maxSteps" yaml:"maxSteps"`
}

// StoreConfig selects the schedule lookup store.
type StoreConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
	Seed   bool   `json:"seed" yaml:"seed"`
}

// DeliveryConfig configures the outbound messaging client. TokenURL points
// to a scy encrypted resource and takes precedence over Token.
type DeliveryConfig struct {
	Sandbox  bool   `json:"sandbox" yaml:"sandbox"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Token    string `json:"token" yaml:"token"`
	TokenURL string `json:"tokenURL" yaml:"tokenURL"`
	TokenKey string `json:"tokenKey" yaml:"tokenKey"`
	Timeout  string `json:"timeout" yaml:"timeout"`
}

// AuditConfig selects the audit sink. Path is the base directory for
// relative logger node files.
type AuditConfig struct {
	Backend string `json:"backend" yaml:"backend"`
	Path    string `json:"path" yaml:"path"`
}

// HistoryConfig selects where finished results are kept.
type HistoryConfig struct {
	Backend string `json:"backend" yaml:"backend"`
	URL     string `json:"url" yaml:"url"`
	Limit   int    `json:"limit" yaml:"limit"`
}

type TracingConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	ServiceName string `json:"serviceName" yaml:"serviceName"`
	OutputFile  string `json:"outputFile" yaml:"outputFile"`
}

type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// ServerConfig configures the webhook server. Async hands inbound messages
// to a queue drained by Workers dispatchers.
type ServerConfig struct {
	Addr          string `json:"addr" yaml:"addr"`
	WebhookSecret string `json:"webhookSecret" yaml:"webhookSecret"`
	VerifyToken   string `json:"verifyToken" yaml:"verifyToken"`
	Async         bool   `json:"async" yaml:"async"`
	Workers       int    `json:"workers" yaml:"workers"`
	QueueBuffer   int    `json:"queueBuffer" yaml:"queueBuffer"`
}

// DefaultConfig returns a Config populated with the defaults used by the
// constructors. Callers may modify it before passing it to NewFromConfig.
func DefaultConfig() *Config {
	return &Config{
		Environment: "production",
		Workflow:    WorkflowConfig{URL: "config/masjid_workflow.yaml"},
		Store:       StoreConfig{Driver: "memory", Seed: true},
		Delivery:    DeliveryConfig{Timeout: "30s"},
		Audit:       AuditConfig{Backend: "file"},
		History:     HistoryConfig{Backend: "memory", Limit: 1000},
		Tracing:     TracingConfig{ServiceName: "chatflow"},
		Logging:     LoggingConfig{Level: "info", Format: "text"},
		Server:      ServerConfig{Addr: ":5000", Workers: 4, QueueBuffer: 100},
	}
}

// Development reports whether the development environment is selected.
func (c *Config) Development() bool {
	return strings.EqualFold(c.Environment, EnvDevelopment)
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var issues []error
	if c.Workflow.URL == "" {
		issues = append(issues, fmt.Errorf("workflow.url is required"))
	}
	if c.Engine.MaxSteps < 0 {
		issues = append(issues, fmt.Errorf("engine.maxSteps must be >= 0"))
	}
	switch c.Store.Driver {
	case "", "memory":
	case "sqlite":
		if c.Store.DSN == "" {
			issues = append(issues, fmt.Errorf("store.dsn is required for sqlite"))
		}
	default:
		issues = append(issues, fmt.Errorf("unsupported store.driver: %s", c.Store.Driver))
	}
	if c.Delivery.Timeout != "" {
		if _, err := time.ParseDuration(c.Delivery.Timeout); err != nil {
			issues = append(issues, fmt.Errorf("invalid delivery.timeout: %w", err))
		}
	}
	switch c.Audit.Backend {
	case "", "file", "log":
	default:
		issues = append(issues, fmt.Errorf("unsupported audit.backend: %s", c.Audit.Backend))
	}
	switch c.History.Backend {
	case "", "memory", "none":
	case "fs":
		if c.History.URL == "" {
			issues = append(issues, fmt.Errorf("history.url is required for fs"))
		}
	default:
		issues = append(issues, fmt.Errorf("unsupported history.backend: %s", c.History.Backend))
	}
	if c.Server.Async && c.Server.Workers <= 0 {
		issues = append(issues, fmt.Errorf("server.workers must be > 0"))
	}
	return errors.Join(issues...)
}

// LoadConfig reads a YAML (or JSON) configuration through afs, expanding
// ${env.KEY} references, on top of DefaultConfig.
func LoadConfig(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal([]byte(expr.ExpandEnv(string(data))), ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	if ret.Development() {
		ret.Delivery.Sandbox = true
		ret.Store.Seed = true
	}
	if err = ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}
