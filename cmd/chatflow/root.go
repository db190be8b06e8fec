package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/chatflow"
	"github.com/viant/chatflow/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootOptions struct {
	configURL   string
	workflowURL string
	environment string
	logLevel    string
	logFormat   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "chatflow",
		Short:         "Conversational workflow engine",
		Long:          "chatflow routes inbound chat messages through a YAML defined graph of\nvalidation, intent classification, responder and delivery nodes.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configURL, "config", "", "engine configuration URL (YAML)")
	flags.StringVar(&opts.workflowURL, "workflow", "", "workflow definition URL, overrides the configured one")
	flags.StringVar(&opts.environment, "env", os.Getenv("ENVIRONMENT"), "environment name; development enables sandbox delivery")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newLintCmd(opts))
	cmd.AddCommand(newSecureCmd())
	return cmd
}

// load resolves the configuration and initialises logging.
func (o *rootOptions) load(ctx context.Context) (*chatflow.Config, error) {
	config := chatflow.DefaultConfig()
	if o.configURL != "" {
		loaded, err := chatflow.LoadConfig(ctx, afs.New(), o.configURL)
		if err != nil {
			return nil, err
		}
		config = loaded
	}
	if o.workflowURL != "" {
		config.Workflow.URL = o.workflowURL
	}
	if o.environment != "" {
		config.Environment = o.environment
	}
	if config.Development() {
		config.Delivery.Sandbox = true
		config.Store.Seed = true
	}
	if o.logLevel != "" {
		config.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		config.Logging.Format = o.logFormat
	}
	logging.Init(logging.ParseLevel(config.Logging.Level), config.Logging.Format)
	return config, config.Validate()
}
