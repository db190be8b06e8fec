package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/chatflow"
	"github.com/viant/chatflow/runtime/execution"
	"github.com/viant/chatflow/service/webhook"
	"golang.org/x/sync/errgroup"
)

type runOptions struct {
	phone    string
	parallel int
	asJSON   bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <message>...",
		Short: "Execute the workflow for one or more messages",
		Long: `Executes every message through the workflow and prints the replies
followed by the aggregated statistics. Delivery runs in sandbox mode unless
the configuration says otherwise.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			config, err := root.load(ctx)
			if err != nil {
				return err
			}
			if root.configURL == "" {
				config.Delivery.Sandbox = true
				config.Audit.Backend = "log"
			}
			srv, err := chatflow.NewFromConfig(ctx, config)
			if err != nil {
				return err
			}
			defer srv.Close()

			results := make([]*execution.Result, len(args))
			group := &errgroup.Group{}
			if opts.parallel > 0 {
				group.SetLimit(opts.parallel)
			} else {
				group.SetLimit(1)
			}
			for i, message := range args {
				group.Go(func() error {
					results[i] = srv.Execute(ctx, &execution.Input{SenderID: opts.phone, Text: message, Kind: "text"})
					return nil
				})
			}
			_ = group.Wait()
			return printResults(cmd.OutOrStdout(), srv, args, results, opts.asJSON)
		},
	}
	cmd.Flags().StringVar(&opts.phone, "phone", "+62812345678", "sender phone number")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 0, "number of messages executed concurrently")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")
	return cmd
}

func printResults(w io.Writer, srv *chatflow.Service, messages []string, results []*execution.Result, asJSON bool) error {
	stats := srv.Statistics()
	failed := 0
	for _, ret := range results {
		if !ret.Success {
			failed++
		}
	}
	var failure error
	if failed > 0 {
		failure = fmt.Errorf("%d of %d executions failed", failed, len(results))
	}
	if asJSON {
		responses := make([]*webhook.Response, 0, len(results))
		for _, ret := range results {
			responses = append(responses, webhook.NewResponse(ret))
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(map[string]interface{}{"results": responses, "statistics": stats}); err != nil {
			return err
		}
		return failure
	}
	for i, ret := range results {
		fmt.Fprintf(w, "%s\n", strings.Repeat("=", 50))
		fmt.Fprintf(w, "Message: %s\n", messages[i])
		if !ret.Success {
			fmt.Fprintf(w, "Error: %s\n", ret.Error)
			continue
		}
		fmt.Fprintf(w, "Intent: %s", ret.Intent())
		if confidence := ret.Context.Confidence; confidence != nil {
			fmt.Fprintf(w, " (%.2f)", *confidence)
		}
		fmt.Fprintf(w, "\nProcessing time: %.3fs\n\n%s\n", ret.Duration.Seconds(), ret.Response())
	}
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", 50))
	fmt.Fprintf(w, "Total executions: %d\nSuccessful: %d\nFailed: %d\nAverage processing time: %.3fs\n",
		stats.Total, stats.Successful, stats.Failed, stats.AverageProcessingTime)
	for _, intent := range stats.Intents() {
		fmt.Fprintf(w, "  %s: %d\n", intent, stats.IntentDistribution[intent])
	}
	return failure
}
