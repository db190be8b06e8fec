package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/chatflow/model"
	"github.com/viant/chatflow/service/dao/workflow"
)

func newLintCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [workflow-url]...",
		Short: "Validate workflow definitions without executing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				config, err := root.load(cmd.Context())
				if err != nil {
					return err
				}
				args = []string{config.Workflow.URL}
			}
			loader := workflow.New(workflow.WithFileSystem(afs.New(), ""))
			w := cmd.OutOrStdout()
			invalid := 0
			for _, URL := range args {
				wf, err := loader.Load(cmd.Context(), URL)
				if err == nil {
					fmt.Fprintf(w, "%s: ok (%s v%s, %d nodes)\n", URL, wf.Name, wf.Version, len(wf.Nodes))
					continue
				}
				invalid++
				var configErr *model.ConfigurationError
				if !errors.As(err, &configErr) {
					fmt.Fprintf(w, "%s: %v\n", URL, err)
					continue
				}
				fmt.Fprintf(w, "%s: %d issue(s)\n", URL, len(configErr.Issues))
				for _, issue := range configErr.Issues {
					fmt.Fprintf(w, "  - %v\n", issue)
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d workflow(s) invalid", invalid, len(args))
			}
			return nil
		},
	}
}
