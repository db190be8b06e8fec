package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/chatflow/service/secret"
)

func newSecureCmd() *cobra.Command {
	var URL, key, value string
	cmd := &cobra.Command{
		Use:   "secure",
		Short: "Encrypt the delivery API token into a scy resource",
		Long: `Encrypts a secret (from --value or stdin) and stores it at --url.
Point delivery.tokenURL and delivery.tokenKey at the resource to use it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if value == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				value = strings.TrimSpace(string(data))
			}
			if err := secret.New().Secure(cmd.Context(), value, URL, key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "secret stored at %s\n", URL)
			return nil
		},
	}
	cmd.Flags().StringVar(&URL, "url", "", "destination resource URL (required)")
	cmd.Flags().StringVar(&key, "key", secret.DefaultKey, "scy encryption key")
	cmd.Flags().StringVar(&value, "value", "", "secret value; read from stdin when empty")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
