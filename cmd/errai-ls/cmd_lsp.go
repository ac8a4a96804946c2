package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/errai-ls/lsp"
)

func newLSPCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(version, lsp.WithWatcher(watch))
			return server.RunStdio()
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", true, "poll the project for changes made outside the editor")

	return cmd
}
