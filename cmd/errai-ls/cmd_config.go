package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/errai-ls/errai"
)

func newConfigCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := errai.LoadConfig(ctx, afs.New(), filepath.Join(dir, errai.ConfigFile))
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}

	cmd.Flags().StringVarP(&dir, "project", "p", ".", "project root directory")

	return cmd
}
