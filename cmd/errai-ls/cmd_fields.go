package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dhamidi/errai-ls/errai"
	"github.com/dhamidi/errai-ls/project"
)

func newFieldsCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "fields <file.java>",
		Short: "Print the data-field index of the templated classes in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields(cmd.Context(), dir, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&dir, "project", "p", ".", "project root directory")

	return cmd
}

func runFields(ctx context.Context, dir, file string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := project.LoadFrom(ctx, dir)
	if err != nil {
		return err
	}
	path, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", file, err)
	}

	found := false
	for _, class := range p.Codebase.Classes() {
		if class.SourceFile != path || class.Annotation(errai.Templated) == nil {
			continue
		}
		found = true
		meta := p.Templates.Resolve(class)
		fmt.Fprintf(out, "%s -> %s\n", class.Name, meta.Reference)
		if meta.MarkupFile == nil {
			fmt.Fprintf(out, "  template not found: %s\n", meta.Path)
			continue
		}

		fields := meta.Fields()
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, name := range meta.Names() {
			entry := fields[name]
			origin := "markup"
			if entry.DeclaredInClass {
				origin = entry.Declaration.Kind.String() + " " + entry.Declaration.Name()
			}
			tag := "-"
			if entry.Node != nil {
				tag = "<" + entry.Node.Tag + ">"
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", name, tag, origin, entry.DeclaringClass)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	if !found {
		return fmt.Errorf("no templated class in %s", file)
	}
	return nil
}
