package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dhamidi/errai-ls/errai/binding"
	"github.com/dhamidi/errai-ls/project"
)

func newPropertiesCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "properties <class> [prefix]",
		Short: "Print the bindable properties of a model class",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) > 1 {
				prefix = args[1]
			}
			return runProperties(cmd.Context(), dir, args[0], prefix, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&dir, "project", "p", ".", "project root directory")

	return cmd
}

func runProperties(ctx context.Context, dir, className, prefix string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := project.LoadFrom(ctx, dir)
	if err != nil {
		return err
	}
	class := p.Codebase.FindClass(className)
	if class == nil {
		return fmt.Errorf("class %s not found", className)
	}
	if !p.Bindings.IsBindable(class) {
		fmt.Fprintf(out, "note: %s is not bindable\n", className)
	}

	props := p.Bindings.Properties(class, prefix)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, name := range binding.SortedNames(props) {
		prop := props[name]
		access := "r"
		switch {
		case prop.Getter != nil && prop.Setter != nil:
			access = "rw"
		case prop.Getter == nil:
			access = "w"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, prop.Type, access)
	}
	return w.Flush()
}
