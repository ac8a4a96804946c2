package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dhamidi/errai-ls/errai/inspect"
	"github.com/dhamidi/errai-ls/project"
)

func newCheckCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Inspect every templated class of a project and report problems",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if noColor {
				color.NoColor = true
			}
			return runCheck(cmd.Context(), dir, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}

func runCheck(ctx context.Context, dir string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := project.LoadFrom(ctx, dir)
	if err != nil {
		return err
	}

	problems := p.Inspector.InspectAll()
	errorCount := 0
	for _, problem := range problems {
		printProblem(out, p.RootDir, problem)
		if problem.Severity == inspect.SeverityError {
			errorCount++
		}
	}

	summary := color.New(color.FgGreen, color.Bold)
	if errorCount > 0 {
		summary = color.New(color.FgRed, color.Bold)
	}
	summary.Fprintf(out, "%d problems (%d errors)\n", len(problems), errorCount)

	if inspect.HasErrors(problems) {
		return fmt.Errorf("%d errors found", errorCount)
	}
	return nil
}

func printProblem(out io.Writer, root string, p inspect.Problem) {
	file := p.File
	if rel, err := filepath.Rel(root, file); err == nil {
		file = rel
	}
	label := color.New(color.FgRed, color.Bold).Sprint("error")
	if p.Severity == inspect.SeverityWarning {
		label = color.New(color.FgYellow, color.Bold).Sprint("warning")
	}
	fmt.Fprintf(out, "%s:%d:%d: %s: %s %s\n",
		file, p.Span.Start.Line+1, p.Span.Start.Column+1, label, p.Message,
		color.New(color.Faint).Sprintf("[%s]", p.Code))
	if p.Fix != "" {
		fmt.Fprintf(out, "  %s %s\n", color.CyanString("fix:"), p.Fix)
	}
}
