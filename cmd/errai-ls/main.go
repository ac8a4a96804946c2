package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

func main() {
	var verbosity int
	var logFile string

	rootCmd := &cobra.Command{
		Use:           "errai-ls",
		Short:         "Code intelligence for Errai UI templates",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var path *string
			if logFile != "" {
				path = &logFile
			}
			commonlog.Configure(verbosity, path)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newFieldsCmd())
	rootCmd.AddCommand(newPropertiesCmd())
	rootCmd.AddCommand(newConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
