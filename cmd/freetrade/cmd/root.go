// Package cmd provides CLI commands for freetrade.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "freetrade",
	Short: "A beancount importer for Freetrade",
	Long: `freetrade converts the activity export of a Freetrade account
into Beancount entries.

Accounts are written as "Assets:UK:Freetrade:ACCOUNT:SYMBOL",
"Income:UK:Freetrade:ACCOUNT:..." and "Expenses:UK:Freetrade:ACCOUNT:...".

It supports:
- Converting an export to stdout or a file
- Appending new entries to monthly Beancount files
- Preventing duplicate imports with SQLite history
- Dry-run mode for testing

Example:
  freetrade convert --input activity.csv --account SIPP
  freetrade sync --input activity.csv --account SIPP
  freetrade stats`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statsCmd)
}

// exitOnError logs err and exits when it is not nil.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
