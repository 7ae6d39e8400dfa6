// Package cmd contains all Cobra commands for sqlgpt.
//
// Design decision: the root command launches the TUI directly.
// The server address comes from ~/.sqlgpt/config.json and can be
// overridden per-run with --server. Running `sqlgpt` with no
// arguments starts the interactive UI.
package cmd

import (
	"fmt"

	"github.com/perbergman/sql-gpt/tui"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var serverFlag string

var rootCmd = &cobra.Command{
	Use:   "sqlgpt",
	Short: "Terminal client for the SQL-GPT service",
	Long: `sqlgpt is a terminal client for a SQL-GPT server featuring:
  • Natural-language prompt → generated SQL with validation report
  • One-keystroke execution of the generated statement
  • Schema overview and a table browser with paginated data
  • CSV export of tabular results
  • Optional SSH tunnel for servers behind a bastion

Run 'sqlgpt' to start the TUI against the configured server.`,
	// Running with no subcommand launches the TUI.
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Start(serverFlag)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the sqlgpt version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("sqlgpt v" + version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "SQL-GPT server base URL (overrides config)")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
