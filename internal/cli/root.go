package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mreport",
	Short: "File bug reports and feedback as Trello cards",
	Long: `mreport files bug reports and feedback as cards on a Trello board.

Reports can be written in an interactive terminal form, sent in one shot
from scripts, or relayed over HTTP by other processes. Every attempt is
kept in a local history.

Configuration is read from MREPORT_* environment variables and an optional
.env file.`,
	SilenceUsage: true,
}

// Global flags
var (
	envFile  string
	logLevel string
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Read configuration from this file instead of ./.env")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides MREPORT_LOG_LEVEL)")
}
