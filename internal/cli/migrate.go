package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mreport/internal/adapters/turso"
	"github.com/emiliopalmerini/mreport/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run history database migrations",
	Long: `Run history database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  mreport migrate      # Run all pending migrations
  mreport migrate 1    # Migrate to version 1
  mreport migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var target int
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			return fmt.Errorf("invalid version number: %s", args[0])
		}
		target = v
	}

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	url, err := cfg.ResolveDatabaseURL()
	if err != nil {
		return err
	}
	db, err := turso.NewDB(url, cfg.DatabaseAuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	m := migrate.New(db, cmd.OutOrStdout())
	current, _, err := m.CurrentVersion(ctx)
	if err != nil {
		// The migrations table does not exist yet.
		current = 0
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Current version: %d\n", current)

	if len(args) == 0 {
		_, err = m.Up(ctx)
		return err
	}
	return m.To(ctx, target)
}
