package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mreport/internal/adapters/turso"
	"github.com/emiliopalmerini/mreport/internal/app"
	"github.com/emiliopalmerini/mreport/internal/domain"
	"github.com/emiliopalmerini/mreport/internal/ports"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent submission attempts",
	Long: `List recent submission attempts, newest first.

Examples:
  mreport history                      # Last 20 attempts
  mreport history --limit 50           # Last 50 attempts
  mreport history --category feedback  # Only feedback`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old history records",
	Long: `Delete history records older than a duration.

Examples:
  mreport history prune                    # Older than 30 days
  mreport history prune --older-than 168h  # Older than a week`,
	Args: cobra.NoArgs,
	RunE: runHistoryPrune,
}

var (
	historyLimit     int
	historyCategory  string
	historyOlderThan time.Duration
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of records to show (0 for all)")
	historyCmd.Flags().StringVarP(&historyCategory, "category", "c", "", "Only show this category: bug or feedback")
	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 30*24*time.Hour, "Delete records older than this")
}

func openHistory(cmd *cobra.Command) (*turso.SubmissionRepository, func(), error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	db, err := app.OpenDatabase(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return turso.NewSubmissionRepository(db), func() { _ = db.Close() }, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyLimit < 0 {
		return errors.New("--limit must not be negative")
	}
	opts := ports.ListSubmissionsOptions{Limit: historyLimit}
	if historyCategory != "" {
		c, err := domain.ParseCategory(historyCategory)
		if err != nil {
			return err
		}
		opts.Category = &c
	}

	repo, closeDB, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	submissions, err := repo.List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(submissions) == 0 {
		fmt.Fprintln(out, "No submissions recorded")
		return nil
	}

	fmt.Fprintf(out, "%-16s  %-8s  %-22s  %-10s  %s\n", "WHEN", "CATEGORY", "OUTCOME", "CARD", "TITLE")
	for _, s := range submissions {
		card := s.CardID
		if card == "" {
			card = "-"
		}
		screenshot := ""
		if s.ScreenshotRequested {
			screenshot = " [screenshot]"
		}
		fmt.Fprintf(out, "%-16s  %-8s  %-22s  %-10s  %s%s\n",
			humanize.Time(s.CreatedAt),
			s.Category,
			s.Outcome,
			truncate(card, 10),
			truncate(s.Title, 48),
			screenshot,
		)
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	if historyOlderThan <= 0 {
		return errors.New("--older-than must be positive")
	}

	repo, closeDB, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	cutoff := time.Now().Add(-historyOlderThan)
	n, err := repo.DeleteBefore(cmd.Context(), cutoff)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s older than %s\n",
		pluralize(int(n), "record", "records"), humanize.Time(cutoff))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return humanize.Comma(int64(n)) + " " + plural
}
