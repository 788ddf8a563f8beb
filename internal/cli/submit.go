package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mreport/internal/adapters/capture"
	"github.com/emiliopalmerini/mreport/internal/app"
	"github.com/emiliopalmerini/mreport/internal/domain"
	"github.com/emiliopalmerini/mreport/internal/report"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Send a report without the interactive form",
	Long: `Send a single report and print the result.

The description is read from --description, or from stdin when it is "-".
With --screenshot the given PNG is attached to the new card.

Examples:
  mreport submit --title "Crash on load" --description "Opening a project crashes"
  mreport submit --category feedback --title "Dark mode" --description - < notes.txt
  mreport submit --title "Broken layout" --description "See image" --screenshot shot.png`,
	RunE: runSubmit,
}

var (
	submitTitle       string
	submitDescription string
	submitCategory    string
	submitScreenshot  string
	submitNoHistory   bool
)

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVarP(&submitTitle, "title", "t", "", "Report title")
	submitCmd.Flags().StringVarP(&submitDescription, "description", "d", "", `Report description ("-" reads stdin)`)
	submitCmd.Flags().StringVarP(&submitCategory, "category", "c", "bug", "Report category: bug or feedback")
	submitCmd.Flags().StringVar(&submitScreenshot, "screenshot", "", "PNG file to attach to the card")
	submitCmd.Flags().BoolVar(&submitNoHistory, "no-history", false, "Do not record the attempt in the local history")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	category, err := domain.ParseCategory(submitCategory)
	if err != nil {
		return err
	}

	description := submitDescription
	if description == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read description: %w", err)
		}
		description = strings.TrimRight(string(data), "\n")
	}

	var extra []report.Option
	if submitScreenshot != "" {
		capturer, err := capture.FromFile(submitScreenshot)
		if err != nil {
			return err
		}
		extra = append(extra, report.WithCapturer(capturer))
	}

	a, err := openApp(cmd, app.Options{History: !submitNoHistory, Metrics: true})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(cmd.Context()) }()

	ctrl, err := a.NewController(extra...)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	if err := ctrl.Show(); err != nil {
		return err
	}
	truncated, err := ctrl.Fill(category, submitTitle, description, submitScreenshot != "")
	if err != nil {
		return err
	}
	if truncated {
		fmt.Fprintf(cmd.ErrOrStderr(), "description truncated to %d characters\n", domain.MaxDescriptionLength)
	}

	result, err := ctrl.Submit(ctx)
	if err != nil {
		return fmt.Errorf("failed to submit report: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Message())
	if !result.OK() {
		return errors.New("report not fully delivered")
	}
	return nil
}
