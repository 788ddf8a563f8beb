package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mreport/internal/app"
	"github.com/emiliopalmerini/mreport/internal/report"
	"github.com/emiliopalmerini/mreport/internal/tui"
)

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Open the interactive report form",
	Long: `Open the report form in the terminal.

The form is drawn over a host screen. Press ctrl+r to open it, ctrl+s to
send and esc to close. Screenshots capture the host screen without the
form.

Examples:
  mreport form                       # Start with the form closed
  mreport form --once                # Open immediately, exit when closed
  mreport form --backdrop screen.txt # Draw the form over a saved screen`,
	RunE: runForm,
}

var (
	formOnce     bool
	formBackdrop string
)

func init() {
	rootCmd.AddCommand(formCmd)

	formCmd.Flags().BoolVar(&formOnce, "once", false, "Open the form on start and exit when it is closed")
	formCmd.Flags().StringVar(&formBackdrop, "backdrop", "", "Text file drawn behind the form")
}

func runForm(cmd *cobra.Command, args []string) error {
	var backdrop string
	if formBackdrop != "" {
		data, err := os.ReadFile(formBackdrop)
		if err != nil {
			return fmt.Errorf("failed to read backdrop: %w", err)
		}
		backdrop = string(data)
	}

	a, err := openApp(cmd, app.Options{History: true, Metrics: true})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(cmd.Context()) }()

	capturer := tui.NewCapturer()
	ctrl, err := a.NewController(report.WithCapturer(capturer))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	m := tui.NewModel(ctx, ctrl, capturer, tui.Options{
		Backdrop:    backdrop,
		Version:     a.Config.Version(),
		OpenOnStart: formOnce,
		QuitOnClose: formOnce,
	})
	return tui.Run(ctx, m)
}
