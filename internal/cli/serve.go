package cli

import (
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mreport/internal/app"
	"github.com/emiliopalmerini/mreport/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept reports over HTTP",
	Long: `Start the HTTP intake so other processes can file reports.

Endpoints:
  GET  /health    liveness probe
  POST /reports   multipart form: title, description, category, screenshot (PNG, optional)
  GET  /reports   recent history as JSON (?limit=, ?category=)

Examples:
  mreport serve                # Listen on MREPORT_ADDR (default :8080)
  mreport serve --addr :3000   # Listen on port 3000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (overrides MREPORT_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, app.Options{History: true, Metrics: true})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(cmd.Context()) }()

	addr := a.Config.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	s, err := server.New(server.Config{
		Addr:            addr,
		Report:          a.Config.ReportConfig(),
		Version:         a.Config.Version(),
		ShutdownTimeout: a.Config.ShutdownTimeout,
	}, server.Deps{
		Client:     a.Client,
		Repository: a.Repository,
		Metrics:    a.Metrics,
		Logger:     a.Logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()
	return s.Start(ctx)
}
