package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/emiliopalmerini/mreport/internal/adapters/otel"
	"github.com/emiliopalmerini/mreport/internal/adapters/pngenc"
	"github.com/emiliopalmerini/mreport/internal/adapters/trello"
	"github.com/emiliopalmerini/mreport/internal/adapters/turso"
	"github.com/emiliopalmerini/mreport/internal/migrate"
	"github.com/emiliopalmerini/mreport/internal/ports"
	"github.com/emiliopalmerini/mreport/internal/report"
)

// App holds the dependencies shared by every host.
type App struct {
	Config     *Config
	Logger     *slog.Logger
	Client     *trello.Client
	DB         *sql.DB
	Repository ports.SubmissionRepository
	Metrics    ports.MetricsExporter
}

// Options selects which optional dependencies New opens.
type Options struct {
	History bool
	Metrics bool
}

// New wires the board client and, when requested, the history store and
// the metrics exporter. Neither optional dependency is fatal: a failure is
// logged and the app runs without it.
func New(ctx context.Context, cfg *Config, logger *slog.Logger, opts Options) *App {
	if logger == nil {
		logger = slog.Default()
	}

	client := trello.NewClient(cfg.TrelloConfig(logger))
	client.Initialize(cfg.Credentials())
	if !client.Initialized() {
		logger.Warn("trello credentials are not configured; submissions will fail",
			"key_var", EnvPrefix+"_TRELLO_API_KEY", "token_var", EnvPrefix+"_TRELLO_TOKEN")
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Metrics: otel.NewNoOpExporter(),
	}

	if opts.History {
		db, err := OpenDatabase(ctx, cfg)
		if err != nil {
			logger.Warn("submission history disabled", "error", err)
		} else {
			a.DB = db
			a.Repository = turso.NewSubmissionRepository(db)
		}
	}

	if opts.Metrics {
		exporter, err := otel.NewExporter(ctx, cfg.OTEL, cfg.Version())
		switch {
		case errors.Is(err, otel.ErrDisabled):
			logger.Debug("metrics export disabled")
		case err != nil:
			logger.Warn("metrics export disabled", "error", err)
		default:
			a.Metrics = exporter
		}
	}

	return a
}

// OpenDatabase connects to the history database and applies pending
// migrations.
func OpenDatabase(ctx context.Context, cfg *Config) (*sql.DB, error) {
	url, err := cfg.ResolveDatabaseURL()
	if err != nil {
		return nil, err
	}
	db, err := turso.NewDB(url, cfg.DatabaseAuthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// ControllerOptions returns the controller options every host shares.
func (a *App) ControllerOptions() []report.Option {
	opts := []report.Option{
		report.WithEncoder(pngenc.Encoder{}),
		report.WithVersion(ports.StaticVersion(a.Config.Version())),
		report.WithMetrics(a.Metrics),
		report.WithLogger(a.Logger),
	}
	if a.Repository != nil {
		opts = append(opts, report.WithRepository(a.Repository))
	}
	return opts
}

// NewController builds a controller with the shared options followed by extra.
func (a *App) NewController(extra ...report.Option) (*report.Controller, error) {
	opts := append(a.ControllerOptions(), extra...)
	return report.New(a.Config.ReportConfig(), a.Client, opts...)
}

// Close flushes metrics and closes the database.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Metrics != nil {
		if err := a.Metrics.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close metrics exporter: %w", err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
