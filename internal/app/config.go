package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/mreport/internal/adapters/otel"
	"github.com/emiliopalmerini/mreport/internal/adapters/trello"
	"github.com/emiliopalmerini/mreport/internal/domain"
	"github.com/emiliopalmerini/mreport/internal/report"
	"github.com/emiliopalmerini/mreport/internal/util"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MREPORT"

type Config struct {
	TrelloAPIKey  string `envconfig:"TRELLO_API_KEY"`
	TrelloToken   string `envconfig:"TRELLO_TOKEN"`
	TrelloBaseURL string `envconfig:"TRELLO_BASE_URL" default:"https://api.trello.com/1"`

	// The list ids are checked when a controller is built so history and
	// migrate work without them.
	BugListID           string `envconfig:"BUG_LIST_ID"`
	FeedbackListID      string `envconfig:"FEEDBACK_LIST_ID"`
	BugPlaceholder      string `envconfig:"BUG_PLACEHOLDER"`
	FeedbackPlaceholder string `envconfig:"FEEDBACK_PLACEHOLDER"`

	AppVersion     string        `envconfig:"APP_VERSION"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	Visibility     string        `envconfig:"VISIBILITY" default:"toggle"`

	DatabaseURL       string `envconfig:"DATABASE_URL"`
	DatabaseAuthToken string `envconfig:"DATABASE_AUTH_TOKEN"`

	Addr            string        `envconfig:"ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	OTEL otel.Config `envconfig:"OTEL"`
}

// Load reads env files and then the MREPORT_* environment. Without
// arguments it reads ./.env if present. Variables already set in the
// environment win over the files.
func Load(envFiles ...string) (*Config, error) {
	err := godotenv.Load(envFiles...)
	if err != nil && (len(envFiles) > 0 || !errors.Is(err, os.ErrNotExist)) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, ok := report.ParseVisibilityMode(c.Visibility); !ok {
		return fmt.Errorf("invalid %s_VISIBILITY %q (expected toggle or fade)", EnvPrefix, c.Visibility)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Credentials returns the board API credentials.
func (c *Config) Credentials() domain.Credentials {
	return domain.Credentials{APIKey: c.TrelloAPIKey, Token: c.TrelloToken}
}

// ReportConfig builds the controller configuration.
func (c *Config) ReportConfig() report.Config {
	visibility, _ := report.ParseVisibilityMode(c.Visibility)
	return report.Config{
		Categories: map[domain.Category]domain.CategorySpec{
			domain.CategoryBug: {
				ListID:      c.BugListID,
				Placeholder: domain.Placeholder{Description: c.BugPlaceholder},
			},
			domain.CategoryFeedback: {
				ListID:      c.FeedbackListID,
				Placeholder: domain.Placeholder{Description: c.FeedbackPlaceholder},
			},
		},
		RequestTimeout: c.RequestTimeout,
		Visibility:     visibility,
	}
}

// TrelloConfig builds the board client configuration.
func (c *Config) TrelloConfig(logger *slog.Logger) trello.Config {
	return trello.Config{BaseURL: c.TrelloBaseURL, Logger: logger}
}

// Version returns the configured application version, falling back to the
// module build version and finally "dev".
func (c *Config) Version() string {
	if c.AppVersion != "" {
		return c.AppVersion
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// ResolveDatabaseURL returns the configured database URL or the default
// local file under the XDG data directory.
func (c *Config) ResolveDatabaseURL() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	return util.DefaultDatabaseURL()
}

// ParseLogLevel maps debug, info, warn and error onto slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", s)
	}
}
