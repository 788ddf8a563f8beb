package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/emiliopalmerini/mreport/internal/domain"
	"github.com/emiliopalmerini/mreport/internal/report"
)

func assertEqual[T comparable](t *testing.T, name string, want, got T) {
	t.Helper()
	if want != got {
		t.Errorf("%s: want %v, got %v", name, want, got)
	}
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MREPORT_BUG_LIST_ID", "list-bugs")
	t.Setenv("MREPORT_FEEDBACK_LIST_ID", "list-feedback")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	assertEqual(t, "base url", "https://api.trello.com/1", cfg.TrelloBaseURL)
	assertEqual(t, "timeout", 30*time.Second, cfg.RequestTimeout)
	assertEqual(t, "visibility", "toggle", cfg.Visibility)
	assertEqual(t, "addr", ":8080", cfg.Addr)
	assertEqual(t, "otel enabled", false, cfg.OTEL.Enabled)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MREPORT_TRELLO_API_KEY", "key")
	t.Setenv("MREPORT_TRELLO_TOKEN", "token")
	t.Setenv("MREPORT_REQUEST_TIMEOUT", "5s")
	t.Setenv("MREPORT_VISIBILITY", "fade")
	t.Setenv("MREPORT_BUG_PLACEHOLDER", "What broke?")
	t.Setenv("MREPORT_OTEL_ENABLED", "true")
	t.Setenv("MREPORT_OTEL_ENDPOINT", "localhost:4317")
	t.Setenv("MREPORT_APP_VERSION", "2.0.0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	assertEqual(t, "credentials", domain.Credentials{APIKey: "key", Token: "token"}, cfg.Credentials())
	assertEqual(t, "otel active", true, cfg.OTEL.Active())
	assertEqual(t, "version", "2.0.0", cfg.Version())

	rc := cfg.ReportConfig()
	assertEqual(t, "timeout", 5*time.Second, rc.RequestTimeout)
	assertEqual(t, "visibility", report.VisibilityFade, rc.Visibility)
	assertEqual(t, "bug list", "list-bugs", rc.Categories[domain.CategoryBug].ListID)
	assertEqual(t, "feedback list", "list-feedback", rc.Categories[domain.CategoryFeedback].ListID)
	assertEqual(t, "bug placeholder", "What broke?", rc.Categories[domain.CategoryBug].Placeholder.Description)
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("MREPORT_FEEDBACK_LIST_ID", "from-env")
	t.Setenv("MREPORT_BUG_LIST_ID", "")
	os.Unsetenv("MREPORT_BUG_LIST_ID")
	path := filepath.Join(t.TempDir(), "test.env")
	content := "MREPORT_BUG_LIST_ID=from-file\nMREPORT_FEEDBACK_LIST_ID=ignored\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertEqual(t, "bug list", "from-file", cfg.BugListID)
	assertEqual(t, "feedback list", "from-env", cfg.FeedbackListID)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad visibility", map[string]string{"MREPORT_VISIBILITY": "blink"}, "VISIBILITY"},
		{"bad log level", map[string]string{"MREPORT_LOG_LEVEL": "loud"}, "log level"},
		{"bad timeout", map[string]string{"MREPORT_REQUEST_TIMEOUT": "soon"}, "REQUEST_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad_MissingEnvFile(t *testing.T) {
	setRequiredEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatal("expected error for explicit missing env file")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLogLevel(%q): %v", tt.in, err)
			continue
		}
		assertEqual(t, tt.in, tt.want, got)
	}
}

func TestResolveDatabaseURL(t *testing.T) {
	cfg := &Config{DatabaseURL: "libsql://example.turso.io"}
	got, err := cfg.ResolveDatabaseURL()
	if err != nil {
		t.Fatalf("ResolveDatabaseURL: %v", err)
	}
	assertEqual(t, "url", "libsql://example.turso.io", got)

	t.Setenv("XDG_DATA_HOME", t.TempDir())
	got, err = (&Config{}).ResolveDatabaseURL()
	if err != nil {
		t.Fatalf("ResolveDatabaseURL: %v", err)
	}
	if !strings.HasPrefix(got, "file:") || !strings.HasSuffix(got, "history.db") {
		t.Errorf("unexpected default url %q", got)
	}
}
