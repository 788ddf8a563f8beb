package turso

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"
)

// NewDB opens the history database. Local "file:" URLs are used as is;
// remote libsql URLs get the auth token appended when one is set.
func NewDB(databaseURL, authToken string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("libsql", connString(databaseURL, authToken))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if !isLocal(databaseURL) {
		// Remote streams are closed aggressively by the server, so idle
		// connections are not kept.
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(0)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func isLocal(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "file:")
}

func connString(databaseURL, authToken string) string {
	if authToken == "" || isLocal(databaseURL) {
		return databaseURL
	}
	sep := "?"
	if strings.Contains(databaseURL, "?") {
		sep = "&"
	}
	return databaseURL + sep + "authToken=" + url.QueryEscape(authToken)
}

// IsStreamError checks if an error is a remote "stream not found" error.
func IsStreamError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "stream not found")
}

// WithRetry executes fn, retrying up to maxRetries times on stream errors.
func WithRetry[T any](ctx context.Context, maxRetries int, fn func() (T, error)) (T, error) {
	var result T
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, err = fn()
		if err == nil {
			return result, nil
		}

		if !IsStreamError(err) || attempt == maxRetries {
			return result, err
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}

	return result, err
}
