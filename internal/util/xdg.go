package util

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "mreport"

// GetXDGDataDir returns the XDG data directory for mreport.
// It respects XDG_DATA_HOME if set, otherwise falls back to ~/.local/share/mreport
func GetXDGDataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".local", "share", appName), nil
}

// DefaultDatabaseURL returns the libsql URL of the local history database,
// creating its directory when missing.
func DefaultDatabaseURL() (string, error) {
	dir, err := GetXDGDataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return "file:" + filepath.Join(dir, "history.db"), nil
}
