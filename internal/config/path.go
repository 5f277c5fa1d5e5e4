package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	EnvHome        = "FINANCE_DASHBOARD_HOME"
	envXDGDataHome = "XDG_DATA_HOME"

	appDirName    = "finance-dashboard"
	DefaultDBFile = "finance-dashboard.db"
)

// DataDir resolves where the database lives, in order: $FINANCE_DASHBOARD_HOME,
// $XDG_DATA_HOME/finance-dashboard, ~/.finance-dashboard. The directory is
// created on first open, not here.
func DataDir(getenv func(string) string) (string, error) {
	if dir := strings.TrimSpace(getenv(EnvHome)); dir != "" {
		return filepath.Clean(dir), nil
	}
	if base := strings.TrimSpace(getenv(envXDGDataHome)); filepath.IsAbs(base) {
		return filepath.Join(base, appDirName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, "."+appDirName), nil
}

func DefaultDBPath(getenv func(string) string) (string, error) {
	dir, err := DataDir(getenv)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultDBFile), nil
}
