package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"finance-dashboard/internal/cli/output"
	sqlitestore "finance-dashboard/internal/store/sqlite"
	"github.com/spf13/cobra"
)

var cliTestNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

type commandBuilder func(opts *RootOptions) *cobra.Command

func newCLITestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "cli_test.db")

	db, err := sqlitestore.OpenAndMigrate(ctx, dbPath, "")
	if err != nil {
		t.Fatalf("open and migrate cli test db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func newCLITestOptions(db *sql.DB, format string) *RootOptions {
	return &RootOptions{
		Output:   format,
		Timezone: "UTC",
		DBPath:   "cli_test.db",
		db:       db,
		now:      func() time.Time { return cliTestNow },
	}
}

func executeCmdJSON(t *testing.T, db *sql.DB, build commandBuilder, args []string) map[string]any {
	t.Helper()

	raw := executeCmdRaw(t, newCLITestOptions(db, output.FormatJSON), build, args)
	payload := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v raw=%s", err, raw)
	}
	return payload
}

func executeCmdRaw(t *testing.T, opts *RootOptions, build commandBuilder, args []string) string {
	t.Helper()

	cmd := build(opts)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute cmd %v: %v", args, err)
	}

	return strings.TrimSpace(buf.String())
}

// requireOK asserts a success envelope and returns its data.
func requireOK(t *testing.T, payload map[string]any) map[string]any {
	t.Helper()

	ok, _ := payload["ok"].(bool)
	if !ok {
		t.Fatalf("expected ok=true, got payload=%v", payload)
	}
	return mustMap(t, payload["data"])
}

// requireErrorCode asserts an error envelope with code and returns its
// details.
func requireErrorCode(t *testing.T, payload map[string]any, code string) map[string]any {
	t.Helper()

	ok, _ := payload["ok"].(bool)
	if ok {
		t.Fatalf("expected ok=false, got payload=%v", payload)
	}
	errorPayload := mustMap(t, payload["error"])
	if errorPayload["code"] != code {
		t.Fatalf("expected error code %q, got %v", code, errorPayload["code"])
	}
	details, _ := errorPayload["details"].(map[string]any)
	return details
}

func mustMap(t *testing.T, value any) map[string]any {
	t.Helper()

	mapped, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", value)
	}
	return mapped
}

func mustSlice(t *testing.T, value any) []any {
	t.Helper()

	items, ok := value.([]any)
	if !ok {
		t.Fatalf("expected []any, got %T", value)
	}
	return items
}
