package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerStampsComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Output: &buf, Component: ComponentLedger})
	logger.WarnContext(context.Background(), "dropped record", FieldKey, "finance_transactions")

	line := buf.String()
	if !strings.Contains(line, "component=ledger") {
		t.Fatalf("expected component attribute, got %q", line)
	}
	if !strings.Contains(line, "key=finance_transactions") {
		t.Fatalf("expected key attribute, got %q", line)
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf}).WithComponent(ComponentBackup)
	logger.InfoContext(context.Background(), "export complete")

	if !strings.Contains(buf.String(), `"component":"backup"`) {
		t.Fatalf("expected json component attribute, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw   string
		level slog.Level
		ok    bool
	}{
		{raw: "debug", level: slog.LevelDebug, ok: true},
		{raw: "", level: slog.LevelInfo, ok: true},
		{raw: "WARN", level: slog.LevelWarn, ok: true},
		{raw: "error", level: slog.LevelError, ok: true},
		{raw: "verbose", level: slog.LevelInfo, ok: false},
	}

	for _, tc := range cases {
		level, ok := ParseLevel(tc.raw)
		if level != tc.level || ok != tc.ok {
			t.Fatalf("ParseLevel(%q) = %v,%v want %v,%v", tc.raw, level, ok, tc.level, tc.ok)
		}
	}
}

func TestDiscardDropsRecords(t *testing.T) {
	t.Parallel()

	logger := Discard()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("expected discard logger to drop error records")
	}
}
