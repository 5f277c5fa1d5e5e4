package cli

import (
	"strings"
	"testing"

	"finance-dashboard/internal/cli/output"
)

func TestPrefsShowReturnsDefaults(t *testing.T) {
	t.Parallel()

	db := newCLITestDB(t)
	data := requireOK(t, executeCmdJSON(t, db, NewPrefsCmd, []string{"show"}))

	preferences := mustMap(t, data["preferences"])
	if preferences["currency"] != "USD" || preferences["theme"] != "light" || preferences["uiThemePreset"] != "default" {
		t.Fatalf("unexpected default preferences: %v", preferences)
	}
	if data["selected_period"] != "2026-10" {
		t.Fatalf("expected selected period 2026-10, got %v", data["selected_period"])
	}
	if mustMap(t, data["currency"])["symbol"] != "$" {
		t.Fatalf("expected dollar symbol, got %v", data["currency"])
	}
}

func TestPrefsSetClampsSelection(t *testing.T) {
	t.Parallel()

	db := newCLITestDB(t)
	data := requireOK(t, executeCmdJSON(t, db, NewPrefsCmd, []string{
		"set", "--currency", "EUR", "--theme", "dark", "--month", "15", "--year", "3000",
	}))

	preferences := mustMap(t, data["preferences"])
	if preferences["currency"] != "EUR" || preferences["theme"] != "dark" {
		t.Fatalf("unexpected preferences: %v", preferences)
	}
	if preferences["selectedMonth"] != float64(11) || preferences["selectedYear"] != float64(2051) {
		t.Fatalf("expected clamped selection 11/2051, got %v/%v", preferences["selectedMonth"], preferences["selectedYear"])
	}

	shown := requireOK(t, executeCmdJSON(t, db, NewPrefsCmd, []string{"show"}))
	if shown["selected_period"] != "2051-12" {
		t.Fatalf("expected persisted selection 2051-12, got %v", shown["selected_period"])
	}
}

func TestPrefsSetByPeriod(t *testing.T) {
	t.Parallel()

	db := newCLITestDB(t)
	requireOK(t, executeCmdJSON(t, db, NewPrefsCmd, []string{"set", "--period", "2025-03"}))

	shown := requireOK(t, executeCmdJSON(t, db, NewPrefsCmd, []string{"show"}))
	if shown["selected_period"] != "2025-03" {
		t.Fatalf("expected selection 2025-03, got %v", shown["selected_period"])
	}
}

func TestPrefsSetValidation(t *testing.T) {
	t.Parallel()

	db := newCLITestDB(t)

	requireErrorCode(t, executeCmdJSON(t, db, NewPrefsCmd, []string{"set"}), output.CodeInvalidArgument)

	details := requireErrorCode(t, executeCmdJSON(t, db, NewPrefsCmd, []string{"set", "--period", "2026-13"}), output.CodeInvalidArgument)
	if details["reason"] != "invalid_period" {
		t.Fatalf("expected invalid_period reason, got %v", details)
	}
}

func TestPrefsCurrenciesListsSupportedCodes(t *testing.T) {
	t.Parallel()

	db := newCLITestDB(t)
	data := requireOK(t, executeCmdJSON(t, db, NewPrefsCmd, []string{"currencies"}))

	if data["count"] != float64(14) {
		t.Fatalf("expected 14 currencies, got %v", data["count"])
	}
	first := mustMap(t, mustSlice(t, data["currencies"])[0])
	if first["code"] != "USD" || first["locale"] != "en-US" {
		t.Fatalf("unexpected first currency: %v", first)
	}
}

func TestPrefsShowHumanOutput(t *testing.T) {
	t.Parallel()

	db := newCLITestDB(t)
	raw := executeCmdRaw(t, newCLITestOptions(db, output.FormatHuman), NewPrefsCmd, []string{"show"})

	if !strings.HasPrefix(raw, "[OK] finance-dashboard") {
		t.Fatalf("expected human status line, got %q", raw)
	}
	if !strings.Contains(raw, `"selected_period": "2026-10"`) {
		t.Fatalf("expected selected period in human output, got %q", raw)
	}
}
