package output

import (
	"testing"
	"time"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"human":  FormatHuman,
		"json":   FormatJSON,
		" JSON ": FormatJSON,
		"Human":  FormatHuman,
		"yaml":   "",
		"":       "",
	}
	for input, want := range cases {
		got, ok := ParseFormat(input)
		if got != want || ok != (want != "") {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", input, got, ok, want)
		}
	}
}

func TestEnvelopeMeta(t *testing.T) {
	original := metaClock
	metaClock = func() time.Time { return time.Date(2026, 10, 14, 8, 0, 0, 0, time.FixedZone("EDT", -4*3600)) }
	t.Cleanup(func() { metaClock = original })

	success := NewSuccessEnvelope(map[string]any{"hello": "world"}, nil)
	if !success.Ok || success.Error != nil {
		t.Fatalf("expected ok envelope without error, got %+v", success)
	}
	if success.Warnings == nil || len(success.Warnings) != 0 {
		t.Fatalf("expected empty non-nil warnings, got %#v", success.Warnings)
	}
	if success.Meta.APIVersion != APIVersionV1 || success.Meta.App != AppName {
		t.Fatalf("unexpected meta: %+v", success.Meta)
	}
	if success.Meta.TimestampUTC != "2026-10-14T12:00:00Z" {
		t.Fatalf("expected timestamp normalized to utc, got %s", success.Meta.TimestampUTC)
	}

	failure := NewErrorEnvelope(CodeNotFound, "missing", nil, []WarningPayload{{Code: "W", Message: "w"}})
	if failure.Ok || failure.Data != nil {
		t.Fatalf("expected failed envelope without data, got %+v", failure)
	}
	if failure.Error == nil || failure.Error.Code != CodeNotFound {
		t.Fatalf("unexpected error payload: %+v", failure.Error)
	}
	if len(failure.Warnings) != 1 || failure.status() != "ERROR" {
		t.Fatalf("expected one warning and ERROR status, got %+v", failure)
	}
}
