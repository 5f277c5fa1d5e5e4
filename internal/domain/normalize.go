package domain

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultTextMaxLength = 80
	MaxIdentifierLength  = 64
	MaxNameLength        = 40
	DefaultColor         = "#4299e1"
	DateLayout           = "2006-01-02"
)

var (
	hexColorPattern     = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	calendarDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	displayEscaper      = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
)

// TextOptions controls SanitizeText. A zero MaxLength means
// DefaultTextMaxLength.
type TextOptions struct {
	MaxLength int
	Fallback  string
	KeepEdges bool
}

// SanitizeText replaces control characters with spaces, collapses whitespace
// runs, trims unless KeepEdges is set and truncates to MaxLength runes.
func SanitizeText(raw any, opts TextOptions) string {
	maxLength := opts.MaxLength
	if maxLength <= 0 {
		maxLength = DefaultTextMaxLength
	}

	var builder strings.Builder
	pendingSpace := false
	for _, r := range textFromAny(raw) {
		if r == utf8.RuneError || unicode.IsControl(r) || unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace {
			builder.WriteByte(' ')
			pendingSpace = false
		}
		builder.WriteRune(r)
	}
	if pendingSpace {
		builder.WriteByte(' ')
	}

	cleaned := builder.String()
	if !opts.KeepEdges {
		cleaned = strings.TrimSpace(cleaned)
	}

	if utf8.RuneCountInString(cleaned) > maxLength {
		cleaned = string([]rune(cleaned)[:maxLength])
		if !opts.KeepEdges {
			cleaned = strings.TrimSpace(cleaned)
		}
	}

	if cleaned == "" {
		return opts.Fallback
	}
	return cleaned
}

// SanitizeName sanitizes a display name to MaxNameLength and title-cases it.
func SanitizeName(raw any, fallback string) string {
	cleaned := SanitizeText(raw, TextOptions{MaxLength: MaxNameLength})
	if cleaned == "" {
		return fallback
	}
	return TitleCase(cleaned)
}

// SanitizeIdentifier sanitizes a record id to MaxIdentifierLength.
func SanitizeIdentifier(raw any) string {
	return SanitizeText(raw, TextOptions{MaxLength: MaxIdentifierLength})
}

// NormalizeHexColor returns raw lower-cased when it is a #rrggbb color, or
// fallback otherwise. An empty fallback means DefaultColor.
func NormalizeHexColor(raw any, fallback string) string {
	if fallback == "" {
		fallback = DefaultColor
	}
	value, ok := raw.(string)
	if !ok {
		return fallback
	}
	value = strings.TrimSpace(value)
	if !hexColorPattern.MatchString(value) {
		return fallback
	}
	return strings.ToLower(value)
}

// IsValidCalendarDate reports whether raw is a YYYY-MM-DD string naming a real
// calendar day.
func IsValidCalendarDate(raw any) bool {
	value, ok := raw.(string)
	if !ok || !calendarDatePattern.MatchString(value) {
		return false
	}
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

func TitleCase(value string) string {
	return cases.Title(language.Und).String(value)
}

// EscapeForDisplay escapes text for interpolation into markup.
func EscapeForDisplay(value string) string {
	return displayEscaper.Replace(value)
}

func NewID() string {
	return uuid.NewString()
}

// FormatTimestamp renders t the way records store createdAt and updatedAt.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func textFromAny(raw any) string {
	switch value := raw.(type) {
	case nil:
		return ""
	case string:
		return value
	case json.Number:
		return value.String()
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case bool:
		return strconv.FormatBool(value)
	default:
		return ""
	}
}
