package domain

import (
	"strings"
	"time"
)

const (
	DefaultCurrency      = "USD"
	ThemeLight           = "light"
	ThemeDark            = "dark"
	DefaultUIThemePreset = "default"
)

var UIThemePresets = []string{"default", "ocean", "forest", "sunset", "midnight"}

type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Locale string `json:"locale"`
}

var currencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar", Locale: "en-US"},
	{Code: "EUR", Symbol: "€", Name: "Euro", Locale: "de-DE"},
	{Code: "GBP", Symbol: "£", Name: "British Pound", Locale: "en-GB"},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Locale: "ja-JP"},
	{Code: "CNY", Symbol: "¥", Name: "Chinese Yuan", Locale: "zh-CN"},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee", Locale: "en-IN"},
	{Code: "NGN", Symbol: "₦", Name: "Nigerian Naira", Locale: "en-NG"},
	{Code: "BRL", Symbol: "R$", Name: "Brazilian Real", Locale: "pt-BR"},
	{Code: "KRW", Symbol: "₩", Name: "South Korean Won", Locale: "ko-KR"},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar", Locale: "en-AU"},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar", Locale: "en-CA"},
	{Code: "CHF", Symbol: "CHF", Name: "Swiss Franc", Locale: "de-CH"},
	{Code: "MXN", Symbol: "MX$", Name: "Mexican Peso", Locale: "es-MX"},
	{Code: "ZAR", Symbol: "R", Name: "South African Rand", Locale: "en-ZA"},
}

// Currencies returns the supported display currencies.
func Currencies() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// LookupCurrency returns the currency for code, case-insensitively.
func LookupCurrency(code string) (Currency, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	for _, currency := range currencies {
		if currency.Code == normalized {
			return currency, true
		}
	}
	return Currency{}, false
}

type Preferences struct {
	Currency      string `json:"currency"`
	Theme         string `json:"theme"`
	UIThemePreset string `json:"uiThemePreset"`
	SelectedMonth int    `json:"selectedMonth"`
	SelectedYear  int    `json:"selectedYear"`
}

// PreferencesPatch holds the fields a preference update touches.
type PreferencesPatch struct {
	Currency      *string
	Theme         *string
	UIThemePreset *string
	SelectedMonth *int
	SelectedYear  *int
}

func DefaultPreferences(now time.Time) Preferences {
	current := CurrentPeriodKey(now)
	return Preferences{
		Currency:      DefaultCurrency,
		Theme:         ThemeLight,
		UIThemePreset: DefaultUIThemePreset,
		SelectedMonth: current.Month,
		SelectedYear:  current.Year,
	}
}

// NormalizePreferences merges a decoded JSON value onto the defaults and
// re-validates every field.
func NormalizePreferences(raw any, now time.Time) Preferences {
	return NormalizePreferencesOnto(DefaultPreferences(now), raw, now)
}

// NormalizePreferencesOnto overlays the fields present in raw onto base and
// re-validates every field. Absent fields keep the value from base.
func NormalizePreferencesOnto(base Preferences, raw any, now time.Time) Preferences {
	preferences := base
	fields, ok := raw.(map[string]any)
	if !ok {
		preferences.SelectedMonth = ClampMonth(preferences.SelectedMonth)
		preferences.SelectedYear = ClampYear(preferences.SelectedYear, now)
		return preferences
	}

	if currency, ok := fields["currency"].(string); ok {
		preferences.Currency = normalizeCurrency(currency)
	}
	if theme, ok := fields["theme"].(string); ok {
		preferences.Theme = normalizeTheme(theme)
	}
	if preset, ok := fields["uiThemePreset"].(string); ok {
		preferences.UIThemePreset = normalizeUIThemePreset(preset)
	}
	if _, present := fields["selectedMonth"]; present {
		month := ClampNumber(fields["selectedMonth"], NumberBounds{Fallback: float64(preferences.SelectedMonth), Min: 0, Max: 11})
		preferences.SelectedMonth = int(month)
	}
	if _, present := fields["selectedYear"]; present {
		year := ClampNumber(fields["selectedYear"], NumberBounds{Fallback: float64(preferences.SelectedYear), Min: 0, Max: 9999})
		preferences.SelectedYear = int(year)
	}

	preferences.SelectedMonth = ClampMonth(preferences.SelectedMonth)
	preferences.SelectedYear = ClampYear(preferences.SelectedYear, now)
	return preferences
}

// ApplyPreferencesPatch merges patch onto current and re-validates.
func ApplyPreferencesPatch(current Preferences, patch PreferencesPatch, now time.Time) Preferences {
	next := current
	if patch.Currency != nil {
		next.Currency = normalizeCurrency(*patch.Currency)
	}
	if patch.Theme != nil {
		next.Theme = normalizeTheme(*patch.Theme)
	}
	if patch.UIThemePreset != nil {
		next.UIThemePreset = normalizeUIThemePreset(*patch.UIThemePreset)
	}
	if patch.SelectedMonth != nil {
		next.SelectedMonth = *patch.SelectedMonth
	}
	if patch.SelectedYear != nil {
		next.SelectedYear = *patch.SelectedYear
	}

	next.SelectedMonth = ClampMonth(next.SelectedMonth)
	next.SelectedYear = ClampYear(next.SelectedYear, now)
	return next
}

// SelectedPeriod is the period the preferences currently point at.
func (p Preferences) SelectedPeriod(now time.Time) PeriodKey {
	return NewPeriodKey(p.SelectedMonth, p.SelectedYear, now)
}

func normalizeCurrency(raw string) string {
	if currency, ok := LookupCurrency(raw); ok {
		return currency.Code
	}
	return DefaultCurrency
}

func normalizeTheme(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), ThemeDark) {
		return ThemeDark
	}
	return ThemeLight
}

func normalizeUIThemePreset(raw string) string {
	candidate := strings.ToLower(strings.TrimSpace(raw))
	for _, preset := range UIThemePresets {
		if preset == candidate {
			return preset
		}
	}
	return DefaultUIThemePreset
}
