package service

import (
	"context"
	"fmt"

	"finance-dashboard/internal/domain"
	applog "finance-dashboard/internal/log"
	"finance-dashboard/internal/ports"
)

type PreferenceService struct {
	store documentStore
	serviceDeps
}

func NewPreferenceService(kv ports.KeyValueStore, opts ...Option) (*PreferenceService, error) {
	if kv == nil {
		return nil, fmt.Errorf("preference service: kv store is required")
	}

	deps := newServiceDeps(applog.ComponentPreferences, opts)
	return &PreferenceService{
		store:       documentStore{kv: kv, logger: deps.logger},
		serviceDeps: deps,
	}, nil
}

// Get returns the persisted preferences merged onto the defaults. Unreadable
// or malformed data yields the defaults.
func (s *PreferenceService) Get(ctx context.Context) (domain.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return domain.Preferences{}, err
	}

	value, _ := s.store.loadForRead(ctx, domain.StorageKeyPreferences)
	return domain.NormalizePreferences(value, s.now()), nil
}

// Set merges patch onto the current preferences and persists the result.
func (s *PreferenceService) Set(ctx context.Context, patch domain.PreferencesPatch) (domain.Preferences, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return domain.Preferences{}, err
	}

	next := domain.ApplyPreferencesPatch(current, patch, s.now())
	if err := s.store.save(ctx, domain.StorageKeyPreferences, next); err != nil {
		return domain.Preferences{}, err
	}
	return next, nil
}

// Replace overlays raw, a decoded preferences document, onto the current
// preferences and persists the result. Fields raw does not carry are kept.
func (s *PreferenceService) Replace(ctx context.Context, raw any) (domain.Preferences, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return domain.Preferences{}, err
	}

	next := domain.NormalizePreferencesOnto(current, raw, s.now())
	if err := s.store.save(ctx, domain.StorageKeyPreferences, next); err != nil {
		return domain.Preferences{}, err
	}
	return next, nil
}

// SetSelectedPeriod moves the selection. It never creates a budget period.
func (s *PreferenceService) SetSelectedPeriod(ctx context.Context, month, year int) (domain.Preferences, error) {
	return s.Set(ctx, domain.PreferencesPatch{SelectedMonth: &month, SelectedYear: &year})
}

func (s *PreferenceService) SetTheme(ctx context.Context, theme string) (domain.Preferences, error) {
	return s.Set(ctx, domain.PreferencesPatch{Theme: &theme})
}

func (s *PreferenceService) SetCurrency(ctx context.Context, currency string) (domain.Preferences, error) {
	return s.Set(ctx, domain.PreferencesPatch{Currency: &currency})
}

func (s *PreferenceService) SetUIThemePreset(ctx context.Context, preset string) (domain.Preferences, error) {
	return s.Set(ctx, domain.PreferencesPatch{UIThemePreset: &preset})
}

// SelectedPeriod builds the PeriodKey the preferences point at.
func (s *PreferenceService) SelectedPeriod(ctx context.Context) (domain.PeriodKey, error) {
	preferences, err := s.Get(ctx)
	if err != nil {
		return domain.PeriodKey{}, err
	}
	return preferences.SelectedPeriod(s.now()), nil
}

// PeriodKey clamps month and year the same way the stored selection is
// clamped.
func (s *PreferenceService) PeriodKey(month, year int) domain.PeriodKey {
	return domain.NewPeriodKey(month, year, s.now())
}

func (s *PreferenceService) Currencies() []domain.Currency {
	return domain.Currencies()
}

// CurrencyInfo returns display metadata for the selected currency.
func (s *PreferenceService) CurrencyInfo(ctx context.Context) (domain.Currency, error) {
	preferences, err := s.Get(ctx)
	if err != nil {
		return domain.Currency{}, err
	}
	currency, _ := domain.LookupCurrency(preferences.Currency)
	return currency, nil
}
