package cli

import (
	"context"
	"strings"

	"finance-dashboard/internal/domain"
)

// resolvePeriod parses raw as YYYY-MM with the year clamped into the
// selectable range, or returns the persisted selection when raw is empty.
func resolvePeriod(ctx context.Context, services *appServices, raw string) (domain.PeriodKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return services.preferences.SelectedPeriod(ctx)
	}
	key, err := domain.ParsePeriodKey(raw)
	if err != nil {
		return domain.PeriodKey{}, err
	}
	return services.preferences.PeriodKey(key.Month, key.Year), nil
}
