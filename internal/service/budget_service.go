package service

import (
	"context"
	"fmt"
	"sort"

	"finance-dashboard/internal/domain"
	applog "finance-dashboard/internal/log"
	"finance-dashboard/internal/ports"
)

// SelectionSource supplies the currently selected period. It is consulted
// only when a legacy single-period budget is migrated.
type SelectionSource interface {
	SelectedPeriod(ctx context.Context) (domain.PeriodKey, error)
}

type BudgetService struct {
	store     documentStore
	selection SelectionSource
	serviceDeps
}

type CopyOptions struct {
	IncludeNotes bool
}

func NewBudgetService(kv ports.KeyValueStore, selection SelectionSource, opts ...Option) (*BudgetService, error) {
	if kv == nil {
		return nil, fmt.Errorf("budget service: kv store is required")
	}
	if selection == nil {
		return nil, fmt.Errorf("budget service: selection source is required")
	}

	deps := newServiceDeps(applog.ComponentBudget, opts)
	return &BudgetService{
		store:       documentStore{kv: kv, logger: deps.logger},
		selection:   selection,
		serviceDeps: deps,
	}, nil
}

// EnsurePeriod returns the period for key, creating and persisting the
// default categories if the period does not exist yet.
func (s *BudgetService) EnsurePeriod(ctx context.Context, key domain.PeriodKey) (domain.BudgetPeriod, error) {
	key, err := s.periodKey(key)
	if err != nil {
		return domain.BudgetPeriod{}, err
	}

	store, err := s.loadStore(ctx)
	if err != nil {
		return domain.BudgetPeriod{}, err
	}
	if period, ok := store.Periods[key.String()]; ok {
		return period, nil
	}

	period := domain.DefaultBudgetPeriod()
	store.Periods[key.String()] = period
	if err := s.store.save(ctx, domain.StorageKeyBudgets, store); err != nil {
		return domain.BudgetPeriod{}, err
	}
	return period, nil
}

// GetPeriod returns the period for key without creating it. An absent period
// reads as the default categories.
func (s *BudgetService) GetPeriod(ctx context.Context, key domain.PeriodKey) (domain.BudgetPeriod, error) {
	key, err := s.periodKey(key)
	if err != nil {
		return domain.BudgetPeriod{}, err
	}

	store := s.readStore(ctx)
	if period, ok := store.Periods[key.String()]; ok {
		return period, nil
	}
	return domain.DefaultBudgetPeriod(), nil
}

// HasPeriod reports whether key has been materialized.
func (s *BudgetService) HasPeriod(ctx context.Context, key domain.PeriodKey) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key, err := s.periodKey(key)
	if err != nil {
		return false, err
	}
	_, ok := s.readStore(ctx).Periods[key.String()]
	return ok, nil
}

func (s *BudgetService) AddCategory(ctx context.Context, key domain.PeriodKey, input domain.BudgetCategoryInput) (domain.BudgetCategory, error) {
	var added domain.BudgetCategory
	_, err := s.mutatePeriod(ctx, key, func(period *domain.BudgetPeriod) error {
		if len(period.Categories) >= domain.MaxBudgetCategoriesPerPeriod {
			return domain.ErrCategoryLimitReached
		}

		category := domain.NormalizeBudgetCategoryInput(input, len(period.Categories))
		for period.CategoryIndex(category.ID) >= 0 {
			category.ID = domain.NewID()
		}

		period.Categories = append(period.Categories, category)
		added = category
		return nil
	})
	if err != nil {
		return domain.BudgetCategory{}, err
	}
	return added, nil
}

// UpdateCategoryField sets one field of a category from its textual value.
func (s *BudgetService) UpdateCategoryField(ctx context.Context, key domain.PeriodKey, categoryID, field, value string) (domain.BudgetCategory, error) {
	categoryField, err := domain.ParseCategoryField(field)
	if err != nil {
		return domain.BudgetCategory{}, err
	}

	var updated domain.BudgetCategory
	_, err = s.mutatePeriod(ctx, key, func(period *domain.BudgetPeriod) error {
		index := period.CategoryIndex(categoryID)
		if index < 0 {
			return domain.ErrCategoryNotFound
		}

		category, err := domain.ApplyCategoryField(period.Categories[index], categoryField, value)
		if err != nil {
			return err
		}
		period.Categories[index] = category
		updated = category
		return nil
	})
	if err != nil {
		return domain.BudgetCategory{}, err
	}
	return updated, nil
}

func (s *BudgetService) DeleteCategory(ctx context.Context, key domain.PeriodKey, categoryID string) error {
	_, err := s.mutatePeriod(ctx, key, func(period *domain.BudgetPeriod) error {
		index := period.CategoryIndex(categoryID)
		if index < 0 {
			return domain.ErrCategoryNotFound
		}
		period.Categories = append(period.Categories[:index], period.Categories[index+1:]...)
		return nil
	})
	return err
}

// CopyPeriod replaces dst with the categories of src under fresh ids. Notes
// are copied only when opts.IncludeNotes is set.
func (s *BudgetService) CopyPeriod(ctx context.Context, src, dst domain.PeriodKey, opts CopyOptions) (domain.BudgetPeriod, error) {
	src, err := s.periodKey(src)
	if err != nil {
		return domain.BudgetPeriod{}, err
	}
	dst, err = s.periodKey(dst)
	if err != nil {
		return domain.BudgetPeriod{}, err
	}
	if src == dst {
		return domain.BudgetPeriod{}, domain.ErrSamePeriod
	}

	store, err := s.loadStore(ctx)
	if err != nil {
		return domain.BudgetPeriod{}, err
	}

	source, ok := store.Periods[src.String()]
	if !ok {
		return domain.BudgetPeriod{}, domain.ErrPeriodNotFound.WithMessage(fmt.Sprintf("budget period %s not found", src))
	}

	categories := make([]domain.BudgetCategory, 0, len(source.Categories))
	for _, category := range source.Categories {
		category.ID = domain.NewID()
		categories = append(categories, category)
	}

	copied := domain.BudgetPeriod{Categories: domain.DedupeBudgetCategoryIDs(categories)}
	if opts.IncludeNotes {
		copied.Notes = source.Notes
	}
	stamp := domain.FormatTimestamp(s.now())
	copied.UpdatedAt = &stamp

	store.Periods[dst.String()] = copied
	if err := s.store.save(ctx, domain.StorageKeyBudgets, store); err != nil {
		return domain.BudgetPeriod{}, err
	}

	s.logger.InfoContext(ctx, "copied budget period",
		"from", src.String(),
		"to", dst.String(),
		applog.FieldCount, len(categories),
	)
	return copied, nil
}

// ResetPeriod restores the default categories and clears the notes.
func (s *BudgetService) ResetPeriod(ctx context.Context, key domain.PeriodKey) (domain.BudgetPeriod, error) {
	return s.mutatePeriod(ctx, key, func(period *domain.BudgetPeriod) error {
		*period = domain.DefaultBudgetPeriod()
		return nil
	})
}

func (s *BudgetService) SetNotes(ctx context.Context, key domain.PeriodKey, notes string) (domain.BudgetPeriod, error) {
	return s.mutatePeriod(ctx, key, func(period *domain.BudgetPeriod) error {
		period.Notes = domain.SanitizeText(notes, domain.TextOptions{MaxLength: domain.MaxNotesLength, KeepEdges: true})
		return nil
	})
}

func (s *BudgetService) Notes(ctx context.Context, key domain.PeriodKey) (string, error) {
	period, err := s.GetPeriod(ctx, key)
	if err != nil {
		return "", err
	}
	return period.Notes, nil
}

func (s *BudgetService) CategoriesByType(ctx context.Context, key domain.PeriodKey, budgetType domain.BudgetType) ([]domain.BudgetCategory, error) {
	period, err := s.GetPeriod(ctx, key)
	if err != nil {
		return nil, err
	}
	return period.CategoriesByType(budgetType), nil
}

// ListPeriods returns every materialized period in calendar order.
func (s *BudgetService) ListPeriods(ctx context.Context) ([]domain.PeriodKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.readStore(ctx).SortedPeriodKeys(), nil
}

// AvailableYears returns the years a period picker should offer: the current
// year and its neighbours, selectedYear and every year with stored data.
func (s *BudgetService) AvailableYears(ctx context.Context, selectedYear int) ([]int, error) {
	periods, err := s.ListPeriods(ctx)
	if err != nil {
		return nil, err
	}

	current := s.now().Year()
	set := map[int]struct{}{
		current - 1:  {},
		current:      {},
		current + 1:  {},
		selectedYear: {},
	}
	for _, period := range periods {
		set[period.Year] = struct{}{}
	}

	years := make([]int, 0, len(set))
	for year := range set {
		years = append(years, year)
	}
	sort.Ints(years)
	return years, nil
}

// Store returns a normalized snapshot of every period.
func (s *BudgetService) Store(ctx context.Context) (domain.BudgetsStore, error) {
	if err := ctx.Err(); err != nil {
		return domain.BudgetsStore{}, err
	}
	return s.readStore(ctx), nil
}

// ReplaceStore overwrites the store with raw, a decoded store document.
func (s *BudgetService) ReplaceStore(ctx context.Context, raw any) (int, error) {
	incoming := domain.NormalizeBudgetsStore(raw)
	if err := s.store.save(ctx, domain.StorageKeyBudgets, incoming); err != nil {
		return 0, err
	}
	return len(incoming.Periods), nil
}

// MergeStore overlays the periods of raw onto the current store; periods raw
// does not mention are kept.
func (s *BudgetService) MergeStore(ctx context.Context, raw any) (int, error) {
	store, err := s.loadStore(ctx)
	if err != nil {
		return 0, err
	}

	incoming := domain.NormalizeBudgetsStore(raw)
	for key, period := range incoming.Periods {
		store.Periods[key] = period
	}
	if err := s.store.save(ctx, domain.StorageKeyBudgets, store); err != nil {
		return 0, err
	}
	return len(incoming.Periods), nil
}

// ImportLegacyPeriod stores raw, a single-period budget document, as the
// currently selected period.
func (s *BudgetService) ImportLegacyPeriod(ctx context.Context, raw any) (domain.PeriodKey, error) {
	key := s.selectedPeriod(ctx)
	_, err := s.mutatePeriod(ctx, key, func(period *domain.BudgetPeriod) error {
		*period = domain.NormalizeBudgetPeriod(raw)
		return nil
	})
	if err != nil {
		return domain.PeriodKey{}, err
	}
	return key, nil
}

// periodKey rejects malformed keys and clamps the year into the selectable
// range around now.
func (s *BudgetService) periodKey(key domain.PeriodKey) (domain.PeriodKey, error) {
	if !key.IsValid() {
		return domain.PeriodKey{}, domain.ErrInvalidPeriod
	}
	return key.Clamp(s.now()), nil
}

func (s *BudgetService) mutatePeriod(ctx context.Context, key domain.PeriodKey, mutate func(period *domain.BudgetPeriod) error) (domain.BudgetPeriod, error) {
	key, err := s.periodKey(key)
	if err != nil {
		return domain.BudgetPeriod{}, err
	}

	store, err := s.loadStore(ctx)
	if err != nil {
		return domain.BudgetPeriod{}, err
	}

	period, ok := store.Periods[key.String()]
	if !ok {
		period = domain.DefaultBudgetPeriod()
	}
	period.Categories = append([]domain.BudgetCategory(nil), period.Categories...)

	if err := mutate(&period); err != nil {
		return domain.BudgetPeriod{}, err
	}

	stamp := domain.FormatTimestamp(s.now())
	period.UpdatedAt = &stamp
	store.Periods[key.String()] = period

	if err := s.store.save(ctx, domain.StorageKeyBudgets, store); err != nil {
		return domain.BudgetPeriod{}, err
	}
	return period, nil
}

// readStore is loadStore for read paths: failures are logged and the
// partially loaded store is returned.
func (s *BudgetService) readStore(ctx context.Context) domain.BudgetsStore {
	store, err := s.loadStore(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "budget store read degraded",
			applog.FieldKey, domain.StorageKeyBudgets,
			applog.FieldError, err.Error(),
		)
	}
	return store
}

// loadStore reads the multi-period store, migrating the legacy single-period
// budget the first time the store key is missing. A present key is never
// migrated again, even when its contents are unreadable.
func (s *BudgetService) loadStore(ctx context.Context) (domain.BudgetsStore, error) {
	value, exists, err := s.store.load(ctx, domain.StorageKeyBudgets)
	if err != nil {
		return domain.NewBudgetsStore(), err
	}
	if exists {
		return domain.NormalizeBudgetsStore(value), nil
	}
	return s.migrateLegacy(ctx)
}

func (s *BudgetService) migrateLegacy(ctx context.Context) (domain.BudgetsStore, error) {
	store := domain.NewBudgetsStore()

	legacy, legacyExists, err := s.store.load(ctx, domain.StorageKeyLegacyBudget)
	if err != nil {
		return store, err
	}

	if legacyExists {
		key := s.selectedPeriod(ctx)
		store.Periods[key.String()] = domain.NormalizeBudgetPeriod(legacy)
		s.logger.InfoContext(ctx, "migrated legacy budget",
			applog.FieldOperation, applog.OpMigrate,
			applog.FieldPeriod, key.String(),
		)
	}

	if err := s.store.save(ctx, domain.StorageKeyBudgets, store); err != nil {
		return store, err
	}
	return store, nil
}

func (s *BudgetService) selectedPeriod(ctx context.Context) domain.PeriodKey {
	key, err := s.selection.SelectedPeriod(ctx)
	if err != nil || !key.IsValid() {
		return domain.CurrentPeriodKey(s.now())
	}
	return key
}
