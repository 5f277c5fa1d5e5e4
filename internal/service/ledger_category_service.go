package service

import (
	"context"
	"fmt"
	"strings"

	"finance-dashboard/internal/domain"
	applog "finance-dashboard/internal/log"
	"finance-dashboard/internal/ports"
)

// LedgerCategoryService manages the flat transaction categories.
type LedgerCategoryService struct {
	store documentStore
	serviceDeps
}

func NewLedgerCategoryService(kv ports.KeyValueStore, opts ...Option) (*LedgerCategoryService, error) {
	if kv == nil {
		return nil, fmt.Errorf("ledger category service: kv store is required")
	}

	deps := newServiceDeps(applog.ComponentCategories, opts)
	return &LedgerCategoryService{
		store:       documentStore{kv: kv, logger: deps.logger},
		serviceDeps: deps,
	}, nil
}

// List returns the stored categories, or the defaults when none were saved.
func (s *LedgerCategoryService) List(ctx context.Context) ([]domain.LedgerCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, exists := s.store.loadForRead(ctx, domain.StorageKeyCategories)
	if !exists {
		return domain.DefaultLedgerCategories(), nil
	}
	return domain.NormalizeLedgerCategories(value), nil
}

// Add creates a category. Adding a name that already exists for the same
// type returns the existing category.
func (s *LedgerCategoryService) Add(ctx context.Context, input domain.LedgerCategoryInput) (domain.LedgerCategory, error) {
	category, err := domain.NewLedgerCategory(input)
	if err != nil {
		return domain.LedgerCategory{}, err
	}

	categories, err := s.loadForWrite(ctx)
	if err != nil {
		return domain.LedgerCategory{}, err
	}
	for _, existing := range categories {
		if existing.Type == category.Type && strings.EqualFold(existing.Name, category.Name) {
			return existing, nil
		}
	}

	categories = append(categories, category)
	if err := s.store.save(ctx, domain.StorageKeyCategories, categories); err != nil {
		return domain.LedgerCategory{}, err
	}
	return category, nil
}

func (s *LedgerCategoryService) Delete(ctx context.Context, id string) error {
	categories, err := s.loadForWrite(ctx)
	if err != nil {
		return err
	}

	for index, category := range categories {
		if category.ID != id {
			continue
		}
		categories = append(categories[:index], categories[index+1:]...)
		return s.store.save(ctx, domain.StorageKeyCategories, categories)
	}
	return domain.ErrCategoryNotFound
}

// FindByName looks a category up by case-insensitive name.
func (s *LedgerCategoryService) FindByName(ctx context.Context, name string) (domain.LedgerCategory, bool, error) {
	categories, err := s.List(ctx)
	if err != nil {
		return domain.LedgerCategory{}, false, err
	}

	needle := strings.TrimSpace(name)
	for _, category := range categories {
		if strings.EqualFold(category.Name, needle) {
			return category, true, nil
		}
	}
	return domain.LedgerCategory{}, false, nil
}

// ReplaceAll overwrites the categories with raw, a decoded category list.
func (s *LedgerCategoryService) ReplaceAll(ctx context.Context, raw any) (int, error) {
	categories := domain.NormalizeLedgerCategories(raw)
	if err := s.store.save(ctx, domain.StorageKeyCategories, categories); err != nil {
		return 0, err
	}
	return len(categories), nil
}

// MergeAll overlays raw onto the stored categories by id.
func (s *LedgerCategoryService) MergeAll(ctx context.Context, raw any) (int, error) {
	existing, err := s.loadForWrite(ctx)
	if err != nil {
		return 0, err
	}

	incoming := domain.NormalizeLedgerCategories(raw)
	positions := make(map[string]int, len(existing))
	for index, category := range existing {
		positions[category.ID] = index
	}
	for _, category := range incoming {
		if index, ok := positions[category.ID]; ok {
			existing[index] = category
			continue
		}
		positions[category.ID] = len(existing)
		existing = append(existing, category)
	}

	if err := s.store.save(ctx, domain.StorageKeyCategories, existing); err != nil {
		return 0, err
	}
	return len(incoming), nil
}

func (s *LedgerCategoryService) loadForWrite(ctx context.Context) ([]domain.LedgerCategory, error) {
	value, exists, err := s.store.load(ctx, domain.StorageKeyCategories)
	if err != nil {
		return nil, err
	}
	if !exists {
		return domain.DefaultLedgerCategories(), nil
	}
	return domain.NormalizeLedgerCategories(value), nil
}
