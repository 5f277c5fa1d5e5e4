package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"finance-dashboard/internal/domain"
)

func TestNewBudgetServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	if _, err := NewBudgetService(nil, env.preferences); err == nil {
		t.Fatalf("expected error for nil kv store")
	}
	if _, err := NewBudgetService(env.kv, nil); err == nil {
		t.Fatalf("expected error for nil selection source")
	}
}

func TestBudgetServiceReadsDoNotCreatePeriods(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	writes := 0
	env.kv.OnWrite(func(key string) {
		if key == domain.StorageKeyBudgets {
			writes++
		}
	})

	period, err := env.budgets.GetPeriod(ctx, october)
	if err != nil {
		t.Fatalf("get period: %v", err)
	}
	if len(period.Categories) != 20 {
		t.Fatalf("expected default categories, got %d", len(period.Categories))
	}
	if _, err := env.budgets.CategoriesByType(ctx, november, domain.BudgetTypeDebt); err != nil {
		t.Fatalf("categories by type: %v", err)
	}
	if _, err := env.budgets.Notes(ctx, november); err != nil {
		t.Fatalf("notes: %v", err)
	}

	exists, err := env.budgets.HasPeriod(ctx, october)
	if err != nil {
		t.Fatalf("has period: %v", err)
	}
	if exists {
		t.Fatalf("expected read not to materialize the period")
	}
	periods, _ := env.budgets.ListPeriods(ctx)
	if len(periods) != 0 {
		t.Fatalf("expected no stored periods, got %v", periods)
	}
	if writes > 1 {
		t.Fatalf("expected at most the initial store write, got %d writes", writes)
	}
}

func TestBudgetServiceEnsurePeriodPersistsDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	period, err := env.budgets.EnsurePeriod(ctx, october)
	if err != nil {
		t.Fatalf("ensure period: %v", err)
	}
	if len(period.Categories) != 20 || period.Categories[0].ID != "inc-1" {
		t.Fatalf("unexpected ensured period %+v", period)
	}

	exists, _ := env.budgets.HasPeriod(ctx, october)
	if !exists {
		t.Fatalf("expected period to be stored")
	}

	if _, err := env.budgets.EnsurePeriod(ctx, domain.PeriodKey{Year: 2026, Month: 12}); !errors.Is(err, domain.ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestBudgetServicePeriodsAreIsolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	added, err := env.budgets.AddCategory(ctx, october, domain.BudgetCategoryInput{Name: "gym", Type: "variable", Planned: 45})
	if err != nil {
		t.Fatalf("add category: %v", err)
	}
	if added.Name != "Gym" || added.Type != domain.BudgetTypeVariable || added.Planned != 45 || added.ID == "" {
		t.Fatalf("unexpected added category %+v", added)
	}
	if _, err := env.budgets.UpdateCategoryField(ctx, october, "fix-1", "planned", "1650.5"); err != nil {
		t.Fatalf("update field: %v", err)
	}

	octoberPeriod, _ := env.budgets.GetPeriod(ctx, october)
	novemberPeriod, _ := env.budgets.GetPeriod(ctx, november)

	if len(octoberPeriod.Categories) != 21 {
		t.Fatalf("expected 21 categories in October, got %d", len(octoberPeriod.Categories))
	}
	if octoberPeriod.UpdatedAt == nil || *octoberPeriod.UpdatedAt != domain.FormatTimestamp(fixedNow) {
		t.Fatalf("expected October to be stamped, got %v", octoberPeriod.UpdatedAt)
	}
	rent := octoberPeriod.Categories[octoberPeriod.CategoryIndex("fix-1")]
	if rent.Planned != 1650.5 {
		t.Fatalf("expected October rent 1650.5, got %v", rent.Planned)
	}

	if len(novemberPeriod.Categories) != 20 {
		t.Fatalf("expected November untouched, got %d categories", len(novemberPeriod.Categories))
	}
	if planned := novemberPeriod.Categories[novemberPeriod.CategoryIndex("fix-1")].Planned; planned != 0 {
		t.Fatalf("expected November rent 0, got %v", planned)
	}
}

func TestBudgetServiceUpdateCategoryFieldErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	if _, err := env.budgets.UpdateCategoryField(ctx, october, "fix-1", "type", "debt"); !errors.Is(err, domain.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if _, err := env.budgets.UpdateCategoryField(ctx, october, "missing", "planned", "10"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	updated, err := env.budgets.UpdateCategoryField(ctx, october, "var-1", "actual", "not-a-number")
	if err != nil {
		t.Fatalf("update actual: %v", err)
	}
	if updated.Actual != 0 {
		t.Fatalf("expected garbage actual to coerce to 0, got %v", updated.Actual)
	}
}

func TestBudgetServiceCategoryCapacity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	for i := 20; i < domain.MaxBudgetCategoriesPerPeriod; i++ {
		if _, err := env.budgets.AddCategory(ctx, october, domain.BudgetCategoryInput{Type: "fixed"}); err != nil {
			t.Fatalf("add category %d: %v", i, err)
		}
	}

	_, err := env.budgets.AddCategory(ctx, october, domain.BudgetCategoryInput{Name: "One Too Many"})
	if !errors.Is(err, domain.ErrCategoryLimitReached) {
		t.Fatalf("expected ErrCategoryLimitReached, got %v", err)
	}
	if domain.KindOf(err) != domain.ErrorKindCapacity {
		t.Fatalf("expected capacity kind, got %s", domain.KindOf(err))
	}

	period, _ := env.budgets.GetPeriod(ctx, october)
	if len(period.Categories) != domain.MaxBudgetCategoriesPerPeriod {
		t.Fatalf("expected %d categories, got %d", domain.MaxBudgetCategoriesPerPeriod, len(period.Categories))
	}
	if last := period.Categories[len(period.Categories)-1]; last.Name != "Item 200" {
		t.Fatalf("expected fallback name Item 200, got %q", last.Name)
	}
}

func TestBudgetServiceDeleteCategory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	if err := env.budgets.DeleteCategory(ctx, october, "var-2"); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	period, _ := env.budgets.GetPeriod(ctx, october)
	if period.CategoryIndex("var-2") >= 0 || len(period.Categories) != 19 {
		t.Fatalf("expected var-2 to be removed, got %d categories", len(period.Categories))
	}

	if err := env.budgets.DeleteCategory(ctx, october, "var-2"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestBudgetServiceCopyPeriod(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	if _, err := env.budgets.SetNotes(ctx, october, "october notes"); err != nil {
		t.Fatalf("set notes: %v", err)
	}
	if _, err := env.budgets.UpdateCategoryField(ctx, october, "inc-1", "planned", "5000"); err != nil {
		t.Fatalf("update planned: %v", err)
	}
	source, _ := env.budgets.GetPeriod(ctx, october)

	copied, err := env.budgets.CopyPeriod(ctx, october, november, CopyOptions{})
	if err != nil {
		t.Fatalf("copy period: %v", err)
	}
	if copied.Notes != "" {
		t.Fatalf("expected notes not to be copied, got %q", copied.Notes)
	}
	if len(copied.Categories) != len(source.Categories) {
		t.Fatalf("expected %d categories, got %d", len(source.Categories), len(copied.Categories))
	}
	for index, category := range copied.Categories {
		if category.ID == source.Categories[index].ID {
			t.Fatalf("expected fresh id for %q", category.Name)
		}
		if category.Name != source.Categories[index].Name || category.Planned != source.Categories[index].Planned {
			t.Fatalf("expected copied values for %q", category.Name)
		}
	}

	withNotes, err := env.budgets.CopyPeriod(ctx, october, november, CopyOptions{IncludeNotes: true})
	if err != nil {
		t.Fatalf("copy period with notes: %v", err)
	}
	if withNotes.Notes != "october notes" {
		t.Fatalf("expected notes to be copied, got %q", withNotes.Notes)
	}

	if _, err := env.budgets.CopyPeriod(ctx, october, october, CopyOptions{}); !errors.Is(err, domain.ErrSamePeriod) {
		t.Fatalf("expected ErrSamePeriod, got %v", err)
	}
	missing := domain.PeriodKey{Year: 2020, Month: 0}
	if _, err := env.budgets.CopyPeriod(ctx, missing, november, CopyOptions{}); !errors.Is(err, domain.ErrPeriodNotFound) {
		t.Fatalf("expected ErrPeriodNotFound, got %v", err)
	}
}

func TestBudgetServiceCopyDoesNotAliasSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	if _, err := env.budgets.EnsurePeriod(ctx, october); err != nil {
		t.Fatalf("ensure october: %v", err)
	}
	copied, err := env.budgets.CopyPeriod(ctx, october, november, CopyOptions{})
	if err != nil {
		t.Fatalf("copy period: %v", err)
	}

	target := copied.Categories[0].ID
	if _, err := env.budgets.UpdateCategoryField(ctx, november, target, "planned", "777"); err != nil {
		t.Fatalf("update copied category: %v", err)
	}
	if _, err := env.budgets.UpdateCategoryField(ctx, november, target, "name", "Bonus"); err != nil {
		t.Fatalf("rename copied category: %v", err)
	}

	source, err := env.budgets.GetPeriod(ctx, october)
	if err != nil {
		t.Fatalf("get october: %v", err)
	}
	if source.Categories[0].Planned != 0 || source.Categories[0].Name == "Bonus" {
		t.Fatalf("expected october to be untouched, got %+v", source.Categories[0])
	}

	destination, _ := env.budgets.GetPeriod(ctx, november)
	if destination.Categories[0].Planned != 777 {
		t.Fatalf("expected november planned 777, got %v", destination.Categories[0].Planned)
	}
}

func TestBudgetServiceAddCategoryReassignsCollidingIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	seen := map[string]bool{}
	for attempt := 0; attempt < 3; attempt++ {
		added, err := env.budgets.AddCategory(ctx, october, domain.BudgetCategoryInput{ID: "inc-1", Name: "Side gig", Type: "income"})
		if err != nil {
			t.Fatalf("add category %d: %v", attempt, err)
		}
		if added.ID == "inc-1" || seen[added.ID] {
			t.Fatalf("expected a fresh id on attempt %d, got %q", attempt, added.ID)
		}
		seen[added.ID] = true
	}

	period, _ := env.budgets.GetPeriod(ctx, october)
	ids := map[string]int{}
	for _, category := range period.Categories {
		ids[category.ID]++
	}
	for id, count := range ids {
		if count != 1 {
			t.Fatalf("expected id %q once, got %d", id, count)
		}
	}
	if len(period.Categories) != len(domain.DefaultBudgetCategories())+3 {
		t.Fatalf("expected defaults plus three, got %d", len(period.Categories))
	}
}

func TestBudgetServiceClampsPeriodYears(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	ancient, err := domain.ParsePeriodKey("1800-01")
	if err != nil {
		t.Fatalf("parse key: %v", err)
	}
	if _, err := env.budgets.EnsurePeriod(ctx, ancient); err != nil {
		t.Fatalf("ensure period: %v", err)
	}
	if _, err := env.budgets.SetNotes(ctx, domain.PeriodKey{Year: 2099, Month: 5}, "far"); err != nil {
		t.Fatalf("set notes: %v", err)
	}

	periods, err := env.budgets.ListPeriods(ctx)
	if err != nil {
		t.Fatalf("list periods: %v", err)
	}
	got := make([]string, 0, len(periods))
	for _, key := range periods {
		got = append(got, key.String())
	}
	if want := []string{"2001-01", "2051-06"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	exists, err := env.budgets.HasPeriod(ctx, ancient)
	if err != nil || !exists {
		t.Fatalf("expected clamped lookup to find 2001-01, got %v %v", exists, err)
	}
	if _, err := env.budgets.CopyPeriod(ctx, ancient, domain.PeriodKey{Year: 1999, Month: 0}, CopyOptions{}); !errors.Is(err, domain.ErrSamePeriod) {
		t.Fatalf("expected both keys to clamp to 2001-01, got %v", err)
	}
}

func TestBudgetServiceResetAndNotes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	if _, err := env.budgets.AddCategory(ctx, october, domain.BudgetCategoryInput{Name: "Extra"}); err != nil {
		t.Fatalf("add category: %v", err)
	}
	period, err := env.budgets.SetNotes(ctx, october, "  pay rent\nearly ")
	if err != nil {
		t.Fatalf("set notes: %v", err)
	}
	if period.Notes != " pay rent early " {
		t.Fatalf("expected collapsed notes, got %q", period.Notes)
	}

	reset, err := env.budgets.ResetPeriod(ctx, october)
	if err != nil {
		t.Fatalf("reset period: %v", err)
	}
	if reset.Notes != "" || len(reset.Categories) != 20 {
		t.Fatalf("expected default period after reset, got %d categories notes=%q", len(reset.Categories), reset.Notes)
	}
	if reset.UpdatedAt == nil {
		t.Fatalf("expected reset period to be stamped")
	}
}

func TestBudgetServiceAvailableYears(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	if _, err := env.budgets.EnsurePeriod(ctx, domain.PeriodKey{Year: 2019, Month: 4}); err != nil {
		t.Fatalf("ensure period: %v", err)
	}

	years, err := env.budgets.AvailableYears(ctx, 2030)
	if err != nil {
		t.Fatalf("available years: %v", err)
	}
	want := []int{2019, 2025, 2026, 2027, 2030}
	if !reflect.DeepEqual(want, years) {
		t.Fatalf("expected %v, got %v", want, years)
	}
}

func TestBudgetServiceMigratesLegacyBudgetOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	mustSet(t, env.kv, domain.StorageKeyPreferences, `{"selectedMonth":2,"selectedYear":2025}`)
	mustSet(t, env.kv, domain.StorageKeyLegacyBudget, `{"notes":"legacy notes","categories":[{"id":"old-1","name":"old rent","type":"fixed","planned":900}]}`)

	march := domain.PeriodKey{Year: 2025, Month: 2}
	period, err := env.budgets.GetPeriod(ctx, march)
	if err != nil {
		t.Fatalf("get period: %v", err)
	}
	if period.Notes != "legacy notes" || len(period.Categories) != 1 || period.Categories[0].Name != "Old Rent" {
		t.Fatalf("expected legacy period to be migrated, got %+v", period)
	}
	if mustGet(t, env.kv, domain.StorageKeyBudgets) == "" {
		t.Fatalf("expected migrated store to be persisted")
	}

	mustSet(t, env.kv, domain.StorageKeyLegacyBudget, `{"categories":[{"id":"changed"}]}`)
	again, _ := env.budgets.GetPeriod(ctx, march)
	if again.Categories[0].ID != "old-1" {
		t.Fatalf("expected migration to run once, got %+v", again.Categories)
	}
}

func TestBudgetServiceCorruptStoreIsNotMigrated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	mustSet(t, env.kv, domain.StorageKeyBudgets, `{broken`)
	mustSet(t, env.kv, domain.StorageKeyLegacyBudget, `{"categories":[{"id":"legacy"}]}`)

	period, err := env.budgets.GetPeriod(ctx, october)
	if err != nil {
		t.Fatalf("get period: %v", err)
	}
	if period.CategoryIndex("legacy") >= 0 {
		t.Fatalf("expected corrupt store not to be migrated")
	}
	if raw := mustGet(t, env.kv, domain.StorageKeyBudgets); raw != `{broken` {
		t.Fatalf("expected read to leave corrupt store untouched, got %q", raw)
	}

	if _, err := env.budgets.SetNotes(ctx, october, "fresh"); err != nil {
		t.Fatalf("set notes: %v", err)
	}
	periods, _ := env.budgets.ListPeriods(ctx)
	if len(periods) != 1 || periods[0] != october {
		t.Fatalf("expected only October after first write, got %v", periods)
	}
}

func TestBudgetServiceWritePathPropagatesReadFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	if _, err := env.budgets.EnsurePeriod(ctx, october); err != nil {
		t.Fatalf("ensure period: %v", err)
	}
	before := mustGet(t, env.kv, domain.StorageKeyBudgets)

	env.kv.FailReads(errors.New("device busy"))
	_, err := env.budgets.AddCategory(ctx, october, domain.BudgetCategoryInput{Name: "Lost"})
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}

	env.kv.FailReads(nil)
	if after := mustGet(t, env.kv, domain.StorageKeyBudgets); after != before {
		t.Fatalf("expected store to be unchanged after failed read")
	}
}

func TestBudgetServiceWriteFailureIsStorageError(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.kv.FailWrites(errors.New("quota exceeded"))

	_, err := env.budgets.SetNotes(context.Background(), october, "x")
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}
