package service

import (
	"context"
	"testing"
	"time"

	"finance-dashboard/internal/domain"
	"finance-dashboard/internal/store/memory"
)

var fixedNow = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

var (
	october  = domain.PeriodKey{Year: 2026, Month: 9}
	november = domain.PeriodKey{Year: 2026, Month: 10}
)

type testEnv struct {
	kv          *memory.KV
	preferences *PreferenceService
	budgets     *BudgetService
	ledger      *LedgerService
	categories  *LedgerCategoryService
	reports     *ReportService
	portability *PortabilityService
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	return newTestEnvWithKV(t, memory.NewKV())
}

func newTestEnvWithKV(t *testing.T, kv *memory.KV) testEnv {
	t.Helper()

	clock := WithClock(func() time.Time { return fixedNow })

	preferences, err := NewPreferenceService(kv, clock)
	if err != nil {
		t.Fatalf("new preference service: %v", err)
	}
	budgets, err := NewBudgetService(kv, preferences, clock)
	if err != nil {
		t.Fatalf("new budget service: %v", err)
	}
	ledger, err := NewLedgerService(kv, budgets, clock)
	if err != nil {
		t.Fatalf("new ledger service: %v", err)
	}
	categories, err := NewLedgerCategoryService(kv, clock)
	if err != nil {
		t.Fatalf("new ledger category service: %v", err)
	}
	reports, err := NewReportService(budgets, ledger)
	if err != nil {
		t.Fatalf("new report service: %v", err)
	}
	portability, err := NewPortabilityService(preferences, budgets, ledger, categories, kv, clock)
	if err != nil {
		t.Fatalf("new portability service: %v", err)
	}

	return testEnv{
		kv:          kv,
		preferences: preferences,
		budgets:     budgets,
		ledger:      ledger,
		categories:  categories,
		reports:     reports,
		portability: portability,
	}
}

func mustSet(t *testing.T, kv *memory.KV, key, value string) {
	t.Helper()
	if err := kv.Set(context.Background(), key, []byte(value)); err != nil {
		t.Fatalf("seed %s: %v", key, err)
	}
}

func mustGet(t *testing.T, kv *memory.KV, key string) string {
	t.Helper()
	value, ok, err := kv.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get %s: %v", key, err)
	}
	if !ok {
		return ""
	}
	return string(value)
}

func mustAddTransaction(t *testing.T, ledger *LedgerService, input domain.TransactionInput) domain.Transaction {
	t.Helper()
	transaction, err := ledger.Add(context.Background(), input)
	if err != nil {
		t.Fatalf("add transaction %+v: %v", input, err)
	}
	return transaction
}
