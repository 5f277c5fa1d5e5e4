package service

import (
	"context"
	"errors"
	"testing"

	"finance-dashboard/internal/domain"
)

type periodReaderStub struct {
	getPeriodFn func(ctx context.Context, key domain.PeriodKey) (domain.BudgetPeriod, error)
}

func (s *periodReaderStub) GetPeriod(ctx context.Context, key domain.PeriodKey) (domain.BudgetPeriod, error) {
	return s.getPeriodFn(ctx, key)
}

type transactionReaderStub struct {
	allFn func(ctx context.Context) ([]domain.Transaction, error)
}

func (s *transactionReaderStub) All(ctx context.Context) ([]domain.Transaction, error) {
	return s.allFn(ctx)
}

func TestNewReportServiceRequiresReaders(t *testing.T) {
	t.Parallel()

	if _, err := NewReportService(nil, &transactionReaderStub{}); err == nil {
		t.Fatalf("expected error for nil period reader")
	}
	if _, err := NewReportService(&periodReaderStub{}, nil); err == nil {
		t.Fatalf("expected error for nil transaction reader")
	}
}

func TestReportServiceSummaryReconcilesLedger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	if _, err := env.budgets.UpdateCategoryField(ctx, october, "inc-1", "planned", "4000"); err != nil {
		t.Fatalf("plan salary: %v", err)
	}
	if _, err := env.budgets.UpdateCategoryField(ctx, october, "fix-1", "planned", "1500"); err != nil {
		t.Fatalf("plan rent: %v", err)
	}
	if _, err := env.budgets.UpdateCategoryField(ctx, october, "fix-1", "actual", "1450"); err != nil {
		t.Fatalf("manual rent actual: %v", err)
	}
	if _, err := env.budgets.UpdateCategoryField(ctx, october, "var-1", "actual", "200"); err != nil {
		t.Fatalf("manual groceries actual: %v", err)
	}

	mustAddTransaction(t, env.ledger, domain.TransactionInput{Amount: 4100, BudgetCategoryID: "inc-1", Date: "2026-10-01"})
	mustAddTransaction(t, env.ledger, domain.TransactionInput{Amount: 75, Type: "expense", Category: "Groceries", Date: "2026-10-02"})
	mustAddTransaction(t, env.ledger, domain.TransactionInput{Amount: 20, Type: "expense", Category: "Parking", Date: "2026-10-03"})

	summary, err := env.reports.Summary(ctx, october)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	byID := map[string]domain.CategoryActual{}
	for _, row := range summary.Categories {
		byID[row.ID] = row
	}
	if row := byID["var-1"]; row.ActualEffective != 75 || row.ManualActual != 200 {
		t.Fatalf("expected ledger to override groceries manual actual, got %+v", row)
	}
	if row := byID["fix-1"]; row.ActualEffective != 1450 || row.Remaining != 50 {
		t.Fatalf("expected manual rent actual to surface, got %+v", row)
	}
	if summary.Metrics.Actual.Income != 4100 || summary.Metrics.ActualOutflow != 1525 {
		t.Fatalf("unexpected metrics %+v", summary.Metrics)
	}
	if summary.Unattributed != 20 || summary.Ledger.TransactionCount != 3 {
		t.Fatalf("unexpected unattributed/ledger %v/%+v", summary.Unattributed, summary.Ledger)
	}

	if exists, _ := env.budgets.HasPeriod(ctx, november); exists {
		t.Fatalf("expected report reads not to create periods")
	}
}

func TestReportServicePropagatesReaderErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	svc, err := NewReportService(
		&periodReaderStub{getPeriodFn: func(ctx context.Context, key domain.PeriodKey) (domain.BudgetPeriod, error) {
			return domain.BudgetPeriod{}, boom
		}},
		&transactionReaderStub{allFn: func(ctx context.Context) ([]domain.Transaction, error) {
			return nil, nil
		}},
	)
	if err != nil {
		t.Fatalf("new report service: %v", err)
	}

	if _, err := svc.Metrics(context.Background(), october); !errors.Is(err, boom) {
		t.Fatalf("expected period reader error, got %v", err)
	}
}

func TestReportServiceTrend(t *testing.T) {
	t.Parallel()

	svc, err := NewReportService(
		&periodReaderStub{},
		&transactionReaderStub{allFn: func(ctx context.Context) ([]domain.Transaction, error) {
			return []domain.Transaction{
				{Amount: 100, Type: domain.TransactionTypeIncome, Date: "2026-09-10"},
				{Amount: 40, Type: domain.TransactionTypeExpense, Date: "2026-10-10"},
			}, nil
		}},
	)
	if err != nil {
		t.Fatalf("new report service: %v", err)
	}

	points, err := svc.Trend(context.Background(), october, 2)
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if len(points) != 2 || points[0].Income != 100 || points[1].Balance != -40 {
		t.Fatalf("unexpected trend %+v", points)
	}

	if _, err := svc.Trend(context.Background(), domain.PeriodKey{Year: 2026, Month: 12}, 2); !errors.Is(err, domain.ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}
