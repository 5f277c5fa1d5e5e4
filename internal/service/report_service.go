package service

import (
	"context"
	"fmt"

	"finance-dashboard/internal/domain"
	"finance-dashboard/internal/reporting"
)

type ReportPeriodReader interface {
	GetPeriod(ctx context.Context, key domain.PeriodKey) (domain.BudgetPeriod, error)
}

type ReportTransactionReader interface {
	All(ctx context.Context) ([]domain.Transaction, error)
}

// ReportService reconciles budget periods with the ledger.
type ReportService struct {
	periods      ReportPeriodReader
	transactions ReportTransactionReader
}

func NewReportService(periods ReportPeriodReader, transactions ReportTransactionReader) (*ReportService, error) {
	if periods == nil {
		return nil, fmt.Errorf("report service: period reader is required")
	}
	if transactions == nil {
		return nil, fmt.Errorf("report service: transaction reader is required")
	}

	return &ReportService{
		periods:      periods,
		transactions: transactions,
	}, nil
}

// Summary returns the reconciled categories, metrics and ledger totals of key.
func (s *ReportService) Summary(ctx context.Context, key domain.PeriodKey) (domain.PeriodSummary, error) {
	period, err := s.periods.GetPeriod(ctx, key)
	if err != nil {
		return domain.PeriodSummary{}, err
	}

	transactions, err := s.transactions.All(ctx)
	if err != nil {
		return domain.PeriodSummary{}, err
	}

	return reporting.BuildSummary(key, period, transactions), nil
}

func (s *ReportService) Metrics(ctx context.Context, key domain.PeriodKey) (domain.BudgetMetrics, error) {
	summary, err := s.Summary(ctx, key)
	if err != nil {
		return domain.BudgetMetrics{}, err
	}
	return summary.Metrics, nil
}

// Trend returns ledger totals for the months periods ending at end.
func (s *ReportService) Trend(ctx context.Context, end domain.PeriodKey, months int) ([]domain.TrendPoint, error) {
	if !end.IsValid() {
		return nil, domain.ErrInvalidPeriod
	}

	transactions, err := s.transactions.All(ctx)
	if err != nil {
		return nil, err
	}
	return reporting.MonthlyTrend(transactions, end, months), nil
}
