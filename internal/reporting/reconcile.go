package reporting

import (
	"strings"

	"finance-dashboard/internal/domain"
)

// ResolveActuals attributes the transactions dated inside key to the
// categories of period. A transaction is matched by budget category id
// first, then by case-insensitive display name against the period's current
// categories; anything else is unattributed.
func ResolveActuals(key domain.PeriodKey, period domain.BudgetPeriod, transactions []domain.Transaction) domain.CategoryActuals {
	ids := make(map[string]struct{}, len(period.Categories))
	names := make(map[string]string, len(period.Categories))
	for _, category := range period.Categories {
		ids[category.ID] = struct{}{}
		name := strings.ToLower(strings.TrimSpace(category.Name))
		if _, taken := names[name]; !taken {
			names[name] = category.ID
		}
	}

	sums := map[string][]float64{}
	unattributed := make([]float64, 0)
	result := domain.CategoryActuals{Period: key, ByCategoryID: map[string]float64{}}

	for _, transaction := range transactions {
		if !key.Contains(transaction.Date) {
			continue
		}

		if _, ok := ids[transaction.BudgetCategoryID]; ok && transaction.BudgetCategoryID != "" {
			sums[transaction.BudgetCategoryID] = append(sums[transaction.BudgetCategoryID], transaction.Amount)
			result.Matched++
			continue
		}
		if id, ok := names[strings.ToLower(strings.TrimSpace(transaction.Category))]; ok {
			sums[id] = append(sums[id], transaction.Amount)
			result.Matched++
			continue
		}

		unattributed = append(unattributed, transaction.Amount)
		result.Unmatched++
	}

	for id, amounts := range sums {
		result.ByCategoryID[id] = domain.SumCurrency(amounts...)
	}
	result.Unattributed = domain.SumCurrency(unattributed...)
	return result
}

// EffectiveActual prefers the ledger sum and falls back to the manual
// actual while no transaction is attributed to the category.
func EffectiveActual(manualActual, transactionSum float64) float64 {
	if transactionSum > 0 {
		return transactionSum
	}
	return manualActual
}

// ReconcileCategories builds one reconciled row per category of period.
func ReconcileCategories(period domain.BudgetPeriod, actuals domain.CategoryActuals) []domain.CategoryActual {
	rows := make([]domain.CategoryActual, 0, len(period.Categories))
	for _, category := range period.Categories {
		transactionSum := actuals.ByCategoryID[category.ID]
		effective := EffectiveActual(category.Actual, transactionSum)

		percentUsed := domain.Percentage(effective, category.Planned)
		if percentUsed > 100 {
			percentUsed = 100
		}

		rows = append(rows, domain.CategoryActual{
			ID:                category.ID,
			Name:              category.Name,
			Type:              category.Type,
			Color:             category.Color,
			Planned:           category.Planned,
			ManualActual:      category.Actual,
			TransactionActual: transactionSum,
			ActualEffective:   effective,
			Remaining:         domain.SubtractCurrency(category.Planned, effective),
			PercentUsed:       percentUsed,
		})
	}
	return rows
}

// BuildMetrics aggregates reconciled rows into per-type totals, balances and
// utilization against planned income.
func BuildMetrics(rows []domain.CategoryActual) domain.BudgetMetrics {
	metrics := domain.BudgetMetrics{CategoriesCount: len(rows)}
	for _, row := range rows {
		metrics.Planned = metrics.Planned.Add(row.Type, row.Planned)
		metrics.Actual = metrics.Actual.Add(row.Type, row.ActualEffective)
	}

	incomePlanned := metrics.Planned.Income
	metrics.PlannedOutflow = metrics.Planned.Outflow()
	metrics.ActualOutflow = metrics.Actual.Outflow()
	metrics.PlannedBalance = domain.SubtractCurrency(incomePlanned, metrics.PlannedOutflow)
	metrics.ActualBalance = domain.SubtractCurrency(incomePlanned, metrics.ActualOutflow)
	metrics.PlannedUtilizationPercent = domain.Percentage(metrics.PlannedOutflow, incomePlanned)
	metrics.ActualUtilizationPercent = domain.Percentage(metrics.ActualOutflow, incomePlanned)
	return metrics
}

// BuildSummary reconciles one period end to end.
func BuildSummary(key domain.PeriodKey, period domain.BudgetPeriod, transactions []domain.Transaction) domain.PeriodSummary {
	actuals := ResolveActuals(key, period, transactions)
	rows := ReconcileCategories(period, actuals)

	inPeriod := make([]domain.Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		if key.Contains(transaction.Date) {
			inPeriod = append(inPeriod, transaction)
		}
	}

	return domain.PeriodSummary{
		Period:       key,
		Categories:   rows,
		Metrics:      BuildMetrics(rows),
		Ledger:       domain.SummarizeTransactions(inPeriod),
		Unattributed: actuals.Unattributed,
	}
}
