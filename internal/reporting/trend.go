package reporting

import "finance-dashboard/internal/domain"

const MaxTrendMonths = 24

// MonthlyTrend totals income and expenses per period for the last months
// periods up to and including end, oldest first. months is clamped to
// 1..MaxTrendMonths.
func MonthlyTrend(transactions []domain.Transaction, end domain.PeriodKey, months int) []domain.TrendPoint {
	if months < 1 {
		months = 1
	}
	if months > MaxTrendMonths {
		months = MaxTrendMonths
	}

	keys := make([]domain.PeriodKey, months)
	key := end
	for index := months - 1; index >= 0; index-- {
		keys[index] = key
		key = key.Prev()
	}

	byPeriod := make(map[domain.PeriodKey][]domain.Transaction, months)
	for _, transaction := range transactions {
		period, ok := domain.PeriodKeyFromDate(transaction.Date)
		if !ok {
			continue
		}
		byPeriod[period] = append(byPeriod[period], transaction)
	}

	points := make([]domain.TrendPoint, 0, months)
	for _, period := range keys {
		summary := domain.SummarizeTransactions(byPeriod[period])
		points = append(points, domain.TrendPoint{
			Period:   period.String(),
			Income:   summary.TotalIncome,
			Expenses: summary.TotalExpenses,
			Balance:  summary.Balance,
		})
	}
	return points
}
