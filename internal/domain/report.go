package domain

// TypeTotals holds one amount per budget type.
type TypeTotals struct {
	Income   float64 `json:"income"`
	Variable float64 `json:"variable"`
	Fixed    float64 `json:"fixed"`
	Savings  float64 `json:"savings"`
	Debt     float64 `json:"debt"`
}

func (t TypeTotals) Get(budgetType BudgetType) float64 {
	switch budgetType {
	case BudgetTypeIncome:
		return t.Income
	case BudgetTypeVariable:
		return t.Variable
	case BudgetTypeFixed:
		return t.Fixed
	case BudgetTypeSavings:
		return t.Savings
	case BudgetTypeDebt:
		return t.Debt
	default:
		return 0
	}
}

// Add returns t with amount added to budgetType's bucket.
func (t TypeTotals) Add(budgetType BudgetType, amount float64) TypeTotals {
	switch budgetType {
	case BudgetTypeIncome:
		t.Income = SumCurrency(t.Income, amount)
	case BudgetTypeVariable:
		t.Variable = SumCurrency(t.Variable, amount)
	case BudgetTypeFixed:
		t.Fixed = SumCurrency(t.Fixed, amount)
	case BudgetTypeSavings:
		t.Savings = SumCurrency(t.Savings, amount)
	case BudgetTypeDebt:
		t.Debt = SumCurrency(t.Debt, amount)
	}
	return t
}

// Outflow sums every non-income bucket.
func (t TypeTotals) Outflow() float64 {
	return SumCurrency(t.Variable, t.Fixed, t.Savings, t.Debt)
}

type BudgetMetrics struct {
	Planned                   TypeTotals `json:"planned"`
	Actual                    TypeTotals `json:"actual"`
	PlannedOutflow            float64    `json:"plannedOutflow"`
	ActualOutflow             float64    `json:"actualOutflow"`
	PlannedBalance            float64    `json:"plannedBalance"`
	ActualBalance             float64    `json:"actualBalance"`
	PlannedUtilizationPercent float64    `json:"plannedUtilizationPercent"`
	ActualUtilizationPercent  float64    `json:"actualUtilizationPercent"`
	CategoriesCount           int        `json:"categoriesCount"`
}

// CategoryActual is one reconciled budget line.
type CategoryActual struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Type              BudgetType `json:"type"`
	Color             string     `json:"color"`
	Planned           float64    `json:"planned"`
	ManualActual      float64    `json:"manualActual"`
	TransactionActual float64    `json:"transactionActual"`
	ActualEffective   float64    `json:"actualEffective"`
	Remaining         float64    `json:"remaining"`
	PercentUsed       float64    `json:"percentUsed"`
}

// CategoryActuals is the ledger attributed to one period's categories.
type CategoryActuals struct {
	Period       PeriodKey          `json:"period"`
	ByCategoryID map[string]float64 `json:"byCategoryId"`
	Unattributed float64            `json:"unattributed"`
	Matched      int                `json:"matched"`
	Unmatched    int                `json:"unmatched"`
}

type PeriodSummary struct {
	Period       PeriodKey        `json:"period"`
	Categories   []CategoryActual `json:"categories"`
	Metrics      BudgetMetrics    `json:"metrics"`
	Ledger       LedgerSummary    `json:"ledger"`
	Unattributed float64          `json:"unattributed"`
}

// TrendPoint totals the ledger for one period.
type TrendPoint struct {
	Period   string  `json:"period"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}
