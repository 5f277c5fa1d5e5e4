package domain

import (
	"strings"
	"time"
)

const (
	MaxTransactionCategoryLength    = 40
	MaxTransactionDescriptionLength = 120
	DefaultTransactionCategory      = "Other"
	DefaultTransactionDescription   = "Transaction"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

func ParseTransactionType(raw any) (TransactionType, bool) {
	value, ok := raw.(string)
	if !ok {
		return "", false
	}
	switch candidate := TransactionType(strings.ToLower(strings.TrimSpace(value))); candidate {
	case TransactionTypeIncome, TransactionTypeExpense:
		return candidate, true
	default:
		return "", false
	}
}

// TransactionTypeForBudget maps a budget category type onto the ledger type
// its transactions carry.
func TransactionTypeForBudget(t BudgetType) TransactionType {
	if t == BudgetTypeIncome {
		return TransactionTypeIncome
	}
	return TransactionTypeExpense
}

type Transaction struct {
	ID               string          `json:"id"`
	Amount           float64         `json:"amount"`
	Type             TransactionType `json:"type"`
	Category         string          `json:"category"`
	BudgetCategoryID string          `json:"budgetCategoryId,omitempty"`
	BudgetType       BudgetType      `json:"budgetType,omitempty"`
	Description      string          `json:"description"`
	Date             string          `json:"date"`
	CreatedAt        string          `json:"createdAt"`
	UpdatedAt        string          `json:"updatedAt,omitempty"`
}

type TransactionInput struct {
	Amount           float64
	Type             string
	Category         string
	BudgetCategoryID string
	Description      string
	Date             string
}

// TransactionPatch holds the fields an update touches; nil fields are left
// unchanged.
type TransactionPatch struct {
	Amount           *float64
	Type             *string
	Category         *string
	BudgetCategoryID *string
	Description      *string
	Date             *string
}

type TransactionSort string

const (
	TransactionSortNewest     TransactionSort = "newest"
	TransactionSortOldest     TransactionSort = "oldest"
	TransactionSortAmountDesc TransactionSort = "amount-desc"
	TransactionSortAmountAsc  TransactionSort = "amount-asc"
)

func ParseTransactionSort(raw string) (TransactionSort, bool) {
	switch candidate := TransactionSort(strings.ToLower(strings.TrimSpace(raw))); candidate {
	case "":
		return TransactionSortNewest, true
	case TransactionSortNewest, TransactionSortOldest, TransactionSortAmountDesc, TransactionSortAmountAsc:
		return candidate, true
	default:
		return "", false
	}
}

// TransactionFilter narrows a ledger query. A nil Period matches every
// period; an empty or "all" Type matches both types.
type TransactionFilter struct {
	Period    *PeriodKey
	Type      string
	Date      string
	StartDate string
	EndDate   string
	Category  string
	Search    string
	Sort      TransactionSort
}

// NormalizeTransactionAmount validates a caller supplied amount.
func NormalizeTransactionAmount(amount float64) (float64, error) {
	rounded, ok := ParseAmount(amount)
	if !ok || rounded <= 0 {
		return 0, ErrInvalidAmount
	}
	if rounded > MaxAmount {
		return MaxAmount, nil
	}
	return rounded, nil
}

func NormalizeTransactionCategory(raw any) string {
	return SanitizeName(raw, DefaultTransactionCategory)
}

func NormalizeTransactionDescription(raw any) string {
	return SanitizeText(raw, TextOptions{MaxLength: MaxTransactionDescriptionLength, Fallback: DefaultTransactionDescription})
}

// NormalizeTransaction coerces a decoded JSON value into a ledger record. The
// second return value is false when the record must be dropped: not an
// object, an unknown type, an invalid calendar date or a non-positive amount.
func NormalizeTransaction(raw any, now time.Time) (Transaction, bool) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return Transaction{}, false
	}

	transactionType, ok := ParseTransactionType(fields["type"])
	if !ok {
		return Transaction{}, false
	}
	date, _ := fields["date"].(string)
	if !IsValidCalendarDate(date) {
		return Transaction{}, false
	}
	amount, ok := ParseAmount(fields["amount"])
	if !ok || amount <= 0 {
		return Transaction{}, false
	}

	transaction := Transaction{
		ID:               SanitizeIdentifier(fields["id"]),
		Amount:           ClampNumber(amount, TransactionAmountBounds),
		Type:             transactionType,
		Category:         NormalizeTransactionCategory(fields["category"]),
		BudgetCategoryID: SanitizeIdentifier(fields["budgetCategoryId"]),
		Description:      NormalizeTransactionDescription(fields["description"]),
		Date:             date,
	}
	if transaction.ID == "" {
		transaction.ID = NewID()
	}
	if budgetType, ok := ParseBudgetType(fields["budgetType"]); ok {
		transaction.BudgetType = budgetType
	}
	if createdAt, ok := fields["createdAt"].(string); ok && strings.TrimSpace(createdAt) != "" {
		transaction.CreatedAt = createdAt
	} else {
		transaction.CreatedAt = FormatTimestamp(now)
	}
	if updatedAt, ok := fields["updatedAt"].(string); ok {
		transaction.UpdatedAt = updatedAt
	}

	return transaction, true
}

// DedupeTransactionIDs regenerates the id of every transaction whose id was
// already used earlier in the slice.
func DedupeTransactionIDs(transactions []Transaction) []Transaction {
	seen := make(map[string]struct{}, len(transactions))
	for index := range transactions {
		for {
			if _, dup := seen[transactions[index].ID]; !dup {
				break
			}
			transactions[index].ID = NewID()
		}
		seen[transactions[index].ID] = struct{}{}
	}
	return transactions
}

// LedgerSummary totals the transactions of one query.
type LedgerSummary struct {
	TotalIncome      float64 `json:"totalIncome"`
	TotalExpenses    float64 `json:"totalExpenses"`
	Balance          float64 `json:"balance"`
	TransactionCount int     `json:"transactionCount"`
}

func SummarizeTransactions(transactions []Transaction) LedgerSummary {
	income := make([]float64, 0, len(transactions))
	expenses := make([]float64, 0, len(transactions))
	for _, transaction := range transactions {
		if transaction.Type == TransactionTypeIncome {
			income = append(income, transaction.Amount)
			continue
		}
		expenses = append(expenses, transaction.Amount)
	}

	summary := LedgerSummary{
		TotalIncome:      SumCurrency(income...),
		TotalExpenses:    SumCurrency(expenses...),
		TransactionCount: len(transactions),
	}
	summary.Balance = SubtractCurrency(summary.TotalIncome, summary.TotalExpenses)
	return summary
}
