package domain

import (
	"fmt"
	"strings"
)

const (
	ledgerIncomeColor  = "#22c55e"
	ledgerExpenseColor = "#64748b"
)

// LedgerCategory is a flat transaction category. Transactions that carry no
// budget category link are grouped by these names.
type LedgerCategory struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color"`
}

type LedgerCategoryInput struct {
	Name  string
	Type  string
	Color string
}

var defaultLedgerCategories = []LedgerCategory{
	{ID: "cat-1", Name: "Salary", Type: TransactionTypeIncome, Color: "#22c55e"},
	{ID: "cat-2", Name: "Freelance", Type: TransactionTypeIncome, Color: "#84cc16"},
	{ID: "cat-3", Name: "Investments", Type: TransactionTypeIncome, Color: "#06b6d4"},
	{ID: "cat-4", Name: "Food", Type: TransactionTypeExpense, Color: "#f59e0b"},
	{ID: "cat-5", Name: "Rent", Type: TransactionTypeExpense, Color: "#ef4444"},
	{ID: "cat-6", Name: "Transportation", Type: TransactionTypeExpense, Color: "#3b82f6"},
	{ID: "cat-7", Name: "Utilities", Type: TransactionTypeExpense, Color: "#8b5cf6"},
	{ID: "cat-8", Name: "Entertainment", Type: TransactionTypeExpense, Color: "#ec4899"},
	{ID: "cat-9", Name: "Shopping", Type: TransactionTypeExpense, Color: "#f97316"},
	{ID: "cat-10", Name: "Healthcare", Type: TransactionTypeExpense, Color: "#14b8a6"},
	{ID: "cat-11", Name: "Other", Type: TransactionTypeExpense, Color: "#64748b"},
}

func DefaultLedgerCategories() []LedgerCategory {
	categories := make([]LedgerCategory, len(defaultLedgerCategories))
	copy(categories, defaultLedgerCategories)
	return categories
}

func ledgerTypeColor(t TransactionType) string {
	if t == TransactionTypeIncome {
		return ledgerIncomeColor
	}
	return ledgerExpenseColor
}

// NormalizeLedgerCategory coerces a decoded JSON value into a flat category.
func NormalizeLedgerCategory(raw any, index int) (LedgerCategory, bool) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return LedgerCategory{}, false
	}

	categoryType, ok := ParseTransactionType(fields["type"])
	if !ok {
		categoryType = TransactionTypeExpense
	}

	id := SanitizeIdentifier(fields["id"])
	if id == "" {
		id = fmt.Sprintf("cat-%d", index+1)
	}

	return LedgerCategory{
		ID:    id,
		Name:  SanitizeName(fields["name"], fmt.Sprintf("Category %d", index+1)),
		Type:  categoryType,
		Color: NormalizeHexColor(fields["color"], ledgerTypeColor(categoryType)),
	}, true
}

// NormalizeLedgerCategories normalizes a decoded list, regenerating duplicate
// ids. A value that is not a list yields the defaults.
func NormalizeLedgerCategories(raw any) []LedgerCategory {
	items, ok := raw.([]any)
	if !ok {
		return DefaultLedgerCategories()
	}

	categories := make([]LedgerCategory, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for index, item := range items {
		category, ok := NormalizeLedgerCategory(item, index)
		if !ok {
			continue
		}
		for {
			if _, dup := seen[category.ID]; !dup {
				break
			}
			category.ID = NewID()
		}
		seen[category.ID] = struct{}{}
		categories = append(categories, category)
	}
	return categories
}

// NewLedgerCategory validates caller input for a new flat category.
func NewLedgerCategory(input LedgerCategoryInput) (LedgerCategory, error) {
	name := SanitizeName(input.Name, "")
	if name == "" {
		return LedgerCategory{}, ErrInvalidName
	}

	categoryType := TransactionTypeExpense
	if strings.TrimSpace(input.Type) != "" {
		parsed, ok := ParseTransactionType(input.Type)
		if !ok {
			return LedgerCategory{}, ErrInvalidType
		}
		categoryType = parsed
	}

	return LedgerCategory{
		ID:    NewID(),
		Name:  name,
		Type:  categoryType,
		Color: NormalizeHexColor(input.Color, ledgerTypeColor(categoryType)),
	}, nil
}
