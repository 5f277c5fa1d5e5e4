package domain

import (
	"fmt"
	"sort"
	"strings"
)

const (
	BudgetsStoreVersion          = 2
	MaxBudgetCategoriesPerPeriod = 200
	MaxNotesLength               = 1000
)

type BudgetType string

const (
	BudgetTypeIncome   BudgetType = "income"
	BudgetTypeVariable BudgetType = "variable"
	BudgetTypeFixed    BudgetType = "fixed"
	BudgetTypeSavings  BudgetType = "savings"
	BudgetTypeDebt     BudgetType = "debt"
)

// BudgetTypes lists every budget type in display order.
var BudgetTypes = []BudgetType{
	BudgetTypeIncome,
	BudgetTypeVariable,
	BudgetTypeFixed,
	BudgetTypeSavings,
	BudgetTypeDebt,
}

var budgetTypeColors = map[BudgetType]string{
	BudgetTypeIncome:   "#22c55e",
	BudgetTypeVariable: "#ec4899",
	BudgetTypeFixed:    "#ef4444",
	BudgetTypeSavings:  "#3b82f6",
	BudgetTypeDebt:     "#8b5cf6",
}

// ParseBudgetType accepts one of BudgetTypes, case-insensitively.
func ParseBudgetType(raw any) (BudgetType, bool) {
	value, ok := raw.(string)
	if !ok {
		return "", false
	}
	candidate := BudgetType(strings.ToLower(strings.TrimSpace(value)))
	if _, known := budgetTypeColors[candidate]; !known {
		return "", false
	}
	return candidate, true
}

// BudgetTypeColor returns the palette color for t, or DefaultColor.
func BudgetTypeColor(t BudgetType) string {
	if color, ok := budgetTypeColors[t]; ok {
		return color
	}
	return DefaultColor
}

// IsOutflow reports whether amounts of this type leave the household.
func (t BudgetType) IsOutflow() bool {
	return t != BudgetTypeIncome
}

type BudgetCategory struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Type    BudgetType `json:"type"`
	Color   string     `json:"color"`
	Planned float64    `json:"planned"`
	Actual  float64    `json:"actual"`
}

type BudgetPeriod struct {
	Notes      string           `json:"notes"`
	Categories []BudgetCategory `json:"categories"`
	UpdatedAt  *string          `json:"updatedAt"`
}

type BudgetsStore struct {
	Version int                     `json:"version"`
	Periods map[string]BudgetPeriod `json:"periods"`
}

// BudgetCategoryInput carries caller supplied values for a new category.
type BudgetCategoryInput struct {
	ID      string
	Name    string
	Type    string
	Color   string
	Planned float64
	Actual  float64
}

type CategoryField string

const (
	CategoryFieldName    CategoryField = "name"
	CategoryFieldPlanned CategoryField = "planned"
	CategoryFieldActual  CategoryField = "actual"
	CategoryFieldColor   CategoryField = "color"
)

func ParseCategoryField(raw string) (CategoryField, error) {
	switch field := CategoryField(strings.ToLower(strings.TrimSpace(raw))); field {
	case CategoryFieldName, CategoryFieldPlanned, CategoryFieldActual, CategoryFieldColor:
		return field, nil
	default:
		return "", ErrUnknownField.WithMessage(fmt.Sprintf("unknown category field %q: supported fields are name|planned|actual|color", raw))
	}
}

var defaultBudgetCategories = []BudgetCategory{
	{ID: "inc-1", Name: "Salary", Type: BudgetTypeIncome, Color: "#22c55e"},
	{ID: "inc-2", Name: "Freelance", Type: BudgetTypeIncome, Color: "#84cc16"},
	{ID: "inc-3", Name: "Investments", Type: BudgetTypeIncome, Color: "#06b6d4"},
	{ID: "var-1", Name: "Groceries", Type: BudgetTypeVariable, Color: "#f59e0b"},
	{ID: "var-2", Name: "Dining Out", Type: BudgetTypeVariable, Color: "#ec4899"},
	{ID: "var-3", Name: "Shopping", Type: BudgetTypeVariable, Color: "#f97316"},
	{ID: "var-4", Name: "Entertainment", Type: BudgetTypeVariable, Color: "#8b5cf6"},
	{ID: "fix-1", Name: "Rent", Type: BudgetTypeFixed, Color: "#ef4444"},
	{ID: "fix-2", Name: "Utilities", Type: BudgetTypeFixed, Color: "#06b6d4"},
	{ID: "fix-3", Name: "Subscriptions", Type: BudgetTypeFixed, Color: "#8b5cf6"},
	{ID: "fix-4", Name: "Transportation", Type: BudgetTypeFixed, Color: "#3b82f6"},
	{ID: "fix-5", Name: "Insurance", Type: BudgetTypeFixed, Color: "#14b8a6"},
	{ID: "sav-1", Name: "Emergency Fund", Type: BudgetTypeSavings, Color: "#22c55e"},
	{ID: "sav-2", Name: "Holidays", Type: BudgetTypeSavings, Color: "#ec4899"},
	{ID: "sav-3", Name: "Retirement", Type: BudgetTypeSavings, Color: "#06b6d4"},
	{ID: "sav-4", Name: "Other Savings", Type: BudgetTypeSavings, Color: "#84cc16"},
	{ID: "debt-1", Name: "Car Lease", Type: BudgetTypeDebt, Color: "#ef4444"},
	{ID: "debt-2", Name: "Personal Loan", Type: BudgetTypeDebt, Color: "#f97316"},
	{ID: "debt-3", Name: "Credit Card", Type: BudgetTypeDebt, Color: "#8b5cf6"},
	{ID: "debt-4", Name: "Student Loan", Type: BudgetTypeDebt, Color: "#3b82f6"},
}

// DefaultBudgetCategories returns a fresh copy of the default category set.
func DefaultBudgetCategories() []BudgetCategory {
	categories := make([]BudgetCategory, len(defaultBudgetCategories))
	copy(categories, defaultBudgetCategories)
	return categories
}

func DefaultBudgetPeriod() BudgetPeriod {
	return BudgetPeriod{
		Notes:      "",
		Categories: DefaultBudgetCategories(),
		UpdatedAt:  nil,
	}
}

func NewBudgetsStore() BudgetsStore {
	return BudgetsStore{Version: BudgetsStoreVersion, Periods: map[string]BudgetPeriod{}}
}

// NormalizeBudgetCategoryInput turns caller input into a stored category.
// index is the category's position, used for the fallback name.
func NormalizeBudgetCategoryInput(input BudgetCategoryInput, index int) BudgetCategory {
	return normalizeBudgetCategoryFields(input.ID, input.Name, input.Type, input.Color, input.Planned, input.Actual, index)
}

// NormalizeBudgetCategory coerces a decoded JSON value into a category. The
// second return value is false when raw is not an object.
func NormalizeBudgetCategory(raw any, index int) (BudgetCategory, bool) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return BudgetCategory{}, false
	}
	return normalizeBudgetCategoryFields(fields["id"], fields["name"], fields["type"], fields["color"], fields["planned"], fields["actual"], index), true
}

func normalizeBudgetCategoryFields(id, name, categoryType, color, planned, actual any, index int) BudgetCategory {
	normalizedType, ok := ParseBudgetType(categoryType)
	if !ok {
		normalizedType = BudgetTypeVariable
	}

	normalizedID := SanitizeIdentifier(id)
	if normalizedID == "" {
		normalizedID = NewID()
	}

	return BudgetCategory{
		ID:      normalizedID,
		Name:    SanitizeName(name, fmt.Sprintf("Item %d", index+1)),
		Type:    normalizedType,
		Color:   NormalizeHexColor(color, BudgetTypeColor(normalizedType)),
		Planned: ClampNumber(planned, AmountBounds),
		Actual:  ClampNumber(actual, AmountBounds),
	}
}

// NormalizeBudgetPeriod coerces a decoded JSON value into a period. Anything
// that is not an object, or an object without categories, yields the default
// category set.
func NormalizeBudgetPeriod(raw any) BudgetPeriod {
	fields, ok := raw.(map[string]any)
	if !ok {
		return DefaultBudgetPeriod()
	}

	period := BudgetPeriod{
		Notes: SanitizeText(fields["notes"], TextOptions{MaxLength: MaxNotesLength, KeepEdges: true}),
	}
	if updatedAt, ok := fields["updatedAt"].(string); ok {
		period.UpdatedAt = &updatedAt
	}

	rawCategories, _ := fields["categories"].([]any)
	if len(rawCategories) > MaxBudgetCategoriesPerPeriod {
		rawCategories = rawCategories[:MaxBudgetCategoriesPerPeriod]
	}

	categories := make([]BudgetCategory, 0, len(rawCategories))
	for index, rawCategory := range rawCategories {
		category, ok := NormalizeBudgetCategory(rawCategory, index)
		if !ok {
			continue
		}
		categories = append(categories, category)
	}

	if len(categories) == 0 {
		categories = DefaultBudgetCategories()
	}
	period.Categories = DedupeBudgetCategoryIDs(categories)
	return period
}

// NormalizeBudgetsStore coerces a decoded JSON value into the multi-period
// store, dropping entries whose key is not a valid YYYY-MM.
func NormalizeBudgetsStore(raw any) BudgetsStore {
	store := NewBudgetsStore()

	fields, ok := raw.(map[string]any)
	if !ok {
		return store
	}
	periods, ok := fields["periods"].(map[string]any)
	if !ok {
		return store
	}

	for key, rawPeriod := range periods {
		if _, err := ParsePeriodKey(key); err != nil {
			continue
		}
		store.Periods[key] = NormalizeBudgetPeriod(rawPeriod)
	}
	return store
}

// DedupeBudgetCategoryIDs regenerates the id of every category whose id was
// already used earlier in the slice.
func DedupeBudgetCategoryIDs(categories []BudgetCategory) []BudgetCategory {
	seen := make(map[string]struct{}, len(categories))
	for index := range categories {
		for {
			if _, dup := seen[categories[index].ID]; !dup {
				break
			}
			categories[index].ID = NewID()
		}
		seen[categories[index].ID] = struct{}{}
	}
	return categories
}

// CategoryIndex returns the position of the category with id, or -1.
func (p BudgetPeriod) CategoryIndex(id string) int {
	if id == "" {
		return -1
	}
	for index, category := range p.Categories {
		if category.ID == id {
			return index
		}
	}
	return -1
}

// CategoriesByType returns the categories of type t in stored order.
func (p BudgetPeriod) CategoriesByType(t BudgetType) []BudgetCategory {
	matching := make([]BudgetCategory, 0)
	for _, category := range p.Categories {
		if category.Type == t {
			matching = append(matching, category)
		}
	}
	return matching
}

// ApplyCategoryField returns category with field set from value. An invalid
// name or color keeps the category's current value. Planned and actual clamp
// to AmountBounds, and a value that is not a number becomes 0.
func ApplyCategoryField(category BudgetCategory, field CategoryField, value string) (BudgetCategory, error) {
	switch field {
	case CategoryFieldName:
		category.Name = SanitizeName(value, category.Name)
	case CategoryFieldPlanned:
		category.Planned = ClampNumber(value, AmountBounds)
	case CategoryFieldActual:
		category.Actual = ClampNumber(value, AmountBounds)
	case CategoryFieldColor:
		category.Color = NormalizeHexColor(value, category.Color)
	default:
		return BudgetCategory{}, ErrUnknownField.WithMessage(fmt.Sprintf("unknown category field %q", field))
	}
	return category, nil
}

// SortedPeriodKeys returns the store's valid keys in calendar order.
func (s BudgetsStore) SortedPeriodKeys() []PeriodKey {
	keys := make([]PeriodKey, 0, len(s.Periods))
	for raw := range s.Periods {
		key, err := ParsePeriodKey(raw)
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Before(keys[j])
	})
	return keys
}
