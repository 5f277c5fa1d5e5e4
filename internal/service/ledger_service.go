package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"finance-dashboard/internal/domain"
	applog "finance-dashboard/internal/log"
	"finance-dashboard/internal/ports"
	"finance-dashboard/internal/reporting"
)

// BudgetCategoryLookup resolves budget category links. GetPeriod must not
// create periods.
type BudgetCategoryLookup interface {
	GetPeriod(ctx context.Context, key domain.PeriodKey) (domain.BudgetPeriod, error)
}

type LedgerService struct {
	store   documentStore
	budgets BudgetCategoryLookup
	serviceDeps
}

// UpdateResult reports the updated record and the patch fields that were
// dropped because their values were invalid.
type UpdateResult struct {
	Transaction domain.Transaction `json:"transaction"`
	Ignored     []string           `json:"ignored"`
}

func NewLedgerService(kv ports.KeyValueStore, budgets BudgetCategoryLookup, opts ...Option) (*LedgerService, error) {
	if kv == nil {
		return nil, fmt.Errorf("ledger service: kv store is required")
	}
	if budgets == nil {
		return nil, fmt.Errorf("ledger service: budget lookup is required")
	}

	deps := newServiceDeps(applog.ComponentLedger, opts)
	return &LedgerService{
		store:       documentStore{kv: kv, logger: deps.logger},
		budgets:     budgets,
		serviceDeps: deps,
	}, nil
}

// Add validates input and prepends the new transaction to the ledger. A
// budget category link that resolves in the period of the transaction date
// decides the transaction type.
func (s *LedgerService) Add(ctx context.Context, input domain.TransactionInput) (domain.Transaction, error) {
	amount, err := domain.NormalizeTransactionAmount(input.Amount)
	if err != nil {
		return domain.Transaction{}, err
	}
	if !domain.IsValidCalendarDate(input.Date) {
		return domain.Transaction{}, domain.ErrInvalidDate
	}

	transaction := domain.Transaction{
		ID:               domain.NewID(),
		Amount:           amount,
		BudgetCategoryID: domain.SanitizeIdentifier(input.BudgetCategoryID),
		Description:      domain.NormalizeTransactionDescription(input.Description),
		Date:             input.Date,
		CreatedAt:        domain.FormatTimestamp(s.now()),
	}

	linked, ok := s.resolveLink(ctx, transaction.BudgetCategoryID, transaction.Date)
	if ok {
		transaction.Type = domain.TransactionTypeForBudget(linked.Type)
		transaction.BudgetType = linked.Type
	} else {
		transactionType, valid := domain.ParseTransactionType(input.Type)
		if !valid {
			return domain.Transaction{}, domain.ErrInvalidType
		}
		transaction.Type = transactionType
	}

	categoryName := input.Category
	if strings.TrimSpace(categoryName) == "" && ok {
		categoryName = linked.Name
	}
	transaction.Category = domain.NormalizeTransactionCategory(categoryName)

	transactions, err := s.loadTransactions(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}

	transactions = append([]domain.Transaction{transaction}, transactions...)
	if err := s.store.save(ctx, domain.StorageKeyTransactions, transactions); err != nil {
		return domain.Transaction{}, err
	}
	return transaction, nil
}

// Update applies patch to the transaction with id. An invalid date is
// dropped and listed in UpdateResult.Ignored; an invalid amount or type
// rejects the whole update.
func (s *LedgerService) Update(ctx context.Context, id string, patch domain.TransactionPatch) (UpdateResult, error) {
	transactions, err := s.loadTransactions(ctx)
	if err != nil {
		return UpdateResult{}, err
	}

	index := transactionIndex(transactions, id)
	if index < 0 {
		return UpdateResult{}, domain.ErrTransactionNotFound
	}

	updated := transactions[index]
	result := UpdateResult{Ignored: []string{}}
	relink := false

	if patch.Amount != nil {
		amount, err := domain.NormalizeTransactionAmount(*patch.Amount)
		if err != nil {
			return UpdateResult{}, err
		}
		updated.Amount = amount
	}
	if patch.Type != nil {
		transactionType, ok := domain.ParseTransactionType(*patch.Type)
		if !ok {
			return UpdateResult{}, domain.ErrInvalidType
		}
		updated.Type = transactionType
	}
	if patch.Date != nil {
		if domain.IsValidCalendarDate(*patch.Date) {
			updated.Date = *patch.Date
			relink = true
		} else {
			result.Ignored = append(result.Ignored, "date")
		}
	}
	if patch.Category != nil {
		updated.Category = domain.NormalizeTransactionCategory(*patch.Category)
	}
	if patch.Description != nil {
		updated.Description = domain.NormalizeTransactionDescription(*patch.Description)
	}
	if patch.BudgetCategoryID != nil {
		updated.BudgetCategoryID = domain.SanitizeIdentifier(*patch.BudgetCategoryID)
		relink = true
	}

	if relink || patch.Type != nil {
		linked, ok := s.resolveLink(ctx, updated.BudgetCategoryID, updated.Date)
		switch {
		case ok:
			updated.Type = domain.TransactionTypeForBudget(linked.Type)
			updated.BudgetType = linked.Type
		case relink:
			updated.BudgetType = ""
		}
	}

	updated.UpdatedAt = domain.FormatTimestamp(s.now())
	transactions[index] = updated
	if err := s.store.save(ctx, domain.StorageKeyTransactions, transactions); err != nil {
		return UpdateResult{}, err
	}

	result.Transaction = updated
	return result, nil
}

func (s *LedgerService) Delete(ctx context.Context, id string) error {
	transactions, err := s.loadTransactions(ctx)
	if err != nil {
		return err
	}

	index := transactionIndex(transactions, id)
	if index < 0 {
		return domain.ErrTransactionNotFound
	}

	transactions = append(transactions[:index], transactions[index+1:]...)
	return s.store.save(ctx, domain.StorageKeyTransactions, transactions)
}

func (s *LedgerService) Get(ctx context.Context, id string) (domain.Transaction, error) {
	transactions, err := s.All(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}

	index := transactionIndex(transactions, id)
	if index < 0 {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}
	return transactions[index], nil
}

// All returns every valid transaction in stored order.
func (s *LedgerService) All(ctx context.Context) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, _ := s.store.loadForRead(ctx, domain.StorageKeyTransactions)
	return s.normalizeTransactions(ctx, value), nil
}

// Filter returns the transactions matching filter in the requested order.
func (s *LedgerService) Filter(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	transactions, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return FilterTransactions(transactions, filter), nil
}

// Summary totals the transactions matching filter.
func (s *LedgerService) Summary(ctx context.Context, filter domain.TransactionFilter) (domain.LedgerSummary, error) {
	transactions, err := s.Filter(ctx, filter)
	if err != nil {
		return domain.LedgerSummary{}, err
	}
	return domain.SummarizeTransactions(transactions), nil
}

// ActualsByCategory attributes the transactions of key to that period's
// budget categories.
func (s *LedgerService) ActualsByCategory(ctx context.Context, key domain.PeriodKey) (domain.CategoryActuals, error) {
	period, err := s.budgets.GetPeriod(ctx, key)
	if err != nil {
		return domain.CategoryActuals{}, err
	}

	transactions, err := s.All(ctx)
	if err != nil {
		return domain.CategoryActuals{}, err
	}
	return reporting.ResolveActuals(key, period, transactions), nil
}

// ReplaceAll overwrites the ledger with raw, a decoded transaction list.
func (s *LedgerService) ReplaceAll(ctx context.Context, raw any) (int, error) {
	transactions := s.normalizeTransactions(ctx, raw)
	if err := s.store.save(ctx, domain.StorageKeyTransactions, transactions); err != nil {
		return 0, err
	}
	return len(transactions), nil
}

// MergeAll overlays raw onto the ledger by id and keeps every other record.
func (s *LedgerService) MergeAll(ctx context.Context, raw any) (int, error) {
	existing, err := s.loadTransactions(ctx)
	if err != nil {
		return 0, err
	}

	incoming := s.normalizeTransactions(ctx, raw)
	positions := make(map[string]int, len(existing))
	for index, transaction := range existing {
		positions[transaction.ID] = index
	}

	for _, transaction := range incoming {
		if index, ok := positions[transaction.ID]; ok {
			existing[index] = transaction
			continue
		}
		positions[transaction.ID] = len(existing)
		existing = append(existing, transaction)
	}

	if err := s.store.save(ctx, domain.StorageKeyTransactions, existing); err != nil {
		return 0, err
	}
	return len(incoming), nil
}

func (s *LedgerService) resolveLink(ctx context.Context, budgetCategoryID, date string) (domain.BudgetCategory, bool) {
	if budgetCategoryID == "" {
		return domain.BudgetCategory{}, false
	}

	key, ok := domain.PeriodKeyFromDate(date)
	if !ok || key.Clamp(s.now()) != key {
		return domain.BudgetCategory{}, false
	}

	period, err := s.budgets.GetPeriod(ctx, key)
	if err != nil {
		return domain.BudgetCategory{}, false
	}

	index := period.CategoryIndex(budgetCategoryID)
	if index < 0 {
		return domain.BudgetCategory{}, false
	}
	return period.Categories[index], true
}

// loadTransactions is the write-path read: a failed read is returned so the
// ledger is never overwritten from a partial view.
func (s *LedgerService) loadTransactions(ctx context.Context) ([]domain.Transaction, error) {
	value, _, err := s.store.load(ctx, domain.StorageKeyTransactions)
	if err != nil {
		return nil, err
	}
	return s.normalizeTransactions(ctx, value), nil
}

func (s *LedgerService) normalizeTransactions(ctx context.Context, raw any) []domain.Transaction {
	items, _ := raw.([]any)
	now := s.now()

	transactions := make([]domain.Transaction, 0, len(items))
	for _, item := range items {
		transaction, ok := domain.NormalizeTransaction(item, now)
		if !ok {
			continue
		}
		transactions = append(transactions, transaction)
	}

	if dropped := len(items) - len(transactions); dropped > 0 {
		s.logger.WarnContext(ctx, "dropped malformed transactions",
			applog.FieldKey, domain.StorageKeyTransactions,
			applog.FieldDropped, dropped,
		)
	}
	return domain.DedupeTransactionIDs(transactions)
}

func transactionIndex(transactions []domain.Transaction, id string) int {
	if id == "" {
		return -1
	}
	for index, transaction := range transactions {
		if transaction.ID == id {
			return index
		}
	}
	return -1
}

// FilterTransactions applies filter to transactions without touching storage.
func FilterTransactions(transactions []domain.Transaction, filter domain.TransactionFilter) []domain.Transaction {
	typeFilter := strings.ToLower(strings.TrimSpace(filter.Type))
	categoryFilter := strings.ToLower(strings.TrimSpace(filter.Category))
	searchFilter := strings.ToLower(strings.TrimSpace(filter.Search))

	matched := make([]domain.Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		if filter.Period != nil && !filter.Period.Contains(transaction.Date) {
			continue
		}
		if typeFilter != "" && typeFilter != "all" && string(transaction.Type) != typeFilter {
			continue
		}
		if filter.Date != "" && transaction.Date != filter.Date {
			continue
		}
		if filter.StartDate != "" && transaction.Date < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && transaction.Date > filter.EndDate {
			continue
		}
		if categoryFilter != "" && !strings.Contains(strings.ToLower(transaction.Category), categoryFilter) {
			continue
		}
		if searchFilter != "" &&
			!strings.Contains(strings.ToLower(transaction.Description), searchFilter) &&
			!strings.Contains(strings.ToLower(transaction.Category), searchFilter) {
			continue
		}
		matched = append(matched, transaction)
	}

	sortTransactions(matched, filter.Sort)
	return matched
}

func sortTransactions(transactions []domain.Transaction, order domain.TransactionSort) {
	newest := func(a, b domain.Transaction) bool {
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		return a.CreatedAt > b.CreatedAt
	}

	var less func(a, b domain.Transaction) bool
	switch order {
	case domain.TransactionSortOldest:
		less = func(a, b domain.Transaction) bool {
			if a.Date != b.Date {
				return a.Date < b.Date
			}
			return a.CreatedAt < b.CreatedAt
		}
	case domain.TransactionSortAmountDesc:
		less = func(a, b domain.Transaction) bool {
			if a.Amount != b.Amount {
				return a.Amount > b.Amount
			}
			return newest(a, b)
		}
	case domain.TransactionSortAmountAsc:
		less = func(a, b domain.Transaction) bool {
			if a.Amount != b.Amount {
				return a.Amount < b.Amount
			}
			return newest(a, b)
		}
	default:
		less = newest
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return less(transactions[i], transactions[j])
	})
}
