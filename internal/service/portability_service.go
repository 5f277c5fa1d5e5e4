package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"finance-dashboard/internal/backup"
	"finance-dashboard/internal/domain"
	applog "finance-dashboard/internal/log"
	"finance-dashboard/internal/ports"
)

const (
	sectionTransactions = "transactions"
	sectionCategories   = "categories"
	sectionPreferences  = "preferences"
	sectionBudgets      = "budgets"
	sectionLegacyBudget = "budget"
)

// PortabilityService exports every store into one backup document and
// imports such documents back.
type PortabilityService struct {
	preferences *PreferenceService
	budgets     *BudgetService
	ledger      *LedgerService
	categories  *LedgerCategoryService
	store       documentStore
	serviceDeps
}

type ImportOptions struct {
	Passphrase string
	// Merge keeps existing records and overlays incoming ones by id or
	// period key instead of replacing each section.
	Merge bool
}

func NewPortabilityService(
	preferences *PreferenceService,
	budgets *BudgetService,
	ledger *LedgerService,
	categories *LedgerCategoryService,
	kv ports.KeyValueStore,
	opts ...Option,
) (*PortabilityService, error) {
	if preferences == nil {
		return nil, fmt.Errorf("portability service: preference service is required")
	}
	if budgets == nil {
		return nil, fmt.Errorf("portability service: budget service is required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("portability service: ledger service is required")
	}
	if categories == nil {
		return nil, fmt.Errorf("portability service: category service is required")
	}
	if kv == nil {
		return nil, fmt.Errorf("portability service: kv store is required")
	}

	deps := newServiceDeps(applog.ComponentBackup, opts)
	return &PortabilityService{
		preferences: preferences,
		budgets:     budgets,
		ledger:      ledger,
		categories:  categories,
		store:       documentStore{kv: kv, logger: deps.logger},
		serviceDeps: deps,
	}, nil
}

// Export snapshots every store.
func (s *PortabilityService) Export(ctx context.Context) (domain.BackupEnvelope, error) {
	transactions, err := s.ledger.All(ctx)
	if err != nil {
		return domain.BackupEnvelope{}, err
	}
	preferences, err := s.preferences.Get(ctx)
	if err != nil {
		return domain.BackupEnvelope{}, err
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return domain.BackupEnvelope{}, err
	}
	budgets, err := s.budgets.Store(ctx)
	if err != nil {
		return domain.BackupEnvelope{}, err
	}

	return domain.BackupEnvelope{
		SchemaVersion: domain.BackupSchemaVersion,
		App:           domain.BackupApp,
		ExportedAt:    domain.FormatTimestamp(s.now()),
		Transactions:  transactions,
		Preferences:   preferences,
		Categories:    categories,
		Budgets:       budgets,
	}, nil
}

// ExportPlain renders the backup as indented JSON.
func (s *PortabilityService) ExportPlain(ctx context.Context) ([]byte, error) {
	envelope, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}

	s.logger.InfoContext(ctx, "exported backup",
		applog.FieldOperation, applog.OpExport,
		applog.FieldCount, len(envelope.Transactions),
	)
	return payload, nil
}

// ExportEncrypted renders the backup sealed under passphrase.
func (s *PortabilityService) ExportEncrypted(ctx context.Context, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, domain.ErrPassphraseRequired
	}

	plaintext, err := s.ExportPlain(ctx)
	if err != nil {
		return nil, err
	}

	sealed, err := backup.Encrypt(plaintext, passphrase, s.now())
	if err != nil {
		return nil, err
	}

	payload, err := json.MarshalIndent(sealed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal encrypted backup: %w", err)
	}
	return payload, nil
}

// FileName suggests a file name for a backup taken now.
func (s *PortabilityService) FileName(encrypted bool) string {
	return backup.FileName(s.now(), encrypted)
}

// ImportFile enforces the size limit before reading path.
func (s *PortabilityService) ImportFile(ctx context.Context, path string, opts ImportOptions) (domain.ImportResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("stat backup file: %w", err)
	}
	if info.Size() > domain.MaxImportBytes {
		return domain.ImportResult{}, domain.ErrImportTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("read backup file: %w", err)
	}
	return s.Import(ctx, data, opts)
}

// Import applies a plain or encrypted backup. The whole document is parsed
// before the first write; each section is then committed on its own, so a
// malformed or failing section does not block the others.
func (s *PortabilityService) Import(ctx context.Context, data []byte, opts ImportOptions) (domain.ImportResult, error) {
	if len(data) > domain.MaxImportBytes {
		return domain.ImportResult{}, domain.ErrImportTooLarge
	}

	document, err := decodeDocument(data)
	if err != nil {
		return domain.ImportResult{}, err
	}

	result := domain.ImportResult{
		Merged:   opts.Merge,
		Imported: []string{},
		Skipped:  []string{},
		Warnings: []domain.Warning{},
	}

	if domain.IsEncryptedBackup(document) {
		if opts.Passphrase == "" {
			return domain.ImportResult{}, domain.ErrPassphraseRequired
		}

		var sealed domain.EncryptedBackup
		if err := json.Unmarshal(data, &sealed); err != nil {
			return domain.ImportResult{}, domain.ErrDecryptFailed
		}
		plaintext, err := backup.Decrypt(sealed, opts.Passphrase)
		if err != nil {
			return domain.ImportResult{}, err
		}
		document, err = decodeDocument(plaintext)
		if err != nil {
			return domain.ImportResult{}, err
		}
		result.Encrypted = true
	}

	sections := parseSections(document)
	if len(sections.present) == 0 {
		return domain.ImportResult{}, domain.ErrInvalidBackup.WithMessage("backup contains no known sections")
	}

	for _, name := range sections.malformed {
		result.Skipped = append(result.Skipped, name)
		result.Warnings = append(result.Warnings, domain.Warning{
			Code:    "SECTION_SKIPPED",
			Message: fmt.Sprintf("section %q has an unexpected shape and was skipped", name),
		})
	}

	var failures []error
	commit := func(name string, apply func() error) {
		if err := apply(); err != nil {
			failures = append(failures, err)
			result.Skipped = append(result.Skipped, name)
			s.logger.ErrorContext(ctx, "import section failed",
				applog.FieldSection, name,
				applog.FieldError, err.Error(),
			)
			return
		}
		result.Imported = append(result.Imported, name)
	}

	if raw, ok := sections.valid[sectionTransactions]; ok {
		commit(sectionTransactions, func() error {
			var count int
			var err error
			if opts.Merge {
				count, err = s.ledger.MergeAll(ctx, raw)
			} else {
				count, err = s.ledger.ReplaceAll(ctx, raw)
			}
			result.Transactions = count
			return err
		})
	}
	if raw, ok := sections.valid[sectionCategories]; ok {
		commit(sectionCategories, func() error {
			var count int
			var err error
			if opts.Merge {
				count, err = s.categories.MergeAll(ctx, raw)
			} else {
				count, err = s.categories.ReplaceAll(ctx, raw)
			}
			result.Categories = count
			return err
		})
	}
	if raw, ok := sections.valid[sectionPreferences]; ok {
		commit(sectionPreferences, func() error {
			_, err := s.preferences.Replace(ctx, raw)
			return err
		})
	}

	// The selection may have just changed, so the legacy section is placed
	// after preferences are committed.
	if raw, ok := sections.valid[sectionBudgets]; ok {
		commit(sectionBudgets, func() error {
			var count int
			var err error
			if opts.Merge {
				count, err = s.budgets.MergeStore(ctx, raw)
			} else {
				count, err = s.budgets.ReplaceStore(ctx, raw)
			}
			result.Periods = count
			return err
		})
	} else if raw, ok := sections.valid[sectionLegacyBudget]; ok {
		commit(sectionLegacyBudget, func() error {
			_, err := s.budgets.ImportLegacyPeriod(ctx, raw)
			if err == nil {
				result.Periods = 1
			}
			return err
		})
	}

	s.logger.InfoContext(ctx, "imported backup",
		applog.FieldOperation, applog.OpImport,
		"imported", result.Imported,
		"skipped", result.Skipped,
	)

	if len(failures) > 0 {
		return result, errors.Join(failures...)
	}
	return result, nil
}

// Clear removes every stored document, including the legacy budget.
func (s *PortabilityService) Clear(ctx context.Context) error {
	for _, key := range domain.AllStorageKeys {
		if err := s.store.remove(ctx, key); err != nil {
			return err
		}
	}
	s.logger.InfoContext(ctx, "cleared all data", applog.FieldOperation, applog.OpClear)
	return nil
}

type backupSections struct {
	present   []string
	valid     map[string]any
	malformed []string
}

func decodeDocument(data []byte) (map[string]json.RawMessage, error) {
	var document map[string]json.RawMessage
	if err := json.Unmarshal(data, &document); err != nil || document == nil {
		return nil, domain.ErrInvalidBackup.WithMessage("invalid JSON file")
	}
	return document, nil
}

func parseSections(document map[string]json.RawMessage) backupSections {
	sections := backupSections{valid: map[string]any{}}

	for _, name := range []string{sectionTransactions, sectionCategories, sectionPreferences, sectionBudgets, sectionLegacyBudget} {
		raw, ok := document[name]
		if !ok || string(raw) == "null" {
			continue
		}
		sections.present = append(sections.present, name)

		var value any
		if err := json.Unmarshal(raw, &value); err != nil || !hasSectionShape(name, value) {
			sections.malformed = append(sections.malformed, name)
			continue
		}
		sections.valid[name] = value
	}

	return sections
}

func hasSectionShape(name string, value any) bool {
	switch name {
	case sectionTransactions, sectionCategories:
		_, ok := value.([]any)
		return ok
	case sectionBudgets:
		store, ok := value.(map[string]any)
		if !ok {
			return false
		}
		_, ok = store["periods"].(map[string]any)
		return ok
	case sectionPreferences, sectionLegacyBudget:
		_, ok := value.(map[string]any)
		return ok
	default:
		return false
	}
}
