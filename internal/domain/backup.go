package domain

import "encoding/json"

const (
	BackupSchemaVersion       = 2
	BackupApp                 = "personal-finance-dashboard"
	EncryptedBackupApp        = "personal-finance-dashboard-backup"
	EncryptionVersion         = 1
	MaxImportBytes            = 5 * 1024 * 1024
	EncryptionAlgorithmAESGCM = "AES-GCM"
	KDFPBKDF2                 = "PBKDF2"
	KDFHashSHA256             = "SHA-256"
)

// Storage keys of the persisted records.
const (
	StorageKeyTransactions = "finance_transactions"
	StorageKeyPreferences  = "finance_preferences"
	StorageKeyCategories   = "finance_categories"
	StorageKeyBudgets      = "finance_budgets_v2"
	StorageKeyLegacyBudget = "finance_budget"
)

// AllStorageKeys lists every key the application writes or migrates from.
var AllStorageKeys = []string{
	StorageKeyTransactions,
	StorageKeyPreferences,
	StorageKeyCategories,
	StorageKeyBudgets,
	StorageKeyLegacyBudget,
}

// BackupEnvelope is the plaintext export document.
type BackupEnvelope struct {
	SchemaVersion int              `json:"schemaVersion"`
	App           string           `json:"app"`
	ExportedAt    string           `json:"exportedAt"`
	Transactions  []Transaction    `json:"transactions"`
	Preferences   Preferences      `json:"preferences"`
	Categories    []LedgerCategory `json:"categories"`
	Budgets       BudgetsStore     `json:"budgets"`
}

type EncryptionParams struct {
	Algorithm  string `json:"algorithm"`
	IV         string `json:"iv"`
	KDF        string `json:"kdf"`
	Hash       string `json:"hash"`
	Iterations int    `json:"iterations"`
	Salt       string `json:"salt"`
}

// EncryptedBackup wraps a ciphertext of a BackupEnvelope.
type EncryptedBackup struct {
	App               string           `json:"app"`
	EncryptedBackup   bool             `json:"encryptedBackup"`
	EncryptionVersion int              `json:"encryptionVersion"`
	ExportedAt        string           `json:"exportedAt"`
	Encryption        EncryptionParams `json:"encryption"`
	Payload           string           `json:"payload"`
}

// IsEncryptedBackup reports whether a decoded document carries the encrypted
// backup discriminator.
func IsEncryptedBackup(document map[string]json.RawMessage) bool {
	raw, ok := document["encryptedBackup"]
	if !ok {
		return false
	}
	var flag bool
	if err := json.Unmarshal(raw, &flag); err != nil {
		return false
	}
	return flag
}

// ImportResult reports which sections of a backup were applied.
type ImportResult struct {
	Encrypted    bool      `json:"encrypted"`
	Merged       bool      `json:"merged"`
	Imported     []string  `json:"imported"`
	Skipped      []string  `json:"skipped"`
	Transactions int       `json:"transactions"`
	Categories   int       `json:"categories"`
	Periods      int       `json:"periods"`
	Warnings     []Warning `json:"warnings"`
}

type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
