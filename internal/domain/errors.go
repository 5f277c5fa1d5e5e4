package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrorKindValidation  ErrorKind = "validation"
	ErrorKindCapacity    ErrorKind = "capacity"
	ErrorKindNotFound    ErrorKind = "not_found"
	ErrorKindPersistence ErrorKind = "persistence"
	ErrorKindCrypto      ErrorKind = "crypto"
	ErrorKindInternal    ErrorKind = "internal"
)

// Error is the typed failure returned by every write path. Two errors match
// under errors.Is when their codes are equal, so wrapped copies created with
// WithCause still compare against the package sentinels.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

// WithCause returns a copy of e wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	clone := *e
	clone.Err = cause
	return &clone
}

// WithMessage returns a copy of e with a more specific message.
func (e *Error) WithMessage(message string) *Error {
	clone := *e
	clone.Message = message
	return &clone
}

const (
	ErrorCodeInvalidAmount      = "invalid_amount"
	ErrorCodeInvalidType        = "invalid_type"
	ErrorCodeInvalidDate        = "invalid_date"
	ErrorCodeInvalidPeriod      = "invalid_period"
	ErrorCodeUnknownField       = "unknown_field"
	ErrorCodeSamePeriod         = "same_period"
	ErrorCodeInvalidName        = "invalid_name"
	ErrorCodeCategoryLimit      = "category_limit_reached"
	ErrorCodeCategoryNotFound   = "category_not_found"
	ErrorCodePeriodNotFound     = "period_not_found"
	ErrorCodeTransactionMissing = "transaction_not_found"
	ErrorCodeStorage            = "storage_error"
	ErrorCodePassphraseRequired = "passphrase_required"
	ErrorCodeDecryptFailed      = "decrypt_failed"
	ErrorCodeEncryptFailed      = "encrypt_failed"
	ErrorCodeInvalidBackup      = "invalid_backup"
	ErrorCodeImportTooLarge     = "import_too_large"
)

var (
	ErrInvalidAmount = &Error{Kind: ErrorKindValidation, Code: ErrorCodeInvalidAmount, Message: "amount must be a number greater than zero"}
	ErrInvalidType   = &Error{Kind: ErrorKindValidation, Code: ErrorCodeInvalidType, Message: "type must be income or expense"}
	ErrInvalidDate   = &Error{Kind: ErrorKindValidation, Code: ErrorCodeInvalidDate, Message: "date must be a valid YYYY-MM-DD calendar date"}
	ErrInvalidPeriod = &Error{Kind: ErrorKindValidation, Code: ErrorCodeInvalidPeriod, Message: "period must use YYYY-MM"}
	ErrUnknownField  = &Error{Kind: ErrorKindValidation, Code: ErrorCodeUnknownField, Message: "unknown category field"}
	ErrSamePeriod    = &Error{Kind: ErrorKindValidation, Code: ErrorCodeSamePeriod, Message: "source and target period must differ"}
	ErrInvalidName   = &Error{Kind: ErrorKindValidation, Code: ErrorCodeInvalidName, Message: "name is required"}

	ErrCategoryLimitReached = &Error{Kind: ErrorKindCapacity, Code: ErrorCodeCategoryLimit, Message: fmt.Sprintf("a period holds at most %d budget categories", MaxBudgetCategoriesPerPeriod)}

	ErrCategoryNotFound    = &Error{Kind: ErrorKindNotFound, Code: ErrorCodeCategoryNotFound, Message: "category not found"}
	ErrPeriodNotFound      = &Error{Kind: ErrorKindNotFound, Code: ErrorCodePeriodNotFound, Message: "budget period not found"}
	ErrTransactionNotFound = &Error{Kind: ErrorKindNotFound, Code: ErrorCodeTransactionMissing, Message: "transaction not found"}

	ErrStorage = &Error{Kind: ErrorKindPersistence, Code: ErrorCodeStorage, Message: "storage write failed"}

	ErrPassphraseRequired = &Error{Kind: ErrorKindCrypto, Code: ErrorCodePassphraseRequired, Message: "a passphrase is required"}
	ErrDecryptFailed      = &Error{Kind: ErrorKindCrypto, Code: ErrorCodeDecryptFailed, Message: "failed to decrypt backup: check the passphrase"}
	ErrEncryptFailed      = &Error{Kind: ErrorKindCrypto, Code: ErrorCodeEncryptFailed, Message: "failed to encrypt backup"}

	ErrInvalidBackup  = &Error{Kind: ErrorKindValidation, Code: ErrorCodeInvalidBackup, Message: "invalid backup format"}
	ErrImportTooLarge = &Error{Kind: ErrorKindValidation, Code: ErrorCodeImportTooLarge, Message: fmt.Sprintf("backup file exceeds %d bytes", MaxImportBytes)}
)

// NewStorageError wraps a failed write of key.
func NewStorageError(key string, err error) error {
	return ErrStorage.WithMessage(fmt.Sprintf("save %s", key)).WithCause(err)
}

// KindOf classifies err; errors that are not *Error report ErrorKindInternal.
func KindOf(err error) ErrorKind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return ErrorKindInternal
}

// CodeOf returns the machine code of err, or an empty string.
func CodeOf(err error) string {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Code
	}
	return ""
}
