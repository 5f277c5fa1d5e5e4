package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldKey       = "key"
	FieldPeriod    = "period"
	FieldID        = "id"
	FieldCount     = "count"
	FieldDropped   = "dropped"
	FieldSection   = "section"
	FieldError     = "error"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentCLI         = "cli"
	ComponentPreferences = "preferences"
	ComponentBudget      = "budget"
	ComponentLedger      = "ledger"
	ComponentCategories  = "categories"
	ComponentReport      = "report"
	ComponentBackup      = "backup"
)

// Operations defines standard operation names
const (
	OpRead    = "read"
	OpWrite   = "write"
	OpMigrate = "migrate"
	OpImport  = "import"
	OpExport  = "export"
	OpClear   = "clear"
)
