package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldPeriod      = "period"
	FieldEntryType   = "entry_type"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldGoalName    = "goal_name"
	FieldDueDate     = "due_date"
	FieldRecordID    = "record_id"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentBudget   = "budget"
	ComponentApplier  = "applier"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSheets   = "sheets"
	ComponentExport   = "export"
)

// Operations defines standard operation names
const (
	OpCreate      = "create"
	OpRead        = "read"
	OpUpdate      = "update"
	OpDelete      = "delete"
	OpList        = "list"
	OpApply       = "apply"
	OpCalculate   = "calculate"
	OpSync        = "sync"
	OpExport      = "export"
	OpImport      = "import"
	OpShutdown    = "shutdown"
	OpStartup     = "startup"
)
