package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldYear       = "year"
	FieldMonth      = "month"
	FieldPeriod     = "period"
	FieldGeneration = "generation"
	FieldCategory   = "category"
	FieldAmount     = "amount_paise"
	FieldExpenseID  = "expense_id"
	FieldBudgetID   = "budget_id"
	FieldSeverity   = "severity"
	FieldEndpoint   = "endpoint"
)

// Components defines standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAPI       = "api"
	ComponentViewModel = "viewmodel"
	ComponentSession   = "session"
	ComponentAlerts    = "alerts"
	ComponentSheets    = "sheets"
	ComponentWorker    = "worker"
)

// Operations defines standard operation names.
const (
	OpCreate      = "create"
	OpUpdate      = "update"
	OpDelete      = "delete"
	OpFetch       = "fetch"
	OpRefresh     = "refresh"
	OpMaterialize = "materialize"
	OpPublish     = "publish"
	OpConsume     = "consume"
	OpRender      = "render"
	OpStartup     = "startup"
	OpShutdown    = "shutdown"
)
