package log

import "time"

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldErrorType     = "error_type"
	FieldOperation     = "operation"
	FieldGoalID        = "goal_id"
	FieldGoalName      = "goal_name"
	FieldTransactionID = "transaction_id"
	FieldAmount        = "amount"
	FieldType          = "type"
	FieldCategory      = "category"
	FieldAttempt       = "attempt"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentGoal      = "goal"
	ComponentLedger    = "ledger"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentRateLimit = "rate_limit"
	ComponentBackend   = "backend"
	ComponentCLI       = "cli"
)

// Operations defines standard operation names
const (
	OpCreate     = "create"
	OpList       = "list"
	OpContribute = "contribute"
	OpSummary    = "summary"
	OpRecent     = "recent"
	OpPublish    = "publish"
	OpConsume    = "consume"
	OpShutdown   = "shutdown"
	OpStartup    = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeDatabase   = "database_error"
	ErrorTypeNotFound   = "not_found_error"
	ErrorTypeConflict   = "conflict_error"
	ErrorTypeInternal   = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category field
func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithGoal adds goal-related fields
func (f LogFields) WithGoal(id int64, name string) LogFields {
	f[FieldGoalID] = id
	f[FieldGoalName] = name
	return f
}

// WithTransaction adds transaction-related fields
func (f LogFields) WithTransaction(id int64, txType, category, amount string) LogFields {
	f[FieldTransactionID] = id
	f[FieldType] = txType
	f[FieldCategory] = category
	f[FieldAmount] = amount
	return f
}

// WithAttempt adds the retry attempt and the delay before the next one
func (f LogFields) WithAttempt(attempt int, retryIn time.Duration) LogFields {
	f[FieldAttempt] = attempt
	f["retry_in"] = retryIn.String()
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
