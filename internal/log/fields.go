package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldUserID     = "uid"
	FieldUsername   = "username"
	FieldChatID     = "chat_id"
	FieldCommand    = "command"
	FieldOutcome    = "outcome"
	FieldMonth      = "month"
	FieldAmount     = "amount"
	FieldExpenseID  = "expense_id"
	FieldEventType  = "event_type"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldBackend    = "backend"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentBot      = "bot"
	ComponentTelegram = "telegram"
	ComponentLedger   = "ledger"
	ComponentStore    = "store"
	ComponentBackend  = "backend"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSheets   = "sheets"
	ComponentHTTP     = "http"
	ComponentExport   = "export"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithError adds the error message; nil errors are skipped.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithCommand adds the fields identifying one chat command invocation.
func (f LogFields) WithCommand(command string, userID, chatID int64) LogFields {
	f[FieldCommand] = command
	f[FieldUserID] = userID
	f[FieldChatID] = chatID
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
