package audit

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of wizard event
type EventType string

const (
	EventSessionStarted      EventType = "session_started"
	EventSessionReset        EventType = "session_reset"
	EventStepAdvanced        EventType = "step_advanced"
	EventStepBlocked         EventType = "step_blocked"
	EventAssessmentCompleted EventType = "assessment_completed"
	EventAssessmentSkipped   EventType = "assessment_skipped"
	EventResumeRejected      EventType = "resume_rejected"
	EventSubmissionSucceeded EventType = "submission_succeeded"
	EventSubmissionFailed    EventType = "submission_failed"
	EventNotificationFailed  EventType = "notification_failed"
	EventExportGenerated     EventType = "export_generated"
	EventExportFailed        EventType = "export_failed"
	EventRateLimitTriggered  EventType = "rate_limit_triggered"
)

// Event represents one audited wizard event
type Event struct {
	Timestamp   time.Time              `json:"timestamp"`
	Service     string                 `json:"service"`
	Environment string                 `json:"env"`
	Level       string                 `json:"level"`
	Event       EventType              `json:"event"`
	SessionID   string                 `json:"session_id,omitempty"`
	Reference   string                 `json:"reference,omitempty"`
	Subject     string                 `json:"subject,omitempty"` // Masked e-mail or IP
	RequestID   string                 `json:"request_id,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// PersistFunc stores an event outside the log stream
type PersistFunc func(ctx context.Context, event Event) error

// Logger provides structured logging for wizard events
type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
	persistFunc PersistFunc
}

// New wraps an existing zap logger
func New(zl *zap.Logger, serviceName, environment string) *Logger {
	return &Logger{
		zapLogger:   zl,
		serviceName: serviceName,
		environment: environment,
	}
}

// NewProduction builds a JSON zap logger writing to stdout
func NewProduction(serviceName string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"

	// Set output to stdout for container environments
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		// Fallback to a basic logger if config fails
		logger, _ = zap.NewProduction()
	}

	return New(logger, serviceName, environment())
}

// Nop discards every event
func Nop() *Logger {
	return New(zap.NewNop(), "", "")
}

// SetPersistFunc sets the function to persist events to database
func (l *Logger) SetPersistFunc(f PersistFunc) {
	l.persistFunc = f
}

func levelFor(event EventType) zapcore.Level {
	switch event {
	case EventStepBlocked, EventResumeRejected, EventRateLimitTriggered, EventNotificationFailed:
		return zapcore.WarnLevel
	case EventSubmissionFailed, EventExportFailed:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Log logs an event and hands it to the persist function, if any
func (l *Logger) Log(ctx context.Context, event Event) {
	if l == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = l.serviceName
	event.Environment = l.environment

	level := levelFor(event.Event)
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
	}
	if event.SessionID != "" {
		fields = append(fields, zap.String("session_id", event.SessionID))
	}
	if event.Reference != "" {
		fields = append(fields, zap.String("reference", event.Reference))
	}
	if event.Subject != "" {
		fields = append(fields, zap.String("subject", event.Subject))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	l.zapLogger.Log(level, string(event.Event), fields...)

	if l.persistFunc != nil {
		go func(e Event) {
			// Request context may already be canceled
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := l.persistFunc(ctx, e); err != nil {
				l.zapLogger.Error("Failed to persist audit event", zap.Error(err))
			}
		}(event)
	}
}

// LogSubmission records the outcome of a submit attempt
func (l *Logger) LogSubmission(ctx context.Context, sessionID, reference, email string, attempts int, err error) {
	e := Event{
		Event:     EventSubmissionSucceeded,
		SessionID: sessionID,
		Reference: reference,
		Subject:   MaskEmail(email),
		RequestID: RequestIDFromContext(ctx),
		Details:   map[string]interface{}{"attempts": attempts},
	}
	if err != nil {
		e.Event = EventSubmissionFailed
		e.Details["reason"] = err.Error()
	}
	l.Log(ctx, e)
}

// LogStepBlocked records which fields stopped an advance
func (l *Logger) LogStepBlocked(ctx context.Context, sessionID, step string, fields []string) {
	l.Log(ctx, Event{
		Event:     EventStepBlocked,
		SessionID: sessionID,
		RequestID: RequestIDFromContext(ctx),
		Details:   map[string]interface{}{"step": step, "fields": fields},
	})
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (l *Logger) LogRateLimitTriggered(ctx context.Context, ip, requestID, endpoint string) {
	l.Log(ctx, Event{
		Event:     EventRateLimitTriggered,
		Subject:   ip,
		RequestID: requestID,
		Details:   map[string]interface{}{"endpoint": endpoint},
	})
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// --- Request correlation ---

type requestIDKey struct{}

// WithRequestID stores the request id for events logged further down
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the stored request id or ""
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// --- Helper Functions ---

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	if len(email) < 3 {
		return "***"
	}
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 1 {
		return "***" + email[1:]
	}
	return string(email[0]) + "***" + email[atIndex:]
}

// environment determines the current environment
func environment() string {
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
