// Package audit writes one structured AUDIT entry per committed ledger event.
package audit

import (
	"time"

	"go.uber.org/zap"
)

const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

type Event struct {
	Timestamp     time.Time
	EventType     string
	TransactionID string
	UserID        string
	Credits       int64
	Status        string
	Details       map[string]string
}

type Logger struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger.Named("audit"), now: time.Now}
}

// LogLedgerEvent records a committed balance or inventory movement.
func (a *Logger) LogLedgerEvent(eventType, transactionID, userID string, credits int64, details map[string]string) {
	a.log(Event{
		Timestamp:     a.now().UTC(),
		EventType:     eventType,
		TransactionID: transactionID,
		UserID:        userID,
		Credits:       credits,
		Status:        StatusSuccess,
		Details:       details,
	})
}

func (a *Logger) LogError(eventType, transactionID, userID string, err error) {
	a.log(Event{
		Timestamp:     a.now().UTC(),
		EventType:     eventType,
		TransactionID: transactionID,
		UserID:        userID,
		Status:        StatusFailed,
		Details:       map[string]string{"error": err.Error()},
	})
}

func (a *Logger) LogOperation(eventType, referenceID, userID, details string) {
	a.log(Event{
		Timestamp:     a.now().UTC(),
		EventType:     eventType,
		TransactionID: referenceID,
		UserID:        userID,
		Status:        StatusSuccess,
		Details:       map[string]string{"details": details},
	})
}

func (a *Logger) log(event Event) {
	fields := []zap.Field{
		zap.Time("timestamp", event.Timestamp),
		zap.String("event_type", event.EventType),
		zap.String("transaction_id", event.TransactionID),
		zap.String("user_id", event.UserID),
		zap.Int64("credits", event.Credits),
		zap.String("status", event.Status),
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}
	a.logger.Info("AUDIT", fields...)
}
