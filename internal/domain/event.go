package domain

import "time"

// EnrollmentEventType identifies the kind of enrollment event
type EnrollmentEventType string

const (
	EnrollmentEventCompleted EnrollmentEventType = "enrollment.completed"
)

// EnrollmentEvent is published after a successful enrollment commit so
// downstream consumers (receipts, analytics) can react. Publishing is
// best-effort and never fails the commit.
type EnrollmentEvent struct {
	EventID    string              `json:"event_id"`
	EventType  EnrollmentEventType `json:"event_type"`
	Email      string              `json:"email"`
	ClassID    string              `json:"class_id"`
	PaymentID  string              `json:"payment_id"`
	Price      float64             `json:"price"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// Key returns the partition key for the event
func (e *EnrollmentEvent) Key() string {
	return e.ClassID
}
