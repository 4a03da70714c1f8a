package domain

import "time"

// Payment is an append-only ledger entry recorded once per successful
// enrollment commit. SelectedClassID doubles as the commit's idempotency
// key: it is unique, so a replayed commit cannot write a second row.
type Payment struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	ClassID         string    `json:"classId"`
	SelectedClassID string    `json:"selectedClassId"`
	TransactionID   string    `json:"transactionId,omitempty"`
	Price           float64   `json:"price"`
	PaidAt          time.Time `json:"date"`
	CreatedAt       time.Time `json:"created_at"`
}
