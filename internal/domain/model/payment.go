package model

import "time"

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// PaymentRecord is one row of the append-only payment ledger. The gateway
// PaymentID is the natural primary key: a retried verification collapses into
// the existing row. Rows are never updated or deleted by this service.
type PaymentRecord struct {
	PaymentID      string // gateway payment id (primary key)
	OrderID        string
	SubscriptionID string // weak back-reference for reporting, not ownership
	UserID         string
	Email          string
	FullName       string
	Amount         int64
	Currency       string
	Status         PaymentStatus
	PaymentDate    time.Time
	ReceiptID      string // ULID assigned at record time
	Meta           map[string]interface{}
}

// RecordOutcome classifies a ledger write attempt.
type RecordOutcome string

const (
	OutcomeRecorded         RecordOutcome = "recorded"
	OutcomeDuplicateIgnored RecordOutcome = "duplicate_ignored"
	OutcomeFailed           RecordOutcome = "failed"
)
