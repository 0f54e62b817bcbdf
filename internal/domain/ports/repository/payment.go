package repository

import (
	"context"

	"job-portal-subscriptions/internal/domain/model"
)

// PaymentLedger is the port for the append-only payment ledger.
type PaymentLedger interface {
	// Insert appends a ledger row keyed by PaymentID. A row that already
	// exists is a successful no-op; the bool reports whether a new row was
	// written (false on duplicate).
	Insert(ctx context.Context, tx Tx, p *model.PaymentRecord) (bool, error)
	FindByPaymentID(ctx context.Context, tx Tx, paymentID string) (*model.PaymentRecord, error)
}
