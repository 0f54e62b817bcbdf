package repository

import (
	"context"

	"job-portal-subscriptions/internal/domain/model"
)

// PaymentJournal is the fallback write path for the ledger: a durable-enough
// staging area used when the primary ledger is unavailable. Entries are keyed
// by PaymentID and re-driven into the primary ledger by the reconciler.
type PaymentJournal interface {
	// Stage writes an entry unless one with the same PaymentID exists.
	Stage(ctx context.Context, p *model.PaymentRecord) error
	// ListStaged returns up to limit staged entries.
	ListStaged(ctx context.Context, limit int) ([]*model.PaymentRecord, error)
	// Remove deletes a staged entry once it has landed in the primary ledger.
	Remove(ctx context.Context, paymentID string) error
}
