package repository

import (
	"context"
	"time"

	"job-portal-subscriptions/internal/domain/model"
)

// SubscriptionRepository is the port for subscription persistence.
type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Subscription) error
	FindByOrderID(ctx context.Context, tx Tx, orderID string) (*model.Subscription, error)

	// ActivateIfCreated performs the created -> active transition as a single
	// conditional update ("... WHERE order_id=$1 AND status='created'") and
	// reports whether this call performed the transition. Of two concurrent
	// callers exactly one observes true; the loser must re-read the row and
	// take the idempotent-replay or conflict path.
	ActivateIfCreated(ctx context.Context, tx Tx, orderID, paymentID, signature string, startDate, endDate time.Time, meta map[string]interface{}) (bool, error)

	// ListExpired returns active subscriptions whose end date has passed.
	ListExpired(ctx context.Context, tx Tx, asOf time.Time, limit int) ([]*model.Subscription, error)

	// UpdateStatus moves a subscription to a terminal status (expired/cancelled).
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.SubscriptionStatus) error
}
