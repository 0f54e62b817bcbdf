package repository

import (
	"context"

	"job-portal-subscriptions/internal/domain/model"
)

// UserRepository is the port for the externally-owned users collection. Only
// the entitlement fields are written from this service.
type UserRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)

	// SetActiveSubscription flips HasActiveSubscription and links the
	// subscription. Returns domain.ErrUserNotFound when the user is unknown.
	SetActiveSubscription(ctx context.Context, tx Tx, userID, subscriptionID string) error

	// ClearActiveSubscription drops the entitlement when a subscription
	// expires or is cancelled.
	ClearActiveSubscription(ctx context.Context, tx Tx, userID string) error
}
