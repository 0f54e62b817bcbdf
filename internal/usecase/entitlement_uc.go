package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"job-portal-subscriptions/internal/domain"
	"job-portal-subscriptions/internal/domain/ports/repository"
)

// Compile-time check
var _ EntitlementUpdater = (*entitlementUC)(nil)

// EntitlementUpdater propagates an activated subscription onto the owning
// user. Propagation is best-effort: an unknown user is logged and reported as
// domain.ErrUserNotFound, never treated as fatal by callers.
type EntitlementUpdater interface {
	ActivateForUser(ctx context.Context, userID, subscriptionID string) error
	DeactivateForUser(ctx context.Context, userID string) error
}

type entitlementUC struct {
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewEntitlementUpdater(users repository.UserRepository, logger *zerolog.Logger) *entitlementUC {
	l := logger.With().Str("component", "EntitlementUpdater").Logger()
	return &entitlementUC{users: users, log: &l}
}

func (u *entitlementUC) ActivateForUser(ctx context.Context, userID, subscriptionID string) error {
	err := u.users.SetActiveSubscription(ctx, repository.NoTX, userID, subscriptionID)
	if errors.Is(err, domain.ErrUserNotFound) {
		// The subscription and payment are still valid; reconciliation can
		// re-drive this later.
		u.log.Warn().Str("user_id", userID).Str("subscription_id", subscriptionID).
			Msg("user not found while granting entitlement")
		return err
	}
	return err
}

func (u *entitlementUC) DeactivateForUser(ctx context.Context, userID string) error {
	return u.users.ClearActiveSubscription(ctx, repository.NoTX, userID)
}
