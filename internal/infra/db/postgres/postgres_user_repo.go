package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"job-portal-subscriptions/internal/domain"
	"job-portal-subscriptions/internal/domain/model"
	"job-portal-subscriptions/internal/domain/ports/repository"
	"job-portal-subscriptions/internal/infra/metrics"
)

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct{ pool *pgxpool.Pool }

func NewUserRepo(pool *pgxpool.Pool) *userRepo {
	return &userRepo{pool: pool}
}

func (r *userRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	const q = `
SELECT id, email, full_name, is_admin, has_active_subscription, subscription_id, created_at, updated_at
  FROM users
 WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	u := &model.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.IsAdmin, &u.HasActiveSubscription, &u.SubscriptionID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return u, nil
}

func (r *userRepo) SetActiveSubscription(ctx context.Context, tx repository.Tx, userID, subscriptionID string) error {
	const q = `
UPDATE users
   SET has_active_subscription = true,
       subscription_id = $2,
       updated_at = NOW()
 WHERE id = $1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, userID, subscriptionID)
	if err != nil {
		metrics.EntitlementUpdates.WithLabelValues("error").Inc()
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		metrics.EntitlementUpdates.WithLabelValues("no_user").Inc()
		return domain.ErrUserNotFound
	}
	metrics.EntitlementUpdates.WithLabelValues("updated").Inc()
	return nil
}

func (r *userRepo) ClearActiveSubscription(ctx context.Context, tx repository.Tx, userID string) error {
	const q = `
UPDATE users
   SET has_active_subscription = false,
       subscription_id = NULL,
       updated_at = NOW()
 WHERE id = $1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, userID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
