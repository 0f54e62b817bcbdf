package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"job-portal-subscriptions/internal/domain"
	"job-portal-subscriptions/internal/domain/model"
	"job-portal-subscriptions/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subColumns = `id, order_id, user_id, email, full_name, plan, amount, currency, status, start_date, end_date, payment_id, signature, meta, created_at, updated_at`

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (
  id, order_id, user_id, email, full_name, plan, amount, currency, status, start_date, end_date, payment_id, signature, meta, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
ON CONFLICT (id) DO UPDATE SET
  email=$4, full_name=$5, status=$9, start_date=$10, end_date=$11, payment_id=$12, signature=$13, meta=$14, updated_at=$16;`

	_, err := execSQL(ctx, r.pool, tx, q,
		s.ID, s.OrderID, s.UserID, s.Email, s.FullName, s.Plan, s.Amount, s.Currency,
		s.Status, s.StartDate, s.EndDate, s.PaymentID, s.Signature, s.Meta, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return err
		default:
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domain.ErrAlreadyExists
			}
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *subscriptionRepo) FindByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.Subscription, error) {
	const q = `SELECT ` + subColumns + ` FROM subscriptions WHERE order_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, orderID)
	if err != nil {
		return nil, err
	}
	return scanSubscription(row)
}

// ActivateIfCreated is the one-way created -> active transition, expressed to
// the store as a compare-and-swap so that exactly one of two concurrent
// callers performs it.
func (r *subscriptionRepo) ActivateIfCreated(
	ctx context.Context, tx repository.Tx, orderID, paymentID, signature string,
	startDate, endDate time.Time, meta map[string]interface{},
) (bool, error) {
	const q = `
UPDATE subscriptions
   SET status = 'active',
       payment_id = $2,
       signature = $3,
       start_date = $4,
       end_date = $5,
       meta = COALESCE($6, meta),
       updated_at = NOW()
 WHERE order_id = $1
   AND status = 'created';`

	cmd, err := execSQL(ctx, r.pool, tx, q, orderID, paymentID, signature, startDate, endDate, meta)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *subscriptionRepo) ListExpired(ctx context.Context, tx repository.Tx, asOf time.Time, limit int) ([]*model.Subscription, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + subColumns + ` FROM subscriptions WHERE status='active' AND end_date < $1 ORDER BY end_date ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, asOf, limit)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *subscriptionRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.SubscriptionStatus) error {
	const q = `UPDATE subscriptions SET status=$2, updated_at=NOW() WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, status)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	s := &model.Subscription{}
	if err := row.Scan(
		&s.ID, &s.OrderID, &s.UserID, &s.Email, &s.FullName, &s.Plan, &s.Amount, &s.Currency,
		&s.Status, &s.StartDate, &s.EndDate, &s.PaymentID, &s.Signature, &s.Meta, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}
