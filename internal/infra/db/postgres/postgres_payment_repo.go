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

var _ repository.PaymentLedger = (*paymentLedgerRepo)(nil)

type paymentLedgerRepo struct{ pool *pgxpool.Pool }

func NewPaymentLedgerRepo(pool *pgxpool.Pool) *paymentLedgerRepo {
	return &paymentLedgerRepo{pool: pool}
}

const paymentColumns = `payment_id, order_id, subscription_id, user_id, email, full_name, amount, currency, status, payment_date, receipt_id, meta`

// Insert appends a ledger row. payment_id is the primary key; a duplicate
// insert is collapsed by ON CONFLICT DO NOTHING and reported as (false, nil).
// The ledger is append-only: no UPDATE clause on conflict, ever.
func (r *paymentLedgerRepo) Insert(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) (bool, error) {
	const q = `
INSERT INTO payment_ledger (
  payment_id, order_id, subscription_id, user_id, email, full_name, amount, currency, status, payment_date, receipt_id, meta
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (payment_id) DO NOTHING;`

	cmd, err := execSQL(ctx, r.pool, tx, q,
		p.PaymentID, p.OrderID, p.SubscriptionID, p.UserID, p.Email, p.FullName,
		p.Amount, p.Currency, p.Status, p.PaymentDate, p.ReceiptID, p.Meta)
	if err != nil {
		metrics.LedgerWrites.WithLabelValues("primary", string(model.OutcomeFailed)).Inc()
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	inserted := cmd.RowsAffected() >= 1
	if inserted {
		metrics.LedgerWrites.WithLabelValues("primary", string(model.OutcomeRecorded)).Inc()
	} else {
		metrics.LedgerWrites.WithLabelValues("primary", string(model.OutcomeDuplicateIgnored)).Inc()
	}
	return inserted, nil
}

func (r *paymentLedgerRepo) FindByPaymentID(ctx context.Context, tx repository.Tx, paymentID string) (*model.PaymentRecord, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payment_ledger WHERE payment_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, paymentID)
	if err != nil {
		return nil, err
	}

	p := &model.PaymentRecord{}
	if err := row.Scan(
		&p.PaymentID, &p.OrderID, &p.SubscriptionID, &p.UserID, &p.Email, &p.FullName,
		&p.Amount, &p.Currency, &p.Status, &p.PaymentDate, &p.ReceiptID, &p.Meta,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}
