package usecase

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"job-portal-subscriptions/internal/domain/model"
	"job-portal-subscriptions/internal/domain/ports/repository"
)

// Compile-time check
var _ PaymentRecorder = (*ledgerRecorder)(nil)

// PaymentRecorder appends one logical ledger entry per successful
// verification. Recording is strictly best-effort relative to subscription
// activation: Record never returns an error, only an outcome.
type PaymentRecorder interface {
	Record(ctx context.Context, p *model.PaymentRecord) model.RecordOutcome
}

type ledgerRecorder struct {
	ledger   repository.PaymentLedger
	journal  repository.PaymentJournal // fallback path; may be nil
	attempts int
	backoff  time.Duration
	log      *zerolog.Logger
}

func NewLedgerRecorder(ledger repository.PaymentLedger, journal repository.PaymentJournal, logger *zerolog.Logger) *ledgerRecorder {
	l := logger.With().Str("component", "PaymentRecorder").Logger()
	return &ledgerRecorder{
		ledger:   ledger,
		journal:  journal,
		attempts: 3,
		backoff:  100 * time.Millisecond,
		log:      &l,
	}
}

// Record tries the primary ledger with a bounded retry, then the fallback
// journal. Every attempt is keyed by PaymentID, so a retried verification
// collapses into the existing row instead of duplicating it.
func (r *ledgerRecorder) Record(ctx context.Context, p *model.PaymentRecord) model.RecordOutcome {
	if p.ReceiptID == "" {
		p.ReceiptID = ulid.Make().String()
	}

	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				r.log.Warn().Str("payment_id", p.PaymentID).Msg("context cancelled during ledger retry")
				return r.fallback(ctx, p)
			case <-time.After(r.backoff << (attempt - 1)):
			}
		}
		inserted, err := r.ledger.Insert(ctx, repository.NoTX, p)
		if err == nil {
			if inserted {
				return model.OutcomeRecorded
			}
			r.log.Debug().Str("payment_id", p.PaymentID).Msg("ledger row already present")
			return model.OutcomeDuplicateIgnored
		}
		lastErr = err
	}
	r.log.Error().Err(lastErr).Str("payment_id", p.PaymentID).Int("attempts", r.attempts).
		Msg("primary ledger write failed; trying fallback")
	return r.fallback(ctx, p)
}

func (r *ledgerRecorder) fallback(ctx context.Context, p *model.PaymentRecord) model.RecordOutcome {
	if r.journal == nil {
		r.log.Error().Str("payment_id", p.PaymentID).Str("order_id", p.OrderID).
			Int64("amount", p.Amount).Msg("no fallback configured; ledger entry lost, replay manually")
		return model.OutcomeFailed
	}
	if err := r.journal.Stage(ctx, p); err != nil {
		r.log.Error().Err(err).Str("payment_id", p.PaymentID).Str("order_id", p.OrderID).
			Int64("amount", p.Amount).Msg("fallback journal write failed; replay manually")
		return model.OutcomeFailed
	}
	r.log.Warn().Str("payment_id", p.PaymentID).Msg("ledger entry staged to journal for reconciliation")
	return model.OutcomeRecorded
}
