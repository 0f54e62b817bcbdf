package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"job-portal-subscriptions/internal/domain"
	"job-portal-subscriptions/internal/domain/ports/repository"
	"job-portal-subscriptions/internal/infra/metrics"
	"job-portal-subscriptions/internal/usecase"
)

// LedgerReconciler periodically re-drives journal-staged ledger entries into
// the primary ledger. This covers verifications whose primary write failed or
// whose process crashed mid-flight; entitlement is re-driven alongside so the
// window where a user lags their active subscription stays bounded.
type LedgerReconciler struct {
	ledger      repository.PaymentLedger
	journal     repository.PaymentJournal
	entitlement usecase.EntitlementUpdater
	interval    time.Duration
	log         *zerolog.Logger
}

func NewLedgerReconciler(
	ledger repository.PaymentLedger,
	journal repository.PaymentJournal,
	entitlement usecase.EntitlementUpdater,
	interval time.Duration,
	logger *zerolog.Logger,
) *LedgerReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	l := logger.With().Str("component", "LedgerReconciler").Logger()
	return &LedgerReconciler{
		ledger:      ledger,
		journal:     journal,
		entitlement: entitlement,
		interval:    interval,
		log:         &l,
	}
}

func (w *LedgerReconciler) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting ledger reconciler")
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping ledger reconciler")
			return ctx.Err()
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *LedgerReconciler) tick(ctx context.Context) {
	staged, err := w.journal.ListStaged(ctx, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("list staged journal entries")
		return
	}
	for _, p := range staged {
		if _, err := w.ledger.Insert(ctx, repository.NoTX, p); err != nil {
			// primary still down, keep the staged copy
			metrics.IncJournalReplayed("retry")
			w.log.Warn().Err(err).Str("payment_id", p.PaymentID).Msg("journal replay failed, will retry")
			continue
		}
		if err := w.journal.Remove(ctx, p.PaymentID); err != nil {
			w.log.Warn().Err(err).Str("payment_id", p.PaymentID).Msg("remove staged entry")
		}
		metrics.IncJournalReplayed("landed")
		w.log.Info().Str("payment_id", p.PaymentID).Msg("journal entry landed in ledger")

		if p.UserID != "" && p.SubscriptionID != "" {
			if err := w.entitlement.ActivateForUser(ctx, p.UserID, p.SubscriptionID); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				w.log.Warn().Err(err).Str("user_id", p.UserID).Msg("entitlement re-drive failed")
			}
		}
	}
}
