package sched

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"job-portal-subscriptions/internal/domain"
	"job-portal-subscriptions/internal/domain/model"
	"job-portal-subscriptions/internal/domain/ports/repository"
	"job-portal-subscriptions/internal/infra/metrics"
)

// ExpiryWorker periodically moves active subscriptions whose end date has
// passed to expired. The status flip and the owner's entitlement removal
// happen in one transaction so a user is never left entitled by a crash
// between the two writes.
type ExpiryWorker struct {
	subs     repository.SubscriptionRepository
	users    repository.UserRepository
	tm       repository.TransactionManager
	interval time.Duration
	log      *zerolog.Logger
}

func NewExpiryWorker(
	subs repository.SubscriptionRepository,
	users repository.UserRepository,
	tm repository.TransactionManager,
	interval time.Duration,
	logger *zerolog.Logger,
) *ExpiryWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	l := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{subs: subs, users: users, tm: tm, interval: interval, log: &l}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			n := w.tick(ctx)
			if n > 0 {
				metrics.IncSubscriptionsExpired(n)
				w.log.Info().Int("count", n).Msg("subscriptions expired")
			}
		}
	}
}

func (w *ExpiryWorker) tick(ctx context.Context) int {
	expired, err := w.subs.ListExpired(ctx, repository.NoTX, time.Now(), 200)
	if err != nil {
		w.log.Error().Err(err).Msg("list expired subscriptions")
		return 0
	}
	n := 0
	for _, s := range expired {
		err := w.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			if err := w.subs.UpdateStatus(ctx, tx, s.ID, model.SubscriptionStatusExpired); err != nil {
				return err
			}
			if s.UserID == "" {
				return nil
			}
			if err := w.users.ClearActiveSubscription(ctx, tx, s.UserID); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return err
			}
			return nil
		})
		if err != nil {
			w.log.Error().Err(err).Str("subscription_id", s.ID).Msg("expire subscription")
			continue
		}
		n++
	}
	return n
}
