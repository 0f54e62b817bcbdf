package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"job-portal-subscriptions/internal/domain/model"
	"job-portal-subscriptions/internal/domain/ports/repository"
	"job-portal-subscriptions/internal/infra/metrics"

	goredis "github.com/go-redis/redis/v8"
)

var _ repository.PaymentJournal = (*PaymentJournal)(nil)

const journalKeyPrefix = "payment:journal:"

// PaymentJournal is the fallback ledger write path. When the primary Postgres
// ledger is unavailable, verified payments are staged here under their
// payment id and re-driven by the reconciler. SETNX keeps retried
// verifications from producing divergent copies.
type PaymentJournal struct {
	cli RedisClient
	ttl time.Duration
}

func NewPaymentJournal(cli RedisClient, ttl time.Duration) *PaymentJournal {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &PaymentJournal{cli: cli, ttl: ttl}
}

func (j *PaymentJournal) Stage(ctx context.Context, p *model.PaymentRecord) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}
	// Existing entry wins: first staged copy is the one the reconciler drives.
	if _, err := j.cli.SetNX(ctx, journalKeyPrefix+p.PaymentID, string(b), j.ttl); err != nil {
		metrics.LedgerWrites.WithLabelValues("fallback", string(model.OutcomeFailed)).Inc()
		return fmt.Errorf("stage journal entry: %w", err)
	}
	metrics.LedgerWrites.WithLabelValues("fallback", string(model.OutcomeRecorded)).Inc()
	return nil
}

func (j *PaymentJournal) ListStaged(ctx context.Context, limit int) ([]*model.PaymentRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	keys, err := j.cli.Keys(ctx, journalKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("list journal keys: %w", err)
	}
	if len(keys) > limit {
		keys = keys[:limit]
	}

	out := make([]*model.PaymentRecord, 0, len(keys))
	for _, k := range keys {
		v, err := j.cli.Get(ctx, k)
		if err == goredis.Nil {
			continue // expired between KEYS and GET
		}
		if err != nil {
			return nil, fmt.Errorf("read journal entry %s: %w", k, err)
		}
		p := &model.PaymentRecord{}
		if err := json.Unmarshal([]byte(v), p); err != nil {
			return nil, fmt.Errorf("decode journal entry %s: %w", k, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (j *PaymentJournal) Remove(ctx context.Context, paymentID string) error {
	return j.cli.Del(ctx, journalKeyPrefix+paymentID)
}
