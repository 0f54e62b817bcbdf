//go:build !integration

package sched

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"job-portal-subscriptions/internal/domain"
	"job-portal-subscriptions/internal/domain/model"
	"job-portal-subscriptions/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

type mockLedger struct {
	repository.PaymentLedger
	mu        sync.Mutex
	rows      map[string]*model.PaymentRecord
	InsertErr error
}

func newMockLedger() *mockLedger {
	return &mockLedger{rows: make(map[string]*model.PaymentRecord)}
}

func (m *mockLedger) Insert(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) (bool, error) {
	if m.InsertErr != nil {
		return false, m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[p.PaymentID]; ok {
		return false, nil
	}
	cp := *p
	m.rows[p.PaymentID] = &cp
	return true, nil
}

type mockJournal struct {
	mu      sync.Mutex
	entries map[string]*model.PaymentRecord
	ListErr error
}

var _ repository.PaymentJournal = (*mockJournal)(nil)

func newMockJournal() *mockJournal {
	return &mockJournal{entries: make(map[string]*model.PaymentRecord)}
}

func (m *mockJournal) Stage(ctx context.Context, p *model.PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[p.PaymentID]; ok {
		return nil
	}
	cp := *p
	m.entries[p.PaymentID] = &cp
	return nil
}

func (m *mockJournal) ListStaged(ctx context.Context, limit int) ([]*model.PaymentRecord, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.PaymentRecord, 0, len(m.entries))
	for _, p := range m.entries {
		cp := *p
		out = append(out, &cp)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *mockJournal) Remove(ctx context.Context, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, paymentID)
	return nil
}

type mockSubRepo struct {
	repository.SubscriptionRepository
	mu   sync.Mutex
	subs map[string]*model.Subscription // keyed by ID
}

func newMockSubRepo() *mockSubRepo {
	return &mockSubRepo{subs: make(map[string]*model.Subscription)}
}

func (m *mockSubRepo) ListExpired(ctx context.Context, tx repository.Tx, asOf time.Time, limit int) ([]*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Subscription, 0)
	for _, s := range m.subs {
		if s.Status == model.SubscriptionStatusActive && s.EndDate != nil && s.EndDate.Before(asOf) {
			cp := *s
			out = append(out, &cp)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *mockSubRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.SubscriptionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	return nil
}

type mockUserRepo struct {
	repository.UserRepository
	mu      sync.Mutex
	Cleared []string
}

func (m *mockUserRepo) ClearActiveSubscription(ctx context.Context, tx repository.Tx, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cleared = append(m.Cleared, userID)
	return nil
}

// mockTxManager runs the callback without a real transaction.
type mockTxManager struct {
	BeginErr error
}

var _ repository.TransactionManager = (*mockTxManager)(nil)

func (m *mockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.BeginErr != nil {
		return m.BeginErr
	}
	return fn(ctx, repository.NoTX)
}

type mockEntitlement struct {
	mu          sync.Mutex
	Activated   map[string]string // userID -> subscriptionID
	Deactivated []string
	ActivateErr error
}

func newMockEntitlement() *mockEntitlement {
	return &mockEntitlement{Activated: make(map[string]string)}
}

func (m *mockEntitlement) ActivateForUser(ctx context.Context, userID, subscriptionID string) error {
	if m.ActivateErr != nil {
		return m.ActivateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Activated[userID] = subscriptionID
	return nil
}

func (m *mockEntitlement) DeactivateForUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deactivated = append(m.Deactivated, userID)
	return nil
}
