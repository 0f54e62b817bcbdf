//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"job-portal-subscriptions/internal/domain"
	"job-portal-subscriptions/internal/domain/model"
	"job-portal-subscriptions/internal/domain/ports/adapter"
	"job-portal-subscriptions/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// =============================
// Repositories
// =============================

// memSubscriptionRepo is a small in-memory implementation used by unit tests.
// ActivateIfCreated reproduces the conditional-update semantics of the real
// repo: under the lock, only a row still in "created" transitions.
type memSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[string]*model.Subscription // keyed by OrderID

	SaveFunc     func(ctx context.Context, tx repository.Tx, s *model.Subscription) error
	FindFunc     func(ctx context.Context, tx repository.Tx, orderID string) (*model.Subscription, error)
	ActivateFunc func(ctx context.Context, tx repository.Tx, orderID, paymentID, signature string, startDate, endDate time.Time, meta map[string]interface{}) (bool, error)
}

var _ repository.SubscriptionRepository = (*memSubscriptionRepo)(nil)

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{subs: make(map[string]*model.Subscription)}
}

func (m *memSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.subs[s.OrderID] = &cp
	return nil
}

func (m *memSubscriptionRepo) FindByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.Subscription, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, tx, orderID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubscriptionRepo) ActivateIfCreated(ctx context.Context, tx repository.Tx, orderID, paymentID, signature string, startDate, endDate time.Time, meta map[string]interface{}) (bool, error) {
	if m.ActivateFunc != nil {
		return m.ActivateFunc(ctx, tx, orderID, paymentID, signature, startDate, endDate, meta)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[orderID]
	if !ok || s.Status != model.SubscriptionStatusCreated {
		return false, nil
	}
	s.Status = model.SubscriptionStatusActive
	s.PaymentID = &paymentID
	s.Signature = &signature
	s.StartDate = &startDate
	s.EndDate = &endDate
	if meta != nil {
		s.Meta = meta
	}
	s.UpdatedAt = time.Now()
	return true, nil
}

func (m *memSubscriptionRepo) ListExpired(ctx context.Context, tx repository.Tx, asOf time.Time, limit int) ([]*model.Subscription, error) {
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

func (m *memSubscriptionRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.SubscriptionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.ID == id {
			s.Status = status
			s.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

// get returns the stored row without copying, for assertions only.
func (m *memSubscriptionRepo) get(orderID string) *model.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subs[orderID]
}

// ---- Plan repository ----

type memPlanRepo struct {
	mu    sync.Mutex
	plans map[model.PlanCode]*model.Plan

	FindFunc func(ctx context.Context, tx repository.Tx, code model.PlanCode) (*model.Plan, error)
	ListErr  error
}

var _ repository.PlanRepository = (*memPlanRepo)(nil)

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: make(map[model.PlanCode]*model.Plan)}
}

func (m *memPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *plan
	m.plans[plan.Code] = &cp
	return nil
}

func (m *memPlanRepo) FindByCode(ctx context.Context, tx repository.Tx, code model.PlanCode) (*model.Plan, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, tx, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Plan, 0, len(m.plans))
	for _, p := range m.plans {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// ---- User repository ----

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User

	SetActiveFunc func(ctx context.Context, tx repository.Tx, userID, subscriptionID string) error
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User)}
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) SetActiveSubscription(ctx context.Context, tx repository.Tx, userID, subscriptionID string) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, tx, userID, subscriptionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.HasActiveSubscription = true
	u.SubscriptionID = &subscriptionID
	return nil
}

func (m *memUserRepo) ClearActiveSubscription(ctx context.Context, tx repository.Tx, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.HasActiveSubscription = false
	u.SubscriptionID = nil
	return nil
}

// ---- Payment ledger ----

type memLedger struct {
	mu   sync.Mutex
	rows map[string]*model.PaymentRecord

	InsertFunc func(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) (bool, error)
	// InsertCalls counts Insert invocations including failed ones.
	InsertCalls int
}

var _ repository.PaymentLedger = (*memLedger)(nil)

func newMemLedger() *memLedger {
	return &memLedger{rows: make(map[string]*model.PaymentRecord)}
}

func (m *memLedger) Insert(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) (bool, error) {
	m.mu.Lock()
	m.InsertCalls++
	m.mu.Unlock()
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rows[p.PaymentID]; exists {
		return false, nil
	}
	cp := *p
	m.rows[p.PaymentID] = &cp
	return true, nil
}

func (m *memLedger) FindByPaymentID(ctx context.Context, tx repository.Tx, paymentID string) (*model.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[paymentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// ---- Payment journal ----

type memJournal struct {
	mu      sync.Mutex
	entries map[string]*model.PaymentRecord

	StageFunc func(ctx context.Context, p *model.PaymentRecord) error
}

var _ repository.PaymentJournal = (*memJournal)(nil)

func newMemJournal() *memJournal {
	return &memJournal{entries: make(map[string]*model.PaymentRecord)}
}

func (m *memJournal) Stage(ctx context.Context, p *model.PaymentRecord) error {
	if m.StageFunc != nil {
		return m.StageFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[p.PaymentID]; exists {
		return nil
	}
	cp := *p
	m.entries[p.PaymentID] = &cp
	return nil
}

func (m *memJournal) ListStaged(ctx context.Context, limit int) ([]*model.PaymentRecord, error) {
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

func (m *memJournal) Remove(ctx context.Context, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, paymentID)
	return nil
}

func (m *memJournal) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// =============================
// Adapters
// =============================

// stubVerifier accepts everything unless a VerifyFunc is installed.
type stubVerifier struct {
	VerifyFunc func(orderID, paymentID, signature string) bool
}

var _ adapter.SignatureVerifier = (*stubVerifier)(nil)

func (v *stubVerifier) Verify(orderID, paymentID, signature string) bool {
	if v.VerifyFunc != nil {
		return v.VerifyFunc(orderID, paymentID, signature)
	}
	return true
}

type mockGateway struct {
	CreateOrderFunc func(ctx context.Context, amount int64, currency, receipt string, notes map[string]interface{}) (*adapter.GatewayOrder, error)
	Orders          []string // receipts passed to CreateOrder
}

var _ adapter.PaymentGateway = (*mockGateway)(nil)

func (g *mockGateway) Name() string { return "mock" }

func (g *mockGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]interface{}) (*adapter.GatewayOrder, error) {
	g.Orders = append(g.Orders, receipt)
	if g.CreateOrderFunc != nil {
		return g.CreateOrderFunc(ctx, amount, currency, receipt, notes)
	}
	return &adapter.GatewayOrder{
		OrderID:  "order_" + receipt,
		Amount:   amount,
		Currency: currency,
		KeyID:    "rzp_test_key",
	}, nil
}
