//go:build !integration

package api

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"job-portal-subscriptions/internal/domain"
	"job-portal-subscriptions/internal/domain/model"
	"job-portal-subscriptions/internal/domain/ports/adapter"
	"job-portal-subscriptions/internal/domain/ports/repository"
	"job-portal-subscriptions/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// --- Use case stubs ---

type stubVerifyUC struct {
	VerifyFunc func(ctx context.Context, req usecase.VerifyRequest) (*usecase.VerifyResult, error)
}

func (s *stubVerifyUC) Verify(ctx context.Context, req usecase.VerifyRequest) (*usecase.VerifyResult, error) {
	return s.VerifyFunc(ctx, req)
}

type stubCheckoutUC struct {
	CreateOrderFunc func(ctx context.Context, plan model.PlanCode, userID, email, fullName string) (*model.Subscription, *adapter.GatewayOrder, error)
}

func (s *stubCheckoutUC) CreateOrder(ctx context.Context, plan model.PlanCode, userID, email, fullName string) (*model.Subscription, *adapter.GatewayOrder, error) {
	return s.CreateOrderFunc(ctx, plan, userID, email, fullName)
}

type stubPlanUC struct {
	ListFunc func(ctx context.Context) ([]*model.Plan, error)
}

func (s *stubPlanUC) List(ctx context.Context) ([]*model.Plan, error) {
	if s.ListFunc != nil {
		return s.ListFunc(ctx)
	}
	return model.DefaultPlans(), nil
}

func (s *stubPlanUC) Get(ctx context.Context, code model.PlanCode) (*model.Plan, error) {
	for _, p := range model.DefaultPlans() {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubPlanUC) EnsureDefaults(ctx context.Context) (int, error) { return 0, nil }

// --- Repository stubs for the admin endpoints ---

type stubSubRepo struct {
	repository.SubscriptionRepository
	FindFunc func(ctx context.Context, tx repository.Tx, orderID string) (*model.Subscription, error)
}

func (s *stubSubRepo) FindByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.Subscription, error) {
	return s.FindFunc(ctx, tx, orderID)
}

type stubLedger struct {
	repository.PaymentLedger
	FindFunc func(ctx context.Context, tx repository.Tx, paymentID string) (*model.PaymentRecord, error)
}

func (s *stubLedger) FindByPaymentID(ctx context.Context, tx repository.Tx, paymentID string) (*model.PaymentRecord, error) {
	return s.FindFunc(ctx, tx, paymentID)
}
