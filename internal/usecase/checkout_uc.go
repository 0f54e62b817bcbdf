package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"job-portal-subscriptions/internal/domain"
	"job-portal-subscriptions/internal/domain/model"
	"job-portal-subscriptions/internal/domain/ports/adapter"
	"job-portal-subscriptions/internal/domain/ports/repository"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

// CheckoutUseCase creates pending subscriptions bound to gateway orders. The
// gateway collects the money out-of-band; verification happens later against
// the orderId created here.
type CheckoutUseCase interface {
	CreateOrder(ctx context.Context, plan model.PlanCode, userID, email, fullName string) (*model.Subscription, *adapter.GatewayOrder, error)
}

type checkoutUC struct {
	subs    repository.SubscriptionRepository
	plans   repository.PlanRepository
	gateway adapter.PaymentGateway
	log     *zerolog.Logger
}

func NewCheckoutUseCase(subs repository.SubscriptionRepository, plans repository.PlanRepository, gateway adapter.PaymentGateway, logger *zerolog.Logger) *checkoutUC {
	l := logger.With().Str("component", "CheckoutUC").Logger()
	return &checkoutUC{subs: subs, plans: plans, gateway: gateway, log: &l}
}

func (u *checkoutUC) CreateOrder(ctx context.Context, planCode model.PlanCode, userID, email, fullName string) (*model.Subscription, *adapter.GatewayOrder, error) {
	if !planCode.Valid() || email == "" {
		return nil, nil, domain.ErrInvalidArgument
	}

	plan, err := u.plans.FindByCode(ctx, repository.NoTX, planCode)
	if err != nil {
		return nil, nil, fmt.Errorf("load plan %s: %w", planCode, err)
	}

	receipt := uuid.NewString()
	order, err := u.gateway.CreateOrder(ctx, plan.Price, plan.Currency, receipt, map[string]interface{}{
		"plan":  string(plan.Code),
		"email": email,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("gateway order: %w", err)
	}

	sub, err := model.NewSubscription(receipt, order.OrderID, userID, email, fullName, plan)
	if err != nil {
		return nil, nil, err
	}
	if err := u.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return nil, nil, fmt.Errorf("save subscription: %w", err)
	}

	u.log.Info().Str("order_id", order.OrderID).Str("plan", string(plan.Code)).
		Int64("amount", plan.Price).Msg("order created")
	return sub, order, nil
}
