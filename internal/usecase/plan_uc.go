package usecase

import (
	"context"
	"errors"

	"job-portal-subscriptions/internal/domain"
	"job-portal-subscriptions/internal/domain/model"
	"job-portal-subscriptions/internal/domain/ports/repository"
)

// Compile-time check
var _ PlanUseCase = (*planUC)(nil)

type PlanUseCase interface {
	List(ctx context.Context) ([]*model.Plan, error)
	Get(ctx context.Context, code model.PlanCode) (*model.Plan, error)
	// EnsureDefaults seeds the built-in catalog when the plans table is empty.
	EnsureDefaults(ctx context.Context) (int, error)
}

type planUC struct {
	plans repository.PlanRepository
}

func NewPlanUseCase(plans repository.PlanRepository) *planUC {
	return &planUC{plans: plans}
}

func (u *planUC) List(ctx context.Context) ([]*model.Plan, error) {
	return u.plans.ListAll(ctx, repository.NoTX)
}

func (u *planUC) Get(ctx context.Context, code model.PlanCode) (*model.Plan, error) {
	if !code.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	return u.plans.FindByCode(ctx, repository.NoTX, code)
}

func (u *planUC) EnsureDefaults(ctx context.Context) (int, error) {
	existing, err := u.plans.ListAll(ctx, repository.NoTX)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	n := 0
	for _, p := range model.DefaultPlans() {
		if err := u.plans.Save(ctx, repository.NoTX, p); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
