package model

import (
	"time"

	"job-portal-subscriptions/internal/domain"
)

// Plan is a purchasable subscription tier with a fixed duration and price in
// minor currency units.
type Plan struct {
	Code         PlanCode
	Name         string
	Price        int64
	Currency     string
	DurationDays int
	Features     []string
	CreatedAt    time.Time
}

func (p *Plan) IsZero() bool { return p == nil || p.Code == "" }

// NewPlan validates and constructs a plan.
func NewPlan(code PlanCode, name string, price int64, currency string, durationDays int, features []string) (*Plan, error) {
	if !code.Valid() || name == "" || price <= 0 || durationDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if currency == "" {
		currency = "INR"
	}
	return &Plan{
		Code:         code,
		Name:         name,
		Price:        price,
		Currency:     currency,
		DurationDays: durationDays,
		Features:     features,
		CreatedAt:    time.Now(),
	}, nil
}

// DefaultPlans is the seed catalog used when the plans table is empty.
func DefaultPlans() []*Plan {
	return []*Plan{
		{Code: PlanBasic, Name: "Basic", Price: 19900, Currency: "INR", DurationDays: 30,
			Features: []string{"Apply to unlimited jobs", "Basic profile"}},
		{Code: PlanProfessional, Name: "Professional", Price: 39900, Currency: "INR", DurationDays: 30,
			Features: []string{"Apply to unlimited jobs", "Featured profile", "Resume review"}},
		{Code: PlanPremium, Name: "Premium", Price: 69900, Currency: "INR", DurationDays: 30,
			Features: []string{"Apply to unlimited jobs", "Featured profile", "Resume review", "Priority support", "Direct recruiter chat"}},
	}
}
