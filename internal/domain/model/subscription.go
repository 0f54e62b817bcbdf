package model

import (
	"time"

	"job-portal-subscriptions/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusCreated   SubscriptionStatus = "created"   // order placed; awaiting gateway verification
	SubscriptionStatusActive    SubscriptionStatus = "active"    // payment verified, entitlement granted
	SubscriptionStatusExpired   SubscriptionStatus = "expired"   // end date passed
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled" // admin/user cancel
)

type PlanCode string

const (
	PlanBasic        PlanCode = "basic"
	PlanProfessional PlanCode = "professional"
	PlanPremium      PlanCode = "premium"
)

func (p PlanCode) Valid() bool {
	switch p {
	case PlanBasic, PlanProfessional, PlanPremium:
		return true
	}
	return false
}

// Subscription is a purchase intent and its lifecycle. OrderID is assigned by
// the payment gateway at order creation and is the idempotency key for
// verification. Status only moves forward: created -> active -> expired|cancelled.
type Subscription struct {
	ID        string // UUID
	OrderID   string // gateway order id, unique, immutable
	UserID    string // owning user; empty for guest checkouts
	Email     string
	FullName  string
	Plan      PlanCode
	Amount    int64 // minor units, to avoid float errors
	Currency  string
	Status    SubscriptionStatus
	StartDate *time.Time // set on activation
	EndDate   *time.Time // set on activation from the plan duration
	PaymentID *string    // nil until activated
	Signature *string    // nil until activated
	Meta      map[string]interface{} // raw gateway metadata (serialized as JSONB)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSubscription constructs a pending subscription in state "created".
func NewSubscription(id, orderID, userID, email, fullName string, plan *Plan) (*Subscription, error) {
	if id == "" || orderID == "" || plan == nil {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Subscription{
		ID:        id,
		OrderID:   orderID,
		UserID:    userID,
		Email:     email,
		FullName:  fullName,
		Plan:      plan.Code,
		Amount:    plan.Price,
		Currency:  plan.Currency,
		Status:    SubscriptionStatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ActivatedWith reports whether the subscription is already active and was
// activated by the given gateway payment id (the idempotent-replay case).
func (s *Subscription) ActivatedWith(paymentID string) bool {
	return s != nil &&
		s.Status == SubscriptionStatusActive &&
		s.PaymentID != nil && *s.PaymentID == paymentID
}

func (s *Subscription) IsZero() bool { return s == nil || s.ID == "" }
