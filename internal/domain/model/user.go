package model

import (
	"time"

	"job-portal-subscriptions/internal/domain"

	"github.com/google/uuid"
)

// User is owned by the wider job-portal application. This service only reads
// identity fields and mutates the two entitlement fields.
type User struct {
	ID                    string
	Email                 string
	FullName              string
	IsAdmin               bool
	HasActiveSubscription bool
	SubscriptionID        *string // currently active subscription, if any
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func NewUser(id, email, fullName string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if email == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		ID:        id,
		Email:     email,
		FullName:  fullName,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }
