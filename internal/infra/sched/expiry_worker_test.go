//go:build !integration

package sched

import (
	"context"
	"errors"
	"testing"
	"time"

	"job-portal-subscriptions/internal/domain/model"
)

func TestExpiryWorker_tick(t *testing.T) {
	ctx := context.Background()

	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	t.Run("should expire overdue subscriptions and clear entitlement", func(t *testing.T) {
		// --- Arrange ---
		subs := newMockSubRepo()
		subs.subs["sub-1"] = &model.Subscription{ID: "sub-1", UserID: "user-1", Status: model.SubscriptionStatusActive, EndDate: &past}
		subs.subs["sub-2"] = &model.Subscription{ID: "sub-2", UserID: "user-2", Status: model.SubscriptionStatusActive, EndDate: &future}
		users := &mockUserRepo{}
		w := NewExpiryWorker(subs, users, &mockTxManager{}, time.Hour, newTestLogger())

		// --- Act ---
		n := w.tick(ctx)

		// --- Assert ---
		if n != 1 {
			t.Fatalf("expected 1 expired subscription, got %d", n)
		}
		if got := subs.subs["sub-1"].Status; got != model.SubscriptionStatusExpired {
			t.Errorf("expected sub-1 expired, got '%s'", got)
		}
		if got := subs.subs["sub-2"].Status; got != model.SubscriptionStatusActive {
			t.Errorf("sub-2 is not due yet and must stay active, got '%s'", got)
		}
		if len(users.Cleared) != 1 || users.Cleared[0] != "user-1" {
			t.Errorf("expected entitlement cleared for user-1, got %v", users.Cleared)
		}
	})

	t.Run("should not touch users for guest subscriptions", func(t *testing.T) {
		// --- Arrange ---
		subs := newMockSubRepo()
		subs.subs["sub-g"] = &model.Subscription{ID: "sub-g", Status: model.SubscriptionStatusActive, EndDate: &past}
		users := &mockUserRepo{}
		w := NewExpiryWorker(subs, users, &mockTxManager{}, time.Hour, newTestLogger())

		// --- Act ---
		n := w.tick(ctx)

		// --- Assert ---
		if n != 1 {
			t.Fatalf("expected 1 expired subscription, got %d", n)
		}
		if len(users.Cleared) != 0 {
			t.Errorf("guest subscriptions must not touch users, got %v", users.Cleared)
		}
	})

	t.Run("should keep the subscription active when the transaction fails", func(t *testing.T) {
		// --- Arrange ---
		subs := newMockSubRepo()
		subs.subs["sub-1"] = &model.Subscription{ID: "sub-1", UserID: "user-1", Status: model.SubscriptionStatusActive, EndDate: &past}
		tm := &mockTxManager{BeginErr: errors.New("pg down")}
		w := NewExpiryWorker(subs, &mockUserRepo{}, tm, time.Hour, newTestLogger())

		// --- Act ---
		n := w.tick(ctx)

		// --- Assert ---
		if n != 0 {
			t.Fatalf("expected no expirations, got %d", n)
		}
	})

	t.Run("Run should stop on context cancellation", func(t *testing.T) {
		w := NewExpiryWorker(newMockSubRepo(), &mockUserRepo{}, &mockTxManager{}, time.Hour, newTestLogger())
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		if err := w.Run(cancelled); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}
