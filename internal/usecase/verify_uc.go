package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"job-portal-subscriptions/internal/domain"
	"job-portal-subscriptions/internal/domain/model"
	"job-portal-subscriptions/internal/domain/ports/adapter"
	"job-portal-subscriptions/internal/domain/ports/repository"
	"job-portal-subscriptions/internal/infra/logging"
)

// Compile-time check
var _ VerificationUseCase = (*verificationUC)(nil)

// VerifyRequest carries the gateway callback triple plus optional metadata.
type VerifyRequest struct {
	OrderID   string
	PaymentID string
	Signature string
	Meta      map[string]interface{}
}

// VerifyResult is everything the endpoint needs to build a success response.
// User is nil for guest checkouts or when the owning user cannot be loaded.
type VerifyResult struct {
	Subscription *model.Subscription
	Plan         *model.Plan
	Payment      *model.PaymentRecord
	User         *model.User
	Replayed     bool
}

type VerificationUseCase interface {
	Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error)
}

type verificationUC struct {
	subs        repository.SubscriptionRepository
	plans       repository.PlanRepository
	users       repository.UserRepository
	verifier    adapter.SignatureVerifier
	recorder    PaymentRecorder
	entitlement EntitlementUpdater
	log         *zerolog.Logger
}

func NewVerificationUseCase(
	subs repository.SubscriptionRepository,
	plans repository.PlanRepository,
	users repository.UserRepository,
	verifier adapter.SignatureVerifier,
	recorder PaymentRecorder,
	entitlement EntitlementUpdater,
	logger *zerolog.Logger,
) *verificationUC {
	l := logger.With().Str("component", "VerificationUC").Logger()
	return &verificationUC{
		subs:        subs,
		plans:       plans,
		users:       users,
		verifier:    verifier,
		recorder:    recorder,
		entitlement: entitlement,
		log:         &l,
	}
}

// Verify drives one payment verification end to end. Steps 1-4 (validation,
// lookup, signature, activation) escalate on failure; the ledger write and
// entitlement update are best-effort because the subscription row is the
// single source of truth for "did the purchase succeed".
func (u *verificationUC) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	defer logging.TraceDuration(u.log, "VerificationUC.Verify")()

	// Step 1: field validation.
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, fmt.Errorf("orderId, paymentId and signature are required: %w", domain.ErrInvalidArgument)
	}
	log := u.log.With().Str("order_id", req.OrderID).Str("payment_id", req.PaymentID).Logger()

	// Step 2: load the subscription by gateway order id.
	sub, err := u.subs.FindByOrderID(ctx, repository.NoTX, req.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("order %s: %w", req.OrderID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load subscription: %w", err)
	}

	// Step 3: cryptographic check. A mismatch is a potential integrity
	// incident; the subscription stays in "created".
	if !u.verifier.Verify(req.OrderID, req.PaymentID, req.Signature) {
		log.Warn().Msg("signature rejected")
		return nil, domain.ErrSignatureMismatch
	}

	plan, err := u.loadPlan(ctx, sub.Plan)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}

	// Step 4: the one step that must succeed. A conditional update at the
	// storage layer; of two concurrent callers exactly one transitions the row.
	replayed, err := u.activate(ctx, sub, req, plan, &log)
	if err != nil {
		return nil, err
	}

	payment := &model.PaymentRecord{
		PaymentID:      req.PaymentID,
		OrderID:        sub.OrderID,
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		Email:          sub.Email,
		FullName:       sub.FullName,
		Amount:         sub.Amount,
		Currency:       sub.Currency,
		Status:         model.PaymentStatusSuccess,
		PaymentDate:    time.Now(),
		Meta:           req.Meta,
	}

	// Step 5: ledger, never user-facing.
	outcome := u.recorder.Record(ctx, payment)
	log.Info().Str("outcome", string(outcome)).Msg("ledger write finished")

	// Step 6: entitlement, same non-blocking treatment.
	var user *model.User
	if sub.UserID == "" {
		log.Debug().Msg("guest checkout, skipping entitlement update")
	} else {
		if err := u.entitlement.ActivateForUser(ctx, sub.UserID, sub.ID); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			log.Error().Err(err).Str("user_id", sub.UserID).Msg("entitlement update failed; reconciler will retry")
		}
		if loaded, err := u.users.FindByID(ctx, repository.NoTX, sub.UserID); err == nil {
			user = loaded
		}
	}

	return &VerifyResult{
		Subscription: sub,
		Plan:         plan,
		Payment:      payment,
		User:         user,
		Replayed:     replayed,
	}, nil
}

// activate performs the created -> active transition, handling the
// idempotent-replay and conflicting-activation paths. It mutates sub in place
// on success and reports whether this call was a replay of a prior activation.
func (u *verificationUC) activate(ctx context.Context, sub *model.Subscription, req VerifyRequest, plan *model.Plan, log *zerolog.Logger) (bool, error) {
	if sub.Status != model.SubscriptionStatusCreated {
		return true, u.checkReplay(sub, req.PaymentID)
	}

	start := time.Now()
	end := start.Add(time.Duration(plan.DurationDays) * 24 * time.Hour)
	did, err := u.subs.ActivateIfCreated(ctx, repository.NoTX, sub.OrderID, req.PaymentID, req.Signature, start, end, req.Meta)
	if err != nil {
		return false, fmt.Errorf("activate subscription: %w", err)
	}
	if did {
		sub.Status = model.SubscriptionStatusActive
		sub.PaymentID = &req.PaymentID
		sub.Signature = &req.Signature
		sub.StartDate = &start
		sub.EndDate = &end
		if req.Meta != nil {
			sub.Meta = req.Meta
		}
		sub.UpdatedAt = start
		return false, nil
	}

	// Lost the race: someone else transitioned the row. Re-read and decide
	// between replay and conflict.
	log.Debug().Msg("activation CAS lost, re-reading")
	current, err := u.subs.FindByOrderID(ctx, repository.NoTX, sub.OrderID)
	if err != nil {
		return false, fmt.Errorf("re-read after lost activation race: %w", err)
	}
	*sub = *current
	return true, u.checkReplay(sub, req.PaymentID)
}

// checkReplay distinguishes the benign duplicate callback from a genuinely
// conflicting one. Replaying the same paymentId against an active row is a
// no-op; a different paymentId must never overwrite the stored one.
func (u *verificationUC) checkReplay(sub *model.Subscription, paymentID string) error {
	if sub.ActivatedWith(paymentID) {
		return nil
	}
	stored := ""
	if sub.PaymentID != nil {
		stored = *sub.PaymentID
	}
	u.log.Warn().Str("order_id", sub.OrderID).Str("stored_payment_id", stored).
		Str("incoming_payment_id", paymentID).Str("status", string(sub.Status)).
		Msg("conflicting activation attempt")
	return domain.ErrConflictingActivation
}

func (u *verificationUC) loadPlan(ctx context.Context, code model.PlanCode) (*model.Plan, error) {
	plan, err := u.plans.FindByCode(ctx, repository.NoTX, code)
	if err == nil {
		return plan, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		// Catalog drift: fall back to the built-in definition of the tier.
		for _, p := range model.DefaultPlans() {
			if p.Code == code {
				u.log.Warn().Str("plan", string(code)).Msg("plan missing from catalog, using built-in definition")
				return p, nil
			}
		}
		return nil, fmt.Errorf("plan %s: %w", code, domain.ErrNotFound)
	}
	return nil, err
}
