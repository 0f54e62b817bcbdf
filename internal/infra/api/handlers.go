package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"job-portal-subscriptions/internal/domain"
	"job-portal-subscriptions/internal/domain/model"
	"job-portal-subscriptions/internal/domain/ports/repository"
	"job-portal-subscriptions/internal/infra/metrics"
	"job-portal-subscriptions/internal/usecase"
)

type createOrderRequest struct {
	Plan     string `json:"plan"`
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type verifyRequest struct {
	OrderID   string                 `json:"orderId"`
	PaymentID string                 `json:"paymentId"`
	Signature string                 `json:"signature"`
	Meta      map[string]interface{} `json:"meta"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type subscriptionView struct {
	ID        string     `json:"id"`
	Plan      string     `json:"plan"`
	Status    string     `json:"status"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Features  []string   `json:"features"`
}

type paymentView struct {
	PaymentID string    `json:"paymentId"`
	OrderID   string    `json:"orderId"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	Date      time.Time `json:"date"`
}

type userView struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type verifyResponse struct {
	Success      bool             `json:"success"`
	Subscription subscriptionView `json:"subscription"`
	Payment      paymentView      `json:"payment"`
	User         userView         `json:"user"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

// Handler for the payment-verification endpoint. Error classification:
// missing fields and bad signatures are 400, unknown orders 404, conflicting
// activations 409, and a storage failure during the mandatory activation step
// 500 (safe to retry, activation is idempotent).
func verifyHandler(uc usecase.VerificationUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		result := "fail"
		reason := "unknown"
		defer func() {
			metrics.VerifyRequests.WithLabelValues(result, reason).Inc()
			metrics.VerifyDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
		}()

		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			reason = "bad_json"
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		res, err := uc.Verify(r.Context(), usecase.VerifyRequest{
			OrderID:   req.OrderID,
			PaymentID: req.PaymentID,
			Signature: req.Signature,
			Meta:      req.Meta,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidArgument):
				reason = "missing_fields"
				writeError(w, http.StatusBadRequest, "orderId, paymentId and signature are required")
			case errors.Is(err, domain.ErrNotFound):
				reason = "order_not_found"
				writeError(w, http.StatusNotFound, "order not found")
			case errors.Is(err, domain.ErrSignatureMismatch):
				reason = "bad_signature"
				writeError(w, http.StatusBadRequest, "payment signature verification failed")
			case errors.Is(err, domain.ErrConflictingActivation):
				reason = "conflict"
				writeError(w, http.StatusConflict, "order already activated with a different payment")
			default:
				reason = "activation_error"
				writeError(w, http.StatusInternalServerError, "verification failed, please retry")
			}
			return
		}

		result, reason = "ok", ""
		user := userView{Email: res.Subscription.Email, FullName: res.Subscription.FullName}
		if res.User != nil {
			user = userView{Email: res.User.Email, FullName: res.User.FullName}
		}
		writeJSON(w, http.StatusOK, verifyResponse{
			Success: true,
			Subscription: subscriptionView{
				ID:        res.Subscription.ID,
				Plan:      string(res.Subscription.Plan),
				Status:    string(res.Subscription.Status),
				StartDate: res.Subscription.StartDate,
				EndDate:   res.Subscription.EndDate,
				Features:  res.Plan.Features,
			},
			Payment: paymentView{
				PaymentID: res.Payment.PaymentID,
				OrderID:   res.Payment.OrderID,
				Amount:    res.Payment.Amount,
				Currency:  res.Payment.Currency,
				Status:    string(res.Payment.Status),
				Date:      res.Payment.PaymentDate,
			},
			User: user,
		})
	}
}

func createOrderHandler(uc usecase.CheckoutUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sub, order, err := uc.CreateOrder(r.Context(), model.PlanCode(req.Plan), req.UserID, req.Email, req.FullName)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidArgument):
				writeError(w, http.StatusBadRequest, "plan and email are required")
			case errors.Is(err, domain.ErrNotFound):
				writeError(w, http.StatusNotFound, "unknown plan")
			default:
				writeError(w, http.StatusInternalServerError, "failed to create order")
			}
			return
		}

		writeJSON(w, http.StatusCreated, struct {
			Success bool `json:"success"`
			Order   struct {
				OrderID  string `json:"orderId"`
				Amount   int64  `json:"amount"`
				Currency string `json:"currency"`
				KeyID    string `json:"keyId"`
			} `json:"order"`
			Subscription struct {
				ID     string `json:"id"`
				Plan   string `json:"plan"`
				Status string `json:"status"`
			} `json:"subscription"`
		}{
			Success: true,
			Order: struct {
				OrderID  string `json:"orderId"`
				Amount   int64  `json:"amount"`
				Currency string `json:"currency"`
				KeyID    string `json:"keyId"`
			}{OrderID: order.OrderID, Amount: order.Amount, Currency: order.Currency, KeyID: order.KeyID},
			Subscription: struct {
				ID     string `json:"id"`
				Plan   string `json:"plan"`
				Status string `json:"status"`
			}{ID: sub.ID, Plan: string(sub.Plan), Status: string(sub.Status)},
		})
	}
}

func plansListHandler(uc usecase.PlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plans, err := uc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list plans")
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Success bool          `json:"success"`
			Plans   []*model.Plan `json:"plans"`
		}{Success: true, Plans: plans})
	}
}

func adminSubscriptionHandler(subs repository.SubscriptionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "orderID")
		sub, err := subs.FindByOrderID(r.Context(), repository.NoTX, orderID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, http.StatusNotFound, "order not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load subscription")
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

func adminPaymentHandler(ledger repository.PaymentLedger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paymentID := chi.URLParam(r, "paymentID")
		p, err := ledger.FindByPaymentID(r.Context(), repository.NoTX, paymentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, http.StatusNotFound, "payment not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load payment")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}
