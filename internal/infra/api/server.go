package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"job-portal-subscriptions/internal/domain/ports/repository"
	"job-portal-subscriptions/internal/usecase"
)

// Server wires the subscription purchase and verification routes.
type Server struct {
	checkoutUC usecase.CheckoutUseCase
	verifyUC   usecase.VerificationUseCase
	planUC     usecase.PlanUseCase
	subs       repository.SubscriptionRepository
	ledger     repository.PaymentLedger
	auth       *AuthManager
	log        *zerolog.Logger
}

func NewServer(
	checkoutUC usecase.CheckoutUseCase,
	verifyUC usecase.VerificationUseCase,
	planUC usecase.PlanUseCase,
	subs repository.SubscriptionRepository,
	ledger repository.PaymentLedger,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		checkoutUC: checkoutUC,
		verifyUC:   verifyUC,
		planUC:     planUC,
		subs:       subs,
		ledger:     ledger,
		auth:       auth,
		log:        logger,
	}
}

// Router builds the chi router with the standard middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plans", plansListHandler(s.planUC))
		r.Post("/subscriptions/order", createOrderHandler(s.checkoutUC))
		r.Post("/subscriptions/verify", verifyHandler(s.verifyUC))

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.auth.RequireAdmin)
			r.Get("/subscriptions/{orderID}", adminSubscriptionHandler(s.subs))
			r.Get("/payments/{paymentID}", adminPaymentHandler(s.ledger))
		})
	})

	return Chain(r,
		TraceID(),
		RequestLog(s.log),
		Recover(s.log),
		Timeout(15*time.Second),
	)
}
