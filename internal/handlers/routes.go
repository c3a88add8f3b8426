package handlers

import (
	"net/http"
	"time"

	mW "github.com/bive/backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Router bundles everything the HTTP surface needs.
type Router struct {
	Donations      *DonationHandler
	Consents       *ConsentHandler
	QR             *QRHandler
	Emergency      *EmergencyHandler
	Exchanges      *ExchangeHandler
	Ledger         *LedgerHandler
	Health         *HealthHandler
	Idempotency    *mW.Idempotency
	JWTSecret      []byte
	AllowedOrigins []string
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mW.RequestLogger(rt.Logger))
	r.Use(middleware.Recoverer)
	r.Use(mW.SecurityHeaders)
	if rt.RequestTimeout > 0 {
		r.Use(middleware.Timeout(rt.RequestTimeout))
	}

	origins := rt.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"https://*", "http://*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mW.IdempotencyKeyHeader},
		ExposedHeaders:   []string{mW.IdempotentReplayedHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", rt.Health.Health)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mW.Authenticate(rt.JWTSecret, rt.Logger))
		r.Use(rt.Idempotency.Handler)

		r.Post("/donations", rt.Donations.RecordDonation)

		r.Post("/consents", rt.Consents.CreateConsentRequest)
		r.Get("/consents/{requestId}", rt.Consents.GetConsentRequest)
		r.Post("/consents/{requestId}/decision", rt.Consents.RespondToConsentRequest)
		r.Get("/consents/{requestId}/qr", rt.QR.ConsentQR)

		r.Post("/emergency-overrides", rt.Emergency.ApplyEmergencyOverride)
		r.Get("/emergency-overrides/{caseId}", rt.Emergency.GetEmergencyCase)

		r.Post("/exchanges", rt.Exchanges.CreateExchangeProposal)
		r.Get("/exchanges/{exchangeId}", rt.Exchanges.GetExchangeProposal)

		r.Get("/ledger/{userId}", rt.Ledger.GetLedgerSummary)
		r.Get("/inventory/{organizationId}", rt.Ledger.GetInventory)
	})

	return r
}
