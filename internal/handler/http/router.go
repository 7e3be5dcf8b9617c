package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/ridgeline-buildings/salescomp-backend-go/internal/handler/http/middleware"
	"github.com/ridgeline-buildings/salescomp-backend-go/internal/pkg/jwt"
)

// RouterConfig carries the environment dependent knobs the router
// needs; everything else arrives as a wired handler.
type RouterConfig struct {
	AppEnv         string
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	ledgerHandler LedgerHandler,
	payPlanHandler PayPlanHandler,
	repHandler RepresentativeHandler,
	auditHandler AuditHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "salescomp"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.AppEnv),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {

		// EventSource cannot set an Authorization header, so the stream
		// authenticates with a short lived token in the query string.
		r.Get("/compensation/events", ledgerHandler.Events)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/compensation/ledger", ledgerHandler.List)
			r.Get("/compensation/ledger/{id}", ledgerHandler.Get)
			r.Get("/compensation/summary", ledgerHandler.Summary)
			r.Get("/compensation/sse-token", ledgerHandler.GetSSEToken)

			r.Get("/representatives", repHandler.List)
			r.Get("/representatives/{id}", repHandler.Get)
			r.Get("/offices", repHandler.Offices)

			r.Get("/pay-plans/{representativeId}", payPlanHandler.GetPayPlan)
			r.Get("/office-plans/{office}", payPlanHandler.GetOfficePlan)

			r.Get("/audit", auditHandler.List)

			// Admin or manager
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManager)

				r.Post("/compensation/ledger/generate", ledgerHandler.Generate)
				r.Patch("/compensation/ledger/{id}", ledgerHandler.Update)
				r.Post("/compensation/ledger/approve", ledgerHandler.Approve)
				r.Post("/compensation/ledger/{id}/reopen", ledgerHandler.Reopen)

				r.Put("/pay-plans/{representativeId}", payPlanHandler.UpsertPayPlan)
				r.Put("/office-plans/{office}", payPlanHandler.UpsertOfficePlan)
			})
		})
	})
	return r
}
