package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/hoaivu016/abc-backoffice/internal/middleware"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Auth    *AuthHandler
	Vehicle *VehicleHandler
	Staff   *StaffHandler
	Kpi     *KpiHandler
	Sync    *SyncHandler
	Report  *ReportHandler
}

// NewRouter builds the API router.
//
// Public endpoints:
//
//	POST /api/auth/register
//	POST /api/auth/login
//
// Everything else under /api requires a bearer token.
func NewRouter(h Handlers, parser middleware.TokenParser, logger *zap.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(parser))

			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", h.Vehicle.List)
				r.Post("/", h.Vehicle.Create)
				r.Get("/{id}", h.Vehicle.Get)
				r.Put("/{id}", h.Vehicle.Update)
				r.Delete("/{id}", h.Vehicle.Delete)
				r.Post("/{id}/status", h.Vehicle.ChangeStatus)
				r.Post("/{id}/costs", h.Vehicle.AddCost)
				r.Post("/{id}/payments", h.Vehicle.AddPayment)
			})

			r.Route("/staff", func(r chi.Router) {
				r.Get("/", h.Staff.List)
				r.Post("/", h.Staff.Create)
				r.Put("/{id}", h.Staff.Update)
				r.Delete("/{id}", h.Staff.Delete)
			})

			r.Route("/kpis", func(r chi.Router) {
				r.Get("/", h.Kpi.Targets)
				r.Put("/", h.Kpi.UpsertTargets)
			})
			r.Route("/bonuses", func(r chi.Router) {
				r.Get("/", h.Kpi.Bonuses)
				r.Put("/", h.Kpi.UpsertBonuses)
			})

			r.Route("/sync", func(r chi.Router) {
				r.Get("/status", h.Sync.Status)
				r.Post("/", h.Sync.Trigger)
			})

			r.Get("/reports/monthly", h.Report.Monthly)
		})
	})

	return r
}
