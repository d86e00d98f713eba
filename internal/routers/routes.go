package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/kunjshukla/ain/internal/handlers"
	"github.com/kunjshukla/ain/internal/middleware"
	"github.com/kunjshukla/ain/internal/models"
	"github.com/kunjshukla/ain/internal/relay"
)

// InterviewRoutes wires the REST surface. The auth middleware is a no-op when
// no secret is configured.
func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, jwtSecret []byte) {
	router.Route("/api/v1/interview", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtSecret))
		r.With(middleware.ValidateRequest[*models.TurnRequest]()).Post("/turn", interviewHandler.TurnHandler)
		r.Get("/{sessionID}/progress", interviewHandler.ProgressHandler)
		r.Get("/{sessionID}/summary", interviewHandler.SummaryHandler)
		r.Get("/{sessionID}/report", interviewHandler.ReportHandler)
	})
}

// WSRoutes wires the streaming relay endpoint.
func WSRoutes(router *chi.Mux, wsHandler *relay.WSHandler) {
	router.Handle("/ws/interview", wsHandler)
}

// HealthRoutes wires liveness endpoints.
func HealthRoutes(router *chi.Mux, healthHandler *handlers.HealthHandler) {
	router.Get("/healthz", healthHandler.Health)
}
