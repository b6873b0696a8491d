package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/techradar-io/radar-api/internal/api/middleware"
	"github.com/techradar-io/radar-api/internal/api/shared"
	"github.com/techradar-io/radar-api/internal/auth"
	"github.com/techradar-io/radar-api/internal/platform/metrics"
	"github.com/techradar-io/radar-api/internal/service"
)

// RouterConfig carries everything the HTTP surface depends on.
type RouterConfig struct {
	Users     service.UserService
	Radars    service.RadarService
	Blips     service.BlipService
	Topics    service.TopicService
	Validator auth.TokenValidator

	// Metrics is optional; when set, requests are instrumented and
	// /metrics is served.
	Metrics *metrics.Metrics

	// HealthCheck is optional; it backs /health, typically with a DB ping.
	HealthCheck func(ctx context.Context) error

	Logger *slog.Logger
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewTraceMiddleware(logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	users := NewUserHandler(cfg.Users, cfg.Radars)
	radars := NewRadarHandler(cfg.Radars, logger)
	blips := NewBlipHandler(cfg.Radars, cfg.Blips, logger)
	topics := NewTopicHandler(cfg.Topics)
	authenticate := middleware.NewAuthMiddleware(cfg.Validator).Authenticate

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", users.CreateUser)
		r.Get("/users/{username}", users.GetUser)
		r.Get("/users/{username}/radars", users.ListRadars)

		r.Get("/radars/{id}", radars.GetRadar)
		r.Get("/radars/{id}/quadrants/{quadrant}", radars.GetQuadrant)
		r.Get("/radars/{id}/blips/{blipID}", blips.GetBlip)

		r.Get("/topics", topics.ListTopics)
		r.Get("/topics/{id}", topics.GetTopic)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/radars", radars.CreateRadar)
			r.Put("/radars/{id}", radars.UpdateRadar)
			r.Delete("/radars/{id}", radars.DeleteRadar)

			r.Post("/radars/{id}/blips", blips.CreateBlip)
			r.Put("/radars/{id}/blips/{blipID}", blips.UpdateBlip)
			r.Delete("/radars/{id}/blips/{blipID}", blips.DeleteBlip)

			r.Post("/topics", topics.CreateTopic)
			r.Post("/bulk_topics", topics.BulkCreateTopics)
		})
	})

	r.Get("/health", healthHandler(cfg.HealthCheck))
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Unavailable", err)
				return
			}
		}
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}
