package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ideaboard/ideaboard/backend/internal/handler"
	"github.com/ideaboard/ideaboard/backend/internal/setup"
	mw "github.com/ideaboard/ideaboard/shared/middleware"
	"github.com/ideaboard/ideaboard/shared/middleware/metrics"
)

// New builds the router. Health checks and admin-only metrics sit outside the ajax stack; every
// other path answers action requests and serves its page otherwise.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", mw.RequestIDHeader},
		AllowCredentials: true,
	}))
	r.Use(mw.SecurityHeaders(deps.Config.Public.SecureCookies, mw.APIContentSecurityPolicy))

	h := deps.Handler

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.With(deps.AuthMiddleware.AdminOnly()).Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(deps.AuthMiddleware.OptionalAuth())
		if deps.AjaxLimiter != nil {
			r.Use(mw.RateLimit(deps.AjaxLimiter, mw.GetUserIDOrIP, handler.RejectAjax))
		}
		r.Use(h.Ajax(deps.Dispatcher))

		r.Get("/v1/script_context/topic/{id}", h.TopicScriptContext)
		r.Get("/v1/script_context/forum/{id}", h.ForumScriptContext)
		// action requests may target any page url
		r.HandleFunc("/*", http.NotFound)
	})

	return r
}
