package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sbilibin2017/dream-vault/internal/handlers"
	"github.com/sbilibin2017/dream-vault/internal/middlewares"
	"github.com/sbilibin2017/dream-vault/internal/services"
)

// routerDeps groups everything the HTTP layer needs.
type routerDeps struct {
	version    string
	db         *sqlx.DB
	tokener    middlewares.Tokener
	registry   *prometheus.Registry
	swaggerURL string

	auth         *services.AuthService
	dreams       *services.DreamService
	insight      *services.InsightService
	stats        *services.StatsService
	patterns     *services.PatternService
	achievements *services.AchievementService
	settings     *services.SettingsService
	export       *services.ExportService
}

// newRouter mounts the API under /api plus the metrics and swagger endpoints.
func newRouter(d routerDeps) http.Handler {
	metrics := middlewares.NewMetrics(d.registry)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)
	r.Use(metrics.Middleware)

	r.Handle("/metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{Registry: d.registry}))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(d.swaggerURL)))

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/", handlers.NewRootHandler(d.version))
		r.Get("/health", handlers.NewHealthHandler())
		r.Post("/auth/register", handlers.NewRegisterHandler(d.auth))
		r.Post("/auth/login", handlers.NewLoginHandler(d.auth))
		r.Get("/public/dream/{share_id}", handlers.NewPublicDreamHandler(d.dreams))
		r.Get("/public/dreams", handlers.NewPublicDreamsHandler(d.dreams))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(d.tokener))

			r.Get("/auth/me", handlers.NewMeHandler(d.auth))

			r.Get("/dreams", handlers.NewListDreamsHandler(d.dreams))
			r.Post("/dreams", handlers.NewCreateDreamHandler(d.dreams))
			r.Get("/dreams/calendar/{year}/{month}", handlers.NewCalendarHandler(d.dreams))
			r.Get("/dreams/{id}", handlers.NewGetDreamHandler(d.dreams))
			r.Put("/dreams/{id}", handlers.NewUpdateDreamHandler(d.dreams))
			r.Delete("/dreams/{id}", handlers.NewDeleteDreamHandler(d.dreams))
			r.Post("/dreams/{id}/insight", handlers.NewInsightHandler(d.insight))
			r.Post("/dreams/{id}/share", handlers.NewShareHandler(d.dreams))
			r.Post("/dreams/{id}/unshare", handlers.NewUnshareHandler(d.dreams))

			r.Get("/stats", handlers.NewStatsHandler(d.stats))
			r.Get("/analysis/patterns", handlers.NewPatternsHandler(d.patterns))
			r.Get("/achievements", handlers.NewAchievementsHandler(d.achievements))
			r.Get("/achievements/check", handlers.NewAchievementsCheckHandler(d.achievements))
			r.Post("/export", handlers.NewExportHandler(d.export))

			r.Get("/settings", handlers.NewGetSettingsHandler(d.settings))
			r.Group(func(r chi.Router) {
				r.Use(middlewares.TxMiddleware(d.db))
				r.Put("/settings", handlers.NewUpdateSettingsHandler(d.settings))
				r.Post("/settings/use-freeze", handlers.NewUseFreezeHandler(d.settings))
				r.Post("/settings/add-freeze", handlers.NewAddFreezeHandler(d.settings))
			})
		})
	})

	return r
}
