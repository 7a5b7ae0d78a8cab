// Package admissionsgateway предоставляет маршруты приложения шлюза.
package admissionsgateway

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/antonkuragin/admissions-gateway/internal/apiclient"
	"github.com/antonkuragin/admissions-gateway/internal/cache"
	"github.com/antonkuragin/admissions-gateway/internal/config"
	"github.com/antonkuragin/admissions-gateway/internal/http/handlers/auth/google"
	"github.com/antonkuragin/admissions-gateway/internal/http/handlers/auth/login"
	"github.com/antonkuragin/admissions-gateway/internal/http/handlers/auth/logout"
	"github.com/antonkuragin/admissions-gateway/internal/http/handlers/auth/register"
	"github.com/antonkuragin/admissions-gateway/internal/http/handlers/features"
	"github.com/antonkuragin/admissions-gateway/internal/http/handlers/health"
	profileread "github.com/antonkuragin/admissions-gateway/internal/http/handlers/profile/read"
	profileupdate "github.com/antonkuragin/admissions-gateway/internal/http/handlers/profile/update"
	roadmapread "github.com/antonkuragin/admissions-gateway/internal/http/handlers/roadmap/read"
	universitylist "github.com/antonkuragin/admissions-gateway/internal/http/handlers/university/list"
	universityread "github.com/antonkuragin/admissions-gateway/internal/http/handlers/university/read"
	"github.com/antonkuragin/admissions-gateway/internal/http/middlewarectx"
	"github.com/antonkuragin/admissions-gateway/internal/identity"
	"github.com/antonkuragin/admissions-gateway/internal/remoteconfig"
	catalogservice "github.com/antonkuragin/admissions-gateway/internal/services/catalog"
	profileservice "github.com/antonkuragin/admissions-gateway/internal/services/profile"
	roadmapservice "github.com/antonkuragin/admissions-gateway/internal/services/roadmap"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, client *apiclient.Client, manager *identity.Manager, fetcher *remoteconfig.Fetcher, cacheRedis *cache.Cache) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	catalogService := catalogservice.New(client, cacheRedis, cfg.CatalogTTL, logger)
	profileService := profileservice.New(client, logger)
	roadmapService := roadmapservice.New(client, logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, manager).ServeHTTP)
		r.Post("/auth/login", login.New(logger, manager).ServeHTTP)
		r.Post("/auth/google", google.New(logger, manager).ServeHTTP)
		r.Post("/auth/logout", logout.New(logger, manager).ServeHTTP)
		r.Get("/config/features", features.New(logger, fetcher).ServeHTTP)
		r.Get("/health", health.New(manager).ServeHTTP)

		// Группа с bearer-аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.BearerMiddleware(logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/universities", universitylist.New(logger, catalogService).ServeHTTP)
			r.Get("/universities/{id}", universityread.New(logger, catalogService).ServeHTTP)
			r.Get("/profile", profileread.New(logger, profileService).ServeHTTP)
			r.Put("/profile", profileupdate.New(logger, profileService).ServeHTTP)
			r.Get("/roadmap", roadmapread.New(logger, roadmapService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
