package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"

	"github.com/magabrotheeeer/plp-users/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/plp-users/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/plp-users/internal/http/handlers/health"
	"github.com/magabrotheeeer/plp-users/internal/metrics"
)

// CredentialService объединяет операции, которые вызывают обработчики.
type CredentialService interface {
	register.Service
	login.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, service CredentialService, db health.Pinger, m *metrics.Metrics, allowedOrigins []string) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		m.Middleware,
		cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			MaxAge:         300,
		}),
	)

	credentials := func(r chi.Router) {
		r.Post("/register", register.New(logger, service).ServeHTTP)
		r.Post("/login", login.New(logger, service).ServeHTTP)
	}
	credentials(r)
	r.Route("/api", credentials)

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", m.Handler())
}
