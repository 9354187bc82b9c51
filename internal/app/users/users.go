// Package users собирает HTTP-сервис учетных записей: подготовку схемы,
// сервис учетных данных, маршруты и жизненный цикл сервера.
package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/plp-users/internal/config"
	"github.com/magabrotheeeer/plp-users/internal/lib/password"
	"github.com/magabrotheeeer/plp-users/internal/lib/sl"
	"github.com/magabrotheeeer/plp-users/internal/metrics"
	authservice "github.com/magabrotheeeer/plp-users/internal/services/auth"
	"github.com/magabrotheeeer/plp-users/internal/storage"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

// New подготавливает хранилище и собирает сервер. Ошибка подготовки схемы
// возвращается как есть: сервер в этом случае не создается.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.Provision(ctx, storage.ProvisionConfig{
		MaintenanceDSN: cfg.MaintenanceDSN(),
		TargetDSN:      cfg.TargetDSN(),
		Database:       cfg.Database.Name,
		MaxOpenConns:   cfg.MaxOpenConns,
	}, logger)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	credentialService := authservice.NewAuthService(db,
		password.NewHasher(cfg.BcryptCost),
		authservice.WithRecorder(m),
		authservice.WithLogger(logger),
	)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, credentialService, db, m, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.closeDB()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeDB()
		return err
	}
}

func (a *App) closeDB() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
