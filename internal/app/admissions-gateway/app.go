// Package admissionsgateway собирает приложение шлюза: клиентскую
// конфигурацию, менеджер идентификации, HTTP-клиент бэкенда, кэш и сервер.
package admissionsgateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/antonkuragin/admissions-gateway/internal/apiclient"
	"github.com/antonkuragin/admissions-gateway/internal/cache"
	"github.com/antonkuragin/admissions-gateway/internal/config"
	"github.com/antonkuragin/admissions-gateway/internal/identity"
	"github.com/antonkuragin/admissions-gateway/internal/remoteconfig"
	"github.com/antonkuragin/admissions-gateway/internal/state"
)

// App собранное приложение шлюза.
type App struct {
	server *http.Server
	logger *slog.Logger
	cache  *cache.Cache
	auth   *state.AuthAdapter
}

// New создаёт приложение: поднимает компоненты доступа к API в порядке
// зависимостей и регистрирует маршруты. Сбой инициализации менеджера
// идентификации или подключения к redis фатален; недоступность клиентской
// конфигурации — нет (используется fallback).
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.New"

	fetcher := remoteconfig.New(cfg.BaseURL, cfg.PublishableKeyFallback, logger)

	retry := apiclient.DefaultRetryConfig()
	if cfg.Backend.MaxRetries > 0 {
		retry.MaxRetries = cfg.Backend.MaxRetries
	}
	if cfg.RetryDelayBase > 0 {
		retry.RetryDelayBase = cfg.RetryDelayBase
	}
	client := apiclient.New(apiclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
		Retry:   retry,
	}, logger)

	manager := identity.NewManager(client, logger)
	if err := manager.Start(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	client.SetTokenSource(manager)

	// конфигурация могла принести другой адрес бэкенда
	if clientCfg := fetcher.Load(ctx); clientCfg.API.BaseURL != "" && clientCfg.API.BaseURL != cfg.BaseURL {
		logger.Info("switching backend base url", slog.String("base_url", clientCfg.API.BaseURL))
		client.SetBaseURL(clientCfg.API.BaseURL)
	}

	authAdapter := state.NewAuthAdapter(manager)
	authAdapter.Subscribe(func(s state.AuthState) {
		if s.User != nil {
			logger.Info("auth state changed", slog.String("uid", s.User.UID))
		} else if !s.Loading {
			logger.Info("auth state changed", slog.String("uid", ""))
		}
	})

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, client, manager, fetcher, cacheRedis)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		cache:  cacheRedis,
		auth:   authAdapter,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
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
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.auth.Close()
		if cerr := a.cache.Db.Close(); cerr != nil {
			a.logger.Error("failed to close redis connection")
		}
		return err
	}
}
