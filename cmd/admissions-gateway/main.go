// Package main Admissions Gateway API
//
// @title           Admissions Gateway API
// @version         1.0
// @description     API-шлюз продукта сопровождения поступления: аутентификация, каталог университетов, профиль и дорожная карта

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity provider ID token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/antonkuragin/admissions-gateway/docs"
	admissionsgateway "github.com/antonkuragin/admissions-gateway/internal/app/admissions-gateway"
	"github.com/antonkuragin/admissions-gateway/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting admissions-gateway", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := admissionsgateway.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("admissions-gateway stopped gracefully")
}
