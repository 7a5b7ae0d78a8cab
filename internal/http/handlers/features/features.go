// Package features реализует HTTP-обработчик фичефлагов клиента.
//
// Флаги берутся из удалённой клиентской конфигурации; при её недоступности
// пользователь получает fallback с выключенными фичами, а не ошибку.
package features

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/antonkuragin/admissions-gateway/internal/http/response"
	"github.com/antonkuragin/admissions-gateway/internal/remoteconfig"
)

// Loader описывает загрузчик клиентской конфигурации.
type Loader interface {
	Load(ctx context.Context) *remoteconfig.ClientConfig
}

// Handler обрабатывает HTTP-запросы фичефлагов.
type Handler struct {
	log    *slog.Logger
	config Loader
}

// New создает новый Handler с переданными логгером и загрузчиком конфигурации.
func New(log *slog.Logger, config Loader) *Handler {
	return &Handler{log: log, config: config}
}

// ServeHTTP godoc
// @Summary Фичефлаги клиента
// @Description Возвращает флаги фич и платёжные настройки клиента. Сбой загрузки невидим: отдаётся fallback с выключенными фичами.
// @Tags Config
// @Produce  json
// @Success 200 {object} response.Envelope "Конфигурация клиента"
// @Router /config/features [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.features"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cfg := h.config.Load(r.Context())

	log.Info("client config served", slog.Int("features", len(cfg.Features)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"features": cfg.Features,
		"stripe": map[string]string{
			"publishableKey": cfg.Stripe.PublishableKey,
			"currency":       cfg.Stripe.Currency,
			"country":        cfg.Stripe.Country,
		},
	}))
}
