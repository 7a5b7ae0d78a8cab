// Package logout реализует HTTP-обработчик выхода пользователя.
//
// Выход всегда успешен: уведомление бэкенда выполняется по принципу
// лучшей попытки внутри менеджера идентификации, текущая сессия
// очищается в любом случае.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/antonkuragin/admissions-gateway/internal/http/response"
)

// Service описывает операцию выхода менеджера идентификации.
type Service interface {
	SignOut(ctx context.Context)
}

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log  *slog.Logger
	auth Service
}

// New создает новый Handler с переданными логгером и менеджером идентификации.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{log: log, auth: auth}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Завершает текущую сессию. Уведомление бэкенда — лучшая попытка, сбой игнорируется.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Envelope "Успешный выход"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	h.auth.SignOut(r.Context())

	log.Info("logout complete")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"signedOut": true,
	}))
}
