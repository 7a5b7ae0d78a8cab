// Package read реализует HTTP-обработчик дорожной карты поступления
// для страницы дашборда.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/antonkuragin/admissions-gateway/internal/http/response"
	"github.com/antonkuragin/admissions-gateway/internal/lib/sl"
	"github.com/antonkuragin/admissions-gateway/internal/models"
)

// Service описывает интерфейс сервиса дорожной карты.
type Service interface {
	Get(ctx context.Context) (*models.Roadmap, error)
}

// Handler обрабатывает HTTP-запросы дорожной карты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом дорожной карты.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Дорожная карта поступления
// @Description Возвращает дорожную карту текущего пользователя.
// @Tags Roadmap
// @Produce  json
// @Success 200 {object} response.Envelope "Дорожная карта"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Security BearerAuth
// @Router /roadmap [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.roadmap.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	roadmap, err := h.service.Get(r.Context())
	if err != nil {
		log.Error("failed to read roadmap", sl.Err(err))
		status, env := response.FromError(err, "could not load roadmap")
		w.WriteHeader(status)
		render.JSON(w, r, env)
		return
	}

	log.Info("roadmap read", slog.Float64("progress", roadmap.Progress))
	render.JSON(w, r, response.OKWithData(roadmap))
}
