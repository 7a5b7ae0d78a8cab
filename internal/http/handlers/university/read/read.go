// Package read реализует HTTP-обработчик карточки университета.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/antonkuragin/admissions-gateway/internal/http/response"
	"github.com/antonkuragin/admissions-gateway/internal/lib/sl"
	"github.com/antonkuragin/admissions-gateway/internal/models"
)

// Service описывает интерфейс сервиса каталога для чтения одного университета.
type Service interface {
	Read(ctx context.Context, id string) (*models.University, error)
}

// Handler обрабатывает HTTP-запросы карточки университета.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом каталога.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Карточка университета
// @Description Возвращает один университет по идентификатору.
// @Tags Universities
// @Produce  json
// @Param id path string true "Идентификатор университета"
// @Success 200 {object} response.Envelope "Университет"
// @Failure 400 {object} response.ErrorResponse "Пустой идентификатор"
// @Failure 404 {object} response.ErrorResponse "Университет не найден"
// @Security BearerAuth
// @Router /universities/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.university.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("missing university id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing university id"))
		return
	}

	university, err := h.service.Read(r.Context(), id)
	if err != nil {
		log.Error("failed to read university", sl.Err(err))
		status, env := response.FromError(err, "could not load university")
		w.WriteHeader(status)
		render.JSON(w, r, env)
		return
	}

	log.Info("university read", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(university))
}
