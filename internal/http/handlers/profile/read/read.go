// Package read реализует HTTP-обработчик чтения профиля абитуриента.
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

// Service описывает интерфейс сервиса профиля.
type Service interface {
	Get(ctx context.Context) (*models.StudentProfile, error)
}

// Handler обрабатывает HTTP-запросы чтения профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом профиля.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль абитуриента
// @Description Возвращает профиль текущего пользователя.
// @Tags Profile
// @Produce  json
// @Success 200 {object} response.Envelope "Профиль"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Профиль не найден"
// @Security BearerAuth
// @Router /profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	profile, err := h.service.Get(r.Context())
	if err != nil {
		log.Error("failed to read profile", sl.Err(err))
		status, env := response.FromError(err, "could not load profile")
		w.WriteHeader(status)
		render.JSON(w, r, env)
		return
	}

	log.Info("profile read", slog.String("uid", profile.UID))
	render.JSON(w, r, response.OKWithData(profile))
}
