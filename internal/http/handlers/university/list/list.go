// Package list реализует HTTP-обработчик списка университетов для страниц
// просмотра каталога. Параметры фильтра читаются из query-строки, результат
// может отдаваться из кэша сервиса каталога.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/antonkuragin/admissions-gateway/internal/http/response"
	"github.com/antonkuragin/admissions-gateway/internal/lib/sl"
	"github.com/antonkuragin/admissions-gateway/internal/models"
)

// Service описывает интерфейс сервиса каталога университетов.
type Service interface {
	List(ctx context.Context, filter models.CatalogFilter) ([]models.University, error)
}

// Handler обрабатывает HTTP-запросы списка университетов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом каталога.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Список университетов
// @Description Возвращает страницу каталога университетов по фильтру.
// @Tags Universities
// @Produce  json
// @Param country query string false "Фильтр по стране"
// @Param program query string false "Фильтр по программе"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Envelope "Список университетов"
// @Failure 422 {object} response.ErrorResponse "Некорректный фильтр"
// @Failure 502 {object} response.ErrorResponse "Бэкенд недоступен"
// @Security BearerAuth
// @Router /universities [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.university.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := models.CatalogFilter{
		Country: r.URL.Query().Get("country"),
		Program: r.URL.Query().Get("program"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		filter.Offset, _ = strconv.Atoi(v)
	}

	if err := h.validate.Struct(filter); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	universities, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list universities", sl.Err(err))
		status, env := response.FromError(err, "could not load universities")
		w.WriteHeader(status)
		render.JSON(w, r, env)
		return
	}

	log.Info("universities listed", slog.Int("count", len(universities)))
	render.JSON(w, r, response.OKWithData(universities))
}
