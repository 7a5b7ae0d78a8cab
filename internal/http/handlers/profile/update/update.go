// Package update реализует HTTP-обработчик обновления профиля абитуриента,
// заполняемого на онбординге и в редакторе предпочтений.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/antonkuragin/admissions-gateway/internal/http/response"
	"github.com/antonkuragin/admissions-gateway/internal/lib/sl"
	"github.com/antonkuragin/admissions-gateway/internal/models"
)

// Request — структура входных данных обновления профиля.
type Request struct {
	GPA             float64  `json:"gpa" validate:"required,min=0,max=5"`
	SATScore        int      `json:"satScore" validate:"omitempty,min=400,max=1600"`
	TOEFLScore      int      `json:"toeflScore" validate:"omitempty,min=0,max=120"`
	IntendedMajor   string   `json:"intendedMajor" validate:"omitempty,max=100"`
	TargetCountries []string `json:"targetCountries" validate:"omitempty,max=10"`
	BudgetUSD       int      `json:"budgetUsd" validate:"omitempty,min=0"`
}

// Service описывает интерфейс сервиса профиля для обновления.
type Service interface {
	Update(ctx context.Context, p models.StudentProfile) (*models.StudentProfile, error)
}

// Handler обрабатывает HTTP-запросы обновления профиля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом профиля.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить профиль
// @Description Сохраняет профиль абитуриента и возвращает его каноничную версию от бэкенда.
// @Tags Profile
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные профиля"
// @Success 200 {object} response.Envelope "Обновленный профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Security BearerAuth
// @Router /profile [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	profile, err := h.service.Update(r.Context(), models.StudentProfile{
		GPA:             req.GPA,
		SATScore:        req.SATScore,
		TOEFLScore:      req.TOEFLScore,
		IntendedMajor:   req.IntendedMajor,
		TargetCountries: req.TargetCountries,
		BudgetUSD:       req.BudgetUSD,
	})
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		status, env := response.FromError(err, "could not update profile")
		w.WriteHeader(status)
		render.JSON(w, r, env)
		return
	}

	log.Info("profile updated", slog.String("uid", profile.UID))
	render.JSON(w, r, response.OKWithData(profile))
}
