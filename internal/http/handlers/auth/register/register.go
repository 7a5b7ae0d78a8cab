// Package register реализует HTTP-обработчик регистрации пользователя.
//
// Учётная запись создаётся у identity-провайдера; регистрация на бэкенде
// необязательна, при её сбое возвращается пользователь, построенный из
// сессии провайдера.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/antonkuragin/admissions-gateway/internal/http/response"
	"github.com/antonkuragin/admissions-gateway/internal/identity"
	"github.com/antonkuragin/admissions-gateway/internal/lib/sl"
)

// Request — структура входных данных для регистрации.
type Request struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"displayName" validate:"required,min=2,max=100"`
}

// Service описывает операции менеджера идентификации, нужные для регистрации.
type Service interface {
	SignUp(ctx context.Context, email, password, displayName string) (*identity.User, error)
	IDToken(ctx context.Context) (string, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и менеджером идентификации.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает учетную запись у identity-провайдера и регистрирует пользователя на бэкенде.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные новой учетной записи"
// @Success 200 {object} response.Envelope "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Email уже занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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
	log.Info("request body decoded", slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.auth.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		var authErr *identity.AuthError
		if errors.As(err, &authErr) {
			log.Error("sign-up rejected", sl.Err(err))
			status := http.StatusUnauthorized
			if authErr.Code == identity.CodeEmailExists {
				status = http.StatusConflict
			}
			w.WriteHeader(status)
			render.JSON(w, r, response.Error(authErr.Message))
			return
		}
		log.Error("sign-up failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register"))
		return
	}

	token, err := h.auth.IDToken(r.Context())
	if err != nil {
		log.Warn("failed to obtain id token", sl.Err(err))
	}

	log.Info("register success", slog.String("uid", user.UID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":  user,
		"token": token,
	}))
}
