// Package login реализует HTTP-обработчик входа пользователя по email
// и паролю.
//
// Обработчик декодирует JSON-запрос, валидирует поля и делегирует вход
// менеджеру идентификации. При успехе возвращает пользователя и bearer-токен;
// ошибки аутентификации отдаются с дружелюбным сообщением провайдера.
package login

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

// Request — структура входных данных для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Service описывает операции менеджера идентификации, нужные для входа.
type Service interface {
	SignIn(ctx context.Context, email, password string) (*identity.User, error)
	IDToken(ctx context.Context) (string, error)
}

// Handler обрабатывает HTTP-запросы входа.
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
// @Summary Вход пользователя
// @Description Аутентифицирует пользователя по email и паролю через identity-провайдера. Возвращает пользователя и bearer-токен.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.Envelope "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

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

	user, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		var authErr *identity.AuthError
		if errors.As(err, &authErr) {
			log.Error("sign-in rejected", sl.Err(err))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error(authErr.Message))
			return
		}
		log.Error("sign-in failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not sign in"))
		return
	}

	token, err := h.auth.IDToken(r.Context())
	if err != nil {
		log.Warn("failed to obtain id token", sl.Err(err))
	}

	log.Info("login success", slog.String("uid", user.UID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":  user,
		"token": token,
	}))
}
