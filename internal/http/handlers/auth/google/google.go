// Package google реализует HTTP-обработчик входа через Google OAuth.
//
// В отличие от входа по паролю, сбой обмена токена с бэкендом здесь не
// деградирует до локального пользователя, а возвращается вызывающему:
// у OAuth-входа нет локального аналога регистрации.
package google

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

// Request — структура входных данных: ID-токен Google.
type Request struct {
	IDToken string `json:"idToken" validate:"required"`
}

// Service описывает операции менеджера идентификации для OAuth-входа.
type Service interface {
	SignInWithGoogle(ctx context.Context, googleToken string) (*identity.User, error)
	IDToken(ctx context.Context) (string, error)
}

// Handler обрабатывает HTTP-запросы OAuth-входа.
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
// @Summary Вход через Google
// @Description Входит через Google OAuth и обменивает токен на выделенной конечной точке бэкенда.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "ID-токен Google"
// @Success 200 {object} response.Envelope "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Провайдер отклонил вход"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Бэкенд отклонил обмен токена"
// @Router /auth/google [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.google"

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

	user, err := h.auth.SignInWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		var authErr *identity.AuthError
		if errors.As(err, &authErr) {
			log.Error("google sign-in rejected", sl.Err(err))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error(authErr.Message))
			return
		}
		log.Error("google token exchange failed", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not complete Google sign-in"))
		return
	}

	token, err := h.auth.IDToken(r.Context())
	if err != nil {
		log.Warn("failed to obtain id token", sl.Err(err))
	}

	log.Info("google login success", slog.String("uid", user.UID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":  user,
		"token": token,
	}))
}
