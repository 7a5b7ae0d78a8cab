// Package health реализует HTTP-обработчик проверки работоспособности шлюза.
package health

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/antonkuragin/admissions-gateway/internal/http/response"
)

// Readiness сообщает о готовности менеджера идентификации.
type Readiness interface {
	IsAuthenticationAvailable() bool
}

// Handler обрабатывает запросы проверки работоспособности.
type Handler struct {
	auth Readiness
}

// New создает новый Handler.
func New(auth Readiness) *Handler {
	return &Handler{auth: auth}
}

// ServeHTTP godoc
// @Summary Проверка работоспособности
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Envelope "Состояние шлюза"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status":        "ok",
		"authAvailable": h.auth.IsAuthenticationAvailable(),
	}))
}
