// Package middlewarectx содержит HTTP middleware шлюза.
//
// BearerMiddleware извлекает bearer-токен identity-провайдера из заголовка
// Authorization, разбирает его claims без проверки подписи (авторитетом
// остаётся бэкенд, который валидирует токен на каждом проксируемом вызове)
// и кладёт в контекст uid, email и сам токен для проброса в бэкенд.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"

	"github.com/antonkuragin/admissions-gateway/internal/apiclient"
	"github.com/antonkuragin/admissions-gateway/internal/http/response"
	"github.com/antonkuragin/admissions-gateway/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для идентификатора пользователя в контексте
	UserUID Key = "uid"
	// UserEmail — ключ для email пользователя в контексте
	UserEmail Key = "email"
)

// BearerMiddleware возвращает middleware, требующий bearer-токен.
//
// Если токен есть и разбирается, uid и email добавляются в контекст,
// а токен пробрасывается клиенту бэкенда; иначе — 401 Unauthorized.
func BearerMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.BearerMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims := jwt.MapClaims{}
			if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
				log.Error("malformed bearer token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			uid, _ := claims["sub"].(string)
			email, _ := claims["email"].(string)

			ctx := context.WithValue(r.Context(), UserUID, uid)
			ctx = context.WithValue(ctx, UserEmail, email)
			ctx = apiclient.WithBearer(ctx, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
