package identity

import (
	"github.com/golang-jwt/jwt/v5"
)

// User каноничный пользователь продукта. Обычно приходит от бэкенда после
// обмена токена; при недоступности бэкенда строится локально из сессии
// провайдера (деградация без блокировки).
type User struct {
	UID              string `json:"uid"`
	Email            string `json:"email"`
	DisplayName      string `json:"displayName,omitempty"`
	PhotoURL         string `json:"photoURL,omitempty"`
	ProfileCompleted bool   `json:"profileCompleted,omitempty"`
}

// userFromSession строит локального пользователя из нативной сессии
// провайдера. Недостающие поля добираются из claims ID-токена —
// без проверки подписи: токен уже получен от самого провайдера.
func userFromSession(sess *Session) *User {
	user := &User{
		UID:         sess.UID,
		Email:       sess.Email,
		DisplayName: sess.DisplayName,
		PhotoURL:    sess.PhotoURL,
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(sess.IDToken, claims); err != nil {
		return user
	}
	if user.UID == "" {
		if sub, ok := claims["sub"].(string); ok {
			user.UID = sub
		}
	}
	if user.Email == "" {
		if email, ok := claims["email"].(string); ok {
			user.Email = email
		}
	}
	if user.DisplayName == "" {
		if name, ok := claims["name"].(string); ok {
			user.DisplayName = name
		}
	}
	if user.PhotoURL == "" {
		if picture, ok := claims["picture"].(string); ok {
			user.PhotoURL = picture
		}
	}
	return user
}
