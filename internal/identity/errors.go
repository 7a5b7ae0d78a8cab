// Package identity реализует менеджер идентификации: обёртку над REST API
// хостингового identity-провайдера, обмен его токена на каноничного
// пользователя бэкенда и подписку на смену состояния сессии.
package identity

import "fmt"

// Коды ошибок identity-провайдера, для которых есть фиксированные
// дружелюбные сообщения.
const (
	CodeInvalidPassword     = "INVALID_PASSWORD"
	CodeEmailNotFound       = "EMAIL_NOT_FOUND"
	CodeInvalidEmail        = "INVALID_EMAIL"
	CodeUserDisabled        = "USER_DISABLED"
	CodeEmailExists         = "EMAIL_EXISTS"
	CodeWeakPassword        = "WEAK_PASSWORD"
	CodeTooManyAttempts     = "TOO_MANY_ATTEMPTS_TRY_LATER"
	CodeInvalidCredentials  = "INVALID_LOGIN_CREDENTIALS"
	CodeNetworkFailed       = "NETWORK_REQUEST_FAILED"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
)

// friendlyAuthMessages фиксированные сообщения для известных кодов провайдера.
var friendlyAuthMessages = map[string]string{
	CodeInvalidPassword:     "Incorrect password. Please try again.",
	CodeEmailNotFound:       "No account found with this email.",
	CodeInvalidEmail:        "Please enter a valid email address.",
	CodeUserDisabled:        "This account has been disabled.",
	CodeEmailExists:         "An account with this email already exists.",
	CodeWeakPassword:        "Password should be at least 6 characters.",
	CodeTooManyAttempts:     "Too many attempts. Please try again later.",
	CodeInvalidCredentials:  "Incorrect email or password.",
	CodeNetworkFailed:       "Network error. Please check your connection.",
	CodeTokenExpired:        "Your session has expired. Please sign in again.",
	CodeProviderUnavailable: "Sign-in is temporarily unavailable. Please try again later.",
}

// defaultAuthMessage сообщение для неизвестных кодов, когда нет текста бэкенда.
const defaultAuthMessage = "Authentication failed. Please try again."

// AuthError ошибка аутентификации с дружелюбным сообщением. Для известных
// кодов провайдера текст фиксирован; для прочих используется строка ошибки
// бэкенда, если она есть.
type AuthError struct {
	Code    string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error %s: %s", e.Code, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// newAuthError строит AuthError: дружелюбное сообщение по коду,
// иначе текст бэкенда, иначе общее сообщение.
func newAuthError(code, backendMsg string, err error) *AuthError {
	msg, ok := friendlyAuthMessages[code]
	if !ok {
		msg = backendMsg
	}
	if msg == "" {
		msg = defaultAuthMessage
	}
	return &AuthError{Code: code, Message: msg, Err: err}
}
