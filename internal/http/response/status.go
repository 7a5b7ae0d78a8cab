package response

import (
	"errors"
	"net/http"

	"github.com/antonkuragin/admissions-gateway/internal/apiclient"
)

// FromError приводит ошибку вызова бэкенда к HTTP-статусу шлюза и конверту
// с дружелюбным сообщением. Для некатегоризированных ошибок возвращается
// 500 с переданным запасным текстом.
func FromError(err error, fallbackMsg string) (int, Envelope) {
	var cerr *apiclient.CategorizedError
	if !errors.As(err, &cerr) {
		return http.StatusInternalServerError, Error(fallbackMsg)
	}

	status := http.StatusInternalServerError
	switch cerr.Type {
	case apiclient.ErrorTypeAuthentication:
		status = http.StatusUnauthorized
	case apiclient.ErrorTypeAuthorization:
		status = http.StatusForbidden
	case apiclient.ErrorTypeValidation:
		switch cerr.Code {
		case apiclient.CodeNotFound:
			status = http.StatusNotFound
		case apiclient.CodeConflict:
			status = http.StatusConflict
		case apiclient.CodeRateLimit:
			status = http.StatusTooManyRequests
		default:
			status = http.StatusUnprocessableEntity
		}
	case apiclient.ErrorTypeServer:
		status = http.StatusBadGateway
	case apiclient.ErrorTypeNetwork:
		status = http.StatusGatewayTimeout
	}
	return status, Error(cerr.Message)
}
