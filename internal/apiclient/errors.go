// Package apiclient реализует HTTP-клиент к бэкенду приёмной кампании:
// четыре глагола GET/POST/PUT/DELETE через единый исполнитель с повторами,
// подстановкой bearer-токена и категоризацией ошибок.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorType категория ошибки запроса к бэкенду.
type ErrorType string

// Категории ошибок клиента. Каждая категория несёт фиксированное
// человекочитаемое сообщение, не зависящее от текста бэкенда.
const (
	ErrorTypeNetwork        ErrorType = "NETWORK"
	ErrorTypeAuthentication ErrorType = "AUTHENTICATION"
	ErrorTypeAuthorization  ErrorType = "AUTHORIZATION"
	ErrorTypeValidation     ErrorType = "VALIDATION"
	ErrorTypeServer         ErrorType = "SERVER"
	ErrorTypeUnknown        ErrorType = "UNKNOWN"
)

// Коды ошибок внутри категорий.
const (
	CodeTimeout          = "TIMEOUT"
	CodeConnectionFailed = "CONNECTION_FAILED"
	CodeNetworkError     = "NETWORK_ERROR"
	CodeAborted          = "ABORTED"
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeForbidden        = "FORBIDDEN"
	CodeBadRequest       = "BAD_REQUEST"
	CodeUnprocessable    = "UNPROCESSABLE_ENTITY"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeRateLimit        = "RATE_LIMIT"
	CodeServerError      = "SERVER_ERROR"
	CodeAPIError         = "API_ERROR"
	CodeUnknown          = "UNKNOWN_ERROR"
)

// CategorizedError ошибка запроса, приведённая к одной из шести категорий.
// Message всегда заполнено дружелюбным текстом для показа пользователю;
// исходная ошибка доступна через Unwrap.
type CategorizedError struct {
	Type    ErrorType
	Code    string
	Message string
	Err     error
}

func (e *CategorizedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Type, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (%s): %s", e.Type, e.Code, e.Message)
}

func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// friendlyMessages фиксированные сообщения для пользователя по коду ошибки.
// Текст бэкенда используется только как запасной вариант для UNKNOWN.
var friendlyMessages = map[string]string{
	CodeTimeout:          "The request timed out. Please try again.",
	CodeConnectionFailed: "Unable to reach the server. Please check your connection.",
	CodeNetworkError:     "A network error occurred. Please try again.",
	CodeAborted:          "The request was cancelled.",
	CodeUnauthenticated:  "Please sign in to continue.",
	CodeForbidden:        "You do not have permission to perform this action.",
	CodeBadRequest:       "The request contains invalid data.",
	CodeUnprocessable:    "Some fields are invalid. Please review and try again.",
	CodeNotFound:         "The requested resource was not found.",
	CodeConflict:         "This action conflicts with the current state. Please refresh and try again.",
	CodeRateLimit:        "Too many requests. Please wait a moment and try again.",
	CodeServerError:      "Something went wrong on our side. Please try again later.",
	CodeUnknown:          "An unexpected error occurred.",
}

func newCategorized(t ErrorType, code string, err error) *CategorizedError {
	return &CategorizedError{
		Type:    t,
		Code:    code,
		Message: friendlyMessages[code],
		Err:     err,
	}
}

// categorizeStatus сопоставляет HTTP-статус категории и коду:
// 401 — AUTHENTICATION, 403 — AUTHORIZATION, 400/422/404/409/429 — VALIDATION,
// 5xx — SERVER, остальное — UNKNOWN с текстом бэкенда как запасным сообщением.
func categorizeStatus(status int, backendMsg string) *CategorizedError {
	err := fmt.Errorf("unexpected status %d: %s", status, backendMsg)
	switch {
	case status == 401:
		return newCategorized(ErrorTypeAuthentication, CodeUnauthenticated, err)
	case status == 403:
		return newCategorized(ErrorTypeAuthorization, CodeForbidden, err)
	case status == 400:
		return newCategorized(ErrorTypeValidation, CodeBadRequest, err)
	case status == 422:
		return newCategorized(ErrorTypeValidation, CodeUnprocessable, err)
	case status == 404:
		return newCategorized(ErrorTypeValidation, CodeNotFound, err)
	case status == 409:
		return newCategorized(ErrorTypeValidation, CodeConflict, err)
	case status == 429:
		return newCategorized(ErrorTypeValidation, CodeRateLimit, err)
	case status >= 500:
		return newCategorized(ErrorTypeServer, CodeServerError, err)
	default:
		cerr := newCategorized(ErrorTypeUnknown, CodeUnknown, err)
		if backendMsg != "" {
			cerr.Message = backendMsg
		}
		return cerr
	}
}

// categorizeTransport сопоставляет ошибку транспортного уровня (ответ не получен)
// категории NETWORK: таймаут, отказ соединения/DNS или прочая сетевая ошибка.
func categorizeTransport(err error) *CategorizedError {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return newCategorized(ErrorTypeNetwork, CodeAborted, err)
	case errors.Is(err, context.DeadlineExceeded):
		return newCategorized(ErrorTypeNetwork, CodeTimeout, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return newCategorized(ErrorTypeNetwork, CodeTimeout, err)
	}
	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) {
		return newCategorized(ErrorTypeNetwork, CodeConnectionFailed, err)
	}
	return newCategorized(ErrorTypeNetwork, CodeNetworkError, err)
}

// categorizeEnvelope формирует ошибку для ответа с success:false —
// даже при HTTP 200 такой ответ считается ошибкой с текстом бэкенда.
func categorizeEnvelope(backendMsg string) *CategorizedError {
	cerr := newCategorized(ErrorTypeUnknown, CodeAPIError, fmt.Errorf("backend reported failure: %s", backendMsg))
	if backendMsg != "" {
		cerr.Message = backendMsg
	} else {
		cerr.Message = friendlyMessages[CodeUnknown]
	}
	return cerr
}
