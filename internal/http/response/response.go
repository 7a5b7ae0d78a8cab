// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Все ответы шлюза следуют
// конверту `{success, data, message, error}` — тому же формату, который
// отдаёт бэкенд и ожидает веб-клиент.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Envelope описывает стандартную структуру JSON‑ответа шлюза.
// Поле Success — признак успешности запроса.
// Поле Data — данные ответа (опционально, при успехе).
// Поле Message — человекочитаемое сообщение (опционально).
// Поле Error — текст ошибки (опционально, при неуспехе).
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"invalid request body"`
}

// OKWithData возвращает успешный Envelope с переданными данными.
func OKWithData(data any) Envelope {
	return Envelope{
		Success: true,
		Data:    data,
	}
}

// Error возвращает Envelope с ошибкой и переданным сообщением.
func Error(msg string) Envelope {
	return Envelope{
		Success: false,
		Error:   msg,
	}
}

// ValidationError формирует Envelope с ошибкой на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Envelope {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too short or too small", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long or too large", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Envelope{
		Success: false,
		Error:   strings.Join(errsMsgs, ", "),
	}
}
