package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonkuragin/admissions-gateway/internal/apiclient"
)

func TestOKWithData(t *testing.T) {
	env := OKWithData(map[string]string{"id": "1"})

	assert.True(t, env.Success)
	assert.Equal(t, map[string]string{"id": "1"}, env.Data)
	assert.Empty(t, env.Error)
}

func TestError(t *testing.T) {
	env := Error("something broke")

	assert.False(t, env.Success)
	assert.Equal(t, "something broke", env.Error)
	assert.Nil(t, env.Data)
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=6"`
	}

	errs := validator.New().Struct(payload{Email: "not-an-email", Password: ""})
	require.Error(t, errs)

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, errs, &validationErrs)

	env := ValidationError(validationErrs)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "field Email must be a valid email")
	assert.Contains(t, env.Error, "field Password is a required field")
}

func TestFromError(t *testing.T) {
	categorized := func(typ apiclient.ErrorType, code string) error {
		return fmt.Errorf("wrapped: %w", &apiclient.CategorizedError{
			Type:    typ,
			Code:    code,
			Message: "friendly message",
		})
	}

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "ошибка аутентификации",
			err:            categorized(apiclient.ErrorTypeAuthentication, apiclient.CodeUnauthenticated),
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "friendly message",
		},
		{
			name:           "ошибка авторизации",
			err:            categorized(apiclient.ErrorTypeAuthorization, apiclient.CodeForbidden),
			expectedStatus: http.StatusForbidden,
			expectedError:  "friendly message",
		},
		{
			name:           "ресурс не найден",
			err:            categorized(apiclient.ErrorTypeValidation, apiclient.CodeNotFound),
			expectedStatus: http.StatusNotFound,
			expectedError:  "friendly message",
		},
		{
			name:           "конфликт",
			err:            categorized(apiclient.ErrorTypeValidation, apiclient.CodeConflict),
			expectedStatus: http.StatusConflict,
			expectedError:  "friendly message",
		},
		{
			name:           "превышен лимит запросов",
			err:            categorized(apiclient.ErrorTypeValidation, apiclient.CodeRateLimit),
			expectedStatus: http.StatusTooManyRequests,
			expectedError:  "friendly message",
		},
		{
			name:           "ошибка валидации",
			err:            categorized(apiclient.ErrorTypeValidation, apiclient.CodeUnprocessable),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "friendly message",
		},
		{
			name:           "серверная ошибка бэкенда",
			err:            categorized(apiclient.ErrorTypeServer, apiclient.CodeServerError),
			expectedStatus: http.StatusBadGateway,
			expectedError:  "friendly message",
		},
		{
			name:           "сетевая ошибка",
			err:            categorized(apiclient.ErrorTypeNetwork, apiclient.CodeTimeout),
			expectedStatus: http.StatusGatewayTimeout,
			expectedError:  "friendly message",
		},
		{
			name:           "некатегоризированная ошибка",
			err:            errors.New("plain error"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "fallback text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := FromError(tt.err, "fallback text")

			assert.Equal(t, tt.expectedStatus, status)
			assert.False(t, env.Success)
			assert.Equal(t, tt.expectedError, env.Error)
		})
	}
}
