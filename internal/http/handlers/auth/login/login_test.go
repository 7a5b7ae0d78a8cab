package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/antonkuragin/admissions-gateway/internal/identity"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) SignIn(ctx context.Context, email, password string) (*identity.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*identity.User)
	return user, args.Error(1)
}

func (m *AuthServiceMock) IDToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, authMock)

	user := &identity.User{UID: "uid-1", Email: "user@example.com", DisplayName: "Anton"}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockUser       *identity.User
		mockErr        error
		wantStatusCode int
		wantToken      string
		wantError      string
	}{
		{
			name:           "успешный вход",
			requestBody:    Request{Email: "user@example.com", Password: "password123"},
			mockUser:       user,
			wantStatusCode: http.StatusOK,
			wantToken:      "id-token",
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "отсутствует пароль",
			requestBody:    Request{Email: "user@example.com"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is a required field",
		},
		{
			name:           "некорректный email",
			requestBody:    Request{Email: "not-an-email", Password: "password123"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Email must be a valid email",
		},
		{
			name:           "неверный пароль",
			requestBody:    Request{Email: "user@example.com", Password: "password123"},
			mockErr:        &identity.AuthError{Code: identity.CodeInvalidPassword, Message: "Incorrect password. Please try again."},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "Incorrect password. Please try again.",
		},
		{
			name:           "внутренняя ошибка",
			requestBody:    Request{Email: "user@example.com", Password: "password123"},
			mockErr:        errors.New("manager is not ready"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "could not sign in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if tt.mockUser != nil || tt.mockErr != nil {
				req := tt.requestBody.(Request)
				authMock.On("SignIn", mock.Anything, req.Email, req.Password).
					Return(tt.mockUser, tt.mockErr).Once()
			}
			if tt.mockUser != nil {
				authMock.On("IDToken", mock.Anything).Return("id-token", nil).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, false, got["success"])
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
				return
			}

			assert.Equal(t, true, got["success"])
			data, ok := got["data"].(map[string]any)
			assert.True(t, ok)
			assert.Equal(t, tt.wantToken, data["token"])

			gotUser, ok := data["user"].(map[string]any)
			assert.True(t, ok)
			assert.Equal(t, tt.mockUser.UID, gotUser["uid"])
			assert.Equal(t, tt.mockUser.Email, gotUser["email"])

			authMock.AssertExpectations(t)
		})
	}
}
