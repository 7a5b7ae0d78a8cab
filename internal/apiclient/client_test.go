package apiclient

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestClient(baseURL string) *Client {
	return New(Config{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Retry: RetryConfig{
			MaxRetries:     1,
			RetryDelayBase: 10 * time.Millisecond,
			RetryOn: func(err *CategorizedError) bool {
				return err.Type == ErrorTypeServer
			},
		},
	}, newTestLogger())
}

type staticTokens struct {
	token string
}

func (s *staticTokens) IDToken(context.Context) (string, error) {
	return s.token, nil
}

func TestClient_RetriesOnServerError(t *testing.T) {
	var attempts int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt64(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"success": true, "data": {"value": 42}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	result, err := Get[map[string]int](context.Background(), client, "/api/resource", nil)
	require.NoError(t, err)
	assert.Equal(t, 42, result["value"])
	assert.Equal(t, int64(2), atomic.LoadInt64(&attempts))
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	var attempts int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&attempts, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.Get(context.Background(), "/api/resource", nil)
	require.Error(t, err)

	var cerr *CategorizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrorTypeValidation, cerr.Type)
	assert.Equal(t, CodeNotFound, cerr.Code)
	assert.Equal(t, int64(1), atomic.LoadInt64(&attempts))
}

func TestClient_NoRetryOnNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.Get(context.Background(), "/api/resource", nil)
	require.Error(t, err)

	var cerr *CategorizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrorTypeNetwork, cerr.Type)
	assert.NotEmpty(t, cerr.Message)
}

func TestClient_ErrorCategorization(t *testing.T) {
	tests := []struct {
		status       int
		expectedType ErrorType
		expectedCode string
	}{
		{http.StatusUnauthorized, ErrorTypeAuthentication, CodeUnauthenticated},
		{http.StatusForbidden, ErrorTypeAuthorization, CodeForbidden},
		{http.StatusBadRequest, ErrorTypeValidation, CodeBadRequest},
		{http.StatusUnprocessableEntity, ErrorTypeValidation, CodeUnprocessable},
		{http.StatusInternalServerError, ErrorTypeServer, CodeServerError},
		{http.StatusNotFound, ErrorTypeValidation, CodeNotFound},
		{http.StatusConflict, ErrorTypeValidation, CodeConflict},
		{http.StatusTooManyRequests, ErrorTypeValidation, CodeRateLimit},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"success": false, "error": "raw backend text"}`))
			}))
			defer srv.Close()

			client := newTestClient(srv.URL)
			client.SetRetryConfig(RetryConfig{
				MaxRetries:     0,
				RetryDelayBase: time.Millisecond,
				RetryOn:        func(*CategorizedError) bool { return false },
			})

			_, err := client.Get(context.Background(), "/api/resource", nil)
			require.Error(t, err)

			var cerr *CategorizedError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.expectedType, cerr.Type)
			assert.Equal(t, tt.expectedCode, cerr.Code)
			// сообщение фиксированное, текст бэкенда в него не попадает
			assert.NotEmpty(t, cerr.Message)
			assert.NotEqual(t, "raw backend text", cerr.Message)
		})
	}
}

func TestClient_EnvelopeFailureOnHTTP200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "message": "stale data"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.Post(context.Background(), "/api/profile/update", map[string]string{"name": "x"}, nil)
	require.Error(t, err)

	var cerr *CategorizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrorTypeUnknown, cerr.Type)
	assert.Equal(t, "stale data", cerr.Message)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success": true, "data": {}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	client.SetTokenSource(&staticTokens{token: "session-token"})

	_, err := client.Get(context.Background(), "/api/resource", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer session-token", gotAuth.Load())

	// токен из контекста имеет приоритет над TokenSource
	_, err = client.Get(WithBearer(context.Background(), "caller-token"), "/api/resource", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer caller-token", gotAuth.Load())

	// SkipAuth отключает подстановку
	_, err = client.Get(context.Background(), "/api/resource", &RequestOptions{SkipAuth: true})
	require.NoError(t, err)
	assert.Equal(t, "", gotAuth.Load())
}

func TestClient_MissingTokenIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success": true, "data": {}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	// TokenSource не задан: запрос уходит без авторизации

	_, err := client.Get(context.Background(), "/api/resource", nil)
	require.NoError(t, err)
}

func TestClient_AbortedRequestIsNotRetried(t *testing.T) {
	var attempts int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&attempts, 1)
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, "/api/resource", nil)
	require.Error(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&attempts))
}

func TestClient_SetBaseURL(t *testing.T) {
	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": "first"}`))
	}))
	defer first.Close()
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": "second"}`))
	}))
	defer second.Close()

	client := newTestClient(first.URL)

	got, err := Get[string](context.Background(), client, "/api/resource", nil)
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	client.SetBaseURL(second.URL)
	assert.Equal(t, second.URL, client.BaseURL())

	got, err = Get[string](context.Background(), client, "/api/resource", nil)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}
