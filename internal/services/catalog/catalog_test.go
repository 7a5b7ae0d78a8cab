package catalog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonkuragin/admissions-gateway/internal/apiclient"
	"github.com/antonkuragin/admissions-gateway/internal/models"
)

// fakeCache кэш в памяти для тестов сервиса каталога.
type fakeCache struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	setKeys []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string, result any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, result)
}

func (c *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.setKeys = append(c.setKeys, key)
	return nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService(t *testing.T, handler http.HandlerFunc, cache *fakeCache) *Service {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api := apiclient.New(apiclient.Config{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		Retry: apiclient.RetryConfig{
			MaxRetries:     0,
			RetryDelayBase: time.Millisecond,
			RetryOn:        func(*apiclient.CategorizedError) bool { return false },
		},
	}, newNoopLogger())

	return New(api, cache, 5*time.Minute, newNoopLogger())
}

func TestList_CacheMissFetchesBackend(t *testing.T) {
	var calls int64
	cache := newFakeCache()
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		assert.Equal(t, "/api/universities", r.URL.Path)
		assert.Equal(t, "US", r.URL.Query().Get("country"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"success": true, "data": [{"id": "mit", "name": "MIT", "country": "US"}]}`))
	}, cache)

	filter := models.CatalogFilter{Country: "US", Limit: 10}

	list, err := service.List(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "mit", list[0].ID)

	// результат сохранён в кэш, повторный запрос обслуживается из него
	require.Len(t, cache.setKeys, 1)
	assert.Equal(t, "universities:US::10:0", cache.setKeys[0])

	list, err = service.List(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestList_CacheFailureIsNotFatal(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = assert.AnError
	cache.setErr = assert.AnError

	service := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": [{"id": "mit", "name": "MIT"}]}`))
	}, cache)

	list, err := service.List(context.Background(), models.CatalogFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestList_BackendError(t *testing.T) {
	cache := newFakeCache()
	service := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, cache)

	_, err := service.List(context.Background(), models.CatalogFilter{})
	require.Error(t, err)

	var cerr *apiclient.CategorizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, apiclient.ErrorTypeServer, cerr.Type)
	assert.Empty(t, cache.setKeys)
}

func TestRead_ByID(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/universities/mit", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true, "data": {"id": "mit", "name": "MIT", "ranking": 1}}`))
	}, newFakeCache())

	university, err := service.Read(context.Background(), "mit")
	require.NoError(t, err)
	assert.Equal(t, "MIT", university.Name)
	assert.Equal(t, 1, university.Ranking)
}

func TestRead_NotFound(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, newFakeCache())

	_, err := service.Read(context.Background(), "unknown")
	require.Error(t, err)

	var cerr *apiclient.CategorizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, apiclient.CodeNotFound, cerr.Code)
}
