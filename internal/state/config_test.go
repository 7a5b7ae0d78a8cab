package state

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

	"github.com/antonkuragin/admissions-gateway/internal/remoteconfig"
)

func TestConfigAdapter_LoadPublishesConfig(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&calls, 1)
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"stripe": {"publishableKey": "pk_live_abc", "currency": "usd", "country": "US"},
				"api": {"baseUrl": "https://api.example.com", "version": "v1", "timeout": 30000},
				"features": {"payments": true}
			}
		}`))
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	fetcher := remoteconfig.New(srv.URL, "", logger)
	adapter := NewConfigAdapter(fetcher)
	defer adapter.Close()

	adapter.Load(context.Background())

	require.Eventually(t, func() bool {
		snap := adapter.Current()
		return !snap.Loading && snap.Data != nil
	}, time.Second, 10*time.Millisecond)

	snap := adapter.Current()
	require.NoError(t, snap.Err)
	assert.Equal(t, "pk_live_abc", snap.Data.Stripe.PublishableKey)

	// повторная загрузка отдаёт кэш фетчера без нового запроса
	adapter.Load(context.Background())
	require.Eventually(t, func() bool {
		return !adapter.Current().Loading
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}
