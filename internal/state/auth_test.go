package state

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonkuragin/admissions-gateway/internal/apiclient"
	"github.com/antonkuragin/admissions-gateway/internal/identity"
)

// stubProvider минимальный identity-провайдер для тестов адаптера.
type stubProvider struct {
	session *identity.Session
}

func (p *stubProvider) SignInWithPassword(context.Context, string, string) (*identity.Session, error) {
	return p.session, nil
}

func (p *stubProvider) SignUp(context.Context, string, string) (*identity.Session, error) {
	return p.session, nil
}

func (p *stubProvider) UpdateProfile(context.Context, string, string) error {
	return nil
}

func (p *stubProvider) SignInWithIDP(context.Context, string, string) (*identity.Session, error) {
	return p.session, nil
}

func (p *stubProvider) RefreshSession(context.Context, string) (*identity.Session, error) {
	return p.session, nil
}

func newReadyManager(t *testing.T) *identity.Manager {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/config/identity", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": {"apiKey": "k", "authDomain": "d.example.com", "projectId": "p"}}`))
	})
	mux.HandleFunc("/api/auth/signin", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": {"uid": "backend-uid", "email": "user@example.com"}}`))
	})
	mux.HandleFunc("/api/auth/signout", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": true}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	api := apiclient.New(apiclient.Config{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		Retry: apiclient.RetryConfig{
			MaxRetries:     0,
			RetryDelayBase: time.Millisecond,
			RetryOn:        func(*apiclient.CategorizedError) bool { return false },
		},
	}, logger)

	provider := &stubProvider{session: &identity.Session{
		UID:          "provider-uid",
		Email:        "user@example.com",
		IDToken:      "id-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
	}}
	manager := identity.NewManager(api, logger, identity.WithProviderFactory(func(identity.ProviderConfig) identity.Provider {
		return provider
	}))
	require.NoError(t, manager.Start(context.Background()))
	return manager
}

func TestAuthAdapter_InitialState(t *testing.T) {
	manager := newReadyManager(t)
	adapter := NewAuthAdapter(manager)
	defer adapter.Close()

	// менеджер уже инициализирован: загрузка снята, пользователя нет
	current := adapter.Current()
	assert.False(t, current.Loading)
	assert.Nil(t, current.User)

	var got AuthState
	adapter.Subscribe(func(s AuthState) {
		got = s
	})
	assert.Equal(t, current, got)
}

func TestAuthAdapter_SignInNotifiesSubscribers(t *testing.T) {
	manager := newReadyManager(t)
	adapter := NewAuthAdapter(manager)
	defer adapter.Close()

	var states []AuthState
	adapter.Subscribe(func(s AuthState) {
		states = append(states, s)
	})

	user, err := manager.SignIn(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)

	require.Len(t, states, 2)
	assert.Nil(t, states[0].User)
	assert.Equal(t, user, states[1].User)
	assert.Equal(t, user, adapter.Current().User)

	manager.SignOut(context.Background())
	require.Len(t, states, 3)
	assert.Nil(t, states[2].User)
}

func TestAuthAdapter_CloseStopsUpdates(t *testing.T) {
	manager := newReadyManager(t)
	adapter := NewAuthAdapter(manager)

	calls := 0
	adapter.Subscribe(func(AuthState) {
		calls++
	})
	require.Equal(t, 1, calls)

	adapter.Close()

	_, err := manager.SignIn(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Nil(t, adapter.Current().User)
}
