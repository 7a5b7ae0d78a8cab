package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/antonkuragin/admissions-gateway/internal/apiclient"
	"github.com/antonkuragin/admissions-gateway/internal/lib/sl"
)

// State фаза жизненного цикла менеджера.
type State int

// Фазы инициализации менеджера.
const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
)

// refreshLeeway запас до истечения токена, после которого он обновляется.
const refreshLeeway = time.Minute

// listener подписчик на смену состояния аутентификации.
type listener struct {
	id uuid.UUID
	fn func(*User)
}

// Manager владеет текущей сессией и пользователем. Инициализация загружает
// конфигурацию провайдера с бэкенда; её сбой терминален для экземпляра.
// Слушатели уведомляются в порядке регистрации, паника одного слушателя
// не мешает остальным.
type Manager struct {
	api         *apiclient.Client
	log         *slog.Logger
	newProvider func(ProviderConfig) Provider
	validate    *validator.Validate

	mu          sync.Mutex
	state       State
	failed      bool
	providerCfg *ProviderConfig
	provider    Provider
	session     *Session
	current     *User
	listeners   []listener
}

// Option настройка менеджера при создании.
type Option func(*Manager)

// WithProviderFactory подменяет фабрику identity-провайдера (для тестов).
func WithProviderFactory(f func(ProviderConfig) Provider) Option {
	return func(m *Manager) {
		m.newProvider = f
	}
}

// NewManager создаёт менеджер в состоянии Uninitialized.
// Инициализацию запускает Start.
func NewManager(api *apiclient.Client, log *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		api:         api,
		log:         log,
		newProvider: NewRESTProvider,
		validate:    validator.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start выполняет инициализацию: загружает конфигурацию провайдера с бэкенда,
// валидирует обязательные поля и создаёт клиента провайдера. Ошибка
// терминальна: менеджер помечается сбойным, слушатели уведомляются nil,
// повторных попыток нет.
func (m *Manager) Start(ctx context.Context) error {
	const op = "identity.Start"

	m.mu.Lock()
	if m.state != StateUninitialized {
		m.mu.Unlock()
		return fmt.Errorf("%s: already started", op)
	}
	m.state = StateInitializing
	m.mu.Unlock()

	cfg, err := apiclient.Get[ProviderConfig](ctx, m.api, "/api/config/identity", &apiclient.RequestOptions{SkipAuth: true})
	if err == nil {
		err = m.validate.Struct(cfg)
	}
	if err != nil {
		m.mu.Lock()
		m.failed = true
		m.mu.Unlock()
		m.notifyAll(nil)
		m.log.Error("identity manager initialization failed", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	m.providerCfg = &cfg
	m.provider = m.newProvider(cfg)
	m.state = StateReady
	m.mu.Unlock()

	m.log.Info("identity manager ready",
		slog.String("op", op),
		slog.String("project_id", cfg.ProjectID),
		sl.Secret("api_key", cfg.APIKey))
	m.notifyAll(nil)
	return nil
}

// OnAuthStateChanged регистрирует слушателя. До завершения инициализации
// первый вызов откладывается; после — слушатель вызывается сразу с текущим
// пользователем. Возвращает идемпотентную функцию отписки.
func (m *Manager) OnAuthStateChanged(fn func(*User)) func() {
	m.mu.Lock()
	id := uuid.New()
	m.listeners = append(m.listeners, listener{id: id, fn: fn})
	ready := m.state == StateReady || m.failed
	var current *User
	if !m.failed {
		current = m.current
	}
	m.mu.Unlock()

	if ready {
		m.invoke(fn, current)
	}

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// SignIn аутентифицирует по email и паролю через провайдера, затем
// обменивает ID-токен на каноничного пользователя бэкенда. Сбой обмена
// деградирует до локального пользователя из сессии провайдера.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*User, error) {
	const op = "identity.SignIn"

	provider, err := m.requireReady(op)
	if err != nil {
		return nil, err
	}
	sess, err := provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.adoptSession(ctx, sess, "/api/auth/signin", map[string]any{"idToken": sess.IDToken}, false)
}

// SignUp создаёт учётную запись у провайдера, выставляет отображаемое имя
// и пытается зарегистрировать пользователя на бэкенде. Регистрация на
// бэкенде необязательна: при её сбое возвращается локальный пользователь.
func (m *Manager) SignUp(ctx context.Context, email, password, displayName string) (*User, error) {
	const op = "identity.SignUp"

	provider, err := m.requireReady(op)
	if err != nil {
		return nil, err
	}
	sess, err := provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if displayName != "" {
		if err := provider.UpdateProfile(ctx, sess.IDToken, displayName); err != nil {
			m.log.Warn("failed to set display name", slog.String("op", op), sl.Err(err))
		}
		sess.DisplayName = displayName
	}
	return m.adoptSession(ctx, sess, "/api/auth/signin", map[string]any{"idToken": sess.IDToken}, false)
}

// SignInWithGoogle входит через Google OAuth и обменивает токен на
// выделенной конечной точке бэкенда. В отличие от входа по паролю,
// сбой обмена здесь громкий: у OAuth-входа нет локального аналога
// регистрации, поэтому деградировать не во что.
func (m *Manager) SignInWithGoogle(ctx context.Context, googleToken string) (*User, error) {
	const op = "identity.SignInWithGoogle"

	provider, err := m.requireReady(op)
	if err != nil {
		return nil, err
	}
	sess, err := provider.SignInWithIDP(ctx, "google.com", googleToken)
	if err != nil {
		return nil, err
	}
	return m.adoptSession(ctx, sess, "/api/auth/oauth", map[string]any{
		"idToken":  sess.IDToken,
		"provider": "google",
	}, true)
}

// SignOut завершает сессию: лучшая попытка уведомить бэкенд (сбой только
// логируется), затем атомарная очистка сессии и уведомление слушателей nil.
func (m *Manager) SignOut(ctx context.Context) {
	const op = "identity.SignOut"

	m.mu.Lock()
	sess := m.session
	m.mu.Unlock()

	if sess != nil {
		notifyCtx := apiclient.WithBearer(ctx, sess.IDToken)
		if _, err := m.api.Post(notifyCtx, "/api/auth/signout", nil, nil); err != nil {
			m.log.Warn("backend signout notification failed", slog.String("op", op), sl.Err(err))
		}
	}

	m.mu.Lock()
	m.session = nil
	m.current = nil
	m.mu.Unlock()

	m.log.Info("signed out", slog.String("op", op))
	m.notifyAll(nil)
}

// IDToken возвращает свежий bearer-токен текущей сессии, обновляя его через
// провайдера при близком истечении. Пустая строка означает, что сессии нет.
// Реализует apiclient.TokenSource.
func (m *Manager) IDToken(ctx context.Context) (string, error) {
	const op = "identity.IDToken"

	m.mu.Lock()
	sess := m.session
	provider := m.provider
	m.mu.Unlock()

	if sess == nil {
		return "", nil
	}
	if time.Until(sess.ExpiresAt) > refreshLeeway {
		return sess.IDToken, nil
	}

	refreshed, err := provider.RefreshSession(ctx, sess.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	m.mu.Lock()
	// сессия могла смениться за время обновления — чужую не трогаем
	if m.session == sess {
		refreshed.Email = sess.Email
		refreshed.DisplayName = sess.DisplayName
		refreshed.PhotoURL = sess.PhotoURL
		m.session = refreshed
		sess = refreshed
	} else {
		sess = m.session
	}
	token := ""
	if sess != nil {
		token = sess.IDToken
	}
	m.mu.Unlock()
	return token, nil
}

// GetCurrentUser возвращает снимок текущего пользователя или nil.
func (m *Manager) GetCurrentUser() *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// IsAuthenticationAvailable сообщает, загружена ли конфигурация провайдера.
func (m *Manager) IsAuthenticationAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.providerCfg != nil
}

// State возвращает текущую фазу менеджера.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// requireReady возвращает провайдера, если инициализация завершена.
func (m *Manager) requireReady(op string) (Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateReady || m.provider == nil {
		return nil, fmt.Errorf("%s: identity manager is not ready", op)
	}
	return m.provider, nil
}

// adoptSession обменивает ID-токен сессии на каноничного пользователя
// бэкенда. При strict сбой обмена возвращается вызывающему; иначе
// происходит деградация до локального пользователя из сессии провайдера.
// Состояние обновляется атомарно, затем уведомляются слушатели.
func (m *Manager) adoptSession(ctx context.Context, sess *Session, endpoint string, body map[string]any, strict bool) (*User, error) {
	const op = "identity.adoptSession"

	user, err := apiclient.Post[*User](ctx, m.api, endpoint, body, &apiclient.RequestOptions{SkipAuth: true})
	if err != nil || user == nil {
		if err == nil {
			err = errors.New("empty backend response")
		}
		if strict {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		m.log.Warn("session exchange failed, using provider-derived user", slog.String("op", op), sl.Err(err))
		user = userFromSession(sess)
	}

	m.mu.Lock()
	m.session = sess
	m.current = user
	m.mu.Unlock()

	m.log.Info("session adopted", slog.String("op", op), slog.String("uid", user.UID))
	m.notifyAll(user)
	return user, nil
}

// notifyAll уведомляет слушателей в порядке регистрации. Снимок списка
// берётся под блокировкой, вызовы идут вне её; паника слушателя гасится.
func (m *Manager) notifyAll(user *User) {
	m.mu.Lock()
	snapshot := make([]listener, len(m.listeners))
	copy(snapshot, m.listeners)
	m.mu.Unlock()

	for _, l := range snapshot {
		m.invoke(l.fn, user)
	}
}

func (m *Manager) invoke(fn func(*User), user *User) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("auth state listener panicked", slog.Any("panic", r))
		}
	}()
	fn(user)
}
