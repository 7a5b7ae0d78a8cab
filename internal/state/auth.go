package state

import (
	"sync"

	"github.com/google/uuid"

	"github.com/antonkuragin/admissions-gateway/internal/identity"
)

// AuthState наблюдаемая проекция менеджера идентификации:
// один экземпляр на сессию приложения.
type AuthState struct {
	User    *identity.User
	Loading bool
	Error   string
}

type authSubscriber struct {
	id uuid.UUID
	fn func(AuthState)
}

// AuthAdapter подписывается на менеджер идентификации и раздаёт его
// состояние своим подписчикам. Loading снимается первым уведомлением
// менеджера — после завершения его инициализации.
type AuthAdapter struct {
	mu     sync.Mutex
	state  AuthState
	subs   []authSubscriber
	unsub  func()
	closed bool
}

// NewAuthAdapter создаёт адаптер и подписывается на менеджер.
func NewAuthAdapter(m *identity.Manager) *AuthAdapter {
	a := &AuthAdapter{state: AuthState{Loading: true}}
	a.unsub = m.OnAuthStateChanged(func(user *identity.User) {
		a.set(AuthState{User: user, Loading: false})
	})
	return a
}

// Current возвращает текущее состояние аутентификации.
func (a *AuthAdapter) Current() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Subscribe регистрирует подписчика и сразу вызывает его с текущим
// состоянием. Возвращает идемпотентную функцию отписки.
func (a *AuthAdapter) Subscribe(fn func(AuthState)) func() {
	a.mu.Lock()
	id := uuid.New()
	a.subs = append(a.subs, authSubscriber{id: id, fn: fn})
	state := a.state
	a.mu.Unlock()

	fn(state)

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		for i, s := range a.subs {
			if s.id == id {
				a.subs = append(a.subs[:i], a.subs[i+1:]...)
				return
			}
		}
	}
}

// Close отписывается от менеджера; дальнейшие обновления не доставляются.
func (a *AuthAdapter) Close() {
	a.mu.Lock()
	a.closed = true
	a.subs = nil
	unsub := a.unsub
	a.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (a *AuthAdapter) set(state AuthState) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.state = state
	subs := make([]authSubscriber, len(a.subs))
	copy(subs, a.subs)
	a.mu.Unlock()

	for _, s := range subs {
		s.fn(state)
	}
}
