// Package state содержит адаптеры наблюдаемого состояния: проекции
// компонентов доступа к API на тройку {данные, загрузка, ошибка}
// с подпиской и отпиской. После отписки или закрытия адаптера
// обновления подписчику не доставляются.
package state

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Snapshot наблюдаемое состояние асинхронной операции.
type Snapshot[T any] struct {
	Data    T
	Loading bool
	Err     error
}

type subscriber[T any] struct {
	id uuid.UUID
	fn func(Snapshot[T])
}

// Resource наблюдаемый результат асинхронной операции. Повторный Execute
// отменяет и вытесняет предыдущий незавершённый вызов: публикуется только
// результат последнего.
type Resource[T any] struct {
	mu     sync.Mutex
	snap   Snapshot[T]
	subs   []subscriber[T]
	cancel context.CancelFunc
	gen    uint64
	closed bool
}

// NewResource создаёт пустой ресурс без данных и загрузки.
func NewResource[T any]() *Resource[T] {
	return &Resource[T]{}
}

// Subscribe регистрирует подписчика и сразу вызывает его с текущим
// снимком. Возвращает идемпотентную функцию отписки.
func (r *Resource[T]) Subscribe(fn func(Snapshot[T])) func() {
	r.mu.Lock()
	id := uuid.New()
	r.subs = append(r.subs, subscriber[T]{id: id, fn: fn})
	snap := r.snap
	r.mu.Unlock()

	fn(snap)

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, s := range r.subs {
			if s.id == id {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

// Snapshot возвращает текущий снимок состояния.
func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// Execute запускает операцию и публикует её результат. Предыдущая
// незавершённая операция отменяется через контекст, её результат
// отбрасывается — гонки между вызовами исключены поколением запроса.
func (r *Resource[T]) Execute(ctx context.Context, fn func(context.Context) (T, error)) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if r.cancel != nil {
		r.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.gen++
	gen := r.gen
	r.snap.Loading = true
	r.snap.Err = nil
	snap := r.snap
	subs := r.subscribersLocked()
	r.mu.Unlock()

	notify(subs, snap)

	go func() {
		data, err := fn(runCtx)
		if runCtx.Err() != nil {
			// вызов вытеснен или ресурс закрыт: результат не публикуется
			return
		}
		r.publish(gen, data, err)
	}()
}

// Close отменяет текущую операцию и прекращает любые уведомления.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.subs = nil
}

func (r *Resource[T]) publish(gen uint64, data T, err error) {
	r.mu.Lock()
	if r.closed || gen != r.gen {
		r.mu.Unlock()
		return
	}
	if err != nil {
		r.snap.Err = err
	} else {
		r.snap.Data = data
		r.snap.Err = nil
	}
	r.snap.Loading = false
	snap := r.snap
	subs := r.subscribersLocked()
	r.mu.Unlock()

	notify(subs, snap)
}

func (r *Resource[T]) subscribersLocked() []subscriber[T] {
	subs := make([]subscriber[T], len(r.subs))
	copy(subs, r.subs)
	return subs
}

func notify[T any](subs []subscriber[T], snap Snapshot[T]) {
	for _, s := range subs {
		s.fn(snap)
	}
}
