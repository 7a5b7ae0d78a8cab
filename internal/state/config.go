package state

import (
	"context"

	"github.com/antonkuragin/admissions-gateway/internal/remoteconfig"
)

// ConfigAdapter наблюдаемая обёртка над remoteconfig.Fetcher. Уже
// загруженная конфигурация публикуется без нового сетевого запроса —
// короткое замыкание обеспечивает кэш самого Fetcher.
type ConfigAdapter struct {
	fetcher *remoteconfig.Fetcher
	res     *Resource[*remoteconfig.ClientConfig]
}

// NewConfigAdapter создаёт адаптер поверх Fetcher.
func NewConfigAdapter(f *remoteconfig.Fetcher) *ConfigAdapter {
	return &ConfigAdapter{
		fetcher: f,
		res:     NewResource[*remoteconfig.ClientConfig](),
	}
}

// Load публикует конфигурацию подписчикам: из кэша, если она загружена,
// иначе через Load фетчера.
func (a *ConfigAdapter) Load(ctx context.Context) {
	a.res.Execute(ctx, func(ctx context.Context) (*remoteconfig.ClientConfig, error) {
		return a.fetcher.Load(ctx), nil
	})
}

// Subscribe регистрирует подписчика на снимки конфигурации.
func (a *ConfigAdapter) Subscribe(fn func(Snapshot[*remoteconfig.ClientConfig])) func() {
	return a.res.Subscribe(fn)
}

// Current возвращает текущий снимок конфигурации.
func (a *ConfigAdapter) Current() Snapshot[*remoteconfig.ClientConfig] {
	return a.res.Snapshot()
}

// Close прекращает уведомления подписчиков.
func (a *ConfigAdapter) Close() {
	a.res.Close()
}
