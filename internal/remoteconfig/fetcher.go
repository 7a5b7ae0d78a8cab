package remoteconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator"
	"golang.org/x/sync/singleflight"

	"github.com/antonkuragin/admissions-gateway/internal/lib/sl"
)

// fetchTimeout жёсткий таймаут загрузки конфигурации.
const fetchTimeout = 10 * time.Second

// flightKey ключ single-flight: конфигурация одна на процесс.
const flightKey = "client-config"

// Fetcher загружает и кэширует клиентскую конфигурацию. Конкурентные вызовы
// Load во время загрузки объединяются в один сетевой запрос (single-flight),
// закэшированное значение считается неизменяемым и заменяется только целиком
// через Clear + повторный Load.
type Fetcher struct {
	backendURL  string
	fallbackKey string
	httpClient  *http.Client
	validate    *validator.Validate
	log         *slog.Logger

	group singleflight.Group

	mu     sync.RWMutex
	cached *ClientConfig
}

// New создаёт Fetcher. backendURL — адрес бэкенда, fallbackKey — резервный
// publishable key из окружения для fallback-конфигурации.
func New(backendURL, fallbackKey string, log *slog.Logger) *Fetcher {
	return &Fetcher{
		backendURL:  backendURL,
		fallbackKey: fallbackKey,
		httpClient:  &http.Client{Timeout: fetchTimeout},
		validate:    validator.New(),
		log:         log,
	}
}

// Load возвращает конфигурацию: из кэша, если она уже загружена, иначе
// выполняет один сетевой запрос на всех конкурентных вызывающих.
// Никогда не возвращает ошибку — при любом сбое кэшируется fallback.
func (f *Fetcher) Load(ctx context.Context) *ClientConfig {
	f.mu.RLock()
	cached := f.cached
	f.mu.RUnlock()
	if cached != nil {
		return cached
	}

	result, _, _ := f.group.Do(flightKey, func() (any, error) {
		f.mu.RLock()
		cached := f.cached
		f.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		cfg := f.fetch(ctx)
		f.mu.Lock()
		f.cached = cfg
		f.mu.Unlock()
		return cfg, nil
	})
	return result.(*ClientConfig)
}

// Get возвращает закэшированную конфигурацию без загрузки, либо nil.
func (f *Fetcher) Get() *ClientConfig {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cached
}

// IsLoaded сообщает, есть ли закэшированная конфигурация.
func (f *Fetcher) IsLoaded() bool {
	return f.Get() != nil
}

// Clear сбрасывает кэш и текущую загрузку: следующий Load выполнит
// свежий запрос к бэкенду.
func (f *Fetcher) Clear() {
	f.mu.Lock()
	f.cached = nil
	f.mu.Unlock()
	f.group.Forget(flightKey)
}

// fetch выполняет один запрос конфигурации. Сбой сети, не-2xx статус,
// success:false или непрошедшая валидацию форма приводят к fallback;
// наружу ошибка не выходит, сбой виден только в логе.
func (f *Fetcher) fetch(ctx context.Context) *ClientConfig {
	const op = "remoteconfig.fetch"
	log := f.log.With(slog.String("op", op))

	cfg, err := f.request(ctx)
	if err != nil {
		log.Warn("falling back to default client config", sl.Err(err))
		return Fallback(f.fallbackKey, f.backendURL)
	}
	log.Info("client config loaded", slog.Int("features", len(cfg.Features)))
	return cfg
}

func (f *Fetcher) request(ctx context.Context) (*ClientConfig, error) {
	const op = "remoteconfig.request"

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.backendURL+"/api/config/client", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	var env struct {
		Success bool          `json:"success"`
		Data    *ClientConfig `json:"data"`
		Error   string        `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !env.Success || env.Data == nil {
		return nil, fmt.Errorf("%s: backend reported failure: %s", op, env.Error)
	}
	if err := f.validate.Struct(env.Data); err != nil {
		return nil, fmt.Errorf("%s: invalid config shape: %w", op, err)
	}
	return env.Data, nil
}
