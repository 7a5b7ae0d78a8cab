package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/antonkuragin/admissions-gateway/internal/lib/sl"
)

// defaultTimeout таймаут одного запроса, если не задан иной через RequestOptions.
const defaultTimeout = 30 * time.Second

// TokenSource выдаёт свежий bearer-токен текущей сессии.
// Реализуется менеджером идентификации; пустой токен означает,
// что запрос уйдёт без авторизации.
type TokenSource interface {
	IDToken(ctx context.Context) (string, error)
}

// Config настройки клиента при создании.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retry   RetryConfig
}

// Client HTTP-клиент к бэкенду. Все глаголы проходят через единый
// исполнитель do с повторами и категоризацией ошибок. Базовый URL и
// настройки повторов можно менять после создания — например, когда
// remoteconfig приносит другой адрес бэкенда.
type Client struct {
	mu         sync.RWMutex
	baseURL    string
	retry      RetryConfig
	timeout    time.Duration
	tokens     TokenSource
	httpClient *http.Client
	log        *slog.Logger
}

// RequestOptions параметры отдельного запроса.
type RequestOptions struct {
	// SkipAuth отключает подстановку bearer-токена.
	SkipAuth bool
	// Timeout переопределяет таймаут запроса.
	Timeout time.Duration
	// Headers дополнительные заголовки.
	Headers map[string]string
}

// envelope конверт, в который бэкенд оборачивает каждый JSON-ответ.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// New создаёт клиент с указанным базовым URL и настройками повторов.
func New(cfg Config, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	retry := cfg.Retry
	if retry.RetryOn == nil {
		retry = DefaultRetryConfig()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		retry:      retry,
		timeout:    timeout,
		httpClient: &http.Client{},
		log:        log,
	}
}

// SetTokenSource задаёт источник bearer-токенов. Вызывается после создания
// менеджера идентификации, чтобы разорвать цикл зависимостей.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

// SetBaseURL меняет базовый URL бэкенда на лету.
func (c *Client) SetBaseURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = strings.TrimRight(u, "/")
}

// BaseURL возвращает текущий базовый URL бэкенда.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetRetryConfig целиком заменяет настройки повторов.
func (c *Client) SetRetryConfig(rc RetryConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retry = rc
}

type ctxKey int

const bearerKey ctxKey = 0

// WithBearer кладёт в контекст bearer-токен конкретного пользователя.
// Токен из контекста имеет приоритет над TokenSource — так обработчики
// шлюза пробрасывают токен вызывающего клиента в бэкенд.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey, token)
}

func bearerFromContext(ctx context.Context) string {
	token, _ := ctx.Value(bearerKey).(string)
	return token
}

// Get выполняет GET-запрос и возвращает поле data конверта.
func (c *Client) Get(ctx context.Context, endpoint string, opts *RequestOptions) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil, opts)
}

// Post выполняет POST-запрос с JSON-телом и возвращает поле data конверта.
func (c *Client) Post(ctx context.Context, endpoint string, body any, opts *RequestOptions) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, endpoint, body, opts)
}

// Put выполняет PUT-запрос с JSON-телом и возвращает поле data конверта.
func (c *Client) Put(ctx context.Context, endpoint string, body any, opts *RequestOptions) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, endpoint, body, opts)
}

// Delete выполняет DELETE-запрос и возвращает поле data конверта.
func (c *Client) Delete(ctx context.Context, endpoint string, opts *RequestOptions) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, endpoint, nil, opts)
}

// do единый исполнитель запросов: цикл попыток строго последователен,
// повтор начинается только после завершения задержки предыдущей попытки.
// Отменённый контекст никогда не приводит к повтору.
func (c *Client) do(ctx context.Context, method, endpoint string, body any, opts *RequestOptions) (json.RawMessage, error) {
	const op = "apiclient.do"

	c.mu.RLock()
	retry := c.retry
	c.mu.RUnlock()

	policy := newRetryPolicy(retry)
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}()

	for {
		data, cerr := c.attempt(ctx, method, endpoint, body, opts)
		if cerr == nil {
			requestsTotal.WithLabelValues(method, "ok").Inc()
			return data, nil
		}

		if ctx.Err() != nil {
			requestsTotal.WithLabelValues(method, "aborted").Inc()
			return nil, cerr
		}
		if policy.exhausted() || retry.RetryOn == nil || !retry.RetryOn(cerr) {
			requestsTotal.WithLabelValues(method, "error").Inc()
			return nil, cerr
		}

		delay := policy.nextDelay()
		retriesTotal.Inc()
		c.log.Warn("retrying backend request",
			slog.String("op", op),
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.Duration("delay", delay),
			sl.Err(cerr))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			requestsTotal.WithLabelValues(method, "aborted").Inc()
			return nil, categorizeTransport(ctx.Err())
		}
	}
}

// attempt одна попытка запроса: сборка, авторизация, разбор конверта.
func (c *Client) attempt(ctx context.Context, method, endpoint string, body any, opts *RequestOptions) (json.RawMessage, *CategorizedError) {
	c.mu.RLock()
	baseURL := c.baseURL
	tokens := c.tokens
	timeout := c.timeout
	c.mu.RUnlock()

	if opts != nil && opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, newCategorized(ErrorTypeUnknown, CodeUnknown, err)
		}
	}

	req, err := http.NewRequestWithContext(reqCtx, method, baseURL+endpoint, &buf)
	if err != nil {
		return nil, newCategorized(ErrorTypeUnknown, CodeUnknown, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if opts != nil {
		for k, v := range opts.Headers {
			req.Header.Set(k, v)
		}
	}

	if opts == nil || !opts.SkipAuth {
		token := bearerFromContext(ctx)
		if token == "" && tokens != nil {
			token, err = tokens.IDToken(ctx)
			if err != nil {
				// отсутствие токена не фатально: запрос уходит без
				// авторизации, 401 вернёт сам бэкенд
				c.log.Debug("no bearer token for request", sl.Err(err))
				token = ""
			}
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, categorizeTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, categorizeTransport(err)
	}

	var env envelope
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// текст конверта нужен только как запасное сообщение для UNKNOWN
		_ = json.Unmarshal(raw, &env)
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		return nil, categorizeStatus(resp.StatusCode, msg)
	}

	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, newCategorized(ErrorTypeUnknown, CodeUnknown, err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		return nil, categorizeEnvelope(msg)
	}
	return env.Data, nil
}

// Get типизированный GET: декодирует поле data конверта в T.
func Get[T any](ctx context.Context, c *Client, endpoint string, opts *RequestOptions) (T, error) {
	return decode[T](c.Get(ctx, endpoint, opts))
}

// Post типизированный POST: декодирует поле data конверта в T.
func Post[T any](ctx context.Context, c *Client, endpoint string, body any, opts *RequestOptions) (T, error) {
	return decode[T](c.Post(ctx, endpoint, body, opts))
}

// Put типизированный PUT: декодирует поле data конверта в T.
func Put[T any](ctx context.Context, c *Client, endpoint string, body any, opts *RequestOptions) (T, error) {
	return decode[T](c.Put(ctx, endpoint, body, opts))
}

// Delete типизированный DELETE: декодирует поле data конверта в T.
func Delete[T any](ctx context.Context, c *Client, endpoint string, opts *RequestOptions) (T, error) {
	return decode[T](c.Delete(ctx, endpoint, opts))
}

func decode[T any](raw json.RawMessage, err error) (T, error) {
	var result T
	if err != nil {
		return result, err
	}
	if len(raw) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return result, newCategorized(ErrorTypeUnknown, CodeUnknown, err)
	}
	return result, nil
}
