package apiclient

import (
	"math/rand"
	"time"
)

// maxRetryDelay потолок задержки между попытками.
const maxRetryDelay = 10 * time.Second

// maxJitter верхняя граница случайной добавки к задержке.
const maxJitter = time.Second

// RetryConfig настройки повторов запросов. Меняется только целиком
// через Client.SetRetryConfig.
type RetryConfig struct {
	// MaxRetries число повторов сверх первой попытки.
	MaxRetries int
	// RetryDelayBase база экспоненциальной задержки.
	RetryDelayBase time.Duration
	// RetryOn решает, повторять ли запрос для данной ошибки.
	RetryOn func(err *CategorizedError) bool
}

// DefaultRetryConfig повторы по умолчанию: один повтор (две попытки всего),
// база задержки 1 секунда, повторяются только серверные ошибки 5xx.
// Сетевые ошибки и 4xx не повторяются: ошибка клиента или связи должна
// проявиться сразу, а не прятаться за задержкой.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     1,
		RetryDelayBase: time.Second,
		RetryOn: func(err *CategorizedError) bool {
			return err.Type == ErrorTypeServer
		},
	}
}

// retryPolicy состояние повторов одного логического запроса:
// решение о том, ЧТО повторять, живёт в RetryConfig.RetryOn,
// механика ожидания — здесь.
type retryPolicy struct {
	attempt     int
	maxAttempts int
	base        time.Duration
}

func newRetryPolicy(cfg RetryConfig) *retryPolicy {
	return &retryPolicy{
		maxAttempts: cfg.MaxRetries + 1,
		base:        cfg.RetryDelayBase,
	}
}

// exhausted сообщает, исчерпан ли бюджет повторов.
func (p *retryPolicy) exhausted() bool {
	return p.attempt >= p.maxAttempts-1
}

// nextDelay возвращает задержку перед следующей попыткой:
// base * 2^attempt + случайный джиттер до 1 секунды, не более 10 секунд.
// Счётчик попыток увеличивается при каждом вызове.
func (p *retryPolicy) nextDelay() time.Duration {
	delay := p.base * (1 << p.attempt)
	delay += time.Duration(rand.Int63n(int64(maxJitter)))
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	p.attempt++
	return delay
}
