// Package remoteconfig загружает клиентскую конфигурацию продукта с бэкенда,
// валидирует её форму и кэширует в памяти. Любой сбой загрузки или валидации
// приводит к безопасной fallback-конфигурации с выключенными фичами —
// недоступность конфигурации никогда не блокирует остальное приложение.
package remoteconfig

// StripeConfig платёжные настройки клиента.
type StripeConfig struct {
	PublishableKey string `json:"publishableKey" validate:"required"`
	Currency       string `json:"currency"`
	Country        string `json:"country"`
}

// APIConfig адрес и параметры API бэкенда.
type APIConfig struct {
	BaseURL string `json:"baseUrl" validate:"required"`
	Version string `json:"version"`
	Timeout int    `json:"timeout"`
}

// ClientConfig неизменяемая клиентская конфигурация. После успешной валидации
// все три части присутствуют, publishableKey и baseUrl непусты; пустой
// publishableKey — явный маркер fallback-конфигурации.
type ClientConfig struct {
	Stripe   StripeConfig    `json:"stripe"`
	API      APIConfig       `json:"api" validate:"required"`
	Features map[string]bool `json:"features" validate:"required"`
}

// defaultFeatures известные фичефлаги продукта. В fallback-конфигурации
// все они принудительно выключены.
var defaultFeatures = []string{
	"payments",
	"comparisons",
	"roadmap",
	"aiRecommendations",
	"essayReview",
}

// Fallback строит де-фичеризованную конфигурацию: ключ Stripe из окружения
// либо пустая строка, локально известный адрес бэкенда, все фичи выключены.
func Fallback(publishableKey, defaultBaseURL string) *ClientConfig {
	features := make(map[string]bool, len(defaultFeatures))
	for _, name := range defaultFeatures {
		features[name] = false
	}
	return &ClientConfig{
		Stripe: StripeConfig{
			PublishableKey: publishableKey,
			Currency:       "usd",
			Country:        "US",
		},
		API: APIConfig{
			BaseURL: defaultBaseURL,
			Version: "v1",
			Timeout: 30000,
		},
		Features: features,
	}
}
