// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек шлюза
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	Backend         `yaml:"backend"`
	RedisConnection `yaml:"redis_connection"`
	HTTPServer      `yaml:"http_server"`
	Stripe          `yaml:"stripe"`
}

// Backend структура для настройки подключения к бэкенду приёмной кампании
type Backend struct {
	BaseURL        string        `yaml:"base_url" env:"BACKEND_URL" env-default:"http://localhost:5000"`
	Version        string        `yaml:"version" env-default:"v1"`
	RequestTimeout time.Duration `yaml:"request_timeout" env-default:"30s"`
	MaxRetries     int           `yaml:"max_retries" env-default:"1"`
	RetryDelayBase time.Duration `yaml:"retry_delay_base" env-default:"1s"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
	CatalogTTL   time.Duration `yaml:"catalog_ttl" env-default:"5m"`
}

// Stripe структура с резервным publishable key: используется remoteconfig
// при построении fallback-конфигурации, когда бэкенд недоступен
type Stripe struct {
	PublishableKeyFallback string `yaml:"publishable_key_fallback" env:"STRIPE_PUBLISHABLE_KEY"`
}

// MustLoad функция для загрузки конфига, завершает процесс при любой ошибке чтения
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Backend:\n"+
			"  BaseURL: %s\n"+
			"  Version: %s\n"+
			"  RequestTimeout: %s\n"+
			"  MaxRetries: %d\n"+
			"  RetryDelayBase: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"  DialTimeout: %s\n"+
			"  Timeout: %s\n"+
			"  CatalogTTL: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n",
		c.Env,
		c.BaseURL,
		c.Version,
		c.RequestTimeout,
		c.Backend.MaxRetries,
		c.RetryDelayBase,
		c.AddressRedis,
		c.User,
		c.DB,
		c.RedisConnection.MaxRetries,
		c.DialTimeout,
		c.TimeoutRedis,
		c.CatalogTTL,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
	)
}
