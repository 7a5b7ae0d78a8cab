// Package catalog содержит логику выборки каталога университетов:
// запросы к бэкенду через apiclient с кэшированием списков в redis.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/antonkuragin/admissions-gateway/internal/apiclient"
	"github.com/antonkuragin/admissions-gateway/internal/lib/sl"
	"github.com/antonkuragin/admissions-gateway/internal/models"
)

// Cache описывает контракт кэша списков каталога.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Service сервис каталога университетов.
type Service struct {
	api   *apiclient.Client
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// New создаёт сервис каталога. ttl — время жизни закэшированных списков.
func New(api *apiclient.Client, c Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{api: api, cache: c, ttl: ttl, log: log}
}

// List возвращает страницу каталога по фильтру. Списки кэшируются:
// промах или сбой кэша приводят к запросу бэкенда, ошибка кэша не
// фатальна и только логируется.
func (s *Service) List(ctx context.Context, filter models.CatalogFilter) ([]models.University, error) {
	const op = "catalog.List"

	key := cacheKey(filter)
	var cached []models.University
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("catalog cache read failed", slog.String("op", op), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	q := url.Values{}
	if filter.Country != "" {
		q.Set("country", filter.Country)
	}
	if filter.Program != "" {
		q.Set("program", filter.Program)
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("offset", strconv.Itoa(filter.Offset))
	}
	endpoint := "/api/universities"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	universities, err := apiclient.Get[[]models.University](ctx, s.api, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(ctx, key, universities, s.ttl); err != nil {
		s.log.Warn("catalog cache write failed", slog.String("op", op), sl.Err(err))
	}
	return universities, nil
}

// Read возвращает один университет по идентификатору.
func (s *Service) Read(ctx context.Context, id string) (*models.University, error) {
	const op = "catalog.Read"

	university, err := apiclient.Get[*models.University](ctx, s.api, "/api/universities/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return university, nil
}

func cacheKey(filter models.CatalogFilter) string {
	return fmt.Sprintf("universities:%s:%s:%d:%d", filter.Country, filter.Program, filter.Limit, filter.Offset)
}
