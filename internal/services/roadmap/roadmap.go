// Package roadmap содержит логику получения дорожной карты поступления.
package roadmap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/antonkuragin/admissions-gateway/internal/apiclient"
	"github.com/antonkuragin/admissions-gateway/internal/models"
)

// Service сервис дорожной карты.
type Service struct {
	api *apiclient.Client
	log *slog.Logger
}

// New создаёт сервис дорожной карты.
func New(api *apiclient.Client, log *slog.Logger) *Service {
	return &Service{api: api, log: log}
}

// Get возвращает дорожную карту текущего пользователя.
func (s *Service) Get(ctx context.Context) (*models.Roadmap, error) {
	const op = "roadmap.Get"

	r, err := apiclient.Get[*models.Roadmap](ctx, s.api, "/api/roadmap", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}
