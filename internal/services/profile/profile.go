// Package profile содержит логику чтения и обновления профиля абитуриента
// через бэкенд приёмной кампании.
package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/antonkuragin/admissions-gateway/internal/apiclient"
	"github.com/antonkuragin/admissions-gateway/internal/models"
)

// Service сервис профиля абитуриента.
type Service struct {
	api *apiclient.Client
	log *slog.Logger
}

// New создаёт сервис профиля.
func New(api *apiclient.Client, log *slog.Logger) *Service {
	return &Service{api: api, log: log}
}

// Get возвращает профиль текущего пользователя.
func (s *Service) Get(ctx context.Context) (*models.StudentProfile, error) {
	const op = "profile.Get"

	p, err := apiclient.Get[*models.StudentProfile](ctx, s.api, "/api/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Update сохраняет профиль и возвращает его каноничную версию от бэкенда.
func (s *Service) Update(ctx context.Context, p models.StudentProfile) (*models.StudentProfile, error) {
	const op = "profile.Update"

	updated, err := apiclient.Put[*models.StudentProfile](ctx, s.api, "/api/profile", p, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}
