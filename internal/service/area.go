package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/msomdec/o2o-admin/internal/domain"
)

// AreaService exposes the area catalogue.
type AreaService struct {
	areas domain.AreaRepository
}

func NewAreaService(areas domain.AreaRepository) *AreaService {
	return &AreaService{areas: areas}
}

// List returns every area, highest priority first.
func (s *AreaService) List(ctx context.Context) ([]domain.Area, error) {
	areas, err := s.areas.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	return areas, nil
}

func (s *AreaService) Create(ctx context.Context, area *domain.Area) error {
	area.Name = strings.TrimSpace(area.Name)
	if area.Name == "" {
		return fmt.Errorf("%w: area name is required", domain.ErrInvalidInput)
	}
	if err := s.areas.Create(ctx, area); err != nil {
		return fmt.Errorf("create area: %w", err)
	}
	return nil
}
