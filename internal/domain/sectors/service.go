package sectors

import (
	"context"
	"errors"
	"strings"
	"time"

	"vetcare-api/internal/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateInput struct {
	Name     string
	Category string
	Capacity int
}

// Create deja el sector vacío y disponible.
func (s *Service) Create(ctx context.Context, in CreateInput) (Sector, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Sector{}, apperr.Validation("name is required")
	}
	cat, ok := ParseCategory(in.Category)
	if !ok {
		return Sector{}, apperr.Validation("unknown category: %s", in.Category)
	}
	if in.Capacity <= 0 {
		return Sector{}, apperr.Validation("capacity must be positive")
	}

	sec := Sector{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  cat,
		Capacity:  in.Capacity,
		Occupancy: 0,
		Available: true,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, sec); err != nil {
		return Sector{}, apperr.Internal(err, "create sector")
	}
	return sec, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Sector, error) {
	sec, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Sector{}, apperr.NotFound("Sector not found with id: %s", id)
		}
		return Sector{}, apperr.Internal(err, "load sector")
	}
	return sec, nil
}

func (s *Service) List(ctx context.Context) ([]Sector, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list sectors")
	}
	return items, nil
}

func (s *Service) ListByCategory(ctx context.Context, category string) ([]Sector, error) {
	cat, ok := ParseCategory(category)
	if !ok {
		return nil, apperr.Validation("unknown category: %s", category)
	}
	items, err := s.repo.ListByCategory(ctx, cat)
	if err != nil {
		return nil, apperr.Internal(err, "list sectors")
	}
	return items, nil
}

// ListAvailableByCategory filtra los que están disponibles y no llenos.
func (s *Service) ListAvailableByCategory(ctx context.Context, category string) ([]Sector, error) {
	items, err := s.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]Sector, 0, len(items))
	for _, sec := range items {
		if sec.Available && sec.Occupancy < sec.Capacity {
			out = append(out, sec)
		}
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return apperr.NotFound("Sector not found with id: %s", id)
		}
		return apperr.Internal(err, "delete sector")
	}
	return nil
}
