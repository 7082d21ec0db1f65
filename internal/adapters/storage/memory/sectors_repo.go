package memory

import (
	"context"

	"vetcare-api/internal/domain/sectors"
)

type sectorRepo struct {
	s *Store
	t *table[sectors.Sector]
}

func NewSectorRepo() sectors.Repository {
	return NewStore().Sectors()
}

func (r *sectorRepo) Create(ctx context.Context, s sectors.Sector) error {
	return r.t.insert(s.ID, s)
}

func (r *sectorRepo) GetByID(ctx context.Context, id string) (sectors.Sector, error) {
	return r.t.get(id)
}

func (r *sectorRepo) ListAll(ctx context.Context) ([]sectors.Sector, error) {
	return r.t.list(nil, bySectorName), nil
}

func (r *sectorRepo) ListByCategory(ctx context.Context, c sectors.Category) ([]sectors.Sector, error) {
	return r.t.list(func(s sectors.Sector) bool { return s.Category == c }, bySectorName), nil
}

func (r *sectorRepo) Delete(ctx context.Context, id string) error {
	return r.s.deleteSector(id)
}

func bySectorName(a, b sectors.Sector) bool { return a.Name < b.Name }
