package postgres

import (
	"context"
	"database/sql"

	"vetcare-api/internal/domain/sectors"
)

type SectorsRepo struct {
	db *sql.DB
}

func NewSectorsRepo(db *sql.DB) *SectorsRepo {
	return &SectorsRepo{db: db}
}

const sectorColumns = `id, name, category, capacity, occupancy, is_available, created_at`

func (r *SectorsRepo) Create(ctx context.Context, s sectors.Sector) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sectors (`+sectorColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, s.ID, s.Name, string(s.Category), s.Capacity, s.Occupancy, s.Available, s.CreatedAt)
	return mapErr(err)
}

func (r *SectorsRepo) GetByID(ctx context.Context, id string) (sectors.Sector, error) {
	return queryOne(ctx, r.db, scanSector, `SELECT `+sectorColumns+` FROM sectors WHERE id = $1`, id)
}

func (r *SectorsRepo) ListAll(ctx context.Context) ([]sectors.Sector, error) {
	return query(ctx, r.db, scanSector, `SELECT `+sectorColumns+` FROM sectors ORDER BY name`)
}

func (r *SectorsRepo) ListByCategory(ctx context.Context, c sectors.Category) ([]sectors.Sector, error) {
	return query(ctx, r.db, scanSector,
		`SELECT `+sectorColumns+` FROM sectors WHERE category = $1 ORDER BY name`, string(c))
}

func (r *SectorsRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.ExecContext(ctx, `DELETE FROM sectors WHERE id = $1`, id))
}

func scanSector(s scanner) (sectors.Sector, error) {
	var (
		x   sectors.Sector
		cat string
	)
	if err := s.Scan(&x.ID, &x.Name, &cat, &x.Capacity, &x.Occupancy, &x.Available, &x.CreatedAt); err != nil {
		return sectors.Sector{}, err
	}
	x.Category = sectors.Category(cat)
	return x, nil
}
