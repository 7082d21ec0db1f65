package postgres

import (
	"context"
	"database/sql"

	"vetcare-api/internal/domain/healthupdates"
)

type HealthUpdatesRepo struct {
	db *sql.DB
}

func NewHealthUpdatesRepo(db *sql.DB) *HealthUpdatesRepo {
	return &HealthUpdatesRepo{db: db}
}

const healthUpdateColumns = `id, pet_id, date, symptoms, dynamics, notes`

func (r *HealthUpdatesRepo) Create(ctx context.Context, h healthupdates.HealthUpdate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_updates (`+healthUpdateColumns+`) VALUES ($1,$2,$3,$4,$5,$6)
	`, h.ID, h.PetID, h.Date, h.Symptoms, h.Dynamics, h.Notes)
	return mapErr(err)
}

func (r *HealthUpdatesRepo) GetByID(ctx context.Context, id string) (healthupdates.HealthUpdate, error) {
	return queryOne(ctx, r.db, scanHealthUpdate,
		`SELECT `+healthUpdateColumns+` FROM health_updates WHERE id = $1`, id)
}

func (r *HealthUpdatesRepo) ListByPet(ctx context.Context, petID string) ([]healthupdates.HealthUpdate, error) {
	return query(ctx, r.db, scanHealthUpdate,
		`SELECT `+healthUpdateColumns+` FROM health_updates WHERE pet_id = $1 ORDER BY date ASC, id ASC`, petID)
}

func (r *HealthUpdatesRepo) LatestByPet(ctx context.Context, petID string) (healthupdates.HealthUpdate, error) {
	return queryOne(ctx, r.db, scanHealthUpdate, `
		SELECT `+healthUpdateColumns+`
		FROM health_updates
		WHERE pet_id = $1
		ORDER BY date DESC, id DESC
		LIMIT 1
	`, petID)
}

func scanHealthUpdate(s scanner) (healthupdates.HealthUpdate, error) {
	var h healthupdates.HealthUpdate
	err := s.Scan(&h.ID, &h.PetID, &h.Date, &h.Symptoms, &h.Dynamics, &h.Notes)
	return h, err
}
