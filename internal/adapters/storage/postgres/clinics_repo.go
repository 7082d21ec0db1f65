package postgres

import (
	"context"
	"database/sql"

	"vetcare-api/internal/domain/clinics"
)

type ClinicsRepo struct {
	db *sql.DB
}

func NewClinicsRepo(db *sql.DB) *ClinicsRepo {
	return &ClinicsRepo{db: db}
}

const clinicColumns = `id, name, address, phone, email, description, created_at, updated_at`

func (r *ClinicsRepo) Create(ctx context.Context, c clinics.Clinic) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clinics (`+clinicColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, c.ID, c.Name, c.Address, c.Phone, c.Email, c.Description, c.CreatedAt, c.UpdatedAt)
	return mapErr(err)
}

func (r *ClinicsRepo) Update(ctx context.Context, c clinics.Clinic) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE clinics SET name = $2, address = $3, phone = $4, email = $5, description = $6, updated_at = $7
		WHERE id = $1
	`, c.ID, c.Name, c.Address, c.Phone, c.Email, c.Description, c.UpdatedAt))
}

func (r *ClinicsRepo) GetByID(ctx context.Context, id string) (clinics.Clinic, error) {
	return queryOne(ctx, r.db, scanClinic, `SELECT `+clinicColumns+` FROM clinics WHERE id = $1`, id)
}

func (r *ClinicsRepo) ListAll(ctx context.Context) ([]clinics.Clinic, error) {
	return query(ctx, r.db, scanClinic, `SELECT `+clinicColumns+` FROM clinics ORDER BY name`)
}

// Delete: users.clinic_id queda en NULL por el ON DELETE SET NULL.
func (r *ClinicsRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.ExecContext(ctx, `DELETE FROM clinics WHERE id = $1`, id))
}

func scanClinic(s scanner) (clinics.Clinic, error) {
	var c clinics.Clinic
	err := s.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
