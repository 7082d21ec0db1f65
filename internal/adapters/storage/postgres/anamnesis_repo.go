package postgres

import (
	"context"
	"database/sql"

	"vetcare-api/internal/domain/anamnesis"
)

type AnamnesisRepo struct {
	db *sql.DB
}

func NewAnamnesisRepo(db *sql.DB) *AnamnesisRepo {
	return &AnamnesisRepo{db: db}
}

const anamnesisColumns = `id, pet_id, appointment_id, name, description, date`

// Create: el UNIQUE sobre appointment_id se traduce a ErrDuplicate en mapErr.
func (r *AnamnesisRepo) Create(ctx context.Context, a anamnesis.Anamnesis) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO anamnesis (`+anamnesisColumns+`) VALUES ($1,$2,$3,$4,$5,$6)
	`, a.ID, a.PetID, a.AppointmentID, a.Name, a.Description, a.Date)
	return mapErr(err)
}

func (r *AnamnesisRepo) GetByID(ctx context.Context, id string) (anamnesis.Anamnesis, error) {
	return queryOne(ctx, r.db, scanAnamnesis, `SELECT `+anamnesisColumns+` FROM anamnesis WHERE id = $1`, id)
}

func (r *AnamnesisRepo) GetByAppointment(ctx context.Context, appointmentID string) (anamnesis.Anamnesis, error) {
	return queryOne(ctx, r.db, scanAnamnesis,
		`SELECT `+anamnesisColumns+` FROM anamnesis WHERE appointment_id = $1`, appointmentID)
}

func (r *AnamnesisRepo) ListByPet(ctx context.Context, petID string) ([]anamnesis.Anamnesis, error) {
	return query(ctx, r.db, scanAnamnesis,
		`SELECT `+anamnesisColumns+` FROM anamnesis WHERE pet_id = $1 ORDER BY date ASC`, petID)
}

func (r *AnamnesisRepo) AppointmentIDs(ctx context.Context) ([]string, error) {
	return query(ctx, r.db, func(s scanner) (string, error) {
		var id string
		err := s.Scan(&id)
		return id, err
	}, `SELECT appointment_id FROM anamnesis`)
}

func (r *AnamnesisRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.ExecContext(ctx, `DELETE FROM anamnesis WHERE id = $1`, id))
}

func scanAnamnesis(s scanner) (anamnesis.Anamnesis, error) {
	var a anamnesis.Anamnesis
	err := s.Scan(&a.ID, &a.PetID, &a.AppointmentID, &a.Name, &a.Description, &a.Date)
	return a, err
}
