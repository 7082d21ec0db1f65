package postgres

import (
	"context"
	"database/sql"

	"vetcare-api/internal/domain/treatments"
)

type TreatmentsRepo struct {
	db *sql.DB
}

func NewTreatmentsRepo(db *sql.DB) *TreatmentsRepo {
	return &TreatmentsRepo{db: db}
}

const treatmentColumns = `id, pet_id, diagnosis_id, name, description, prescribed_medication, duration, is_completed, created_at`

func (r *TreatmentsRepo) Create(ctx context.Context, t treatments.Treatment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO treatments (`+treatmentColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, t.ID, t.PetID, nullStringPtr(t.DiagnosisID), t.Name, t.Description, t.PrescribedMedication, t.Duration, t.Completed, t.CreatedAt)
	return mapErr(err)
}

func (r *TreatmentsRepo) Update(ctx context.Context, t treatments.Treatment) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE treatments SET
			pet_id = $2,
			diagnosis_id = $3,
			name = $4,
			description = $5,
			prescribed_medication = $6,
			duration = $7,
			is_completed = $8
		WHERE id = $1
	`, t.ID, t.PetID, nullStringPtr(t.DiagnosisID), t.Name, t.Description, t.PrescribedMedication, t.Duration, t.Completed))
}

func (r *TreatmentsRepo) GetByID(ctx context.Context, id string) (treatments.Treatment, error) {
	return queryOne(ctx, r.db, scanTreatment, `SELECT `+treatmentColumns+` FROM treatments WHERE id = $1`, id)
}

func (r *TreatmentsRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.ExecContext(ctx, `DELETE FROM treatments WHERE id = $1`, id))
}

func (r *TreatmentsRepo) ListByPet(ctx context.Context, petID string, activeOnly bool) ([]treatments.Treatment, error) {
	return query(ctx, r.db, scanTreatment, `
		SELECT `+treatmentColumns+` FROM treatments
		WHERE pet_id = $1 AND (NOT $2 OR NOT is_completed)
		ORDER BY created_at ASC
	`, petID, activeOnly)
}

func scanTreatment(s scanner) (treatments.Treatment, error) {
	var (
		t           treatments.Treatment
		diagnosisID sql.NullString
	)
	if err := s.Scan(&t.ID, &t.PetID, &diagnosisID, &t.Name, &t.Description,
		&t.PrescribedMedication, &t.Duration, &t.Completed, &t.CreatedAt); err != nil {
		return treatments.Treatment{}, err
	}
	if diagnosisID.Valid {
		id := diagnosisID.String
		t.DiagnosisID = &id
	}
	return t, nil
}
