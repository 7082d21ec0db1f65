package postgres

import (
	"context"
	"database/sql"

	"vetcare-api/internal/domain/diagnoses"
)

type DiagnosesRepo struct {
	db *sql.DB
}

func NewDiagnosesRepo(db *sql.DB) *DiagnosesRepo {
	return &DiagnosesRepo{db: db}
}

const diagnosisColumns = `id, anamnesis_id, name, body_part, description, contagious, date`

func (r *DiagnosesRepo) Create(ctx context.Context, d diagnoses.Diagnosis) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO diagnoses (`+diagnosisColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, d.ID, d.AnamnesisID, d.Name, d.BodyPart, d.Description, d.Contagious, d.Date)
	return mapErr(err)
}

func (r *DiagnosesRepo) Update(ctx context.Context, d diagnoses.Diagnosis) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE diagnoses SET name = $2, body_part = $3, description = $4, contagious = $5 WHERE id = $1
	`, d.ID, d.Name, d.BodyPart, d.Description, d.Contagious))
}

func (r *DiagnosesRepo) GetByID(ctx context.Context, id string) (diagnoses.Diagnosis, error) {
	return queryOne(ctx, r.db, scanDiagnosis, `SELECT `+diagnosisColumns+` FROM diagnoses WHERE id = $1`, id)
}

// id desempata diagnósticos cargados en el mismo instante.
func (r *DiagnosesRepo) ListByAnamnesis(ctx context.Context, anamnesisID string) ([]diagnoses.Diagnosis, error) {
	return query(ctx, r.db, scanDiagnosis,
		`SELECT `+diagnosisColumns+` FROM diagnoses WHERE anamnesis_id = $1 ORDER BY date ASC, id ASC`, anamnesisID)
}

func scanDiagnosis(s scanner) (diagnoses.Diagnosis, error) {
	var d diagnoses.Diagnosis
	err := s.Scan(&d.ID, &d.AnamnesisID, &d.Name, &d.BodyPart, &d.Description, &d.Contagious, &d.Date)
	return d, err
}
