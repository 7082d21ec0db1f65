package memory

import (
	"context"

	"vetcare-api/internal/domain/diagnoses"
)

type diagnosisRepo struct {
	t *table[diagnoses.Diagnosis]
}

func NewDiagnosisRepo() diagnoses.Repository {
	return NewStore().Diagnoses()
}

func (r *diagnosisRepo) Create(ctx context.Context, d diagnoses.Diagnosis) error {
	return r.t.insert(d.ID, d)
}

func (r *diagnosisRepo) Update(ctx context.Context, d diagnoses.Diagnosis) error {
	return r.t.replace(d.ID, d)
}

func (r *diagnosisRepo) GetByID(ctx context.Context, id string) (diagnoses.Diagnosis, error) {
	return r.t.get(id)
}

func (r *diagnosisRepo) ListByAnamnesis(ctx context.Context, anamnesisID string) ([]diagnoses.Diagnosis, error) {
	return r.t.list(
		func(d diagnoses.Diagnosis) bool { return d.AnamnesisID == anamnesisID },
		func(a, b diagnoses.Diagnosis) bool {
			if a.Date.Equal(b.Date) {
				return a.ID < b.ID
			}
			return a.Date.Before(b.Date)
		},
	), nil
}
