package memory

import (
	"context"

	"vetcare-api/internal/domain/treatments"
)

type treatmentRepo struct {
	t *table[treatments.Treatment]
}

func NewTreatmentRepo() treatments.Repository {
	return NewStore().Treatments()
}

func (r *treatmentRepo) Create(ctx context.Context, t treatments.Treatment) error {
	return r.t.insert(t.ID, t)
}

func (r *treatmentRepo) Update(ctx context.Context, t treatments.Treatment) error {
	return r.t.replace(t.ID, t)
}

func (r *treatmentRepo) GetByID(ctx context.Context, id string) (treatments.Treatment, error) {
	return r.t.get(id)
}

func (r *treatmentRepo) Delete(ctx context.Context, id string) error {
	return r.t.remove(id)
}

func (r *treatmentRepo) ListByPet(ctx context.Context, petID string, activeOnly bool) ([]treatments.Treatment, error) {
	return r.t.list(
		func(t treatments.Treatment) bool { return t.PetID == petID && (!activeOnly || !t.Completed) },
		func(a, b treatments.Treatment) bool { return a.CreatedAt.Before(b.CreatedAt) },
	), nil
}
