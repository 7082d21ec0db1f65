package memory

import (
	"context"

	"vetcare-api/internal/domain/clinics"
)

type clinicRepo struct {
	s *Store
	t *table[clinics.Clinic]
}

func NewClinicRepo() clinics.Repository {
	return NewStore().Clinics()
}

func (r *clinicRepo) Create(ctx context.Context, c clinics.Clinic) error {
	return r.t.insert(c.ID, c)
}

func (r *clinicRepo) Update(ctx context.Context, c clinics.Clinic) error {
	return r.t.replace(c.ID, c)
}

func (r *clinicRepo) GetByID(ctx context.Context, id string) (clinics.Clinic, error) {
	return r.t.get(id)
}

func (r *clinicRepo) ListAll(ctx context.Context) ([]clinics.Clinic, error) {
	return r.t.list(nil, func(a, b clinics.Clinic) bool { return a.Name < b.Name }), nil
}

func (r *clinicRepo) Delete(ctx context.Context, id string) error {
	return r.s.deleteClinic(id)
}
