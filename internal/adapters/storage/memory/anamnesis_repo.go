package memory

import (
	"context"

	"vetcare-api/internal/domain/anamnesis"
	"vetcare-api/internal/platform/apperr"
)

type anamnesisRepo struct {
	s *Store
	t *table[anamnesis.Anamnesis]
}

func NewAnamnesisRepo() anamnesis.Repository {
	return NewStore().Anamnesis()
}

func (r *anamnesisRepo) Create(ctx context.Context, a anamnesis.Anamnesis) error {
	r.s.anamnesisMu.Lock()
	defer r.s.anamnesisMu.Unlock()
	if _, taken := r.t.find(func(x anamnesis.Anamnesis) bool { return x.AppointmentID == a.AppointmentID }); taken {
		return apperr.ErrDuplicate
	}
	return r.t.insert(a.ID, a)
}

func (r *anamnesisRepo) GetByID(ctx context.Context, id string) (anamnesis.Anamnesis, error) {
	return r.t.get(id)
}

func (r *anamnesisRepo) GetByAppointment(ctx context.Context, appointmentID string) (anamnesis.Anamnesis, error) {
	a, ok := r.t.find(func(x anamnesis.Anamnesis) bool { return x.AppointmentID == appointmentID })
	if !ok {
		return anamnesis.Anamnesis{}, apperr.ErrRecordNotFound
	}
	return a, nil
}

func (r *anamnesisRepo) ListByPet(ctx context.Context, petID string) ([]anamnesis.Anamnesis, error) {
	return r.t.list(
		func(a anamnesis.Anamnesis) bool { return a.PetID == petID },
		func(a, b anamnesis.Anamnesis) bool { return a.Date.Before(b.Date) },
	), nil
}

func (r *anamnesisRepo) AppointmentIDs(ctx context.Context) ([]string, error) {
	items := r.t.list(nil, nil)
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.AppointmentID)
	}
	return out, nil
}

func (r *anamnesisRepo) Delete(ctx context.Context, id string) error {
	return r.s.deleteAnamnesis(id)
}
