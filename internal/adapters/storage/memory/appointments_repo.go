package memory

import (
	"context"

	"vetcare-api/internal/domain/appointments"
)

type appointmentRepo struct {
	s *Store
	t *table[appointments.Appointment]
}

func NewAppointmentRepo() appointments.Repository {
	return NewStore().Appointments()
}

func (r *appointmentRepo) Create(ctx context.Context, a appointments.Appointment) error {
	return r.t.insert(a.ID, a)
}

func (r *appointmentRepo) Update(ctx context.Context, a appointments.Appointment) error {
	_, err := r.t.update(a.ID, func(cur *appointments.Appointment) bool {
		cur.SlotID = a.SlotID
		cur.Description = a.Description
		return true
	})
	return err
}

// Delete arrastra la anamnesis del turno y lo que cuelga de ella.
func (r *appointmentRepo) Delete(ctx context.Context, id string) error {
	return r.s.deleteAppointment(id)
}

func (r *appointmentRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	return r.t.get(id)
}

func (r *appointmentRepo) ListAll(ctx context.Context) ([]appointments.Appointment, error) {
	return r.t.list(nil, appointmentsByCreated), nil
}

func (r *appointmentRepo) ListByPet(ctx context.Context, petID string) ([]appointments.Appointment, error) {
	return r.t.list(func(a appointments.Appointment) bool { return a.PetID == petID }, appointmentsByCreated), nil
}

func (r *appointmentRepo) ListBySlots(ctx context.Context, slotIDs []string) ([]appointments.Appointment, error) {
	set := make(map[string]struct{}, len(slotIDs))
	for _, id := range slotIDs {
		set[id] = struct{}{}
	}
	return r.t.list(func(a appointments.Appointment) bool {
		_, ok := set[a.SlotID]
		return a.SlotID != "" && ok
	}, appointmentsByCreated), nil
}

func appointmentsByCreated(a, b appointments.Appointment) bool { return a.CreatedAt.Before(b.CreatedAt) }
