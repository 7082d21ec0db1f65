package memory

import (
	"context"
	"time"

	"vetcare-api/internal/domain/slots"
)

type slotRepo struct {
	s *Store
	t *table[slots.Slot]
}

func NewSlotRepo() slots.Repository {
	return NewStore().Slots()
}

func (r *slotRepo) Create(ctx context.Context, s slots.Slot) error {
	return r.t.insert(s.ID, s)
}

func (r *slotRepo) GetByID(ctx context.Context, id string) (slots.Slot, error) {
	return r.t.get(id)
}

func (r *slotRepo) Delete(ctx context.Context, id string) error {
	return r.s.deleteSlot(id)
}

func (r *slotRepo) ListAll(ctx context.Context) ([]slots.Slot, error) {
	return r.t.list(nil, slotsByStart), nil
}

func (r *slotRepo) ListAvailable(ctx context.Context, priority bool) ([]slots.Slot, error) {
	return r.t.list(func(s slots.Slot) bool { return s.Available && s.Priority == priority }, slotsByStart), nil
}

func (r *slotRepo) ListByVet(ctx context.Context, vetID string) ([]slots.Slot, error) {
	return r.t.list(func(s slots.Slot) bool { return s.VetID == vetID }, slotsByStart), nil
}

func (r *slotRepo) ListStartingBetween(ctx context.Context, from, to time.Time) ([]slots.Slot, error) {
	return r.t.list(func(s slots.Slot) bool { return !s.Start.Before(from) && s.Start.Before(to) }, slotsByStart), nil
}

// Book es el CAS bajo el lock de escritura del table.
func (r *slotRepo) Book(ctx context.Context, id string) (bool, error) {
	return r.t.update(id, func(s *slots.Slot) bool {
		if !s.Available {
			return false
		}
		s.Available = false
		return true
	})
}

func (r *slotRepo) Release(ctx context.Context, id string) error {
	_, err := r.t.update(id, func(s *slots.Slot) bool {
		s.Available = true
		return true
	})
	return err
}

func slotsByStart(a, b slots.Slot) bool { return a.Start.Before(b.Start) }
