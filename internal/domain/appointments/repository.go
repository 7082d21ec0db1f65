package appointments

import "context"

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	// Update solo persiste el cambio de slot y la descripción.
	Update(ctx context.Context, a Appointment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	ListAll(ctx context.Context) ([]Appointment, error)
	ListByPet(ctx context.Context, petID string) ([]Appointment, error)
	ListBySlots(ctx context.Context, slotIDs []string) ([]Appointment, error)
}
