package anamnesis

import "context"

type Repository interface {
	// Create devuelve apperr.ErrDuplicate si el turno ya tiene anamnesis.
	Create(ctx context.Context, a Anamnesis) error
	GetByID(ctx context.Context, id string) (Anamnesis, error)
	GetByAppointment(ctx context.Context, appointmentID string) (Anamnesis, error)
	ListByPet(ctx context.Context, petID string) ([]Anamnesis, error)
	// AppointmentIDs devuelve los turnos que ya tienen anamnesis.
	AppointmentIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}
