package healthupdates

import "context"

type Repository interface {
	Create(ctx context.Context, h HealthUpdate) error
	GetByID(ctx context.Context, id string) (HealthUpdate, error)
	// ListByPet ordena por fecha ascendente.
	ListByPet(ctx context.Context, petID string) ([]HealthUpdate, error)
	// LatestByPet devuelve apperr.ErrRecordNotFound si no hay entradas.
	LatestByPet(ctx context.Context, petID string) (HealthUpdate, error)
}
