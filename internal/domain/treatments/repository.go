package treatments

import "context"

type Repository interface {
	Create(ctx context.Context, t Treatment) error
	Update(ctx context.Context, t Treatment) error
	GetByID(ctx context.Context, id string) (Treatment, error)
	Delete(ctx context.Context, id string) error
	// ListByPet ordena por alta ascendente; activeOnly filtra los no completados.
	ListByPet(ctx context.Context, petID string, activeOnly bool) ([]Treatment, error)
}
