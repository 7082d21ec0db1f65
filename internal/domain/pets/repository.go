package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Pet, error)
	ListAll(ctx context.Context) ([]Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
	ListByVet(ctx context.Context, vetID string) ([]Pet, error)
}
