package sectors

import "context"

type Repository interface {
	Create(ctx context.Context, s Sector) error
	GetByID(ctx context.Context, id string) (Sector, error)
	ListAll(ctx context.Context) ([]Sector, error)
	ListByCategory(ctx context.Context, c Category) ([]Sector, error)
	Delete(ctx context.Context, id string) error
}
