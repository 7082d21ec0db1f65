package users

import (
	"context"

	"vetcare-api/internal/domain/identity"
)

// Repository persiste usuarios.
// Create/Update devuelven apperr.ErrDuplicate si username o email ya existen.
type Repository interface {
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	ListAll(ctx context.Context) ([]User, error)
	ListByRole(ctx context.Context, role identity.Role) ([]User, error)
}
