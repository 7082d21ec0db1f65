package memory

import (
	"context"
	"strings"

	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/domain/users"
	"vetcare-api/internal/platform/apperr"
)

type userRepo struct {
	s *Store
	t *table[users.User]
}

func NewUserRepo() users.Repository {
	return NewStore().Users()
}

// taken chequea unicidad de username/email ignorando al propio usuario.
func (r *userRepo) taken(u users.User) bool {
	_, found := r.t.find(func(x users.User) bool {
		return x.ID != u.ID &&
			(strings.EqualFold(x.Username, u.Username) || (u.Email != "" && strings.EqualFold(x.Email, u.Email)))
	})
	return found
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	if r.taken(u) {
		return apperr.ErrDuplicate
	}
	return r.t.insert(u.ID, u)
}

func (r *userRepo) Update(ctx context.Context, u users.User) error {
	if r.taken(u) {
		return apperr.ErrDuplicate
	}
	return r.t.replace(u.ID, u)
}

// Delete replica el ON DELETE de pets y slots.
func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.s.deleteUser(id)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	return r.t.get(id)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	u, ok := r.t.find(func(x users.User) bool { return strings.EqualFold(x.Username, username) })
	if !ok {
		return users.User{}, apperr.ErrRecordNotFound
	}
	return u, nil
}

func (r *userRepo) ListAll(ctx context.Context) ([]users.User, error) {
	return r.t.list(nil, byUsername), nil
}

func (r *userRepo) ListByRole(ctx context.Context, role identity.Role) ([]users.User, error) {
	return r.t.list(func(u users.User) bool { return u.Roles.Has(role) }, byUsername), nil
}

func byUsername(a, b users.User) bool { return a.Username < b.Username }
