package memory

import (
	"context"

	"vetcare-api/internal/domain/pets"
)

type petRepo struct {
	s *Store
	t *table[pets.Pet]
}

func NewPetRepo() pets.Repository {
	return NewStore().Pets()
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	return r.t.insert(p.ID, p)
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	return r.t.replace(p.ID, p)
}

func (r *petRepo) Delete(ctx context.Context, id string) error {
	return r.s.deletePet(id)
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	return r.t.get(id)
}

func (r *petRepo) ListAll(ctx context.Context) ([]pets.Pet, error) {
	return r.t.list(nil, petsByCreated), nil
}

func (r *petRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	return r.t.list(func(p pets.Pet) bool { return p.OwnerID == ownerID }, petsByCreated), nil
}

func (r *petRepo) ListByVet(ctx context.Context, vetID string) ([]pets.Pet, error) {
	return r.t.list(func(p pets.Pet) bool { return p.VetID == vetID }, petsByCreated), nil
}

// orden estable por created_at asc
func petsByCreated(a, b pets.Pet) bool { return a.CreatedAt.Before(b.CreatedAt) }
