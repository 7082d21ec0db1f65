package memory

import (
	"context"

	"vetcare-api/internal/domain/healthupdates"
	"vetcare-api/internal/platform/apperr"
)

type healthUpdateRepo struct {
	t *table[healthupdates.HealthUpdate]
}

func NewHealthUpdateRepo() healthupdates.Repository {
	return NewStore().HealthUpdates()
}

func (r *healthUpdateRepo) Create(ctx context.Context, h healthupdates.HealthUpdate) error {
	return r.t.insert(h.ID, h)
}

func (r *healthUpdateRepo) GetByID(ctx context.Context, id string) (healthupdates.HealthUpdate, error) {
	return r.t.get(id)
}

func (r *healthUpdateRepo) ListByPet(ctx context.Context, petID string) ([]healthupdates.HealthUpdate, error) {
	return r.t.list(
		func(h healthupdates.HealthUpdate) bool { return h.PetID == petID },
		func(a, b healthupdates.HealthUpdate) bool { return a.Date.Before(b.Date) },
	), nil
}

func (r *healthUpdateRepo) LatestByPet(ctx context.Context, petID string) (healthupdates.HealthUpdate, error) {
	items, _ := r.ListByPet(ctx, petID)
	if len(items) == 0 {
		return healthupdates.HealthUpdate{}, apperr.ErrRecordNotFound
	}
	return items[len(items)-1], nil
}
