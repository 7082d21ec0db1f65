package healthupdates

import (
	"context"
	"testing"
	"time"

	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/domain/pets"
	"vetcare-api/internal/platform/apperr"
)

type testRepo struct {
	items []HealthUpdate
}

func (r *testRepo) Create(_ context.Context, h HealthUpdate) error {
	r.items = append(r.items, h)
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (HealthUpdate, error) {
	for _, h := range r.items {
		if h.ID == id {
			return h, nil
		}
	}
	return HealthUpdate{}, apperr.ErrRecordNotFound
}

func (r *testRepo) ListByPet(_ context.Context, petID string) ([]HealthUpdate, error) {
	out := make([]HealthUpdate, 0)
	for _, h := range r.items {
		if h.PetID == petID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *testRepo) LatestByPet(ctx context.Context, petID string) (HealthUpdate, error) {
	items, _ := r.ListByPet(ctx, petID)
	if len(items) == 0 {
		return HealthUpdate{}, apperr.ErrRecordNotFound
	}
	return items[len(items)-1], nil
}

type testPets map[string]pets.Pet

func (p testPets) GetByID(_ context.Context, id string) (pets.Pet, error) {
	x, ok := p[id]
	if !ok {
		return pets.Pet{}, apperr.NotFound("Pet not found with id: %s", id)
	}
	return x, nil
}

func newTestService() (*Service, *testRepo) {
	repo := &testRepo{}
	svc := NewService(repo, testPets{"p1": {ID: "p1", OwnerID: "o1", VetID: "v1"}})
	clock := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, repo
}

func TestService_RecordVisitStart(t *testing.T) {
	svc, repo := newTestService()

	h, err := svc.RecordVisitStart(context.Background(), "p1", " coughing ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Symptoms != "coughing" || h.Dynamics || h.Date.IsZero() {
		t.Fatalf("unexpected entry %+v", h)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected one persisted entry")
	}
}

func TestService_Save_RequiresPetAccess(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Save(ctx, identity.Actor{ID: "o2", Roles: identity.NewRoleSet(identity.RoleOwner)}, SaveInput{PetID: "p1"})
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	_, err = svc.Save(ctx, identity.Actor{ID: "o1", Roles: identity.NewRoleSet(identity.RoleOwner)}, SaveInput{PetID: "missing"})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatalf("nothing must be persisted")
	}
}

func TestService_Latest(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	vet := identity.Actor{ID: "v1", Roles: identity.NewRoleSet(identity.RoleVet)}

	if _, err := svc.Latest(ctx, vet, "p1"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found with no entries, got %v", err)
	}

	_, _ = svc.RecordVisitStart(ctx, "p1", "first")
	second, _ := svc.Save(ctx, vet, SaveInput{PetID: "p1", Symptoms: "better", Dynamics: true})

	got, err := svc.Latest(ctx, vet, "p1")
	if err != nil || got.ID != second.ID {
		t.Fatalf("expected latest entry, got %v %+v", err, got)
	}
}
