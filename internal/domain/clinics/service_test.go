package clinics

import (
	"context"
	"sort"
	"testing"
	"time"

	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/platform/apperr"
)

type testRepo struct {
	byID map[string]Clinic
}

func (r *testRepo) Create(_ context.Context, c Clinic) error {
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) Update(_ context.Context, c Clinic) error {
	if _, ok := r.byID[c.ID]; !ok {
		return apperr.ErrRecordNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Clinic, error) {
	c, ok := r.byID[id]
	if !ok {
		return Clinic{}, apperr.ErrRecordNotFound
	}
	return c, nil
}

func (r *testRepo) ListAll(context.Context) ([]Clinic, error) {
	out := make([]Clinic, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.ErrRecordNotFound
	}
	delete(r.byID, id)
	return nil
}

var (
	admin = identity.Actor{ID: "a1", Roles: identity.NewRoleSet(identity.RoleAdmin)}
	vet   = identity.Actor{ID: "v1", Roles: identity.NewRoleSet(identity.RoleVet)}
)

func newTestService() (*Service, *testRepo) {
	repo := &testRepo{byID: map[string]Clinic{}}
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestService_Create(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, vet, Input{Name: "Centro"}); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden for vet, got %v", err)
	}
	if _, err := svc.Create(ctx, admin, Input{Name: "  "}); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation for empty name, got %v", err)
	}
	if _, err := svc.Create(ctx, admin, Input{Name: "Centro", Email: "not-an-email"}); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation for bad email, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("nothing must be persisted")
	}

	c, err := svc.Create(ctx, admin, Input{Name: " Centro ", Address: "Av. 1", Email: "centro@vetcare.test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID == "" || c.Name != "Centro" || c.CreatedAt.IsZero() {
		t.Fatalf("unexpected clinic %+v", c)
	}
}

func TestService_UpdateAndDelete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	c, _ := svc.Create(ctx, admin, Input{Name: "Centro"})

	got, err := svc.Update(ctx, admin, c.ID, Input{Name: "Norte", Phone: "555"})
	if err != nil || got.Name != "Norte" || got.Phone != "555" || got.CreatedAt != c.CreatedAt {
		t.Fatalf("unexpected update %+v %v", got, err)
	}
	if _, err := svc.Update(ctx, admin, "missing", Input{Name: "x"}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := svc.Delete(ctx, vet, c.ID); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := svc.Delete(ctx, admin, c.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetByID(ctx, c.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
