package sectors

import (
	"context"
	"testing"

	"vetcare-api/internal/platform/apperr"
)

type testRepo struct {
	byID map[string]Sector
}

func (r *testRepo) Create(_ context.Context, s Sector) error { r.byID[s.ID] = s; return nil }

func (r *testRepo) GetByID(_ context.Context, id string) (Sector, error) {
	s, ok := r.byID[id]
	if !ok {
		return Sector{}, apperr.ErrRecordNotFound
	}
	return s, nil
}

func (r *testRepo) ListAll(context.Context) ([]Sector, error) {
	out := make([]Sector, 0)
	for _, s := range r.byID {
		out = append(out, s)
	}
	return out, nil
}

func (r *testRepo) ListByCategory(_ context.Context, c Category) ([]Sector, error) {
	out := make([]Sector, 0)
	for _, s := range r.byID {
		if s.Category == c {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.ErrRecordNotFound
	}
	delete(r.byID, id)
	return nil
}

func TestService_Create_StartsEmptyAndAvailable(t *testing.T) {
	svc := NewService(&testRepo{byID: map[string]Sector{}})

	sec, err := svc.Create(context.Background(), CreateInput{Name: "Q1", Category: "quarantine", Capacity: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sec.Category != CategoryQuarantine || sec.Occupancy != 0 || !sec.Available {
		t.Fatalf("unexpected sector %+v", sec)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(&testRepo{byID: map[string]Sector{}})
	ctx := context.Background()

	for _, in := range []CreateInput{
		{Name: "", Category: "SURGERY", Capacity: 1},
		{Name: "S", Category: "KITCHEN", Capacity: 1},
		{Name: "S", Category: "SURGERY", Capacity: 0},
	} {
		if _, err := svc.Create(ctx, in); apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("expected validation for %+v, got %v", in, err)
		}
	}
}

func TestService_ListAvailableByCategory_SkipsFullAndClosed(t *testing.T) {
	repo := &testRepo{byID: map[string]Sector{
		"a": {ID: "a", Category: CategoryInpatient, Capacity: 2, Occupancy: 1, Available: true},
		"b": {ID: "b", Category: CategoryInpatient, Capacity: 2, Occupancy: 2, Available: true},
		"c": {ID: "c", Category: CategoryInpatient, Capacity: 2, Occupancy: 0, Available: false},
		"d": {ID: "d", Category: CategorySurgery, Capacity: 2, Occupancy: 0, Available: true},
	}}
	svc := NewService(repo)

	items, err := svc.ListAvailableByCategory(context.Background(), "INPATIENT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "a" {
		t.Fatalf("expected only sector a, got %+v", items)
	}
}

func TestService_GetByID_NotFound(t *testing.T) {
	svc := NewService(&testRepo{byID: map[string]Sector{}})
	if _, err := svc.GetByID(context.Background(), "nope"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
