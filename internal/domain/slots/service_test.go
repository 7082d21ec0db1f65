package slots

import (
	"context"
	"sync"
	"testing"
	"time"

	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/domain/users"
	"vetcare-api/internal/platform/apperr"
)

type testRepo struct {
	mu   sync.Mutex
	byID map[string]Slot
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Slot{}} }

func (r *testRepo) Create(_ context.Context, s Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return Slot{}, apperr.ErrRecordNotFound
	}
	return s, nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return apperr.ErrRecordNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) filter(keep func(Slot) bool) []Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Slot, 0)
	for _, s := range r.byID {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func (r *testRepo) ListAll(context.Context) ([]Slot, error) {
	return r.filter(func(Slot) bool { return true }), nil
}

func (r *testRepo) ListAvailable(_ context.Context, priority bool) ([]Slot, error) {
	return r.filter(func(s Slot) bool { return s.Available && s.Priority == priority }), nil
}

func (r *testRepo) ListByVet(_ context.Context, vetID string) ([]Slot, error) {
	return r.filter(func(s Slot) bool { return s.VetID == vetID }), nil
}

func (r *testRepo) ListStartingBetween(_ context.Context, from, to time.Time) ([]Slot, error) {
	return r.filter(func(s Slot) bool { return !s.Start.Before(from) && s.Start.Before(to) }), nil
}

func (r *testRepo) Book(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return false, apperr.ErrRecordNotFound
	}
	if !s.Available {
		return false, nil
	}
	s.Available = false
	r.byID[id] = s
	return true, nil
}

func (r *testRepo) Release(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return apperr.ErrRecordNotFound
	}
	s.Available = true
	r.byID[id] = s
	return nil
}

type testVets map[string]users.User

func (v testVets) GetByID(_ context.Context, id string) (users.User, error) {
	u, ok := v[id]
	if !ok {
		return users.User{}, apperr.NotFound("User not found with id: %s", id)
	}
	return u, nil
}

var vetActor = identity.Actor{ID: "vet-1", Roles: identity.NewRoleSet(identity.RoleVet)}

func newTestService(loc *time.Location) (*Service, *testRepo) {
	repo := newTestRepo()
	vets := testVets{
		"vet-1":   {ID: "vet-1", Roles: identity.NewRoleSet(identity.RoleVet)},
		"owner-1": {ID: "owner-1", Roles: identity.NewRoleSet(identity.RoleOwner)},
	}
	return NewService(repo, vets, loc), repo
}

func TestService_Create_RejectsStartNotBeforeEnd(t *testing.T) {
	svc, repo := newTestService(time.UTC)
	at := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	for _, end := range []time.Time{at, at.Add(-time.Minute)} {
		_, err := svc.Create(context.Background(), vetActor, CreateInput{Start: at, End: end})
		if apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("expected validation for end=%s, got %v", end, err)
		}
	}
	if len(repo.byID) != 0 {
		t.Fatalf("nothing must be persisted, got %d slots", len(repo.byID))
	}
}

func TestService_Create_DefaultsVetAndDate(t *testing.T) {
	loc := time.FixedZone("clinic", -3*3600)
	svc, _ := newTestService(loc)
	start := time.Date(2026, 6, 1, 23, 30, 0, 0, loc)

	slot, err := svc.Create(context.Background(), vetActor, CreateInput{Start: start, End: start.Add(20 * time.Minute)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot.VetID != "vet-1" || !slot.Available {
		t.Fatalf("unexpected slot %+v", slot)
	}
	if want := time.Date(2026, 6, 1, 0, 0, 0, 0, loc); !slot.Date.Equal(want) {
		t.Fatalf("expected date %s, got %s", want, slot.Date)
	}
}

func TestService_Create_VetMustBeVet(t *testing.T) {
	svc, _ := newTestService(time.UTC)
	admin := identity.Actor{ID: "a", Roles: identity.NewRoleSet(identity.RoleAdmin)}
	at := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), admin, CreateInput{VetID: "owner-1", Start: at, End: at.Add(time.Hour)})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation, got %v", err)
	}
	_, err = svc.Create(context.Background(), admin, CreateInput{VetID: "ghost", Start: at, End: at.Add(time.Hour)})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_Book_ConcurrentExactlyOneWinner(t *testing.T) {
	svc, repo := newTestService(time.UTC)
	repo.byID["s1"] = Slot{ID: "s1", VetID: "vet-1", Available: true}

	const n = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Book(context.Background(), "s1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case apperr.KindOf(err) == apperr.KindConflict:
				conflicts++
			}
		}()
	}
	wg.Wait()

	if wins != 1 || conflicts != n-1 {
		t.Fatalf("expected 1 winner and %d conflicts, got %d/%d", n-1, wins, conflicts)
	}
}

func TestService_ReleaseThenBookAgain(t *testing.T) {
	svc, repo := newTestService(time.UTC)
	repo.byID["s1"] = Slot{ID: "s1", Available: false}
	ctx := context.Background()

	if _, err := svc.Book(ctx, "s1"); apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict on booked slot, got %v", err)
	}
	s, err := svc.Release(ctx, "s1")
	if err != nil || !s.Available {
		t.Fatalf("release failed: %v %+v", err, s)
	}
	if _, err := svc.Book(ctx, "s1"); err != nil {
		t.Fatalf("expected booking after release, got %v", err)
	}
	if _, err := svc.Book(ctx, "missing"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_ListAvailable_SplitsPriority(t *testing.T) {
	svc, repo := newTestService(time.UTC)
	repo.byID["a"] = Slot{ID: "a", Available: true}
	repo.byID["b"] = Slot{ID: "b", Available: true, Priority: true}
	repo.byID["c"] = Slot{ID: "c", Available: false}
	ctx := context.Background()

	regular, _ := svc.ListAvailable(ctx)
	if len(regular) != 1 || regular[0].ID != "a" {
		t.Fatalf("unexpected regular slots %+v", regular)
	}
	prio, _ := svc.ListAvailablePriority(ctx)
	if len(prio) != 1 || prio[0].ID != "b" {
		t.Fatalf("unexpected priority slots %+v", prio)
	}
}
