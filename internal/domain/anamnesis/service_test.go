package anamnesis

import (
	"context"
	"testing"
	"time"

	"vetcare-api/internal/domain/appointments"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/domain/pets"
	"vetcare-api/internal/platform/apperr"
)

type testRepo struct {
	items map[string]Anamnesis
}

func (r *testRepo) Create(_ context.Context, a Anamnesis) error {
	for _, x := range r.items {
		if x.AppointmentID == a.AppointmentID {
			return apperr.ErrDuplicate
		}
	}
	r.items[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Anamnesis, error) {
	a, ok := r.items[id]
	if !ok {
		return Anamnesis{}, apperr.ErrRecordNotFound
	}
	return a, nil
}

func (r *testRepo) GetByAppointment(_ context.Context, appointmentID string) (Anamnesis, error) {
	for _, a := range r.items {
		if a.AppointmentID == appointmentID {
			return a, nil
		}
	}
	return Anamnesis{}, apperr.ErrRecordNotFound
}

func (r *testRepo) ListByPet(_ context.Context, petID string) ([]Anamnesis, error) {
	out := make([]Anamnesis, 0)
	for _, a := range r.items {
		if a.PetID == petID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) AppointmentIDs(context.Context) ([]string, error) {
	out := make([]string, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, a.AppointmentID)
	}
	return out, nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return apperr.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

type testPets map[string]pets.Pet

func (p testPets) GetByID(_ context.Context, id string) (pets.Pet, error) {
	x, ok := p[id]
	if !ok {
		return pets.Pet{}, apperr.NotFound("Pet not found with id: %s", id)
	}
	return x, nil
}

type testAppointments map[string]appointments.Appointment

func (a testAppointments) GetByID(_ context.Context, id string) (appointments.Appointment, error) {
	x, ok := a[id]
	if !ok {
		return appointments.Appointment{}, apperr.NotFound("Appointment not found with id: %s", id)
	}
	return x, nil
}

func (a testAppointments) ListAll(context.Context, identity.Actor) ([]appointments.Detail, error) {
	out := make([]appointments.Detail, 0, len(a))
	for _, x := range []string{"ap1", "ap2"} {
		if ap, ok := a[x]; ok {
			out = append(out, appointments.Detail{Appointment: ap})
		}
	}
	return out, nil
}

var (
	vet   = identity.Actor{ID: "v1", Roles: identity.NewRoleSet(identity.RoleVet)}
	owner = identity.Actor{ID: "o1", Roles: identity.NewRoleSet(identity.RoleOwner)}
)

func newTestService() (*Service, *testRepo) {
	repo := &testRepo{items: map[string]Anamnesis{}}
	svc := NewService(repo,
		testPets{"p1": {ID: "p1", OwnerID: "o1"}, "p2": {ID: "p2", OwnerID: "o2"}},
		testAppointments{
			"ap1": {ID: "ap1", PetID: "p1"},
			"ap2": {ID: "ap2", PetID: "p1"},
		},
	)
	svc.now = func() time.Time { return time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestService_Save_OnePerAppointment(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	in := SaveInput{PetID: "p1", AppointmentID: "ap1", Name: "Control", Description: "ok"}

	a, err := svc.Save(ctx, vet, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.AppointmentID != "ap1" || a.Date.IsZero() {
		t.Fatalf("unexpected anamnesis %+v", a)
	}
	if _, err := svc.Save(ctx, vet, in); apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict on second save, got %v", err)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected one stored anamnesis, got %d", len(repo.items))
	}
}

func TestService_Save_Checks(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name  string
		actor identity.Actor
		in    SaveInput
		kind  apperr.Kind
	}{
		{"owner forbidden", owner, SaveInput{PetID: "p1", AppointmentID: "ap1", Name: "x"}, apperr.KindForbidden},
		{"missing name", vet, SaveInput{PetID: "p1", AppointmentID: "ap1"}, apperr.KindValidation},
		{"missing pet", vet, SaveInput{PetID: "nope", AppointmentID: "ap1", Name: "x"}, apperr.KindNotFound},
		{"missing appointment", vet, SaveInput{PetID: "p1", AppointmentID: "nope", Name: "x"}, apperr.KindNotFound},
		{"other pet", vet, SaveInput{PetID: "p2", AppointmentID: "ap1", Name: "x"}, apperr.KindValidation},
	}
	for _, tc := range cases {
		if _, err := svc.Save(ctx, tc.actor, tc.in); apperr.KindOf(err) != tc.kind {
			t.Fatalf("%s: expected %s, got %v", tc.name, tc.kind, err)
		}
	}
}

func TestService_ListWithoutAnamnesis(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Save(ctx, vet, SaveInput{PetID: "p1", AppointmentID: "ap1", Name: "x"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	pending, err := svc.ListWithoutAnamnesis(ctx, vet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "ap2" {
		t.Fatalf("expected only ap2 pending, got %+v", pending)
	}
}

func TestService_GetAndDelete(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	a, _ := svc.Save(ctx, vet, SaveInput{PetID: "p1", AppointmentID: "ap1", Name: "x"})

	if _, err := svc.Get(ctx, owner, a.ID); err != nil {
		t.Fatalf("owner of the pet should read: %v", err)
	}
	other := identity.Actor{ID: "o9", Roles: identity.NewRoleSet(identity.RoleOwner)}
	if _, err := svc.Get(ctx, other, a.ID); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := svc.Delete(ctx, owner, a.ID); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("owner cannot delete, got %v", err)
	}
	if err := svc.Delete(ctx, vet, a.ID); err != nil || len(repo.items) != 0 {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(ctx, vet, a.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
