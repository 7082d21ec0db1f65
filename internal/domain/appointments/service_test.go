package appointments

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"vetcare-api/internal/domain/healthupdates"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/domain/pets"
	"vetcare-api/internal/domain/slots"
	"vetcare-api/internal/domain/users"
	"vetcare-api/internal/platform/apperr"
)

type testRepo struct {
	byID      map[string]Appointment
	createErr error
}

func (r *testRepo) Create(_ context.Context, a Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Update(_ context.Context, a Appointment) error {
	if _, ok := r.byID[a.ID]; !ok {
		return apperr.ErrRecordNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.ErrRecordNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, apperr.ErrRecordNotFound
	}
	return a, nil
}

func (r *testRepo) list(keep func(Appointment) bool) []Appointment {
	out := make([]Appointment, 0)
	for _, a := range r.byID {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *testRepo) ListAll(context.Context) ([]Appointment, error) {
	return r.list(func(Appointment) bool { return true }), nil
}

func (r *testRepo) ListByPet(_ context.Context, petID string) ([]Appointment, error) {
	return r.list(func(a Appointment) bool { return a.PetID == petID }), nil
}

func (r *testRepo) ListBySlots(_ context.Context, ids []string) ([]Appointment, error) {
	set := map[string]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return r.list(func(a Appointment) bool { return set[a.SlotID] }), nil
}

type testPets map[string]pets.Pet

func (p testPets) GetByID(_ context.Context, id string) (pets.Pet, error) {
	x, ok := p[id]
	if !ok {
		return pets.Pet{}, apperr.NotFound("Pet not found with id: %s", id)
	}
	return x, nil
}

type testUsers map[string]users.User

func (u testUsers) GetByID(_ context.Context, id string) (users.User, error) {
	x, ok := u[id]
	if !ok {
		return users.User{}, apperr.NotFound("User not found with id: %s", id)
	}
	return x, nil
}

type testSlots struct {
	mu    sync.Mutex
	byID  map[string]slots.Slot
	today time.Time
}

func (s *testSlots) GetByID(_ context.Context, id string) (slots.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	x, ok := s.byID[id]
	if !ok {
		return slots.Slot{}, apperr.NotFound("Slot not found with id: %s", id)
	}
	return x, nil
}

func (s *testSlots) Book(_ context.Context, id string) (slots.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	x, ok := s.byID[id]
	if !ok {
		return slots.Slot{}, apperr.NotFound("Slot not found with id: %s", id)
	}
	if !x.Available {
		return slots.Slot{}, apperr.Conflict("Slot %s is already booked", id)
	}
	x.Available = false
	s.byID[id] = x
	return x, nil
}

func (s *testSlots) Release(_ context.Context, id string) (slots.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	x, ok := s.byID[id]
	if !ok {
		return slots.Slot{}, apperr.NotFound("Slot not found with id: %s", id)
	}
	x.Available = true
	s.byID[id] = x
	return x, nil
}

func (s *testSlots) ListByVet(_ context.Context, vetID string) ([]slots.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]slots.Slot, 0)
	for _, x := range s.byID {
		if x.VetID == vetID {
			out = append(out, x)
		}
	}
	return out, nil
}

func (s *testSlots) ListOnDay(_ context.Context, day time.Time) ([]slots.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]slots.Slot, 0)
	for _, x := range s.byID {
		if x.Date.Equal(day) {
			out = append(out, x)
		}
	}
	return out, nil
}

func (s *testSlots) Today() time.Time          { return s.today }
func (s *testSlots) Location() *time.Location { return time.UTC }

type testVisits struct {
	calls []string
	err   error
}

func (v *testVisits) RecordVisitStart(_ context.Context, petID, symptoms string) (healthupdates.HealthUpdate, error) {
	if v.err != nil {
		return healthupdates.HealthUpdate{}, v.err
	}
	v.calls = append(v.calls, petID+":"+symptoms)
	return healthupdates.HealthUpdate{PetID: petID, Symptoms: symptoms}, nil
}

type sent struct {
	userID, message, email string
}

type testNotifier struct {
	mu   sync.Mutex
	sent []sent
}

func (n *testNotifier) Notify(_ context.Context, userID, message, email string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sent{userID, message, email})
}

func (n *testNotifier) to(userID string) []sent {
	out := make([]sent, 0)
	for _, s := range n.sent {
		if s.userID == userID {
			out = append(out, s)
		}
	}
	return out
}

var (
	today    = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	admin    = identity.Actor{ID: "admin-1", Roles: identity.NewRoleSet(identity.RoleAdmin)}
	vet      = identity.Actor{ID: "vet-1", Roles: identity.NewRoleSet(identity.RoleVet)}
	owner    = identity.Actor{ID: "owner-1", Roles: identity.NewRoleSet(identity.RoleOwner)}
	stranger = identity.Actor{ID: "owner-2", Roles: identity.NewRoleSet(identity.RoleOwner)}
)

type fixture struct {
	svc      *Service
	repo     *testRepo
	pets     testPets
	slots    *testSlots
	visits   *testVisits
	notifier *testNotifier
}

func newFixture() *fixture {
	f := &fixture{
		repo: &testRepo{byID: map[string]Appointment{}},
		pets: testPets{
			"p1": {ID: "p1", OwnerID: "owner-1", Name: "Luna"},
			"p2": {ID: "p2", OwnerID: "owner-2", Name: "Toby"},
		},
		slots:    &testSlots{byID: map[string]slots.Slot{}, today: today},
		visits:   &testVisits{},
		notifier: &testNotifier{},
	}
	people := testUsers{
		"owner-1": {ID: "owner-1", Email: "owner1@test"},
		"owner-2": {ID: "owner-2", Email: "owner2@test"},
		"vet-1":   {ID: "vet-1", Email: "vet1@test"},
	}
	f.svc = NewService(f.repo, f.pets, people, f.slots, f.visits, f.notifier, nil)
	f.svc.now = func() time.Time { return today.Add(8 * time.Hour) }
	return f
}

func (f *fixture) addSlot(id string, day time.Time, hour int, available bool) {
	f.slots.byID[id] = slots.Slot{
		ID:        id,
		VetID:     "vet-1",
		Date:      day,
		Start:     day.Add(time.Duration(hour) * time.Hour),
		End:       day.Add(time.Duration(hour)*time.Hour + 30*time.Minute),
		Available: available,
	}
}

func TestService_Create_BooksSlotAndRecordsVisit(t *testing.T) {
	f := newFixture()
	f.addSlot("s1", today.AddDate(0, 0, 2), 10, true)

	d, err := f.svc.Create(context.Background(), owner, CreateInput{PetID: "p1", SlotID: "s1", Description: " vomits "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.SlotID != "s1" || d.Slot == nil || d.Description != "vomits" {
		t.Fatalf("unexpected appointment %+v", d)
	}
	if f.slots.byID["s1"].Available {
		t.Fatalf("slot must be booked")
	}
	if len(f.visits.calls) != 1 || f.visits.calls[0] != "p1:vomits" {
		t.Fatalf("expected one visit-start update, got %v", f.visits.calls)
	}
	if _, ok := f.repo.byID[d.ID]; !ok {
		t.Fatalf("appointment not persisted")
	}
}

func TestService_Create_BookedSlotConflicts(t *testing.T) {
	f := newFixture()
	f.addSlot("s1", today.AddDate(0, 0, 2), 10, false)

	_, err := f.svc.Create(context.Background(), vet, CreateInput{PetID: "p1", SlotID: "s1"})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(f.repo.byID) != 0 || len(f.visits.calls) != 0 {
		t.Fatalf("nothing must be recorded on conflict")
	}
}

func TestService_Create_ReleasesSlotWhenPersistFails(t *testing.T) {
	f := newFixture()
	f.addSlot("s1", today.AddDate(0, 0, 2), 10, true)
	f.repo.createErr = errors.New("db down")

	_, err := f.svc.Create(context.Background(), admin, CreateInput{PetID: "p1", SlotID: "s1"})
	if apperr.KindOf(err) != apperr.KindInternal {
		t.Fatalf("expected internal, got %v", err)
	}
	if !f.slots.byID["s1"].Available {
		t.Fatalf("slot must be released after failure")
	}
}

func TestService_Create_PetChecks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, admin, CreateInput{PetID: "ghost"}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.svc.Create(ctx, stranger, CreateInput{PetID: "p1"}); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden for other owner, got %v", err)
	}
	// sin slot también es válido
	d, err := f.svc.Create(ctx, owner, CreateInput{PetID: "p1"})
	if err != nil || d.SlotID != "" || d.Slot != nil {
		t.Fatalf("expected slotless appointment, got %+v %v", d, err)
	}
}

func TestService_Reschedule_DoesNotTouchAvailability(t *testing.T) {
	f := newFixture()
	f.addSlot("old", today.AddDate(0, 0, 1), 9, false)
	f.addSlot("new", today.AddDate(0, 0, 3), 11, true)
	f.repo.byID["a1"] = Appointment{ID: "a1", PetID: "p1", SlotID: "old"}

	d, err := f.svc.Reschedule(context.Background(), owner, "a1", "new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.SlotID != "new" || f.repo.byID["a1"].SlotID != "new" {
		t.Fatalf("slot reference not swapped: %+v", d)
	}
	if f.slots.byID["old"].Available || !f.slots.byID["new"].Available {
		t.Fatalf("availability must not change: old=%v new=%v", f.slots.byID["old"].Available, f.slots.byID["new"].Available)
	}
}

func TestService_Reschedule_Errors(t *testing.T) {
	f := newFixture()
	f.addSlot("old", today.AddDate(0, 0, 1), 9, false)
	f.repo.byID["a1"] = Appointment{ID: "a1", PetID: "p1", SlotID: "old"}
	ctx := context.Background()

	if _, err := f.svc.Reschedule(ctx, owner, "missing", "old"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found appointment, got %v", err)
	}
	if _, err := f.svc.Reschedule(ctx, owner, "a1", "missing"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found slot, got %v", err)
	}
	if _, err := f.svc.Reschedule(ctx, stranger, "a1", "old"); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestService_Cancel_NotifiesOwnerOnce(t *testing.T) {
	f := newFixture()
	f.addSlot("s1", today.AddDate(0, 0, 1), 9, false)
	f.repo.byID["a1"] = Appointment{ID: "a1", PetID: "p1", SlotID: "s1"}

	msg, err := f.svc.Cancel(context.Background(), vet, "a1", "vet is sick", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Appointment a1 canceled" {
		t.Fatalf("unexpected message %q", msg)
	}
	got := f.notifier.to("owner-1")
	if len(got) != 1 || got[0].message != "Your appointment has been cancelled by vet cause: vet is sick" || got[0].email != "owner1@test" {
		t.Fatalf("expected one owner notification, got %+v", got)
	}
	if len(f.notifier.to("vet-1")) != 0 {
		t.Fatalf("vet must not be notified without flag")
	}
	if _, ok := f.repo.byID["a1"]; ok {
		t.Fatalf("appointment must be removed")
	}
	if !f.slots.byID["s1"].Available {
		t.Fatalf("slot must be released")
	}
}

func TestService_Cancel_NotifyVetFlag(t *testing.T) {
	f := newFixture()
	f.addSlot("s1", today.AddDate(0, 0, 1), 9, false)
	f.repo.byID["a1"] = Appointment{ID: "a1", PetID: "p1", SlotID: "s1"}

	if _, err := f.svc.Cancel(context.Background(), admin, "a1", "closed", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.notifier.to("owner-1")) != 1 || len(f.notifier.to("vet-1")) != 1 {
		t.Fatalf("expected owner and vet notified once, got %+v", f.notifier.sent)
	}
}

func TestService_Cancel_Guards(t *testing.T) {
	f := newFixture()
	f.repo.byID["a1"] = Appointment{ID: "a1", PetID: "p1"}
	ctx := context.Background()

	if _, err := f.svc.Cancel(ctx, owner, "a1", "x", false); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("owner cannot cancel, got %v", err)
	}
	if _, err := f.svc.Cancel(ctx, vet, "missing", "x", false); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(f.notifier.sent) != 0 {
		t.Fatalf("no notifications expected, got %+v", f.notifier.sent)
	}
}

func TestService_SendReminders_IsolatesFailures(t *testing.T) {
	f := newFixture()
	tomorrow := today.AddDate(0, 0, 1)
	f.addSlot("s1", tomorrow, 9, false)
	f.addSlot("s2", tomorrow, 14, false)
	f.addSlot("s3", today.AddDate(0, 0, 5), 9, false)
	f.repo.byID["a1"] = Appointment{ID: "a1", PetID: "p1", SlotID: "s1"}
	f.repo.byID["a2"] = Appointment{ID: "a2", PetID: "gone", SlotID: "s2"} // mascota borrada
	f.repo.byID["a3"] = Appointment{ID: "a3", PetID: "p2", SlotID: "s3"}

	report, err := f.svc.SendReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Appointments != 2 || report.Notified != 1 || report.Failed != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	want := "Pet Luna has an appointment scheduled for tomorrow at 09:00"
	ownerMsgs, vetMsgs := f.notifier.to("owner-1"), f.notifier.to("vet-1")
	if len(ownerMsgs) != 1 || ownerMsgs[0].message != want {
		t.Fatalf("unexpected owner reminder %+v", ownerMsgs)
	}
	if len(vetMsgs) != 1 || vetMsgs[0].message != want {
		t.Fatalf("unexpected vet reminder %+v", vetMsgs)
	}
	if len(f.notifier.to("owner-2")) != 0 {
		t.Fatalf("appointments outside tomorrow must not be reminded")
	}
}

func TestService_SendReminders_EachRecipientOnItsOwn(t *testing.T) {
	f := newFixture()
	tomorrow := today.AddDate(0, 0, 1)
	f.pets["stray"] = pets.Pet{ID: "stray", Name: "Nube"} // sin dueño
	f.addSlot("s1", tomorrow, 9, false)
	f.addSlot("s2", tomorrow, 11, false)
	s2 := f.slots.byID["s2"]
	s2.VetID = "vet-gone"
	f.slots.byID["s2"] = s2
	f.repo.byID["a1"] = Appointment{ID: "a1", PetID: "stray", SlotID: "s1"}
	f.repo.byID["a2"] = Appointment{ID: "a2", PetID: "p1", SlotID: "s2"}

	report, err := f.svc.SendReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Appointments != 2 || report.Notified != 2 || report.Failed != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if msgs := f.notifier.to("vet-1"); len(msgs) != 1 || msgs[0].message != "Pet Nube has an appointment scheduled for tomorrow at 09:00" {
		t.Fatalf("vet must be reminded even without owner, got %+v", msgs)
	}
	if msgs := f.notifier.to("owner-1"); len(msgs) != 1 || msgs[0].message != "Pet Luna has an appointment scheduled for tomorrow at 11:00" {
		t.Fatalf("owner must be reminded even when the vet is missing, got %+v", msgs)
	}
}

func TestService_SendReminders_FailsWhenNobodyReachable(t *testing.T) {
	f := newFixture()
	tomorrow := today.AddDate(0, 0, 1)
	f.pets["stray"] = pets.Pet{ID: "stray", Name: "Nube"}
	f.addSlot("s1", tomorrow, 9, false)
	s1 := f.slots.byID["s1"]
	s1.VetID = "vet-gone"
	f.slots.byID["s1"] = s1
	f.repo.byID["a1"] = Appointment{ID: "a1", PetID: "stray", SlotID: "s1"}

	report, err := f.svc.SendReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Notified != 0 || report.Failed != 1 || len(f.notifier.sent) != 0 {
		t.Fatalf("unexpected report %+v sent=%v", report, f.notifier.sent)
	}
}

func TestService_Upcoming(t *testing.T) {
	f := newFixture()
	f.addSlot("past", today.AddDate(0, 0, -1), 9, false)
	f.addSlot("now", today, 15, false)
	f.addSlot("later", today.AddDate(0, 0, 4), 9, false)
	f.repo.byID["a1"] = Appointment{ID: "a1", PetID: "p1", SlotID: "past"}
	f.repo.byID["a2"] = Appointment{ID: "a2", PetID: "p1", SlotID: "later"}
	f.repo.byID["a3"] = Appointment{ID: "a3", PetID: "p1", SlotID: "now"}
	f.repo.byID["a4"] = Appointment{ID: "a4", PetID: "p1"}
	ctx := context.Background()

	byPet, err := f.svc.UpcomingByPet(ctx, owner, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byPet) != 2 || byPet[0].ID != "a3" || byPet[1].ID != "a2" {
		t.Fatalf("unexpected upcoming by pet %+v", byPet)
	}

	byVet, err := f.svc.UpcomingByVet(ctx, vet, "vet-1")
	if err != nil || len(byVet) != 2 {
		t.Fatalf("unexpected upcoming by vet %+v %v", byVet, err)
	}
	all, _ := f.svc.ListByVet(ctx, admin, "vet-1")
	if len(all) != 3 {
		t.Fatalf("expected all 3 slotted appointments, got %d", len(all))
	}
	if _, err := f.svc.UpcomingByVet(ctx, owner, "vet-1"); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("owner must be forbidden, got %v", err)
	}
	if _, err := f.svc.UpcomingByPet(ctx, stranger, "p1"); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("stranger must be forbidden, got %v", err)
	}
}

func TestService_Get_AccessThroughSlotVet(t *testing.T) {
	f := newFixture()
	f.addSlot("s1", today, 9, false)
	f.repo.byID["a1"] = Appointment{ID: "a1", PetID: "p2", SlotID: "s1"}
	ctx := context.Background()

	if _, err := f.svc.Get(ctx, vet, "a1"); err != nil {
		t.Fatalf("slot vet should read: %v", err)
	}
	if _, err := f.svc.Get(ctx, owner, "a1"); err == nil || !strings.Contains(err.Error(), "appointment with id: a1") {
		t.Fatalf("expected appointment access denied, got %v", err)
	}
}
