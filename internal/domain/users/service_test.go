package users

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"vetcare-api/internal/domain/clinics"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/platform/apperr"
	"vetcare-api/internal/ports/auth"
	"vetcare-api/internal/ports/storage"

	"golang.org/x/crypto/bcrypt"
)

// -------------------------
// Fakes
// -------------------------

type testRepo struct {
	byID map[string]User
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]User{}} }

func (r *testRepo) taken(u User) bool {
	for _, o := range r.byID {
		if o.ID != u.ID && (o.Username == u.Username || o.Email == u.Email) {
			return true
		}
	}
	return false
}

func (r *testRepo) Create(_ context.Context, u User) error {
	if r.taken(u) {
		return apperr.ErrDuplicate
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) Update(_ context.Context, u User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return apperr.ErrRecordNotFound
	}
	if r.taken(u) {
		return apperr.ErrDuplicate
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.ErrRecordNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, apperr.ErrRecordNotFound
	}
	return u, nil
}

func (r *testRepo) GetByUsername(_ context.Context, username string) (User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, apperr.ErrRecordNotFound
}

func (r *testRepo) ListAll(context.Context) ([]User, error) {
	out := make([]User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, nil
}

func (r *testRepo) ListByRole(_ context.Context, role identity.Role) ([]User, error) {
	out := make([]User, 0)
	for _, u := range r.byID {
		if u.Roles.Has(role) {
			out = append(out, u)
		}
	}
	return out, nil
}

type testIssuer struct{}

func (testIssuer) Issue(c auth.Claims) (auth.IssuedToken, error) {
	return auth.IssuedToken{Token: "tok-" + c.UserID, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type testObjects struct {
	puts []storage.Object
	fail bool
}

func (o *testObjects) Put(_ context.Context, obj storage.Object) (string, error) {
	if o.fail {
		return "", errors.New("storage down")
	}
	_, _ = io.ReadAll(obj.Body)
	o.puts = append(o.puts, obj)
	return o.URL(obj.Bucket, obj.Name), nil
}

func (o *testObjects) Remove(context.Context, string, string) error { return nil }

func (o *testObjects) URL(bucket, name string) string { return "mem://" + bucket + "/" + name }

type testClinics map[string]clinics.Clinic

func (c testClinics) GetByID(_ context.Context, id string) (clinics.Clinic, error) {
	x, ok := c[id]
	if !ok {
		return clinics.Clinic{}, apperr.NotFound("Clinic not found with id: %s", id)
	}
	return x, nil
}

func newTestService() (*Service, *testRepo, *testObjects) {
	repo := newTestRepo()
	objs := &testObjects{}
	svc := NewService(repo, testIssuer{}, objs, testClinics{"c1": {ID: "c1", Name: "Centro"}})
	svc.hashCost = bcrypt.MinCost
	return svc, repo, objs
}

func register(t *testing.T, svc *Service, username string) User {
	t.Helper()
	u, _, err := svc.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@vetcare.test",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u
}

// -------------------------
// Tests
// -------------------------

func TestService_Register_StartsAsUser(t *testing.T) {
	svc, _, _ := newTestService()

	u, tok, err := svc.Register(context.Background(), RegisterInput{
		Username: " alice ",
		Email:    "alice@vetcare.test",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Username != "alice" {
		t.Fatalf("expected trimmed username, got %q", u.Username)
	}
	if !u.Roles.Equal(identity.NewRoleSet(identity.RoleUser)) {
		t.Fatalf("expected {USER}, got %v", u.Roles.Strings())
	}
	if u.PasswordHash == "secret123" || u.PasswordHash == "" {
		t.Fatalf("password must be hashed")
	}
	if tok.Token != "tok-"+u.ID {
		t.Fatalf("unexpected token %q", tok.Token)
	}
}

func TestService_Register_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []RegisterInput{
		{Username: "", Email: "a@b.c", Password: "secret123"},
		{Username: "bob", Email: "not-an-email", Password: "secret123"},
		{Username: "bob", Email: "bob@b.c", Password: "123"},
	}
	for _, in := range cases {
		if _, _, err := svc.Register(ctx, in); apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("expected validation error for %+v, got %v", in, err)
		}
	}
}

func TestService_Register_DuplicateIsConflict(t *testing.T) {
	svc, _, _ := newTestService()
	register(t, svc, "alice")

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "other@vetcare.test",
		Password: "secret123",
	})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestService_Login(t *testing.T) {
	svc, _, _ := newTestService()
	u := register(t, svc, "alice")
	ctx := context.Background()

	tok, err := svc.Login(ctx, "alice", "secret123")
	if err != nil || tok.Token != "tok-"+u.ID {
		t.Fatalf("expected login ok, got %v %+v", err, tok)
	}
	if _, err := svc.Login(ctx, "alice", "wrong"); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized for bad password, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "secret123"); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized for unknown user, got %v", err)
	}
}

func TestService_PromoteToOwner_OnlyOnce(t *testing.T) {
	svc, repo, _ := newTestService()
	u := register(t, svc, "alice")
	ctx := context.Background()

	changed, err := svc.PromoteToOwner(ctx, u.ID)
	if err != nil || !changed {
		t.Fatalf("expected promotion, got %v %v", changed, err)
	}
	if got := repo.byID[u.ID].Roles; !got.Equal(identity.NewRoleSet(identity.RoleOwner)) {
		t.Fatalf("expected exactly {OWNER}, got %v", got.Strings())
	}

	changed, err = svc.PromoteToOwner(ctx, u.ID)
	if err != nil || changed {
		t.Fatalf("second promotion must be a no-op, got %v %v", changed, err)
	}
}

func TestService_UpdateRole_ReplacesSet(t *testing.T) {
	svc, _, _ := newTestService()
	u := register(t, svc, "alice")
	admin := identity.Actor{ID: "admin", Roles: identity.NewRoleSet(identity.RoleAdmin)}

	got, err := svc.UpdateRole(context.Background(), admin, u.ID, identity.RoleVet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Roles.Equal(identity.NewRoleSet(identity.RoleVet)) {
		t.Fatalf("expected exactly {VET}, got %v", got.Roles.Strings())
	}

	_, err = svc.UpdateRole(context.Background(), u.Actor(), u.ID, identity.RoleAdmin)
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("non-admin must be forbidden, got %v", err)
	}
}

func TestService_Get_SelfOrAdmin(t *testing.T) {
	svc, _, _ := newTestService()
	a := register(t, svc, "alice")
	b := register(t, svc, "bob")
	ctx := context.Background()

	if _, err := svc.Get(ctx, a.Actor(), a.ID); err != nil {
		t.Fatalf("self read should pass: %v", err)
	}
	if _, err := svc.Get(ctx, a.Actor(), b.ID); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, a.Actor(), "missing"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_UpdateAvatar_OnlyImages(t *testing.T) {
	svc, _, objs := newTestService()
	u := register(t, svc, "alice")
	ctx := context.Background()

	_, err := svc.UpdateAvatar(ctx, u.Actor(), storage.Object{ContentType: "application/pdf", Body: strings.NewReader("x")})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	got, err := svc.UpdateAvatar(ctx, u.Actor(), storage.Object{ContentType: "image/png", Body: strings.NewReader("png")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PhotoURL != "mem://users/avatar/"+u.ID {
		t.Fatalf("unexpected url %q", got.PhotoURL)
	}
	if len(objs.puts) != 1 {
		t.Fatalf("expected one upload, got %d", len(objs.puts))
	}
}

func TestService_EnsureAdmin_Idempotent(t *testing.T) {
	svc, repo, _ := newTestService()
	in := RegisterInput{Username: "root", Email: "root@vetcare.test", Password: "secret123"}

	first, created, err := svc.EnsureAdmin(context.Background(), in)
	if err != nil || !created {
		t.Fatalf("expected admin created, got created=%v err=%v", created, err)
	}
	if !first.Roles.Equal(identity.NewRoleSet(identity.RoleAdmin)) {
		t.Fatalf("expected {ADMIN}, got %v", first.Roles.Strings())
	}

	again, created, err := svc.EnsureAdmin(context.Background(), in)
	if err != nil || created {
		t.Fatalf("second call must be a no-op, got created=%v err=%v", created, err)
	}
	if again.ID != first.ID || len(repo.byID) != 1 {
		t.Fatalf("expected the same single admin")
	}
}

func TestService_AdminUpdate_ClinicMustExist(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	u := register(t, svc, "vera")
	admin := identity.Actor{ID: "admin", Roles: identity.NewRoleSet(identity.RoleAdmin)}
	str := func(s string) *string { return &s }

	if _, err := svc.AdminUpdate(ctx, admin, u.ID, AdminUpdateInput{ClinicID: str("nope")}); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found for unknown clinic, got %v", err)
	}
	got, err := svc.AdminUpdate(ctx, admin, u.ID, AdminUpdateInput{ClinicID: str(" c1 ")})
	if err != nil || got.ClinicID == nil || *got.ClinicID != "c1" {
		t.Fatalf("expected clinic c1, got %v %v", got.ClinicID, err)
	}
	got, err = svc.AdminUpdate(ctx, admin, u.ID, AdminUpdateInput{ClinicID: str("")})
	if err != nil || got.ClinicID != nil {
		t.Fatalf("expected clinic cleared, got %v %v", got.ClinicID, err)
	}
}
