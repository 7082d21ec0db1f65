package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/platform/apperr"
)

type testRepo struct {
	items     []Notification
	createErr error
}

func (r *testRepo) Create(_ context.Context, n Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.items = append(r.items, n)
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Notification, error) {
	for _, n := range r.items {
		if n.ID == id {
			return n, nil
		}
	}
	return Notification{}, apperr.ErrRecordNotFound
}

func (r *testRepo) ListByUser(_ context.Context, userID string) ([]Notification, error) {
	out := make([]Notification, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].UserID == userID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

type testChannel struct {
	name string
	err  error
	got  []Message
}

func (c *testChannel) Name() string { return c.name }

func (c *testChannel) Deliver(_ context.Context, m Message) error {
	c.got = append(c.got, m)
	return c.err
}

func TestService_Notify_PersistsDespiteChannelFailures(t *testing.T) {
	repo := &testRepo{}
	broken := &testChannel{name: "smtp", err: errors.New("connection refused")}
	push := &testChannel{name: "ws"}
	svc := NewService(repo, nil, broken, push)
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC) }

	svc.Notify(context.Background(), "u1", "hello", " u1@test ")

	if len(repo.items) != 1 || repo.items[0].Content != "hello" || repo.items[0].UserID != "u1" {
		t.Fatalf("expected persisted notification, got %+v", repo.items)
	}
	if len(push.got) != 1 || len(broken.got) != 1 {
		t.Fatalf("every channel must be attempted once")
	}
	if push.got[0].Email != "u1@test" || push.got[0].ID != repo.items[0].ID {
		t.Fatalf("unexpected delivered message %+v", push.got[0])
	}
}

func TestService_Notify_PersistFailureDoesNotPanic(t *testing.T) {
	repo := &testRepo{createErr: errors.New("db down")}
	push := &testChannel{name: "ws"}
	NewService(repo, nil, push).Notify(context.Background(), "u1", "x", "")
	if len(push.got) != 1 {
		t.Fatalf("delivery must still happen")
	}
}

func TestService_MineAndGet(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo, nil)
	ctx := context.Background()
	svc.Notify(ctx, "u1", "first", "")
	svc.Notify(ctx, "u1", "second", "")
	svc.Notify(ctx, "u2", "other", "")

	u1 := identity.Actor{ID: "u1", Roles: identity.NewRoleSet(identity.RoleOwner)}
	mine, err := svc.Mine(ctx, u1)
	if err != nil || len(mine) != 2 || mine[0].Content != "second" {
		t.Fatalf("unexpected mine %+v %v", mine, err)
	}
	if _, err := svc.Mine(ctx, identity.Actor{}); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	otherID := repo.items[2].ID
	if _, err := svc.Get(ctx, u1, otherID); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	admin := identity.Actor{ID: "a", Roles: identity.NewRoleSet(identity.RoleAdmin)}
	if n, err := svc.Get(ctx, admin, otherID); err != nil || n.Content != "other" {
		t.Fatalf("admin should read: %+v %v", n, err)
	}
	if _, err := svc.Get(ctx, u1, "missing"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
