package memory

import (
	"context"

	"vetcare-api/internal/domain/notifications"
)

type notificationRepo struct {
	t *table[notifications.Notification]
}

func NewNotificationRepo() notifications.Repository {
	return NewStore().Notifications()
}

func (r *notificationRepo) Create(ctx context.Context, n notifications.Notification) error {
	return r.t.insert(n.ID, n)
}

func (r *notificationRepo) GetByID(ctx context.Context, id string) (notifications.Notification, error) {
	return r.t.get(id)
}

// más nuevas primero
func (r *notificationRepo) ListByUser(ctx context.Context, userID string) ([]notifications.Notification, error) {
	return r.t.list(
		func(n notifications.Notification) bool { return n.UserID == userID },
		func(a, b notifications.Notification) bool { return a.CreatedAt.After(b.CreatedAt) },
	), nil
}
