package postgres

import (
	"context"
	"database/sql"

	"vetcare-api/internal/domain/notifications"
)

type NotificationsRepo struct {
	db *sql.DB
}

func NewNotificationsRepo(db *sql.DB) *NotificationsRepo {
	return &NotificationsRepo{db: db}
}

func (r *NotificationsRepo) Create(ctx context.Context, n notifications.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, content, created_at) VALUES ($1,$2,$3,$4)
	`, n.ID, n.UserID, n.Content, n.CreatedAt)
	return mapErr(err)
}

func (r *NotificationsRepo) GetByID(ctx context.Context, id string) (notifications.Notification, error) {
	return queryOne(ctx, r.db, scanNotification,
		`SELECT id, user_id, content, created_at FROM notifications WHERE id = $1`, id)
}

func (r *NotificationsRepo) ListByUser(ctx context.Context, userID string) ([]notifications.Notification, error) {
	return query(ctx, r.db, scanNotification, `
		SELECT id, user_id, content, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
}

func scanNotification(s scanner) (notifications.Notification, error) {
	var n notifications.Notification
	err := s.Scan(&n.ID, &n.UserID, &n.Content, &n.CreatedAt)
	return n, err
}
