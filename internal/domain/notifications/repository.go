package notifications

import "context"

type Repository interface {
	Create(ctx context.Context, n Notification) error
	GetByID(ctx context.Context, id string) (Notification, error)
	// ListByUser ordena de la más nueva a la más vieja.
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
}
