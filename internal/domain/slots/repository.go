package slots

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s Slot) error
	GetByID(ctx context.Context, id string) (Slot, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]Slot, error)
	// ListAvailable devuelve los disponibles con Priority == priority.
	ListAvailable(ctx context.Context, priority bool) ([]Slot, error)
	ListByVet(ctx context.Context, vetID string) ([]Slot, error)
	// ListStartingBetween: Start en [from, to).
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]Slot, error)

	// Book es un compare-and-swap available=true -> false.
	// Devuelve false si ya estaba reservado, apperr.ErrRecordNotFound si no existe.
	Book(ctx context.Context, id string) (bool, error)
	Release(ctx context.Context, id string) error
}
