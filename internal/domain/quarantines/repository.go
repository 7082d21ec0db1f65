package quarantines

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, q Quarantine) error
	GetByID(ctx context.Context, id string) (Quarantine, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]Quarantine, error)
	ListByPet(ctx context.Context, petID string) ([]Quarantine, error)
	ListBySector(ctx context.Context, sectorID string) ([]Quarantine, error)
	// ListBySectorStatus pagina por fecha de inicio; devuelve también el total.
	ListBySectorStatus(ctx context.Context, sectorID string, status Status, offset, limit int) ([]Quarantine, int, error)
	// Reasons devuelve los motivos distintos de las cuarentenas del sector con ese estado.
	Reasons(ctx context.Context, sectorID string, status Status) ([]string, error)
	// ListDue: end < now y status != DONE.
	ListDue(ctx context.Context, now time.Time) ([]Quarantine, error)
	// Complete pasa a DONE solo si no lo estaba. false = otro ya la cerró.
	Complete(ctx context.Context, id string) (bool, error)
}
