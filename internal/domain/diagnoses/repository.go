package diagnoses

import "context"

type Repository interface {
	Create(ctx context.Context, d Diagnosis) error
	Update(ctx context.Context, d Diagnosis) error
	GetByID(ctx context.Context, id string) (Diagnosis, error)
	// ListByAnamnesis ordena por fecha ascendente.
	ListByAnamnesis(ctx context.Context, anamnesisID string) ([]Diagnosis, error)
}
