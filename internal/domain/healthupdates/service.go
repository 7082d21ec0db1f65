package healthupdates

import (
	"context"
	"errors"
	"strings"
	"time"

	"vetcare-api/internal/domain/access"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/domain/pets"
	"vetcare-api/internal/platform/apperr"

	"github.com/google/uuid"
)

type PetLookup interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

type Service struct {
	repo Repository
	pets PetLookup
	now  func() time.Time
}

func NewService(repo Repository, pets PetLookup) *Service {
	return &Service{repo: repo, pets: pets, now: time.Now}
}

type SaveInput struct {
	PetID    string
	Symptoms string
	Dynamics bool
	Notes    string
}

// Save registra una entrada con fecha = ahora.
func (s *Service) Save(ctx context.Context, actor identity.Actor, in SaveInput) (HealthUpdate, error) {
	p, err := s.pets.GetByID(ctx, in.PetID)
	if err != nil {
		return HealthUpdate{}, err
	}
	if err := access.CheckPetAccess(actor, p.AccessSubject(), true); err != nil {
		return HealthUpdate{}, err
	}
	return s.create(ctx, HealthUpdate{
		PetID:    p.ID,
		Symptoms: strings.TrimSpace(in.Symptoms),
		Dynamics: in.Dynamics,
		Notes:    strings.TrimSpace(in.Notes),
	})
}

// RecordVisitStart es la entrada que abre cada turno: síntomas = motivo de la consulta.
func (s *Service) RecordVisitStart(ctx context.Context, petID, symptoms string) (HealthUpdate, error) {
	return s.create(ctx, HealthUpdate{
		PetID:    petID,
		Symptoms: strings.TrimSpace(symptoms),
		Dynamics: false,
	})
}

func (s *Service) create(ctx context.Context, h HealthUpdate) (HealthUpdate, error) {
	h.ID = uuid.NewString()
	h.Date = s.now()
	if err := s.repo.Create(ctx, h); err != nil {
		return HealthUpdate{}, apperr.Internal(err, "create health update")
	}
	return h, nil
}

func (s *Service) Get(ctx context.Context, actor identity.Actor, id string) (HealthUpdate, error) {
	h, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return HealthUpdate{}, apperr.NotFound("Health update not found with id: %s", id)
		}
		return HealthUpdate{}, apperr.Internal(err, "load health update")
	}
	if err := s.checkPet(ctx, actor, h.PetID); err != nil {
		return HealthUpdate{}, err
	}
	return h, nil
}

func (s *Service) ListByPet(ctx context.Context, actor identity.Actor, petID string) ([]HealthUpdate, error) {
	if err := s.checkPet(ctx, actor, petID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByPet(ctx, petID)
	if err != nil {
		return nil, apperr.Internal(err, "list health updates")
	}
	return items, nil
}

// Latest devuelve la entrada más reciente de la mascota.
func (s *Service) Latest(ctx context.Context, actor identity.Actor, petID string) (HealthUpdate, error) {
	if err := s.checkPet(ctx, actor, petID); err != nil {
		return HealthUpdate{}, err
	}
	h, err := s.repo.LatestByPet(ctx, petID)
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return HealthUpdate{}, apperr.NotFound("No health updates for pet with id: %s", petID)
		}
		return HealthUpdate{}, apperr.Internal(err, "load latest health update")
	}
	return h, nil
}

func (s *Service) checkPet(ctx context.Context, actor identity.Actor, petID string) error {
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return err
	}
	return access.CheckPetAccess(actor, p.AccessSubject(), false)
}
