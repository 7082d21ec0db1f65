package treatments

import (
	"context"
	"errors"
	"strings"
	"time"

	"vetcare-api/internal/domain/access"
	"vetcare-api/internal/domain/diagnoses"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/domain/pets"
	"vetcare-api/internal/platform/apperr"

	"github.com/google/uuid"
)

type PetLookup interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

type DiagnosisLookup interface {
	GetByID(ctx context.Context, id string) (diagnoses.Diagnosis, error)
}

type Service struct {
	repo      Repository
	pets      PetLookup
	diagnoses DiagnosisLookup
	now       func() time.Time
}

func NewService(repo Repository, pets PetLookup, diagnoses DiagnosisLookup) *Service {
	return &Service{repo: repo, pets: pets, diagnoses: diagnoses, now: time.Now}
}

type Input struct {
	PetID                string
	DiagnosisID          string
	Name                 string
	Description          string
	PrescribedMedication string
	Duration             string
}

// Save (ADMIN/VET) abre el tratamiento sin completar.
func (s *Service) Save(ctx context.Context, actor identity.Actor, in Input) (Treatment, error) {
	if err := staff(actor); err != nil {
		return Treatment{}, err
	}
	t := Treatment{ID: uuid.NewString(), CreatedAt: s.now()}
	if err := s.apply(ctx, &t, in); err != nil {
		return Treatment{}, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return Treatment{}, apperr.Internal(err, "create treatment")
	}
	return t, nil
}

// Update reescribe los datos y puede mover el tratamiento de mascota; el estado no cambia.
func (s *Service) Update(ctx context.Context, actor identity.Actor, id string, in Input) (Treatment, error) {
	if err := staff(actor); err != nil {
		return Treatment{}, err
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return Treatment{}, err
	}
	if err := s.apply(ctx, &t, in); err != nil {
		return Treatment{}, err
	}
	return s.save(ctx, t)
}

// Complete es idempotente.
func (s *Service) Complete(ctx context.Context, actor identity.Actor, id string) (Treatment, error) {
	if err := staff(actor); err != nil {
		return Treatment{}, err
	}
	t, err := s.load(ctx, id)
	if err != nil {
		return Treatment{}, err
	}
	if t.Completed {
		return t, nil
	}
	t.Completed = true
	return s.save(ctx, t)
}

func (s *Service) Delete(ctx context.Context, actor identity.Actor, id string) error {
	if err := staff(actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return apperr.NotFound("Treatment not found with id: %s", id)
		}
		return apperr.Internal(err, "delete treatment")
	}
	return nil
}

func (s *Service) Get(ctx context.Context, actor identity.Actor, id string) (Treatment, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return Treatment{}, err
	}
	if err := s.checkPet(ctx, actor, t.PetID); err != nil {
		return Treatment{}, err
	}
	return t, nil
}

func (s *Service) ListByPet(ctx context.Context, actor identity.Actor, petID string) ([]Treatment, error) {
	return s.list(ctx, actor, petID, false)
}

// ActiveByPet son los tratamientos todavía no completados.
func (s *Service) ActiveByPet(ctx context.Context, actor identity.Actor, petID string) ([]Treatment, error) {
	return s.list(ctx, actor, petID, true)
}

func (s *Service) list(ctx context.Context, actor identity.Actor, petID string, activeOnly bool) ([]Treatment, error) {
	if err := s.checkPet(ctx, actor, petID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByPet(ctx, strings.TrimSpace(petID), activeOnly)
	if err != nil {
		return nil, apperr.Internal(err, "list treatments")
	}
	return items, nil
}

func (s *Service) apply(ctx context.Context, t *Treatment, in Input) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperr.Validation("name is required")
	}
	p, err := s.pets.GetByID(ctx, strings.TrimSpace(in.PetID))
	if err != nil {
		return err
	}
	t.DiagnosisID = nil
	if id := strings.TrimSpace(in.DiagnosisID); id != "" {
		d, err := s.diagnoses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		t.DiagnosisID = &d.ID
	}
	t.PetID = p.ID
	t.Name = name
	t.Description = strings.TrimSpace(in.Description)
	t.PrescribedMedication = strings.TrimSpace(in.PrescribedMedication)
	t.Duration = strings.TrimSpace(in.Duration)
	return nil
}

func (s *Service) load(ctx context.Context, id string) (Treatment, error) {
	t, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Treatment{}, apperr.NotFound("Treatment not found with id: %s", id)
		}
		return Treatment{}, apperr.Internal(err, "load treatment")
	}
	return t, nil
}

func (s *Service) save(ctx context.Context, t Treatment) (Treatment, error) {
	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Treatment{}, apperr.NotFound("Treatment not found with id: %s", t.ID)
		}
		return Treatment{}, apperr.Internal(err, "update treatment")
	}
	return t, nil
}

func (s *Service) checkPet(ctx context.Context, actor identity.Actor, petID string) error {
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return err
	}
	return access.CheckPetAccess(actor, p.AccessSubject(), false)
}

func staff(actor identity.Actor) error {
	return access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet)
}
