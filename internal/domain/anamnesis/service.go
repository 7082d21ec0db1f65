package anamnesis

import (
	"context"
	"errors"
	"strings"
	"time"

	"vetcare-api/internal/domain/access"
	"vetcare-api/internal/domain/appointments"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/domain/pets"
	"vetcare-api/internal/platform/apperr"

	"github.com/google/uuid"
)

type PetLookup interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

type AppointmentLookup interface {
	GetByID(ctx context.Context, id string) (appointments.Appointment, error)
	ListAll(ctx context.Context, actor identity.Actor) ([]appointments.Detail, error)
}

type Service struct {
	repo         Repository
	pets         PetLookup
	appointments AppointmentLookup
	now          func() time.Time
}

func NewService(repo Repository, pets PetLookup, appointments AppointmentLookup) *Service {
	return &Service{repo: repo, pets: pets, appointments: appointments, now: time.Now}
}

type SaveInput struct {
	PetID         string
	AppointmentID string
	Name          string
	Description   string
}

func (s *Service) Save(ctx context.Context, actor identity.Actor, in SaveInput) (Anamnesis, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet); err != nil {
		return Anamnesis{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Anamnesis{}, apperr.Validation("name is required")
	}
	pet, err := s.pets.GetByID(ctx, strings.TrimSpace(in.PetID))
	if err != nil {
		return Anamnesis{}, err
	}
	ap, err := s.appointments.GetByID(ctx, strings.TrimSpace(in.AppointmentID))
	if err != nil {
		return Anamnesis{}, err
	}
	if ap.PetID != pet.ID {
		return Anamnesis{}, apperr.Validation("appointment %s does not belong to pet %s", ap.ID, pet.ID)
	}

	if _, err := s.repo.GetByAppointment(ctx, ap.ID); err == nil {
		return Anamnesis{}, apperr.Conflict("Appointment %s already has an anamnesis", ap.ID)
	} else if !errors.Is(err, apperr.ErrRecordNotFound) {
		return Anamnesis{}, apperr.Internal(err, "load anamnesis by appointment")
	}

	a := Anamnesis{
		ID:            uuid.NewString(),
		PetID:         pet.ID,
		AppointmentID: ap.ID,
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Date:          s.now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return Anamnesis{}, apperr.Conflict("Appointment %s already has an anamnesis", ap.ID)
		}
		return Anamnesis{}, apperr.Internal(err, "create anamnesis")
	}
	return a, nil
}

// GetByID es la lectura interna, sin chequeo de acceso.
func (s *Service) GetByID(ctx context.Context, id string) (Anamnesis, error) {
	a, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Anamnesis{}, apperr.NotFound("Anamnesis not found with id: %s", id)
		}
		return Anamnesis{}, apperr.Internal(err, "load anamnesis")
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, actor identity.Actor, id string) (Anamnesis, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Anamnesis{}, err
	}
	if err := s.checkPet(ctx, actor, a.PetID); err != nil {
		return Anamnesis{}, err
	}
	return a, nil
}

func (s *Service) ListByPet(ctx context.Context, actor identity.Actor, petID string) ([]Anamnesis, error) {
	if err := s.checkPet(ctx, actor, petID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByPet(ctx, petID)
	if err != nil {
		return nil, apperr.Internal(err, "list anamnesis")
	}
	return items, nil
}

func (s *Service) Delete(ctx context.Context, actor identity.Actor, id string) error {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return apperr.NotFound("Anamnesis not found with id: %s", id)
		}
		return apperr.Internal(err, "delete anamnesis")
	}
	return nil
}

// ListWithoutAnamnesis: turnos que todavía no tienen anamnesis cargada.
func (s *Service) ListWithoutAnamnesis(ctx context.Context, actor identity.Actor) ([]appointments.Detail, error) {
	all, err := s.appointments.ListAll(ctx, actor)
	if err != nil {
		return nil, err
	}
	ids, err := s.repo.AppointmentIDs(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list anamnesis appointments")
	}
	done := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		done[id] = struct{}{}
	}
	out := make([]appointments.Detail, 0, len(all))
	for _, d := range all {
		if _, ok := done[d.ID]; !ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Service) checkPet(ctx context.Context, actor identity.Actor, petID string) error {
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return err
	}
	return access.CheckPetAccess(actor, p.AccessSubject(), false)
}
