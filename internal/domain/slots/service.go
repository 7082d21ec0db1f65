package slots

import (
	"context"
	"errors"
	"strings"
	"time"

	"vetcare-api/internal/domain/access"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/domain/users"
	"vetcare-api/internal/platform/apperr"

	"github.com/google/uuid"
)

type VetLookup interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

type Service struct {
	repo Repository
	vets VetLookup
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo Repository, vets VetLookup, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, vets: vets, loc: loc, now: time.Now}
}

// Location es la zona de la clínica; los handlers la usan para parsear fecha + hora.
func (s *Service) Location() *time.Location { return s.loc }

type CreateInput struct {
	VetID    string // vacío => el actor, si es vet
	Start    time.Time
	End      time.Time
	Priority bool
}

// Create valida start < end antes de tocar el repo.
func (s *Service) Create(ctx context.Context, actor identity.Actor, in CreateInput) (Slot, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet); err != nil {
		return Slot{}, err
	}
	if in.Start.IsZero() || in.End.IsZero() {
		return Slot{}, apperr.Validation("start and end are required")
	}
	if !in.Start.Before(in.End) {
		return Slot{}, apperr.Validation("Start time must be before end time")
	}

	vetID := strings.TrimSpace(in.VetID)
	if vetID == "" && actor.IsVet() {
		vetID = actor.ID
	}
	if vetID == "" {
		return Slot{}, apperr.Validation("vetId is required")
	}
	vet, err := s.vets.GetByID(ctx, vetID)
	if err != nil {
		return Slot{}, err
	}
	if !vet.Roles.Has(identity.RoleVet) {
		return Slot{}, apperr.Validation("user %s is not a vet", vetID)
	}

	start := in.Start.In(s.loc)
	slot := Slot{
		ID:        uuid.NewString(),
		VetID:     vet.ID,
		Date:      dayOf(start, s.loc),
		Start:     start,
		End:       in.End.In(s.loc),
		Available: true,
		Priority:  in.Priority,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return Slot{}, apperr.Internal(err, "create slot")
	}
	return slot, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Slot, error) {
	slot, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Slot{}, apperr.NotFound("Slot not found with id: %s", id)
		}
		return Slot{}, apperr.Internal(err, "load slot")
	}
	return s.local(slot), nil
}

// Book reserva el slot. De dos reservas concurrentes gana una; la otra recibe Conflict.
func (s *Service) Book(ctx context.Context, id string) (Slot, error) {
	ok, err := s.repo.Book(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Slot{}, apperr.NotFound("Slot not found with id: %s", id)
		}
		return Slot{}, apperr.Internal(err, "book slot")
	}
	if !ok {
		return Slot{}, apperr.Conflict("Slot %s is already booked", id)
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Release(ctx context.Context, id string) (Slot, error) {
	if err := s.repo.Release(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Slot{}, apperr.NotFound("Slot not found with id: %s", id)
		}
		return Slot{}, apperr.Internal(err, "release slot")
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return apperr.NotFound("Slot not found with id: %s", id)
		}
		return apperr.Internal(err, "delete slot")
	}
	return nil
}

// ListAvailable: disponibles y no prioritarios.
func (s *Service) ListAvailable(ctx context.Context) ([]Slot, error) {
	return s.wrapList(s.repo.ListAvailable(ctx, false))
}

func (s *Service) ListAvailablePriority(ctx context.Context) ([]Slot, error) {
	return s.wrapList(s.repo.ListAvailable(ctx, true))
}

func (s *Service) ListAll(ctx context.Context) ([]Slot, error) {
	return s.wrapList(s.repo.ListAll(ctx))
}

func (s *Service) ListByVet(ctx context.Context, vetID string) ([]Slot, error) {
	return s.wrapList(s.repo.ListByVet(ctx, vetID))
}

// ListOnDay devuelve los slots cuyo día calendario (zona de la clínica) es day.
func (s *Service) ListOnDay(ctx context.Context, day time.Time) ([]Slot, error) {
	from := dayOf(day.In(s.loc), s.loc)
	return s.wrapList(s.repo.ListStartingBetween(ctx, from, from.AddDate(0, 0, 1)))
}

// Today es la medianoche de hoy en la zona de la clínica.
func (s *Service) Today() time.Time {
	return dayOf(s.now().In(s.loc), s.loc)
}

func (s *Service) wrapList(items []Slot, err error) ([]Slot, error) {
	if err != nil {
		return nil, apperr.Internal(err, "list slots")
	}
	for i := range items {
		items[i] = s.local(items[i])
	}
	return items, nil
}

// local pasa los tiempos a la zona de la clínica; el store puede devolverlos en UTC.
func (s *Service) local(sl Slot) Slot {
	sl.Date = sl.Date.In(s.loc)
	sl.Start = sl.Start.In(s.loc)
	sl.End = sl.End.In(s.loc)
	return sl
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
