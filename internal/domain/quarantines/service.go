package quarantines

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"vetcare-api/internal/domain/access"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/domain/pets"
	"vetcare-api/internal/domain/sectors"
	"vetcare-api/internal/domain/users"
	"vetcare-api/internal/platform/apperr"
	"vetcare-api/internal/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type PetLookup interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

type SectorLookup interface {
	GetByID(ctx context.Context, id string) (sectors.Sector, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, message, email string)
}

type Service struct {
	repo     Repository
	pets     PetLookup
	sectors  SectorLookup
	users    UserLookup
	notifier Notifier
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, pets PetLookup, sectors SectorLookup, users UserLookup, notifier Notifier, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		pets:     pets,
		sectors:  sectors,
		users:    users,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type CreateInput struct {
	PetID       string
	SectorID    string
	Reason      string
	Description string
	Start       time.Time
	End         time.Time
}

// Create valida fechas antes de cualquier lectura; el actor queda como vet responsable.
func (s *Service) Create(ctx context.Context, actor identity.Actor, in CreateInput) (Quarantine, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet); err != nil {
		return Quarantine{}, err
	}
	if in.Start.IsZero() || in.End.IsZero() {
		return Quarantine{}, apperr.Validation("start and end dates are required")
	}
	if !in.Start.Before(in.End) {
		return Quarantine{}, apperr.Validation("Start date must be before end date")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return Quarantine{}, apperr.Validation("reason is required")
	}

	pet, err := s.pets.GetByID(ctx, strings.TrimSpace(in.PetID))
	if err != nil {
		return Quarantine{}, err
	}
	sector, err := s.sectors.GetByID(ctx, strings.TrimSpace(in.SectorID))
	if err != nil {
		return Quarantine{}, err
	}

	q := Quarantine{
		ID:          uuid.NewString(),
		PetID:       pet.ID,
		SectorID:    sector.ID,
		VetID:       actor.ID,
		Reason:      reason,
		Description: strings.TrimSpace(in.Description),
		Start:       in.Start,
		End:         in.End,
		Status:      StatusCurrent,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return Quarantine{}, apperr.Internal(err, "create quarantine")
	}
	return q, nil
}

// Sweep cierra las cuarentenas vencidas. Solo quien logra la transición a DONE avisa al vet,
// así que correrlo dos veces no duplica avisos.
func (s *Service) Sweep(ctx context.Context) (SweepReport, error) {
	var report SweepReport

	due, err := s.repo.ListDue(ctx, s.now())
	if err != nil {
		return report, apperr.Internal(err, "list due quarantines")
	}
	report.Due = len(due)

	for _, q := range due {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		done, err := s.repo.Complete(ctx, q.ID)
		if err != nil {
			report.Failed++
			s.log.Warn("complete quarantine failed", map[string]any{"quarantine_id": q.ID, "error": err.Error()})
			continue
		}
		if !done {
			continue
		}
		report.Completed++
		s.notifyCompleted(ctx, q)
	}
	return report, nil
}

func (s *Service) notifyCompleted(ctx context.Context, q Quarantine) {
	pet, err := s.pets.GetByID(ctx, q.PetID)
	if err != nil {
		s.log.Warn("quarantine pet not found", map[string]any{"quarantine_id": q.ID, "pet_id": q.PetID})
		return
	}
	vet, err := s.users.GetByID(ctx, q.VetID)
	if err != nil {
		s.log.Warn("quarantine vet not found", map[string]any{"quarantine_id": q.ID, "vet_id": q.VetID})
		return
	}
	s.notifier.Notify(ctx, vet.ID, "Quarantine for pet "+pet.Name+" has been completed!", vet.Email)
}

func (s *Service) Get(ctx context.Context, actor identity.Actor, id string) (Quarantine, error) {
	if err := staff(actor); err != nil {
		return Quarantine{}, err
	}
	q, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Quarantine{}, apperr.NotFound("Quarantine not found with id: %s", id)
		}
		return Quarantine{}, apperr.Internal(err, "load quarantine")
	}
	return q, nil
}

func (s *Service) Delete(ctx context.Context, actor identity.Actor, id string) error {
	if err := staff(actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return apperr.NotFound("Quarantine not found with id: %s", id)
		}
		return apperr.Internal(err, "delete quarantine")
	}
	return nil
}

func (s *Service) ListAll(ctx context.Context, actor identity.Actor) ([]Quarantine, error) {
	if err := staff(actor); err != nil {
		return nil, err
	}
	return wrapList(s.repo.ListAll(ctx))
}

func (s *Service) ListByPet(ctx context.Context, actor identity.Actor, petID string) ([]Quarantine, error) {
	if err := staff(actor); err != nil {
		return nil, err
	}
	return wrapList(s.repo.ListByPet(ctx, strings.TrimSpace(petID)))
}

func (s *Service) ListBySector(ctx context.Context, actor identity.Actor, sectorID string) ([]Quarantine, error) {
	if err := staff(actor); err != nil {
		return nil, err
	}
	return wrapList(s.repo.ListBySector(ctx, strings.TrimSpace(sectorID)))
}

// ListBySectorStatus pagina; page arranca en 0 y size se acota a [1, 100].
func (s *Service) ListBySectorStatus(ctx context.Context, actor identity.Actor, sectorID string, status Status, page, size int) (Page, error) {
	if err := staff(actor); err != nil {
		return Page{}, err
	}
	if page < 0 {
		return Page{}, apperr.Validation("page must be >= 0")
	}
	switch {
	case size <= 0:
		size = defaultPageSize
	case size > maxPageSize:
		size = maxPageSize
	}
	if page > math.MaxInt/size {
		return Page{}, apperr.Validation("page %d is out of range", page)
	}
	items, total, err := s.repo.ListBySectorStatus(ctx, strings.TrimSpace(sectorID), status, page*size, size)
	if err != nil {
		return Page{}, apperr.Internal(err, "list quarantines")
	}
	return Page{Items: items, Number: page, Size: size, Total: total}, nil
}

// Reasons: motivos distintos de las cuarentenas vigentes del sector.
func (s *Service) Reasons(ctx context.Context, actor identity.Actor, sectorID string) ([]string, error) {
	if err := staff(actor); err != nil {
		return nil, err
	}
	out, err := s.repo.Reasons(ctx, strings.TrimSpace(sectorID), StatusCurrent)
	if err != nil {
		return nil, apperr.Internal(err, "list quarantine reasons")
	}
	return out, nil
}

func staff(actor identity.Actor) error {
	return access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet)
}

func wrapList(items []Quarantine, err error) ([]Quarantine, error) {
	if err != nil {
		return nil, apperr.Internal(err, "list quarantines")
	}
	return items, nil
}
