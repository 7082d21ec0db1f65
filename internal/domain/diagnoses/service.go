package diagnoses

import (
	"context"
	"errors"
	"strings"
	"time"

	"vetcare-api/internal/domain/access"
	"vetcare-api/internal/domain/anamnesis"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/platform/apperr"

	"github.com/google/uuid"
)

// AnamnesisLookup: GetByID sin chequeo, Get con el acceso del actor sobre la mascota.
type AnamnesisLookup interface {
	GetByID(ctx context.Context, id string) (anamnesis.Anamnesis, error)
	Get(ctx context.Context, actor identity.Actor, id string) (anamnesis.Anamnesis, error)
}

type Service struct {
	repo      Repository
	anamnesis AnamnesisLookup
	now       func() time.Time
}

func NewService(repo Repository, anamnesis AnamnesisLookup) *Service {
	return &Service{repo: repo, anamnesis: anamnesis, now: time.Now}
}

type Input struct {
	AnamnesisID string
	Name        string
	BodyPart    string
	Description string
	Contagious  bool
}

// Save (ADMIN/VET) fecha el diagnóstico con el momento de carga.
func (s *Service) Save(ctx context.Context, actor identity.Actor, in Input) (Diagnosis, error) {
	if err := staff(actor); err != nil {
		return Diagnosis{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Diagnosis{}, apperr.Validation("name is required")
	}
	a, err := s.anamnesis.GetByID(ctx, strings.TrimSpace(in.AnamnesisID))
	if err != nil {
		return Diagnosis{}, err
	}

	d := Diagnosis{
		ID:          uuid.NewString(),
		AnamnesisID: a.ID,
		Name:        name,
		BodyPart:    strings.TrimSpace(in.BodyPart),
		Description: strings.TrimSpace(in.Description),
		Contagious:  in.Contagious,
		Date:        s.now(),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return Diagnosis{}, apperr.Internal(err, "create diagnosis")
	}
	return d, nil
}

// Update cambia los datos clínicos; la anamnesis y la fecha no se mueven.
func (s *Service) Update(ctx context.Context, actor identity.Actor, id string, in Input) (Diagnosis, error) {
	if err := staff(actor); err != nil {
		return Diagnosis{}, err
	}
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return Diagnosis{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Diagnosis{}, apperr.Validation("name is required")
	}
	d.Name = name
	d.BodyPart = strings.TrimSpace(in.BodyPart)
	d.Description = strings.TrimSpace(in.Description)
	d.Contagious = in.Contagious
	if err := s.repo.Update(ctx, d); err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Diagnosis{}, apperr.NotFound("Diagnosis not found with id: %s", id)
		}
		return Diagnosis{}, apperr.Internal(err, "update diagnosis")
	}
	return d, nil
}

// GetByID es la lectura interna, sin chequeo de acceso.
func (s *Service) GetByID(ctx context.Context, id string) (Diagnosis, error) {
	d, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Diagnosis{}, apperr.NotFound("Diagnosis not found with id: %s", id)
		}
		return Diagnosis{}, apperr.Internal(err, "load diagnosis")
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, actor identity.Actor, id string) (Diagnosis, error) {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return Diagnosis{}, err
	}
	if _, err := s.anamnesis.Get(ctx, actor, d.AnamnesisID); err != nil {
		return Diagnosis{}, err
	}
	return d, nil
}

func (s *Service) ListByAnamnesis(ctx context.Context, actor identity.Actor, anamnesisID string) ([]Diagnosis, error) {
	if _, err := s.anamnesis.Get(ctx, actor, anamnesisID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByAnamnesis(ctx, strings.TrimSpace(anamnesisID))
	if err != nil {
		return nil, apperr.Internal(err, "list diagnoses")
	}
	return items, nil
}

// First es el diagnóstico primario: el más antiguo de la anamnesis.
func (s *Service) First(ctx context.Context, actor identity.Actor, anamnesisID string) (Diagnosis, error) {
	items, err := s.ListByAnamnesis(ctx, actor, anamnesisID)
	if err != nil {
		return Diagnosis{}, err
	}
	if len(items) == 0 {
		return Diagnosis{}, apperr.NotFound("No diagnosis found for anamnesis with id: %s", anamnesisID)
	}
	return items[0], nil
}

// ExceptFirst son los diagnósticos clínicos posteriores al primario.
func (s *Service) ExceptFirst(ctx context.Context, actor identity.Actor, anamnesisID string) ([]Diagnosis, error) {
	items, err := s.ListByAnamnesis(ctx, actor, anamnesisID)
	if err != nil {
		return nil, err
	}
	if len(items) <= 1 {
		return []Diagnosis{}, nil
	}
	return items[1:], nil
}

func staff(actor identity.Actor) error {
	return access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet)
}
