package clinics

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"vetcare-api/internal/domain/access"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type Input struct {
	Name        string
	Address     string
	Phone       string
	Email       string
	Description string
}

func (in Input) normalize() (Input, error) {
	out := Input{
		Name:        strings.TrimSpace(in.Name),
		Address:     strings.TrimSpace(in.Address),
		Phone:       strings.TrimSpace(in.Phone),
		Email:       strings.TrimSpace(in.Email),
		Description: strings.TrimSpace(in.Description),
	}
	if out.Name == "" {
		return Input{}, apperr.Validation("name is required")
	}
	if out.Email != "" {
		if _, err := mail.ParseAddress(out.Email); err != nil {
			return Input{}, apperr.Validation("invalid email: %s", out.Email)
		}
	}
	return out, nil
}

// Create solo para ADMIN.
func (s *Service) Create(ctx context.Context, actor identity.Actor, in Input) (Clinic, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin); err != nil {
		return Clinic{}, err
	}
	in, err := in.normalize()
	if err != nil {
		return Clinic{}, err
	}
	now := s.now()
	c := Clinic{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Address:     in.Address,
		Phone:       in.Phone,
		Email:       in.Email,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Clinic{}, apperr.Internal(err, "create clinic")
	}
	return c, nil
}

// Update reemplaza todos los datos editables.
func (s *Service) Update(ctx context.Context, actor identity.Actor, id string, in Input) (Clinic, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin); err != nil {
		return Clinic{}, err
	}
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return Clinic{}, err
	}
	in, err = in.normalize()
	if err != nil {
		return Clinic{}, err
	}
	c.Name = in.Name
	c.Address = in.Address
	c.Phone = in.Phone
	c.Email = in.Email
	c.Description = in.Description
	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Clinic{}, apperr.NotFound("Clinic not found with id: %s", id)
		}
		return Clinic{}, apperr.Internal(err, "update clinic")
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Clinic, error) {
	c, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Clinic{}, apperr.NotFound("Clinic not found with id: %s", id)
		}
		return Clinic{}, apperr.Internal(err, "load clinic")
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]Clinic, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list clinics")
	}
	return items, nil
}

func (s *Service) Delete(ctx context.Context, actor identity.Actor, id string) error {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return apperr.NotFound("Clinic not found with id: %s", id)
		}
		return apperr.Internal(err, "delete clinic")
	}
	return nil
}
