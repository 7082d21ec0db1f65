package pets

import (
	"context"

	"vetcare-api/internal/domain/access"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/domain/users"
	"vetcare-api/internal/platform/apperr"
)

// OwnerOf devuelve el dueño de la mascota. Requiere acceso a la mascota.
func (s *Service) OwnerOf(ctx context.Context, actor identity.Actor, petID string) (users.User, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return users.User{}, err
	}
	if err := access.CheckPetAccess(actor, p.AccessSubject(), false); err != nil {
		return users.User{}, err
	}
	if p.OwnerID == "" {
		return users.User{}, apperr.NotFound("Pet %s has no owner", p.ID)
	}
	return s.users.GetByID(ctx, p.OwnerID)
}
