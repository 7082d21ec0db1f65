package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vetcare-api/internal/domain/access"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/domain/sectors"
	"vetcare-api/internal/domain/users"
	"vetcare-api/internal/platform/apperr"
	"vetcare-api/internal/ports/storage"

	"github.com/google/uuid"
)

// UserDirectory es lo que pets necesita de users.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (users.User, error)
	PromoteToOwner(ctx context.Context, id string) (bool, error)
}

type SectorLookup interface {
	GetByID(ctx context.Context, id string) (sectors.Sector, error)
}

type Service struct {
	repo    Repository
	users   UserDirectory
	sectors SectorLookup
	objects storage.ObjectStorage
	now     func() time.Time
}

func NewService(repo Repository, users UserDirectory, sectors SectorLookup, objects storage.ObjectStorage) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		sectors: sectors,
		objects: objects,
		now:     time.Now,
	}
}

// Create registra la mascota con el actor como dueño.
// Si el actor era {USER}, pasa a {OWNER}.
func (s *Service) Create(ctx context.Context, actor identity.Actor, dto PetDTO) (Pet, error) {
	if !actor.Authenticated() {
		return Pet{}, apperr.Unauthorized("authentication required")
	}
	p, err := validated(dto)
	if err != nil {
		return Pet{}, err
	}

	now := s.now()
	p.ID = uuid.NewString()
	p.OwnerID = actor.ID
	p.VetID = ""
	p.SectorID = ""
	p.PhotoURL = ""
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, apperr.Internal(err, "create pet")
	}

	if _, err := s.users.PromoteToOwner(ctx, actor.ID); err != nil {
		// sin promoción el dueño no podría ver su mascota
		if derr := s.repo.Delete(ctx, p.ID); derr != nil {
			return Pet{}, errors.Join(err, fmt.Errorf("rollback pet %s: %w", p.ID, derr))
		}
		return Pet{}, err
	}
	return p, nil
}

// GetByID es la lectura interna, sin chequeo de acceso.
func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Pet{}, apperr.NotFound("Pet not found with id: %s", id)
		}
		return Pet{}, apperr.Internal(err, "load pet")
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, actor identity.Actor, id string) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if err := access.CheckPetAccess(actor, p.AccessSubject(), false); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// Update reemplaza los datos descriptivos. Owner, vet y sector tienen operaciones propias.
func (s *Service) Update(ctx context.Context, actor identity.Actor, id string, dto PetDTO) (Pet, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if err := access.CheckPetAccess(actor, current.AccessSubject(), true); err != nil {
		return Pet{}, err
	}
	in, err := validated(dto)
	if err != nil {
		return Pet{}, err
	}

	current.Name = in.Name
	current.Breed = in.Breed
	current.Type = in.Type
	current.Weight = in.Weight
	current.Sex = in.Sex
	current.Age = in.Age
	return s.save(ctx, current)
}

func (s *Service) Delete(ctx context.Context, actor identity.Actor, id string) error {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return apperr.NotFound("Pet not found with id: %s", id)
		}
		return apperr.Internal(err, "delete pet")
	}
	return nil
}

// Bind asigna la mascota al vet que hace el request.
func (s *Service) Bind(ctx context.Context, actor identity.Actor, id string) (Pet, error) {
	if err := access.RequireAnyRole(actor, identity.RoleVet); err != nil {
		return Pet{}, err
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	p.VetID = actor.ID
	return s.save(ctx, p)
}

func (s *Service) Unbind(ctx context.Context, actor identity.Actor, id string) (Pet, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet); err != nil {
		return Pet{}, err
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	p.VetID = ""
	return s.save(ctx, p)
}

func (s *Service) PlaceInSector(ctx context.Context, actor identity.Actor, id, sectorID string) (Pet, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet); err != nil {
		return Pet{}, err
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	sec, err := s.sectors.GetByID(ctx, sectorID)
	if err != nil {
		return Pet{}, err
	}
	p.SectorID = sec.ID
	return s.save(ctx, p)
}

func (s *Service) RemoveFromSector(ctx context.Context, actor identity.Actor, id string) (Pet, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet); err != nil {
		return Pet{}, err
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	p.SectorID = ""
	return s.save(ctx, p)
}

func (s *Service) ListAll(ctx context.Context, actor identity.Actor) ([]Pet, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet); err != nil {
		return nil, err
	}
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list pets")
	}
	return items, nil
}

// ListByOwner devuelve las mascotas del actor.
func (s *Service) ListByOwner(ctx context.Context, actor identity.Actor) ([]Pet, error) {
	items, err := s.repo.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal(err, "list pets")
	}
	return items, nil
}

// ListByVet: un vet ve las suyas; admin cualquiera.
func (s *Service) ListByVet(ctx context.Context, actor identity.Actor, vetID string) ([]Pet, error) {
	if !actor.IsAdmin() && !(actor.IsVet() && actor.ID == vetID) {
		return nil, apperr.Forbidden("Access denied to pets of vet with id: %s", vetID)
	}
	items, err := s.repo.ListByVet(ctx, vetID)
	if err != nil {
		return nil, apperr.Internal(err, "list pets")
	}
	return items, nil
}

// UpdateAvatar sube la foto (solo PNG/JPEG) al bucket "pets" como avatar/<id>.
func (s *Service) UpdateAvatar(ctx context.Context, actor identity.Actor, id string, obj storage.Object) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if err := access.CheckPetAccess(actor, p.AccessSubject(), true); err != nil {
		return Pet{}, err
	}
	if !storage.IsImage(obj.ContentType) {
		return Pet{}, apperr.Validation("only PNG and JPEG images are allowed")
	}

	obj.Bucket = storage.BucketPets
	obj.Name = "avatar/" + p.ID
	url, err := s.objects.Put(ctx, obj)
	if err != nil {
		return Pet{}, apperr.Internal(err, "upload pet avatar")
	}
	p.PhotoURL = url
	return s.save(ctx, p)
}

func (s *Service) save(ctx context.Context, p Pet) (Pet, error) {
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Pet{}, apperr.NotFound("Pet not found with id: %s", p.ID)
		}
		return Pet{}, apperr.Internal(err, "update pet")
	}
	return p, nil
}

func validated(d PetDTO) (Pet, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return Pet{}, apperr.Validation("name is required")
	}
	t, ok := ParseType(string(d.Type))
	if !ok {
		return Pet{}, apperr.Validation("type must be one of CAT, DOG, BIRD, REPTILE, RODENT, OTHER")
	}
	sex, ok := ParseSex(string(d.Sex))
	if !ok {
		return Pet{}, apperr.Validation("sex must be one of MALE, FEMALE, UNKNOWN")
	}
	if d.Weight < 0 || d.Age < 0 {
		return Pet{}, apperr.Validation("weight and age must not be negative")
	}

	p := FromDTO(d)
	p.Name = name
	p.Breed = strings.TrimSpace(d.Breed)
	p.Type = t
	p.Sex = sex
	return p, nil
}
