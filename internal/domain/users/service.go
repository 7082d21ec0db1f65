package users

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"vetcare-api/internal/domain/access"
	"vetcare-api/internal/domain/clinics"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/platform/apperr"
	"vetcare-api/internal/ports/auth"
	"vetcare-api/internal/ports/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// ClinicLookup valida la clínica que un admin asigna a un usuario.
type ClinicLookup interface {
	GetByID(ctx context.Context, id string) (clinics.Clinic, error)
}

type Service struct {
	repo    Repository
	tokens  auth.TokenIssuer
	objects storage.ObjectStorage
	clinics ClinicLookup

	hashCost int
	now      func() time.Time
}

func NewService(repo Repository, tokens auth.TokenIssuer, objects storage.ObjectStorage, clinics ClinicLookup) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		objects:  objects,
		clinics:  clinics,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Phone    string
	Name     string
	Surname  string
}

// Register crea la cuenta con roles {USER} y devuelve el token de sesión.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, auth.IssuedToken, error) {
	u, err := s.create(ctx, in, identity.NewRoleSet(identity.RoleUser))
	if err != nil {
		return User{}, auth.IssuedToken{}, err
	}

	tok, err := s.issue(u)
	if err != nil {
		return User{}, auth.IssuedToken{}, err
	}
	return u, tok, nil
}

// EnsureAdmin crea la cuenta ADMIN inicial si el username no existe. Si existe no la toca.
func (s *Service) EnsureAdmin(ctx context.Context, in RegisterInput) (User, bool, error) {
	existing, err := s.repo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperr.ErrRecordNotFound) {
		return User{}, false, apperr.Internal(err, "load user")
	}
	u, err := s.create(ctx, in, identity.NewRoleSet(identity.RoleAdmin))
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

func (s *Service) create(ctx context.Context, in RegisterInput, roles identity.RoleSet) (User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" {
		return User{}, apperr.Validation("username is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, apperr.Validation("email is invalid")
	}
	if len(in.Password) < minPasswordLen {
		return User{}, apperr.Validation("password must be at least %d characters", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return User{}, apperr.Internal(err, "hash password")
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(in.Phone),
		Name:         strings.TrimSpace(in.Name),
		Surname:      strings.TrimSpace(in.Surname),
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return User{}, apperr.Conflict("username or email already taken")
		}
		return User{}, apperr.Internal(err, "create user")
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (auth.IssuedToken, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return auth.IssuedToken{}, apperr.Unauthorized("invalid username or password")
		}
		return auth.IssuedToken{}, apperr.Internal(err, "load user")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return auth.IssuedToken{}, apperr.Unauthorized("invalid username or password")
	}
	return s.issue(u)
}

func (s *Service) issue(u User) (auth.IssuedToken, error) {
	if s.tokens == nil {
		return auth.IssuedToken{}, apperr.Internal(errors.New("token issuer not configured"), "issue token")
	}
	tok, err := s.tokens.Issue(auth.Claims{
		UserID:   u.ID,
		Username: u.Username,
		Roles:    u.Roles.Strings(),
	})
	if err != nil {
		return auth.IssuedToken{}, apperr.Internal(err, "issue token")
	}
	return tok, nil
}

// ActorByID lo usa el middleware para resolver la identidad en cada request.
func (s *Service) ActorByID(ctx context.Context, id string) (identity.Actor, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return identity.Actor{}, err
	}
	return u.Actor(), nil
}

// GetByID es la lectura interna, sin chequeo de acceso.
func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	u, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return User{}, apperr.NotFound("User not found with id: %s", id)
		}
		return User{}, apperr.Internal(err, "load user")
	}
	return u, nil
}

// Get aplica CheckUserAccess: admin o el propio usuario.
func (s *Service) Get(ctx context.Context, actor identity.Actor, id string) (User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if err := access.CheckUserAccess(actor, u.ID, false); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) ListAll(ctx context.Context, actor identity.Actor) ([]User, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin); err != nil {
		return nil, err
	}
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list users")
	}
	return items, nil
}

func (s *Service) ListByRole(ctx context.Context, role identity.Role) ([]User, error) {
	items, err := s.repo.ListByRole(ctx, role)
	if err != nil {
		return nil, apperr.Internal(err, "list users by role")
	}
	return items, nil
}

type ProfileInput struct {
	Email   *string
	Phone   *string
	Name    *string
	Surname *string
}

// UpdateProfile: el usuario edita sus propios datos. nil = no tocar.
func (s *Service) UpdateProfile(ctx context.Context, actor identity.Actor, in ProfileInput) (User, error) {
	u, err := s.GetByID(ctx, actor.ID)
	if err != nil {
		return User{}, err
	}
	if err := applyProfile(&u, in); err != nil {
		return User{}, err
	}
	return s.save(ctx, u)
}

type AdminUpdateInput struct {
	ProfileInput
	Username *string
	ClinicID *string // "" limpia la clínica
}

func (s *Service) AdminUpdate(ctx context.Context, actor identity.Actor, id string, in AdminUpdateInput) (User, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin); err != nil {
		return User{}, err
	}
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if err := applyProfile(&u, in.ProfileInput); err != nil {
		return User{}, err
	}
	if in.Username != nil {
		v := strings.TrimSpace(*in.Username)
		if v == "" {
			return User{}, apperr.Validation("username is required")
		}
		u.Username = v
	}
	if in.ClinicID != nil {
		if v := strings.TrimSpace(*in.ClinicID); v == "" {
			u.ClinicID = nil
		} else {
			c, err := s.clinics.GetByID(ctx, v)
			if err != nil {
				return User{}, err
			}
			u.ClinicID = &c.ID
		}
	}
	return s.save(ctx, u)
}

// UpdateRole reemplaza el set completo de roles por {role}.
func (s *Service) UpdateRole(ctx context.Context, actor identity.Actor, id string, role identity.Role) (User, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin); err != nil {
		return User{}, err
	}
	if !role.Valid() {
		return User{}, apperr.Validation("unknown role")
	}
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	u.Roles = identity.ReplaceWith(role)
	return s.save(ctx, u)
}

// PromoteToOwner aplica USER -> OWNER. Devuelve false si no correspondía.
func (s *Service) PromoteToOwner(ctx context.Context, id string) (bool, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	next, changed := identity.PromoteToOwner(u.Roles)
	if !changed {
		return false, nil
	}
	u.Roles = next
	if _, err := s.save(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) Delete(ctx context.Context, actor identity.Actor, id string) error {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return apperr.NotFound("User not found with id: %s", id)
		}
		return apperr.Internal(err, "delete user")
	}
	return nil
}

// UpdateAvatar sube la foto del usuario autenticado (solo PNG/JPEG).
func (s *Service) UpdateAvatar(ctx context.Context, actor identity.Actor, obj storage.Object) (User, error) {
	if !storage.IsImage(obj.ContentType) {
		return User{}, apperr.Validation("only PNG and JPEG images are allowed")
	}
	u, err := s.GetByID(ctx, actor.ID)
	if err != nil {
		return User{}, err
	}

	obj.Bucket = storage.BucketUsers
	obj.Name = "avatar/" + u.ID
	url, err := s.objects.Put(ctx, obj)
	if err != nil {
		return User{}, apperr.Internal(err, "upload avatar")
	}
	u.PhotoURL = url
	return s.save(ctx, u)
}

func (s *Service) save(ctx context.Context, u User) (User, error) {
	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, apperr.ErrDuplicate):
			return User{}, apperr.Conflict("username or email already taken")
		case errors.Is(err, apperr.ErrRecordNotFound):
			return User{}, apperr.NotFound("User not found with id: %s", u.ID)
		}
		return User{}, apperr.Internal(err, "update user")
	}
	return u, nil
}

func applyProfile(u *User, in ProfileInput) error {
	if in.Email != nil {
		v := strings.TrimSpace(*in.Email)
		if _, err := mail.ParseAddress(v); err != nil {
			return apperr.Validation("email is invalid")
		}
		u.Email = v
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Surname != nil {
		u.Surname = strings.TrimSpace(*in.Surname)
	}
	return nil
}
