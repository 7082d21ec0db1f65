package users

import (
	"net/http"
	"time"

	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/apperr"
	"vetcare-api/internal/platform/respond"
	"vetcare-api/internal/ports/auth"
	"vetcare-api/internal/ports/storage"

	"github.com/go-chi/chi/v5"
)

const maxAvatarBytes = 5 << 20

// RegisterRoutes monta /users. public recibe register/login (con rate limit),
// private el resto (ya con RequireAuth).
func RegisterRoutes(public, private chi.Router, svc *Service) {
	public.Post("/users/register", registerHandler(svc))
	public.Post("/users/login", loginHandler(svc))

	private.Route("/users", func(ur chi.Router) {
		ur.Get("/me", meHandler(svc))
		ur.Get("/current-user-info", meHandler(svc))
		ur.Get("/user-info/{id}", getUserHandler(svc))
		ur.Get("/all-owners", listByRoleHandler(svc, identity.RoleOwner))
		ur.Get("/all-vets", listByRoleHandler(svc, identity.RoleVet))
		ur.Put("/update-user", updateProfileHandler(svc))
		ur.Put("/update-avatar", updateAvatarHandler(svc))
		ur.Get("/{id}", getUserHandler(svc))

		ur.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireRoles(identity.RoleAdmin))
			ar.Get("/", listAllHandler(svc))
			ar.Put("/update-user-admin/{id}", adminUpdateHandler(svc))
			ar.Put("/{id}/roles", updateRoleHandler(svc))
			ar.Delete("/{id}", deleteUserHandler(svc))
		})
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phoneNumber"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"` // segundos
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phoneNumber"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Roles     []string  `json:"roles"`
	ClinicID  *string   `json:"clinicId"`
	PhotoURL  string    `json:"photoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type profileRequest struct {
	Email   *string `json:"email"`
	Phone   *string `json:"phoneNumber"`
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
}

type adminUpdateRequest struct {
	profileRequest
	Username *string `json:"username"`
	ClinicID *string `json:"clinicId"`
}

type roleRequest struct {
	Role string `json:"role"`
}

// registerHandler godoc
// @Summary Registrar usuario
// @Tags users
// @Accept json
// @Produce json
// @Param body body registerRequest true "datos de registro"
// @Success 201 {object} tokenResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 409 {object} respond.ErrorBody
// @Router /api/users/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}

		_, tok, err := svc.Register(r.Context(), RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
			Name:     req.Name,
			Surname:  req.Surname,
		})
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toTokenResponse(tok))
	}
}

// loginHandler godoc
// @Summary Login
// @Tags users
// @Accept json
// @Produce json
// @Param body body loginRequest true "credenciales"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} respond.ErrorBody
// @Router /api/users/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		tok, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toTokenResponse(tok))
	}
}

func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.GetByID(r.Context(), middleware.Actor(r.Context()).ID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toUserResponse(u))
	}
}

func getUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.Get(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toUserResponse(u))
	}
}

func listByRoleHandler(svc *Service, role identity.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByRole(r.Context(), role)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toUserResponses(items))
	}
}

func listAllHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAll(r.Context(), middleware.Actor(r.Context()))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toUserResponses(items))
	}
}

func updateProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		u, err := svc.UpdateProfile(r.Context(), middleware.Actor(r.Context()), req.toInput())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toUserResponse(u))
	}
}

func adminUpdateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminUpdateRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		u, err := svc.AdminUpdate(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"), AdminUpdateInput{
			ProfileInput: req.profileRequest.toInput(),
			Username:     req.Username,
			ClinicID:     req.ClinicID,
		})
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toUserResponse(u))
	}
}

// updateRoleHandler godoc
// @Summary Reemplazar el rol de un usuario (admin)
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "user id"
// @Param body body roleRequest true "rol nuevo (ADMIN, VET, OWNER, USER)"
// @Success 200 {object} userResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 403 {object} respond.ErrorBody
// @Router /api/users/{id}/roles [put]
func updateRoleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roleRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		role, ok := identity.ParseRole(req.Role)
		if !ok {
			respond.Error(w, r, apperr.Validation("unknown role: %s", req.Role))
			return
		}
		u, err := svc.UpdateRole(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"), role)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toUserResponse(u))
	}
}

func deleteUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id")); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.NoContent(w)
	}
}

func updateAvatarHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		obj, closeFn, err := respond.FormFile(r, "avatar", maxAvatarBytes)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		defer closeFn()

		u, err := svc.UpdateAvatar(r.Context(), middleware.Actor(r.Context()), storage.Object{
			ContentType: obj.ContentType,
			Size:        obj.Size,
			Body:        obj.Body,
		})
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toUserResponse(u))
	}
}

func (p profileRequest) toInput() ProfileInput {
	return ProfileInput{Email: p.Email, Phone: p.Phone, Name: p.Name, Surname: p.Surname}
}

func toTokenResponse(t auth.IssuedToken) tokenResponse {
	return tokenResponse{
		Token:     t.Token,
		ExpiresIn: int64(time.Until(t.ExpiresAt).Seconds()),
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		Name:      u.Name,
		Surname:   u.Surname,
		Roles:     u.Roles.Strings(),
		ClinicID:  u.ClinicID,
		PhotoURL:  u.PhotoURL,
		CreatedAt: u.CreatedAt,
	}
}

func toUserResponses(items []User) []userResponse {
	out := make([]userResponse, 0, len(items))
	for _, u := range items {
		out = append(out, toUserResponse(u))
	}
	return out
}
