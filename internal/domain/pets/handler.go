package pets

import (
	"net/http"
	"strings"

	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/apperr"
	"vetcare-api/internal/platform/respond"
	"vetcare-api/internal/ports/storage"

	"github.com/go-chi/chi/v5"
)

const maxAvatarBytes = 5 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	staff := middleware.RequireRoles(identity.RoleAdmin, identity.RoleVet)

	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/pet/{id}", getPetHandler(svc))
		pr.Get("/user-pets", listMyPetsHandler(svc))
		pr.Get("/doctor-pets/{vetId}", listVetPetsHandler(svc))
		pr.Get("/{id}/owner", ownerHandler(svc))
		pr.Post("/new-pet", createPetHandler(svc))
		pr.Put("/update-pet/{id}", updatePetHandler(svc))
		pr.Put("/update-avatar/{id}", updateAvatarHandler(svc))

		pr.With(middleware.RequireRoles(identity.RoleVet)).Put("/{id}/bind", bindHandler(svc))

		pr.Group(func(sr chi.Router) {
			sr.Use(staff)
			sr.Get("/all-pets", listAllHandler(svc))
			sr.Put("/{id}/unbind", unbindHandler(svc))
			sr.Put("/{id}/sector", placeInSectorHandler(svc))
			sr.Delete("/{id}/sector", removeFromSectorHandler(svc))
			sr.Delete("/delete-pet/{id}", deletePetHandler(svc))
		})
	})
}

type ownerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phoneNumber"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Description El usuario autenticado queda como dueño. Un usuario USER pasa a OWNER con su primera mascota.
// @Tags pets
// @Accept json
// @Produce json
// @Param body body PetDTO true "mascota"
// @Success 201 {object} PetDTO
// @Failure 400 {object} respond.ErrorBody
// @Router /api/pets/new-pet [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var dto PetDTO
		if err := respond.DecodeJSON(r, &dto); err != nil {
			respond.Error(w, r, err)
			return
		}
		p, err := svc.Create(r.Context(), middleware.Actor(r.Context()), dto)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, ToDTO(p))
	}
}

// getPetHandler godoc
// @Summary Obtener mascota
// @Tags pets
// @Produce json
// @Param id path string true "pet id"
// @Success 200 {object} PetDTO
// @Failure 403 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /api/pets/pet/{id} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToDTO(p))
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var dto PetDTO
		if err := respond.DecodeJSON(r, &dto); err != nil {
			respond.Error(w, r, err)
			return
		}
		p, err := svc.Update(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"), dto)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToDTO(p))
	}
}

func listAllHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAll(r.Context(), middleware.Actor(r.Context()))
		writeList(w, r, items, err)
	}
}

func listMyPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByOwner(r.Context(), middleware.Actor(r.Context()))
		writeList(w, r, items, err)
	}
}

func listVetPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByVet(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "vetId"))
		writeList(w, r, items, err)
	}
}

func ownerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.OwnerOf(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, ownerResponse{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Phone:    u.Phone,
			Name:     u.Name,
			Surname:  u.Surname,
		})
	}
}

func bindHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := svc.Bind(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id")); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.NoContent(w)
	}
}

func unbindHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Unbind(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToDTO(p))
	}
}

func placeInSectorHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sectorID := strings.TrimSpace(r.URL.Query().Get("sectorId"))
		if sectorID == "" {
			respond.Error(w, r, apperr.Validation("sectorId is required"))
			return
		}
		p, err := svc.PlaceInSector(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"), sectorID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToDTO(p))
	}
}

func removeFromSectorHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.RemoveFromSector(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToDTO(p))
	}
}

func updateAvatarHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		up, closeFn, err := respond.FormFile(r, "avatar", maxAvatarBytes)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		defer closeFn()

		p, err := svc.UpdateAvatar(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"), storage.Object{
			ContentType: up.ContentType,
			Size:        up.Size,
			Body:        up.Body,
		})
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToDTO(p))
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id")); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.NoContent(w)
	}
}

func writeList(w http.ResponseWriter, r *http.Request, items []Pet, err error) {
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	out := make([]PetDTO, 0, len(items))
	for _, p := range items {
		out = append(out, ToDTO(p))
	}
	respond.JSON(w, http.StatusOK, out)
}
