package anamnesis

import (
	"net/http"
	"time"

	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	staff := middleware.RequireRoles(identity.RoleAdmin, identity.RoleVet)

	r.Route("/anamnesis", func(ar chi.Router) {
		ar.Get("/{id}", getHandler(svc))
		ar.Get("/all-by-patient/{petId}", listByPetHandler(svc))
		ar.With(staff).Post("/save", saveHandler(svc))
		ar.With(staff).Delete("/{id}", deleteHandler(svc))
	})
}

type saveRequest struct {
	PetID         string `json:"pet"`
	AppointmentID string `json:"appointment"`
	Name          string `json:"name"`
	Description   string `json:"description"`
}

type anamnesisResponse struct {
	ID            string    `json:"id"`
	PetID         string    `json:"pet"`
	AppointmentID string    `json:"appointment"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
}

// saveHandler godoc
// @Summary Cargar anamnesis
// @Description Un turno admite una sola anamnesis; la segunda responde 409.
// @Tags anamnesis
// @Accept json
// @Produce json
// @Param body body saveRequest true "anamnesis"
// @Success 201 {object} anamnesisResponse
// @Failure 404 {object} respond.ErrorBody
// @Failure 409 {object} respond.ErrorBody
// @Router /api/anamnesis/save [post]
func saveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		a, err := svc.Save(r.Context(), middleware.Actor(r.Context()), SaveInput{
			PetID:         req.PetID,
			AppointmentID: req.AppointmentID,
			Name:          req.Name,
			Description:   req.Description,
		})
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toResponse(a))
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Get(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(a))
	}
}

func listByPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByPet(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "petId"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		out := make([]anamnesisResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toResponse(a))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id")); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.NoContent(w)
	}
}

func toResponse(a Anamnesis) anamnesisResponse {
	return anamnesisResponse{
		ID:            a.ID,
		PetID:         a.PetID,
		AppointmentID: a.AppointmentID,
		Name:          a.Name,
		Description:   a.Description,
		Date:          a.Date,
	}
}
