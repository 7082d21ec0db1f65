package treatments

import (
	"net/http"
	"time"

	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/treatments", func(tr chi.Router) {
		tr.Get("/{id}", getHandler(svc))
		tr.Get("/all-by-pet/{petId}", listHandler(svc, false))
		tr.Get("/active-by-pet/{petId}", listHandler(svc, true))
		tr.Post("/save", saveHandler(svc))
		tr.Put("/update/{id}", updateHandler(svc))
		tr.Put("/complete/{id}", completeHandler(svc))
		tr.Delete("/{id}", deleteHandler(svc))
	})
}

type treatmentRequest struct {
	PetID                string `json:"pet"`
	DiagnosisID          string `json:"diagnosis"`
	Name                 string `json:"name"`
	Description          string `json:"description"`
	PrescribedMedication string `json:"prescribedMedication"`
	Duration             string `json:"duration"`
}

func (req treatmentRequest) input() Input {
	return Input{
		PetID:                req.PetID,
		DiagnosisID:          req.DiagnosisID,
		Name:                 req.Name,
		Description:          req.Description,
		PrescribedMedication: req.PrescribedMedication,
		Duration:             req.Duration,
	}
}

type treatmentResponse struct {
	ID                   string    `json:"id"`
	PetID                string    `json:"pet"`
	DiagnosisID          *string   `json:"diagnosis"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	PrescribedMedication string    `json:"prescribedMedication"`
	Duration             string    `json:"duration"`
	Completed            bool      `json:"isCompleted"`
	CreatedAt            time.Time `json:"createdAt"`
}

// saveHandler godoc
// @Summary Indicar tratamiento
// @Tags treatments
// @Accept json
// @Produce json
// @Param body body treatmentRequest true "tratamiento"
// @Success 201 {object} treatmentResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 403 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /api/treatments/save [post]
func saveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req treatmentRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		t, err := svc.Save(r.Context(), middleware.Actor(r.Context()), req.input())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toResponse(t))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req treatmentRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		t, err := svc.Update(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"), req.input())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(t))
	}
}

// completeHandler godoc
// @Summary Completar tratamiento
// @Tags treatments
// @Produce json
// @Param id path string true "id del tratamiento"
// @Success 200 {object} treatmentResponse
// @Failure 403 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /api/treatments/complete/{id} [put]
func completeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.Complete(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(t))
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

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.Get(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(t))
	}
}

func listHandler(svc *Service, activeOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.Actor(r.Context())
		petID := chi.URLParam(r, "petId")

		var (
			items []Treatment
			err   error
		)
		if activeOnly {
			items, err = svc.ActiveByPet(r.Context(), actor, petID)
		} else {
			items, err = svc.ListByPet(r.Context(), actor, petID)
		}
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		out := make([]treatmentResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toResponse(t))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func toResponse(t Treatment) treatmentResponse {
	return treatmentResponse{
		ID:                   t.ID,
		PetID:                t.PetID,
		DiagnosisID:          t.DiagnosisID,
		Name:                 t.Name,
		Description:          t.Description,
		PrescribedMedication: t.PrescribedMedication,
		Duration:             t.Duration,
		Completed:            t.Completed,
		CreatedAt:            t.CreatedAt,
	}
}
