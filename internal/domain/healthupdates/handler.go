package healthupdates

import (
	"net/http"
	"time"

	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/health", func(hr chi.Router) {
		hr.Get("/{id}", getHandler(svc))
		hr.Get("/first/{petId}", latestHandler(svc))
		hr.Get("/all/{petId}", listHandler(svc))
		hr.Post("/save", saveHandler(svc))
	})
}

type saveRequest struct {
	PetID    string `json:"pet"`
	Symptoms string `json:"symptoms"`
	Dynamics bool   `json:"dynamics"`
	Notes    string `json:"notes"`
}

type healthUpdateResponse struct {
	ID       string    `json:"id"`
	PetID    string    `json:"pet"`
	Date     time.Time `json:"date"`
	Symptoms string    `json:"symptoms"`
	Dynamics bool      `json:"dynamics"`
	Notes    string    `json:"notes"`
}

// saveHandler godoc
// @Summary Registrar evolución clínica
// @Tags health
// @Accept json
// @Produce json
// @Param body body saveRequest true "entrada"
// @Success 200 {object} healthUpdateResponse
// @Failure 403 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /api/health/save [post]
func saveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		h, err := svc.Save(r.Context(), middleware.Actor(r.Context()), SaveInput{
			PetID:    req.PetID,
			Symptoms: req.Symptoms,
			Dynamics: req.Dynamics,
			Notes:    req.Notes,
		})
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(h))
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := svc.Get(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(h))
	}
}

func latestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := svc.Latest(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "petId"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(h))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByPet(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "petId"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		out := make([]healthUpdateResponse, 0, len(items))
		for _, h := range items {
			out = append(out, toResponse(h))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func toResponse(h HealthUpdate) healthUpdateResponse {
	return healthUpdateResponse{
		ID:       h.ID,
		PetID:    h.PetID,
		Date:     h.Date,
		Symptoms: h.Symptoms,
		Dynamics: h.Dynamics,
		Notes:    h.Notes,
	}
}
