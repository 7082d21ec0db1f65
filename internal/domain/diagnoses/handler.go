package diagnoses

import (
	"net/http"
	"time"

	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/diagnosis", func(dr chi.Router) {
		dr.Get("/{id}", getHandler(svc))
		dr.Get("/all-by-anamnesis/{anamnesisId}", listHandler(svc, false))
		dr.Get("/except-first/{anamnesisId}", listHandler(svc, true))
		dr.Get("/first/{anamnesisId}", firstHandler(svc))
		dr.Post("/save", saveHandler(svc))
		dr.Put("/update/{id}", updateHandler(svc))
	})
}

type diagnosisRequest struct {
	AnamnesisID string `json:"anamnesis"`
	Name        string `json:"name"`
	BodyPart    string `json:"bodyPart"`
	Description string `json:"description"`
	Contagious  bool   `json:"contagious"`
}

func (req diagnosisRequest) input() Input {
	return Input{
		AnamnesisID: req.AnamnesisID,
		Name:        req.Name,
		BodyPart:    req.BodyPart,
		Description: req.Description,
		Contagious:  req.Contagious,
	}
}

type diagnosisResponse struct {
	ID          string    `json:"id"`
	AnamnesisID string    `json:"anamnesis"`
	Name        string    `json:"name"`
	BodyPart    string    `json:"bodyPart"`
	Description string    `json:"description"`
	Contagious  bool      `json:"contagious"`
	Date        time.Time `json:"date"`
}

// saveHandler godoc
// @Summary Cargar diagnóstico
// @Tags diagnosis
// @Accept json
// @Produce json
// @Param body body diagnosisRequest true "diagnóstico"
// @Success 201 {object} diagnosisResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 403 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /api/diagnosis/save [post]
func saveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req diagnosisRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		d, err := svc.Save(r.Context(), middleware.Actor(r.Context()), req.input())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toResponse(d))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req diagnosisRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		d, err := svc.Update(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"), req.input())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(d))
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.Get(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(d))
	}
}

func firstHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.First(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "anamnesisId"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(d))
	}
}

func listHandler(svc *Service, exceptFirst bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.Actor(r.Context())
		id := chi.URLParam(r, "anamnesisId")

		var (
			items []Diagnosis
			err   error
		)
		if exceptFirst {
			items, err = svc.ExceptFirst(r.Context(), actor, id)
		} else {
			items, err = svc.ListByAnamnesis(r.Context(), actor, id)
		}
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		out := make([]diagnosisResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toResponse(d))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func toResponse(d Diagnosis) diagnosisResponse {
	return diagnosisResponse{
		ID:          d.ID,
		AnamnesisID: d.AnamnesisID,
		Name:        d.Name,
		BodyPart:    d.BodyPart,
		Description: d.Description,
		Contagious:  d.Contagious,
		Date:        d.Date,
	}
}
