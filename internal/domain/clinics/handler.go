package clinics

import (
	"net/http"
	"time"

	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /clinics. Leer puede cualquier usuario autenticado; escribir solo ADMIN.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/clinics", func(cr chi.Router) {
		cr.Get("/", listHandler(svc))
		cr.Get("/{id}", getHandler(svc))
		cr.Post("/", createHandler(svc))
		cr.Put("/{id}", updateHandler(svc))
		cr.Delete("/{id}", deleteHandler(svc))
	})
}

type clinicRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Description string `json:"description"`
}

func (req clinicRequest) input() Input {
	return Input{
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Description: req.Description,
	}
}

type clinicResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// createHandler godoc
// @Summary Crear clínica
// @Tags clinics
// @Accept json
// @Produce json
// @Param body body clinicRequest true "clínica"
// @Success 201 {object} clinicResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 403 {object} respond.ErrorBody
// @Router /api/clinics [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		c, err := svc.Create(r.Context(), middleware.Actor(r.Context()), req.input())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toResponse(c))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinicRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		c, err := svc.Update(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"), req.input())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(c))
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(c))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		out := make([]clinicResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toResponse(c))
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

func toResponse(c Clinic) clinicResponse {
	return clinicResponse{
		ID:          c.ID,
		Name:        c.Name,
		Address:     c.Address,
		Phone:       c.Phone,
		Email:       c.Email,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
