package sectors

import (
	"net/http"
	"time"

	"vetcare-api/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /sectors. El router ya restringe a ADMIN/VET.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/sectors", func(sr chi.Router) {
		sr.Get("/", listHandler(svc))
		sr.Get("/category/{category}", listByCategoryHandler(svc, false))
		sr.Get("/available/{category}", listByCategoryHandler(svc, true))
		sr.Get("/{id}", getHandler(svc))
		sr.Post("/", createHandler(svc))
		sr.Delete("/{id}", deleteHandler(svc))
	})
}

type createRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Capacity int    `json:"capacity"`
}

type sectorResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Capacity    int       `json:"capacity"`
	Occupancy   int       `json:"occupancy"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
}

// createHandler godoc
// @Summary Crear sector
// @Tags sectors
// @Accept json
// @Produce json
// @Param body body createRequest true "sector"
// @Success 201 {object} sectorResponse
// @Failure 400 {object} respond.ErrorBody
// @Router /api/sectors [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		sec, err := svc.Create(r.Context(), CreateInput{Name: req.Name, Category: req.Category, Capacity: req.Capacity})
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toResponse(sec))
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sec, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(sec))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponses(items))
	}
}

func listByCategoryHandler(svc *Service, onlyAvailable bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat := chi.URLParam(r, "category")

		var (
			items []Sector
			err   error
		)
		if onlyAvailable {
			items, err = svc.ListAvailableByCategory(r.Context(), cat)
		} else {
			items, err = svc.ListByCategory(r.Context(), cat)
		}
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponses(items))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.NoContent(w)
	}
}

func toResponse(s Sector) sectorResponse {
	return sectorResponse{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Capacity:    s.Capacity,
		Occupancy:   s.Occupancy,
		IsAvailable: s.Available,
		CreatedAt:   s.CreatedAt,
	}
}

func toResponses(items []Sector) []sectorResponse {
	out := make([]sectorResponse, 0, len(items))
	for _, s := range items {
		out = append(out, toResponse(s))
	}
	return out
}
