package quarantines

import (
	"net/http"
	"strconv"
	"time"

	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/apperr"
	"vetcare-api/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/quarantines", func(qr chi.Router) {
		qr.Use(middleware.RequireRoles(identity.RoleAdmin, identity.RoleVet))
		qr.Get("/all", listAllHandler(svc))
		qr.Get("/sector/{sectorId}", bySectorHandler(svc))
		qr.Get("/pet/{petId}", byPetHandler(svc))
		qr.Get("/reasons/{sectorId}", reasonsHandler(svc))
		qr.Get("/{id}", getHandler(svc))
		qr.Post("/new", createHandler(svc))
		qr.Delete("/{id}", deleteHandler(svc))
	})
}

type createRequest struct {
	PetID       string    `json:"pet"`
	SectorID    string    `json:"sector"`
	Reason      string    `json:"reason"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

type quarantineResponse struct {
	ID          string    `json:"id"`
	PetID       string    `json:"pet"`
	SectorID    string    `json:"sector"`
	VetID       string    `json:"vet"`
	Reason      string    `json:"reason"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Status      Status    `json:"status"`
}

type pageResponse struct {
	Content       []quarantineResponse `json:"content"`
	Page          int                  `json:"page"`
	Size          int                  `json:"size"`
	TotalElements int                  `json:"totalElements"`
	TotalPages    int                  `json:"totalPages"`
}

// createHandler godoc
// @Summary Crear cuarentena
// @Description startDate debe ser anterior a endDate. El vet autenticado queda como responsable y recibe el aviso al cerrarse.
// @Tags quarantines
// @Accept json
// @Produce json
// @Param body body createRequest true "cuarentena"
// @Success 201 {object} quarantineResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /api/quarantines/new [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		q, err := svc.Create(r.Context(), middleware.Actor(r.Context()), CreateInput{
			PetID:       req.PetID,
			SectorID:    req.SectorID,
			Reason:      req.Reason,
			Description: req.Description,
			Start:       req.StartDate,
			End:         req.EndDate,
		})
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toResponse(q))
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := svc.Get(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(q))
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

func listAllHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAll(r.Context(), middleware.Actor(r.Context()))
		writeList(w, r, items, err)
	}
}

func byPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByPet(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "petId"))
		writeList(w, r, items, err)
	}
}

// bySectorHandler godoc
// @Summary Cuarentenas de un sector
// @Description Sin status devuelve la lista completa; con status devuelve una página.
// @Tags quarantines
// @Produce json
// @Param sectorId path string true "sector id"
// @Param status query string false "CURRENT | DONE"
// @Param page query int false "página, desde 0"
// @Param size query int false "tamaño de página (máx 100)"
// @Success 200 {object} pageResponse
// @Router /api/quarantines/sector/{sectorId} [get]
func bySectorHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.Actor(r.Context())
		sectorID := chi.URLParam(r, "sectorId")
		q := r.URL.Query()

		if q.Get("status") == "" {
			items, err := svc.ListBySector(r.Context(), actor, sectorID)
			writeList(w, r, items, err)
			return
		}

		status, ok := ParseStatus(q.Get("status"))
		if !ok {
			respond.Error(w, r, apperr.Validation("status must be CURRENT or DONE"))
			return
		}
		page, err := intParam(q.Get("page"), 0)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		size, err := intParam(q.Get("size"), defaultPageSize)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		p, err := svc.ListBySectorStatus(r.Context(), actor, sectorID, status, page, size)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		out := pageResponse{
			Content:       make([]quarantineResponse, 0, len(p.Items)),
			Page:          p.Number,
			Size:          p.Size,
			TotalElements: p.Total,
			TotalPages:    p.TotalPages(),
		}
		for _, it := range p.Items {
			out.Content = append(out.Content, toResponse(it))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func reasonsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reasons, err := svc.Reasons(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "sectorId"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, reasons)
	}
}

func writeList(w http.ResponseWriter, r *http.Request, items []Quarantine, err error) {
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	out := make([]quarantineResponse, 0, len(items))
	for _, q := range items {
		out = append(out, toResponse(q))
	}
	respond.JSON(w, http.StatusOK, out)
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("invalid integer %q", raw)
	}
	return n, nil
}

func toResponse(q Quarantine) quarantineResponse {
	return quarantineResponse{
		ID:          q.ID,
		PetID:       q.PetID,
		SectorID:    q.SectorID,
		VetID:       q.VetID,
		Reason:      q.Reason,
		Description: q.Description,
		StartDate:   q.Start,
		EndDate:     q.End,
		Status:      q.Status,
	}
}
