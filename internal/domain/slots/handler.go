package slots

import (
	"context"
	"net/http"
	"strings"
	"time"

	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/apperr"
	"vetcare-api/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	staff := middleware.RequireRoles(identity.RoleAdmin, identity.RoleVet)

	r.Route("/slots", func(sr chi.Router) {
		sr.Get("/available-slots", listHandler(svc.ListAvailable))
		sr.Get("/available-priority-slots", listHandler(svc.ListAvailablePriority))
		sr.Get("/all", listHandler(svc.ListAll))
		sr.Get("/vet/{vetId}", listByVetHandler(svc))
		sr.Get("/{id}", getHandler(svc))

		sr.With(middleware.RequireRoles(identity.RoleAdmin, identity.RoleVet, identity.RoleOwner)).
			Put("/book-slot/{id}", bookHandler(svc))

		sr.Group(func(ar chi.Router) {
			ar.Use(staff)
			ar.Post("/add-slot", createHandler(svc))
			ar.Put("/release-slot/{id}", releaseHandler(svc))
			ar.Delete("/delete-slot/{id}", deleteHandler(svc))
		})
	})
}

type createRequest struct {
	VetID      string `json:"vetId"`
	Date       string `json:"date"`      // YYYY-MM-DD
	StartTime  string `json:"startTime"` // HH:MM
	EndTime    string `json:"endTime"`   // HH:MM
	IsPriority bool   `json:"isPriority"`
}

// Response es la forma JSON de un slot.
type Response struct {
	ID          string `json:"id"`
	VetID       string `json:"vetId"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
	IsPriority  bool   `json:"isPriority"`
}

// createHandler godoc
// @Summary Crear slot de agenda
// @Description Fecha y horas se interpretan en la zona horaria de la clínica. startTime debe ser anterior a endTime.
// @Tags slots
// @Accept json
// @Produce json
// @Param body body createRequest true "slot"
// @Success 201 {object} Response
// @Failure 400 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /api/slots/add-slot [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}

		start, err := parseDateTime(req.Date, req.StartTime, svc.Location())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		end, err := parseDateTime(req.Date, req.EndTime, svc.Location())
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		slot, err := svc.Create(r.Context(), middleware.Actor(r.Context()), CreateInput{
			VetID:    req.VetID,
			Start:    start,
			End:      end,
			Priority: req.IsPriority,
		})
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, ToResponse(slot))
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToResponse(slot))
	}
}

// bookHandler godoc
// @Summary Reservar slot
// @Tags slots
// @Produce json
// @Param id path string true "slot id"
// @Success 200 {object} Response
// @Failure 404 {object} respond.ErrorBody
// @Failure 409 {object} respond.ErrorBody "ya reservado"
// @Router /api/slots/book-slot/{id} [put]
func bookHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot, err := svc.Book(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToResponse(slot))
	}
}

func releaseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot, err := svc.Release(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToResponse(slot))
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

func listHandler(list func(ctx context.Context) ([]Slot, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := list(r.Context())
		writeList(w, r, items, err)
	}
}

func listByVetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByVet(r.Context(), chi.URLParam(r, "vetId"))
		writeList(w, r, items, err)
	}
}

func writeList(w http.ResponseWriter, r *http.Request, items []Slot, err error) {
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	out := make([]Response, 0, len(items))
	for _, s := range items {
		out = append(out, ToResponse(s))
	}
	respond.JSON(w, http.StatusOK, out)
}

func parseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+" "+timeLayout, strings.TrimSpace(date)+" "+strings.TrimSpace(clock), loc)
	if err != nil {
		return time.Time{}, apperr.Validation("date must be YYYY-MM-DD and times HH:MM")
	}
	return t, nil
}

// ToResponse es exportado porque appointments embebe el slot en su respuesta.
func ToResponse(s Slot) Response {
	return Response{
		ID:          s.ID,
		VetID:       s.VetID,
		Date:        s.Date.Format(dateLayout),
		StartTime:   s.Start.Format(timeLayout),
		EndTime:     s.End.Format(timeLayout),
		IsAvailable: s.Available,
		IsPriority:  s.Priority,
	}
}
