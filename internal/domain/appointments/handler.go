package appointments

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/domain/slots"
	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/apperr"
	"vetcare-api/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

const maxReasonBytes = 4 << 10

// PendingLister lista los turnos que todavía no tienen anamnesis.
// Lo implementa anamnesis, que depende de este paquete.
type PendingLister interface {
	ListWithoutAnamnesis(ctx context.Context, actor identity.Actor) ([]Detail, error)
}

func RegisterRoutes(r chi.Router, svc *Service, pending PendingLister) {
	staff := middleware.RequireRoles(identity.RoleAdmin, identity.RoleVet)

	r.Route("/appointments", func(ar chi.Router) {
		ar.Get("/appointment/{id}", getHandler(svc))
		ar.Get("/upcoming-pet/{petId}", upcomingByPetHandler(svc))
		ar.Post("/new-appointment", createHandler(svc))
		ar.With(middleware.RequireRoles(identity.RoleAdmin, identity.RoleVet, identity.RoleOwner)).
			Put("/update-appointment/{id}", rescheduleHandler(svc))

		ar.Group(func(sr chi.Router) {
			sr.Use(staff)
			sr.Get("/all", listAllHandler(svc))
			sr.Get("/without-anamnesis", withoutAnamnesisHandler(pending))
			sr.Get("/vet-appointments/{vetId}", byVetHandler(svc.ListByVet))
			sr.Get("/upcoming-vet/{vetId}", byVetHandler(svc.UpcomingByVet))
			sr.Delete("/cancel-appointment/{id}", cancelHandler(svc))
		})
	})
}

type createRequest struct {
	PetID       string `json:"pet"`
	SlotID      string `json:"slot"`
	Description string `json:"description"`
}

type appointmentResponse struct {
	ID          string          `json:"id"`
	PetID       string          `json:"pet"`
	Slot        *slots.Response `json:"slot"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// createHandler godoc
// @Summary Crear turno
// @Description Si viene slot se reserva; si ya estaba reservado responde 409. Registra la evolución clínica de inicio de visita.
// @Tags appointments
// @Accept json
// @Produce json
// @Param body body createRequest true "turno"
// @Success 201 {object} appointmentResponse
// @Failure 404 {object} respond.ErrorBody
// @Failure 409 {object} respond.ErrorBody
// @Router /api/appointments/new-appointment [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, r, err)
			return
		}
		d, err := svc.Create(r.Context(), middleware.Actor(r.Context()), CreateInput{
			PetID:       req.PetID,
			SlotID:      req.SlotID,
			Description: req.Description,
		})
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toResponse(d))
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

// rescheduleHandler godoc
// @Summary Reprogramar turno
// @Description Cambia el slot del turno. No modifica la disponibilidad de los slots.
// @Tags appointments
// @Produce json
// @Param id path string true "appointment id"
// @Param slotId query string true "nuevo slot"
// @Success 200 {object} appointmentResponse
// @Failure 403 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /api/appointments/update-appointment/{id} [put]
func rescheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slotID := r.URL.Query().Get("slotId")
		if slotID == "" {
			respond.Error(w, r, apperr.Validation("slotId is required"))
			return
		}
		d, err := svc.Reschedule(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"), slotID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(d))
	}
}

// cancelHandler godoc
// @Summary Cancelar turno
// @Description El body es el motivo en texto plano. El dueño siempre recibe aviso; el vet solo con notifyVet=true.
// @Tags appointments
// @Accept plain
// @Produce plain
// @Param id path string true "appointment id"
// @Param notifyVet query bool false "avisar al vet"
// @Success 200 {string} string
// @Failure 404 {object} respond.ErrorBody
// @Router /api/appointments/cancel-appointment/{id} [delete]
func cancelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxReasonBytes))
		if err != nil {
			respond.Error(w, r, apperr.Validation("invalid body"))
			return
		}
		notifyVet := false
		if raw := r.URL.Query().Get("notifyVet"); raw != "" {
			if notifyVet, err = strconv.ParseBool(raw); err != nil {
				respond.Error(w, r, apperr.Validation("notifyVet must be a boolean"))
				return
			}
		}

		msg, err := svc.Cancel(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "id"), string(body), notifyVet)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, msg)
	}
}

func listAllHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAll(r.Context(), middleware.Actor(r.Context()))
		writeList(w, r, items, err)
	}
}

func withoutAnamnesisHandler(pending PendingLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := pending.ListWithoutAnamnesis(r.Context(), middleware.Actor(r.Context()))
		writeList(w, r, items, err)
	}
}

func byVetHandler(list func(ctx context.Context, actor identity.Actor, vetID string) ([]Detail, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := list(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "vetId"))
		writeList(w, r, items, err)
	}
}

func upcomingByPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.UpcomingByPet(r.Context(), middleware.Actor(r.Context()), chi.URLParam(r, "petId"))
		writeList(w, r, items, err)
	}
}

func writeList(w http.ResponseWriter, r *http.Request, items []Detail, err error) {
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	out := make([]appointmentResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toResponse(d))
	}
	respond.JSON(w, http.StatusOK, out)
}

func toResponse(d Detail) appointmentResponse {
	out := appointmentResponse{
		ID:          d.ID,
		PetID:       d.PetID,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
	if d.Slot != nil {
		sr := slots.ToResponse(*d.Slot)
		out.Slot = &sr
	}
	return out
}
