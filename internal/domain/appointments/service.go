package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"vetcare-api/internal/domain/access"
	"vetcare-api/internal/domain/healthupdates"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/domain/pets"
	"vetcare-api/internal/domain/slots"
	"vetcare-api/internal/domain/users"
	"vetcare-api/internal/platform/apperr"
	"vetcare-api/internal/platform/logger"

	"github.com/google/uuid"
)

type PetLookup interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

// Scheduler es la parte de slots que usan los turnos.
type Scheduler interface {
	GetByID(ctx context.Context, id string) (slots.Slot, error)
	Book(ctx context.Context, id string) (slots.Slot, error)
	Release(ctx context.Context, id string) (slots.Slot, error)
	ListByVet(ctx context.Context, vetID string) ([]slots.Slot, error)
	ListOnDay(ctx context.Context, day time.Time) ([]slots.Slot, error)
	Today() time.Time
	Location() *time.Location
}

type VisitRecorder interface {
	RecordVisitStart(ctx context.Context, petID, symptoms string) (healthupdates.HealthUpdate, error)
}

// Notifier entrega un mensaje a un usuario. No devuelve error: los canales fallan en silencio.
type Notifier interface {
	Notify(ctx context.Context, userID, message, email string)
}

type Service struct {
	repo     Repository
	pets     PetLookup
	users    UserLookup
	slots    Scheduler
	visits   VisitRecorder
	notifier Notifier
	log      logger.Logger
	now      func() time.Time
}

func NewService(
	repo Repository,
	pets PetLookup,
	users UserLookup,
	slots Scheduler,
	visits VisitRecorder,
	notifier Notifier,
	log logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		pets:     pets,
		users:    users,
		slots:    slots,
		visits:   visits,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type CreateInput struct {
	PetID       string
	SlotID      string
	Description string
}

// Create reserva el slot (si viene), abre la evolución clínica de la visita y guarda el turno.
// Si algo falla después de reservar, el slot se libera.
func (s *Service) Create(ctx context.Context, actor identity.Actor, in CreateInput) (Detail, error) {
	if !actor.Authenticated() {
		return Detail{}, apperr.Unauthorized("authentication required")
	}
	petID := strings.TrimSpace(in.PetID)
	if petID == "" {
		return Detail{}, apperr.Validation("pet is required")
	}
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Detail{}, err
	}
	if !actor.IsAdmin() && !actor.IsVet() {
		if err := access.CheckPetAccess(actor, pet.AccessSubject(), true); err != nil {
			return Detail{}, err
		}
	}

	var slot *slots.Slot
	if id := strings.TrimSpace(in.SlotID); id != "" {
		booked, err := s.slots.Book(ctx, id)
		if err != nil {
			return Detail{}, err
		}
		slot = &booked
	}

	ap := Appointment{
		ID:          uuid.NewString(),
		PetID:       pet.ID,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   s.now(),
	}
	if slot != nil {
		ap.SlotID = slot.ID
	}

	if _, err := s.visits.RecordVisitStart(ctx, pet.ID, ap.Description); err != nil {
		s.releaseAfterFailure(ctx, slot)
		return Detail{}, err
	}
	if err := s.repo.Create(ctx, ap); err != nil {
		s.releaseAfterFailure(ctx, slot)
		return Detail{}, apperr.Internal(err, "create appointment")
	}
	return Detail{Appointment: ap, Slot: slot}, nil
}

func (s *Service) releaseAfterFailure(ctx context.Context, slot *slots.Slot) {
	if slot == nil {
		return
	}
	if _, err := s.slots.Release(ctx, slot.ID); err != nil {
		s.log.Error("release slot after failed appointment", map[string]any{"slot_id": slot.ID, "error": err.Error()})
	}
}

// GetByID es la lectura interna, sin chequeo de acceso.
func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	ap, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Appointment{}, apperr.NotFound("Appointment not found with id: %s", id)
		}
		return Appointment{}, apperr.Internal(err, "load appointment")
	}
	return ap, nil
}

func (s *Service) Get(ctx context.Context, actor identity.Actor, id string) (Detail, error) {
	ap, err := s.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	d, err := s.detail(ctx, ap)
	if err != nil {
		return Detail{}, err
	}
	if err := s.checkAccess(ctx, actor, d, false); err != nil {
		return Detail{}, err
	}
	return d, nil
}

// Reschedule cambia la referencia al slot. No toca la disponibilidad de ninguno de los dos slots.
func (s *Service) Reschedule(ctx context.Context, actor identity.Actor, id, slotID string) (Detail, error) {
	ap, err := s.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	next, err := s.slots.GetByID(ctx, strings.TrimSpace(slotID))
	if err != nil {
		return Detail{}, err
	}
	current, err := s.detail(ctx, ap)
	if err != nil {
		return Detail{}, err
	}
	if err := s.checkAccess(ctx, actor, current, true); err != nil {
		return Detail{}, err
	}

	ap.SlotID = next.ID
	if err := s.repo.Update(ctx, ap); err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Detail{}, apperr.NotFound("Appointment not found with id: %s", id)
		}
		return Detail{}, apperr.Internal(err, "update appointment")
	}
	return Detail{Appointment: ap, Slot: &next}, nil
}

// Cancel borra el turno, libera el slot y avisa al dueño. Al vet solo si notifyVet.
func (s *Service) Cancel(ctx context.Context, actor identity.Actor, id, reason string, notifyVet bool) (string, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet); err != nil {
		return "", err
	}
	ap, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	d, err := s.detail(ctx, ap)
	if err != nil {
		return "", err
	}
	pet, err := s.pets.GetByID(ctx, ap.PetID)
	if err != nil {
		return "", err
	}

	if err := s.repo.Delete(ctx, ap.ID); err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return "", apperr.NotFound("Appointment not found with id: %s", id)
		}
		return "", apperr.Internal(err, "delete appointment")
	}
	if d.Slot != nil {
		if _, err := s.slots.Release(ctx, d.Slot.ID); err != nil {
			s.log.Warn("release slot of canceled appointment", map[string]any{"slot_id": d.Slot.ID, "error": err.Error()})
		}
	}

	reason = strings.TrimSpace(reason)
	if pet.OwnerID != "" {
		s.notifyUser(ctx, pet.OwnerID, "Your appointment has been cancelled by vet cause: "+reason)
	}
	if notifyVet && d.Slot != nil && d.Slot.VetID != "" {
		s.notifyUser(ctx, d.Slot.VetID, fmt.Sprintf("Appointment for pet %s has been cancelled cause: %s", pet.Name, reason))
	}
	return fmt.Sprintf("Appointment %s canceled", ap.ID), nil
}

func (s *Service) notifyUser(ctx context.Context, userID, message string) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.Warn("notification recipient not found", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}
	s.notifier.Notify(ctx, u.ID, message, u.Email)
}

// SendReminders avisa a dueño y vet de cada turno con slot mañana.
// Un turno que falla no corta la corrida: se cuenta en Failed.
func (s *Service) SendReminders(ctx context.Context) (ReminderReport, error) {
	var report ReminderReport

	tomorrow := s.slots.Today().AddDate(0, 0, 1)
	daySlots, err := s.slots.ListOnDay(ctx, tomorrow)
	if err != nil {
		return report, err
	}
	if len(daySlots) == 0 {
		return report, nil
	}
	byID := make(map[string]slots.Slot, len(daySlots))
	ids := make([]string, 0, len(daySlots))
	for _, sl := range daySlots {
		byID[sl.ID] = sl
		ids = append(ids, sl.ID)
	}

	aps, err := s.repo.ListBySlots(ctx, ids)
	if err != nil {
		return report, apperr.Internal(err, "list appointments for reminders")
	}
	report.Appointments = len(aps)

	for _, ap := range aps {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if err := s.remind(ctx, ap, byID[ap.SlotID]); err != nil {
			report.Failed++
			s.log.Warn("appointment reminder failed", map[string]any{"appointment_id": ap.ID, "error": err.Error()})
			continue
		}
		report.Notified++
	}
	return report, nil
}

// remind avisa a cada destinatario por separado. Solo es error si no se pudo avisar a ninguno.
func (s *Service) remind(ctx context.Context, ap Appointment, slot slots.Slot) error {
	pet, err := s.pets.GetByID(ctx, ap.PetID)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Pet %s has an appointment scheduled for tomorrow at %s",
		pet.Name, slot.Start.In(s.slots.Location()).Format("15:04"))

	var errs []error
	delivered := 0
	for _, rcpt := range []struct{ role, id string }{{"owner", pet.OwnerID}, {"vet", slot.VetID}} {
		if rcpt.id == "" {
			errs = append(errs, fmt.Errorf("%s: not assigned", rcpt.role))
			continue
		}
		u, err := s.users.GetByID(ctx, rcpt.id)
		if err != nil {
			s.log.Warn("reminder recipient not found", map[string]any{
				"appointment_id": ap.ID,
				"recipient":      rcpt.role,
				"user_id":        rcpt.id,
				"error":          err.Error(),
			})
			errs = append(errs, fmt.Errorf("%s %s: %w", rcpt.role, rcpt.id, err))
			continue
		}
		s.notifier.Notify(ctx, u.ID, msg, u.Email)
		delivered++
	}
	if delivered == 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) ListAll(ctx context.Context, actor identity.Actor) ([]Detail, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet); err != nil {
		return nil, err
	}
	aps, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list appointments")
	}
	return s.details(ctx, aps)
}

// ListByVet: turnos cuyo slot es del vet.
func (s *Service) ListByVet(ctx context.Context, actor identity.Actor, vetID string) ([]Detail, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet); err != nil {
		return nil, err
	}
	return s.byVet(ctx, vetID, false)
}

// UpcomingByVet: como ListByVet, con fecha de slot >= hoy.
func (s *Service) UpcomingByVet(ctx context.Context, actor identity.Actor, vetID string) ([]Detail, error) {
	if err := access.RequireAnyRole(actor, identity.RoleAdmin, identity.RoleVet); err != nil {
		return nil, err
	}
	return s.byVet(ctx, vetID, true)
}

func (s *Service) byVet(ctx context.Context, vetID string, upcoming bool) ([]Detail, error) {
	vetSlots, err := s.slots.ListByVet(ctx, strings.TrimSpace(vetID))
	if err != nil {
		return nil, err
	}
	today := s.slots.Today()
	ids := make([]string, 0, len(vetSlots))
	for _, sl := range vetSlots {
		if upcoming && sl.Date.Before(today) {
			continue
		}
		ids = append(ids, sl.ID)
	}
	if len(ids) == 0 {
		return []Detail{}, nil
	}
	aps, err := s.repo.ListBySlots(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err, "list appointments by vet")
	}
	return s.details(ctx, aps)
}

// UpcomingByPet: turnos de la mascota con slot desde hoy. Los turnos sin slot no cuentan.
func (s *Service) UpcomingByPet(ctx context.Context, actor identity.Actor, petID string) ([]Detail, error) {
	pet, err := s.pets.GetByID(ctx, strings.TrimSpace(petID))
	if err != nil {
		return nil, err
	}
	if err := access.CheckPetAccess(actor, pet.AccessSubject(), false); err != nil {
		return nil, err
	}
	aps, err := s.repo.ListByPet(ctx, pet.ID)
	if err != nil {
		return nil, apperr.Internal(err, "list appointments by pet")
	}
	all, err := s.details(ctx, aps)
	if err != nil {
		return nil, err
	}
	today := s.slots.Today()
	out := make([]Detail, 0, len(all))
	for _, d := range all {
		if d.Slot != nil && !d.Slot.Date.Before(today) {
			out = append(out, d)
		}
	}
	return out, nil
}

// subject: dueño por la mascota, vet por el slot.
func (s *Service) subject(ctx context.Context, d Detail) (access.AppointmentSubject, error) {
	pet, err := s.pets.GetByID(ctx, d.PetID)
	if err != nil {
		return access.AppointmentSubject{}, err
	}
	sub := access.AppointmentSubject{ID: d.ID, PetOwnerID: pet.OwnerID}
	if d.Slot != nil {
		sub.SlotVetID = d.Slot.VetID
	}
	return sub, nil
}

func (s *Service) checkAccess(ctx context.Context, actor identity.Actor, d Detail, write bool) error {
	sub, err := s.subject(ctx, d)
	if err != nil {
		return err
	}
	return access.CheckAppointmentAccess(actor, sub, write)
}

func (s *Service) detail(ctx context.Context, ap Appointment) (Detail, error) {
	d := Detail{Appointment: ap}
	if ap.SlotID == "" {
		return d, nil
	}
	sl, err := s.slots.GetByID(ctx, ap.SlotID)
	if err != nil {
		// un slot borrado deja al turno sin slot
		if apperr.KindOf(err) == apperr.KindNotFound {
			return d, nil
		}
		return Detail{}, err
	}
	d.Slot = &sl
	return d, nil
}

// details ordena por inicio de slot; los turnos sin slot van al final.
func (s *Service) details(ctx context.Context, aps []Appointment) ([]Detail, error) {
	out := make([]Detail, 0, len(aps))
	for _, ap := range aps {
		d, err := s.detail(ctx, ap)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Slot, out[j].Slot
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Start.Before(b.Start)
		}
	})
	return out, nil
}
