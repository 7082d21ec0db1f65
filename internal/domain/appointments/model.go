package appointments

import (
	"time"

	"vetcare-api/internal/domain/slots"
)

// Appointment es un turno de una mascota. SlotID vacío = turno sin slot asignado.
type Appointment struct {
	ID          string
	PetID       string
	SlotID      string
	Description string
	CreatedAt   time.Time
}

// Detail acompaña al turno con su slot, si tiene.
type Detail struct {
	Appointment
	Slot *slots.Slot
}

// ReminderReport resume una corrida del recordatorio diario.
type ReminderReport struct {
	Appointments int
	Notified     int
	Failed       int
}
