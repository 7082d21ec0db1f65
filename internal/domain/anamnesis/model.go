package anamnesis

import "time"

// Anamnesis es la historia clínica tomada en un turno. Un turno tiene a lo sumo una.
type Anamnesis struct {
	ID            string
	PetID         string
	AppointmentID string
	Name          string
	Description   string
	Date          time.Time
}
