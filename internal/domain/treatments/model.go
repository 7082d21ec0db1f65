package treatments

import "time"

// Treatment es un tratamiento indicado a una mascota, opcionalmente ligado a un diagnóstico.
type Treatment struct {
	ID                   string
	PetID                string
	DiagnosisID          *string
	Name                 string
	Description          string
	PrescribedMedication string
	Duration             string
	Completed            bool
	CreatedAt            time.Time
}
