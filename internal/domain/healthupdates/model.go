package healthupdates

import "time"

// HealthUpdate es una entrada de evolución clínica de una mascota.
// Dynamics indica si hubo mejora respecto de la entrada anterior.
type HealthUpdate struct {
	ID       string
	PetID    string
	Date     time.Time
	Symptoms string
	Dynamics bool
	Notes    string
}
