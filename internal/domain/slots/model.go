package slots

import "time"

// Slot es un bloque de agenda de un vet. Available=false significa reservado.
// Date es el día calendario (medianoche en la zona de la clínica).
type Slot struct {
	ID        string
	VetID     string
	Date      time.Time
	Start     time.Time
	End       time.Time
	Available bool
	Priority  bool
	CreatedAt time.Time
}
