package diagnoses

import "time"

// Diagnosis es un diagnóstico clínico cargado sobre una anamnesis.
// El primero por fecha es el diagnóstico primario; el resto son clínicos.
type Diagnosis struct {
	ID          string
	AnamnesisID string
	Name        string
	BodyPart    string
	Description string
	Contagious  bool
	Date        time.Time
}
