package clinics

import "time"

// Clinic es una sede. Los usuarios (vets, staff) pueden quedar asignados a una.
type Clinic struct {
	ID          string
	Name        string
	Address     string
	Phone       string
	Email       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
