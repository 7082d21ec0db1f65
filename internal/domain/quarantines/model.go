package quarantines

import (
	"strings"
	"time"
)

type Status string

const (
	StatusCurrent Status = "CURRENT"
	StatusDone    Status = "DONE"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusCurrent, StatusDone:
		return st, true
	}
	return "", false
}

// Quarantine aísla a una mascota en un sector entre Start y End.
// VetID es el vet que la indicó; es quien recibe el aviso al terminar.
type Quarantine struct {
	ID          string
	PetID       string
	SectorID    string
	VetID       string
	Reason      string
	Description string
	Start       time.Time
	End         time.Time
	Status      Status
	CreatedAt   time.Time
}

// Page es una página de resultados; Number arranca en 0.
type Page struct {
	Items  []Quarantine
	Number int
	Size   int
	Total  int
}

func (p Page) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}

// SweepReport resume una corrida del cierre automático.
type SweepReport struct {
	Due       int
	Completed int
	Failed    int
}
