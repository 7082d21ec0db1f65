package pets

import (
	"strings"
	"time"

	"vetcare-api/internal/domain/access"
)

// Type define el tipo de animal.
// @Enum CAT, DOG, BIRD, REPTILE, RODENT, OTHER
type Type string

const (
	TypeCat     Type = "CAT"
	TypeDog     Type = "DOG"
	TypeBird    Type = "BIRD"
	TypeReptile Type = "REPTILE"
	TypeRodent  Type = "RODENT"
	TypeOther   Type = "OTHER"
)

func ParseType(s string) (Type, bool) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TypeCat, TypeDog, TypeBird, TypeReptile, TypeRodent, TypeOther:
		return t, true
	}
	return "", false
}

// Sex define el sexo de la mascota.
// @Enum MALE, FEMALE, UNKNOWN
type Sex string

const (
	SexMale    Sex = "MALE"
	SexFemale  Sex = "FEMALE"
	SexUnknown Sex = "UNKNOWN"
)

// ParseSex: vacío => UNKNOWN.
func ParseSex(s string) (Sex, bool) {
	x := Sex(strings.ToUpper(strings.TrimSpace(s)))
	switch x {
	case "":
		return SexUnknown, true
	case SexMale, SexFemale, SexUnknown:
		return x, true
	}
	return "", false
}

// Pet es el paciente de la clínica. Owner, vet y sector son opcionales ("" = sin asignar).
type Pet struct {
	ID       string
	OwnerID  string
	VetID    string
	SectorID string

	Name   string
	Breed  string
	Type   Type
	Weight float64
	Sex    Sex
	Age    int

	PhotoURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Pet) AccessSubject() access.PetSubject {
	return access.PetSubject{ID: p.ID, OwnerID: p.OwnerID, VetID: p.VetID}
}
