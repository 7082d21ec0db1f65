package sectors

import (
	"strings"
	"time"
)

// Category define el uso de un sector de la clínica.
// @Enum QUARANTINE, INPATIENT, EXAMINATION, SURGERY
type Category string

const (
	CategoryQuarantine  Category = "QUARANTINE"
	CategoryInpatient   Category = "INPATIENT"
	CategoryExamination Category = "EXAMINATION"
	CategorySurgery     Category = "SURGERY"
)

func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CategoryQuarantine, CategoryInpatient, CategoryExamination, CategorySurgery:
		return c, true
	}
	return "", false
}

type Sector struct {
	ID        string
	Name      string
	Category  Category
	Capacity  int
	Occupancy int
	Available bool
	CreatedAt time.Time
}
