package pets

// PetDTO es la forma de transporte de Pet: owner, vet y sector viajan como ids.
type PetDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Breed    string  `json:"breed"`
	Type     Type    `json:"type"`
	Weight   float64 `json:"weight"`
	Sex      Sex     `json:"sex"`
	Age      int     `json:"age"`
	PhotoURL string  `json:"photoUrl,omitempty"`
	OwnerID  string  `json:"owner,omitempty"`
	VetID    string  `json:"actualVet,omitempty"`
	SectorID string  `json:"sector,omitempty"`
}

func ToDTO(p Pet) PetDTO {
	return PetDTO{
		ID:       p.ID,
		Name:     p.Name,
		Breed:    p.Breed,
		Type:     p.Type,
		Weight:   p.Weight,
		Sex:      p.Sex,
		Age:      p.Age,
		PhotoURL: p.PhotoURL,
		OwnerID:  p.OwnerID,
		VetID:    p.VetID,
		SectorID: p.SectorID,
	}
}

// FromDTO no toca timestamps; los pone el servicio.
func FromDTO(d PetDTO) Pet {
	return Pet{
		ID:       d.ID,
		Name:     d.Name,
		Breed:    d.Breed,
		Type:     d.Type,
		Weight:   d.Weight,
		Sex:      d.Sex,
		Age:      d.Age,
		PhotoURL: d.PhotoURL,
		OwnerID:  d.OwnerID,
		VetID:    d.VetID,
		SectorID: d.SectorID,
	}
}
