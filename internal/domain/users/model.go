package users

import (
	"time"

	"vetcare-api/internal/domain/identity"
)

// User es una cuenta del sistema: admin, vet, dueño o usuario recién registrado.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string

	Phone   string
	Name    string
	Surname string

	Roles    identity.RoleSet
	ClinicID *string // solo lo setea un admin
	PhotoURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) Actor() identity.Actor {
	return identity.Actor{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Roles:    u.Roles,
	}
}
