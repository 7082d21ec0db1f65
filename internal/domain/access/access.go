// Package access concentra las reglas de acceso por recurso.
// Son funciones puras: el servicio carga el recurso y le pasa acá solo los ids que importan.
package access

import (
	"strings"

	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/platform/apperr"
)

// PetSubject son los datos de una mascota relevantes para el acceso.
type PetSubject struct {
	ID      string
	OwnerID string // "" si no tiene dueño
	VetID   string // "" si no tiene vet asignado
}

// AppointmentSubject: el dueño sale de appointment.pet.owner y el vet de appointment.slot.vet.
type AppointmentSubject struct {
	ID         string
	PetOwnerID string
	SlotVetID  string
}

// CheckPetAccess permite a ADMIN, al OWNER dueño o al VET asignado.
// requireWrite queda reservado: hoy lectura y escritura tienen la misma regla.
func CheckPetAccess(actor identity.Actor, pet PetSubject, requireWrite bool) error {
	_ = requireWrite
	if grants(actor, pet.OwnerID, pet.VetID) {
		return nil
	}
	return apperr.Forbidden("Access denied to pet with id: %s", pet.ID)
}

func CheckAppointmentAccess(actor identity.Actor, ap AppointmentSubject, requireWrite bool) error {
	_ = requireWrite
	if grants(actor, ap.PetOwnerID, ap.SlotVetID) {
		return nil
	}
	return apperr.Forbidden("Access denied to appointment with id: %s", ap.ID)
}

// CheckUserAccess: admin o el propio usuario.
func CheckUserAccess(actor identity.Actor, targetUserID string, requireWrite bool) error {
	_ = requireWrite
	if actor.IsAdmin() {
		return nil
	}
	if actor.Authenticated() && actor.ID == targetUserID {
		return nil
	}
	return apperr.Forbidden("Access denied to user with id: %s", targetUserID)
}

// RequireAnyRole falla con Forbidden si el actor no tiene ninguno de los roles.
func RequireAnyRole(actor identity.Actor, roles ...identity.Role) error {
	if actor.Roles.HasAny(roles...) {
		return nil
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return apperr.Forbidden("requires one of roles: %s", strings.Join(names, ", "))
}

func grants(actor identity.Actor, ownerID, vetID string) bool {
	if !actor.Authenticated() {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	if actor.IsOwner() && ownerID != "" && ownerID == actor.ID {
		return true
	}
	if actor.IsVet() && vetID != "" && vetID == actor.ID {
		return true
	}
	return false
}
