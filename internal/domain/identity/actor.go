package identity

// Actor es la identidad autenticada que cada handler pasa explícitamente a los servicios.
// Se resuelve desde DB en cada request, así los cambios de rol aplican sin re-login.
type Actor struct {
	ID       string
	Username string
	Email    string
	Roles    RoleSet
}

func (a Actor) IsAdmin() bool { return a.Roles.Has(RoleAdmin) }
func (a Actor) IsVet() bool   { return a.Roles.Has(RoleVet) }
func (a Actor) IsOwner() bool { return a.Roles.Has(RoleOwner) }

func (a Actor) Authenticated() bool { return a.ID != "" }
