package identity

import (
	"sort"
	"strings"
)

// Role es el conjunto cerrado de roles del sistema.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleVet   Role = "VET"
	RoleOwner Role = "OWNER"
	RoleUser  Role = "USER"
)

// precedencia para Functional(): el primero que esté presente gana.
var precedence = []Role{RoleAdmin, RoleVet, RoleOwner, RoleUser}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleVet, RoleOwner, RoleUser:
		return true
	}
	return false
}

// ParseRole acepta "VET", "vet" o "ROLE_VET".
func ParseRole(s string) (Role, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "ROLE_")
	r := Role(s)
	return r, r.Valid()
}

// RoleSet es inmutable: las transiciones devuelven un set nuevo.
type RoleSet struct {
	m map[Role]struct{}
}

func NewRoleSet(roles ...Role) RoleSet {
	m := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		if r.Valid() {
			m[r] = struct{}{}
		}
	}
	return RoleSet{m: m}
}

// ParseRoleSet ignora valores desconocidos (datos viejos en DB).
func ParseRoleSet(raw []string) RoleSet {
	roles := make([]Role, 0, len(raw))
	for _, s := range raw {
		if r, ok := ParseRole(s); ok {
			roles = append(roles, r)
		}
	}
	return NewRoleSet(roles...)
}

func (s RoleSet) Has(r Role) bool {
	_, ok := s.m[r]
	return ok
}

func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

func (s RoleSet) Len() int { return len(s.m) }

func (s RoleSet) Equal(o RoleSet) bool {
	if s.Len() != o.Len() {
		return false
	}
	for r := range s.m {
		if !o.Has(r) {
			return false
		}
	}
	return true
}

// Slice devuelve los roles ordenados (estable para JSON y DB).
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s.m))
	for r := range s.m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s RoleSet) Strings() []string {
	roles := s.Slice()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// Functional devuelve el rol efectivo del usuario. Un set vacío se trata como USER.
func (s RoleSet) Functional() Role {
	for _, r := range precedence {
		if s.Has(r) {
			return r
		}
	}
	return RoleUser
}

// PromoteToOwner aplica la transición USER -> OWNER del primer registro de mascota.
// Solo promueve si el set tiene USER y no es ADMIN ni VET; el resultado es exactamente {OWNER}.
func PromoteToOwner(s RoleSet) (RoleSet, bool) {
	if !s.Has(RoleUser) || s.HasAny(RoleAdmin, RoleVet) {
		return s, false
	}
	return NewRoleSet(RoleOwner), true
}

// ReplaceWith es el cambio de rol hecho por un admin: el set queda en {r}.
func ReplaceWith(r Role) RoleSet {
	return NewRoleSet(r)
}
