package auth

import "time"

// Claims representa la información extraída del token.
// Roles es informativo: los permisos se resuelven contra DB en cada request.
type Claims struct {
	UserID   string
	Username string
	Roles    []string
}

// IssuedToken es lo que devuelven register y login.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}
