package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer firma tokens para un usuario ya autenticado.
type TokenIssuer interface {
	Issue(claims Claims) (IssuedToken, error)
}
