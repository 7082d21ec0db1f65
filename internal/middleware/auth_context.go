package middleware

import (
	"context"
	"net/http"
	"strings"

	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/platform/apperr"
	"vetcare-api/internal/platform/respond"
	"vetcare-api/internal/ports/auth"
)

type ctxKey string

const (
	claimsKey ctxKey = "claims"
	actorKey  ctxKey = "actor"
)

// ActorLookup resuelve el usuario actual desde DB (roles frescos en cada request).
type ActorLookup interface {
	ActorByID(ctx context.Context, id string) (identity.Actor, error)
}

// AuthContext:
// - Si verifier != nil y viene Bearer token => Verify() y resuelve el actor.
// - Si verifier == nil => modo dev: header X-Debug-User-ID se toma como user id.
// - Sin token o token inválido el request sigue anónimo; RequireAuth decide el 401.
func AuthContext(verifier auth.AuthVerifier, actors ActorLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var claims auth.Claims

			if verifier == nil {
				uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID"))
				if uid == "" {
					next.ServeHTTP(w, r)
					return
				}
				claims = auth.Claims{UserID: uid}
			} else {
				token := TokenFromRequest(r)
				if token == "" {
					next.ServeHTTP(w, r)
					return
				}
				c, err := verifier.Verify(r.Context(), token)
				if err != nil {
					next.ServeHTTP(w, r)
					return
				}
				claims = c
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			if actors != nil {
				// usuario borrado con token vigente => anónimo
				if a, err := actors.ActorByID(ctx, claims.UserID); err == nil {
					ctx = context.WithValue(ctx, actorKey, a)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	return c, ok
}

// GetActor devuelve el actor autenticado, si lo hay.
func GetActor(ctx context.Context) (identity.Actor, bool) {
	a, ok := ctx.Value(actorKey).(identity.Actor)
	return a, ok && a.Authenticated()
}

// Actor devuelve el actor o el zero value (anónimo).
func Actor(ctx context.Context) identity.Actor {
	a, _ := GetActor(ctx)
	return a
}

// WithActor se usa en tests de handlers.
func WithActor(ctx context.Context, a identity.Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// RequireAuth corta con 401 si no hay actor.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetActor(r.Context()); !ok {
			respond.Error(w, r, apperr.Unauthorized("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles: 401 sin actor, 403 si no tiene ninguno de los roles.
func RequireRoles(roles ...identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := GetActor(r.Context())
			if !ok {
				respond.Error(w, r, apperr.Unauthorized("authentication required"))
				return
			}
			if !a.Roles.HasAny(roles...) {
				respond.Error(w, r, apperr.Forbidden("access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TokenFromRequest toma el Bearer del header o, para websockets, ?token=.
func TokenFromRequest(r *http.Request) string {
	if t := bearerToken(r.Header.Get("Authorization")); t != "" {
		return t
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
