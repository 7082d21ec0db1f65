package jwt

import (
	"context"
	"errors"
	"strings"
	"time"

	"vetcare-api/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrBadToken     = errors.New("invalid token")
	ErrSecretMissed = errors.New("jwt secret not configured")
)

type tokenClaims struct {
	UserID   string   `json:"uid"`
	Username string   `json:"username"`
	Roles    []string `json:"roles,omitempty"`
	gojwt.RegisteredClaims
}

// Service firma y verifica tokens HS256.
// Implementa auth.TokenIssuer y auth.AuthVerifier.
type Service struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
}

func NewService(secret string, expiry time.Duration) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretMissed
	}
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &Service{
		secret: []byte(secret),
		expiry: expiry,
		issuer: "vetcare-api",
		now:    time.Now,
	}, nil
}

func (s *Service) Issue(c auth.Claims) (auth.IssuedToken, error) {
	if strings.TrimSpace(c.UserID) == "" {
		return auth.IssuedToken{}, errors.New("jwt: user id required")
	}
	now := s.now()
	exp := now.Add(s.expiry)

	tc := tokenClaims{
		UserID:   c.UserID,
		Username: c.Username,
		Roles:    c.Roles,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   c.UserID,
			Issuer:    s.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(exp),
		},
	}

	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, tc).SignedString(s.secret)
	if err != nil {
		return auth.IssuedToken{}, err
	}
	return auth.IssuedToken{Token: signed, ExpiresAt: exp}, nil
}

func (s *Service) Verify(_ context.Context, raw string) (auth.Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	tok, err := gojwt.ParseWithClaims(raw, &tokenClaims{}, func(t *gojwt.Token) (any, error) {
		// bloquea alg confusion
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return s.secret, nil
	}, gojwt.WithTimeFunc(s.now), gojwt.WithIssuer(s.issuer))
	if err != nil {
		return auth.Claims{}, err
	}

	tc, ok := tok.Claims.(*tokenClaims)
	if !ok || !tok.Valid || strings.TrimSpace(tc.UserID) == "" {
		return auth.Claims{}, ErrBadToken
	}

	return auth.Claims{
		UserID:   tc.UserID,
		Username: tc.Username,
		Roles:    tc.Roles,
	}, nil
}
