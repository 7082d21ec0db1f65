package jwt

import (
	"context"
	"testing"
	"time"

	"vetcare-api/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
)

func TestService_IssueThenVerify(t *testing.T) {
	svc, err := NewService("secret", 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	issued, err := svc.Issue(auth.Claims{UserID: "u1", Username: "alice", Roles: []string{"USER"}})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c, err := svc.Verify(context.Background(), issued.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if c.UserID != "u1" || c.Username != "alice" || len(c.Roles) != 1 {
		t.Fatalf("unexpected claims: %+v", c)
	}
}

func TestService_VerifyRejectsExpired(t *testing.T) {
	svc, _ := NewService("secret", time.Minute)
	base := time.Now()
	svc.now = func() time.Time { return base }

	issued, err := svc.Issue(auth.Claims{UserID: "u1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := svc.Verify(context.Background(), issued.Token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestService_VerifyRejectsOtherSecret(t *testing.T) {
	a, _ := NewService("secret-a", time.Minute)
	b, _ := NewService("secret-b", time.Minute)

	issued, _ := a.Issue(auth.Claims{UserID: "u1"})
	if _, err := b.Verify(context.Background(), issued.Token); err == nil {
		t.Fatalf("expected signature mismatch")
	}
}

func TestService_VerifyRejectsNoneAlg(t *testing.T) {
	svc, _ := NewService("secret", time.Minute)

	tok := gojwt.NewWithClaims(gojwt.SigningMethodNone, tokenClaims{
		UserID: "u1",
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "vetcare-api",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	raw, err := tok.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.Verify(context.Background(), raw); err == nil {
		t.Fatalf("expected alg none to be rejected")
	}
}

func TestNewService_RequiresSecret(t *testing.T) {
	if _, err := NewService("  ", time.Minute); err != ErrSecretMissed {
		t.Fatalf("expected ErrSecretMissed, got %v", err)
	}
}
