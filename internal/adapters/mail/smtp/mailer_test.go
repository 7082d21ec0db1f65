package smtp

import (
	"context"
	"strings"
	"testing"
	"time"

	"vetcare-api/internal/domain/notifications"
)

func TestParseEncryption(t *testing.T) {
	cases := map[string]Encryption{
		"none":     EncNone,
		"STARTTLS": EncStartTLS,
		"ssl/tls":  EncSSLTLS,
		"tls":      EncSSLTLS,
		"":         EncStartTLS,
		"weird":    EncStartTLS,
	}
	for in, want := range cases {
		if got := ParseEncryption(in); got != want {
			t.Fatalf("ParseEncryption(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildMessage_Headers(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	raw := string(buildMessage("clinic@vetcare.test", "owner@vetcare.test", "VetCare notification", "line1\nline2", at))

	for _, want := range []string{
		"From: clinic@vetcare.test\r\n",
		"To: owner@vetcare.test\r\n",
		"Content-Type: text/plain; charset=UTF-8\r\n",
		"\r\n\r\nline1\r\nline2\r\n",
	} {
		if !strings.Contains(raw, want) {
			t.Fatalf("message missing %q:\n%s", want, raw)
		}
	}
}

func TestDeliver_SkipsWithoutEmail(t *testing.T) {
	// host inválido: si intentara conectar fallaría
	m := New(Config{Host: "invalid.invalid", Port: 1, From: "x@y"})
	if err := m.Deliver(context.Background(), notifications.Message{UserID: "u1", Content: "hi"}); err != nil {
		t.Fatalf("expected skip, got %v", err)
	}
}
