// Package smtp entrega notificaciones por email.
package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"vetcare-api/internal/domain/notifications"
)

type Encryption string

const (
	EncNone     Encryption = "NONE"
	EncStartTLS Encryption = "STARTTLS"
	EncSSLTLS   Encryption = "SSL/TLS"
)

// ParseEncryption: valores desconocidos caen en STARTTLS.
func ParseEncryption(s string) Encryption {
	switch e := Encryption(strings.ToUpper(strings.TrimSpace(s))); e {
	case EncNone, EncStartTLS, EncSSLTLS:
		return e
	case "SSL", "TLS":
		return EncSSLTLS
	}
	return EncStartTLS
}

type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Encryption string
}

type Mailer struct {
	cfg     Config
	enc     Encryption
	subject string
}

func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg, enc: ParseEncryption(cfg.Encryption), subject: "VetCare notification"}
}

func (m *Mailer) Name() string { return "email" }

// Deliver manda el contenido como texto plano. Sin email de destino no hace nada.
func (m *Mailer) Deliver(ctx context.Context, msg notifications.Message) error {
	to := strings.TrimSpace(msg.Email)
	if to == "" {
		return nil
	}
	return m.send(ctx, to, buildMessage(m.cfg.From, to, m.subject, msg.Content, msg.CreatedAt))
}

func (m *Mailer) send(ctx context.Context, to string, body []byte) error {
	address := net.JoinHostPort(m.cfg.Host, fmt.Sprint(m.cfg.Port))
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if m.enc == EncNone {
		if err := smtp.SendMail(address, auth, m.cfg.From, []string{to}, body); err != nil {
			return fmt.Errorf("smtp: sendmail: %w", err)
		}
		return nil
	}

	d := net.Dialer{Timeout: 15 * time.Second}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left > 0 {
			d.Timeout = left
		}
	}

	var (
		conn net.Conn
		err  error
	)
	if m.enc == EncSSLTLS {
		conn, err = tls.DialWithDialer(&d, "tcp", address, &tls.Config{ServerName: m.cfg.Host})
	} else {
		conn, err = d.DialContext(ctx, "tcp", address)
	}
	if err != nil {
		return fmt.Errorf("smtp: dial: %w", err)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp: new client: %w", err)
	}
	defer c.Close()

	if m.enc == EncStartTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
				return fmt.Errorf("smtp: starttls: %w", err)
			}
		}
	}
	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp: auth: %w", err)
		}
	}
	if err := c.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp: MAIL FROM: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp: RCPT TO %s: %w", to, err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp: DATA: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp: close data: %w", err)
	}
	return c.Quit()
}

func buildMessage(from, to, subject, content string, at time.Time) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + at.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(content, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
