// Package amqp publica cada notificación como evento en un exchange topic de RabbitMQ,
// para que otros servicios (app móvil, SMS) la consuman.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"vetcare-api/internal/domain/notifications"
	"vetcare-api/internal/platform/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const routingKeyPrefix = "notification.user."

type Publisher struct {
	url      string
	exchange string
	log      logger.Logger

	mu     sync.RWMutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

// Connect reintenta con backoff hasta maxRetries antes de rendirse.
func Connect(ctx context.Context, url, exchange string, log logger.Logger) (*Publisher, error) {
	if log == nil {
		log = logger.Nop()
	}
	p := &Publisher{url: url, exchange: exchange, log: log.With(map[string]any{"component": "amqp"})}

	const maxRetries = 10
	delay := time.Second
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := p.connect()
		if err == nil {
			p.log.Info("rabbitmq connected", map[string]any{"attempt": attempt, "exchange": exchange})
			return p, nil
		}

		p.log.Warn("rabbitmq connection attempt failed", map[string]any{
			"attempt":      attempt,
			"max_retries":  maxRetries,
			"retry_in_sec": delay.Seconds(),
			"error":        err.Error(),
		})
		if attempt == maxRetries {
			return nil, fmt.Errorf("amqp: connect after %d attempts: %w", maxRetries, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay = min(time.Duration(float64(delay)*1.5), 30*time.Second)
	}
	return nil, errors.New("amqp: retry loop ended without connection")
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	p.mu.Lock()
	p.conn, p.ch = conn, ch
	p.mu.Unlock()
	return nil
}

func (p *Publisher) Name() string { return "amqp" }

// Deliver publica con routing key notification.user.<userId>.
// Si el canal se cayó intenta reconectar una vez.
func (p *Publisher) Deliver(ctx context.Context, m notifications.Message) error {
	body, err := json.Marshal(m)
	if err != nil {
		return err
	}

	err = p.publish(ctx, routingKey(m.UserID), body)
	if err == nil || !errors.Is(err, amqp.ErrClosed) {
		return err
	}

	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return err
	}
	if rerr := p.connect(); rerr != nil {
		return fmt.Errorf("amqp: reconnect: %w", rerr)
	}
	return p.publish(ctx, routingKey(m.UserID), body)
}

func (p *Publisher) publish(ctx context.Context, key string, body []byte) error {
	p.mu.RLock()
	ch := p.ch
	p.mu.RUnlock()
	if ch == nil {
		return amqp.ErrClosed
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return ch.PublishWithContext(pubCtx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
}

func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.log.Info("rabbitmq closed", nil)
}

func routingKey(userID string) string {
	return routingKeyPrefix + userID
}
