package notifications

import (
	"context"
	"errors"
	"strings"
	"time"

	"vetcare-api/internal/domain/access"
	"vetcare-api/internal/domain/identity"
	"vetcare-api/internal/platform/apperr"
	"vetcare-api/internal/platform/logger"

	"github.com/google/uuid"
)

// Channel es un medio de entrega: push por websocket, email, evento AMQP.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, m Message) error
}

type Service struct {
	repo     Repository
	channels []Channel
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, log logger.Logger, channels ...Channel) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, channels: channels, log: log, now: time.Now}
}

// Notify entrega por todos los canales y persiste el registro pase lo que pase con la entrega.
// Los errores se loguean; el caller nunca los ve.
func (s *Service) Notify(ctx context.Context, userID, message, email string) {
	m := Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     strings.TrimSpace(email),
		Content:   message,
		CreatedAt: s.now(),
	}

	for _, ch := range s.channels {
		if err := ch.Deliver(ctx, m); err != nil {
			s.log.Warn("notification channel failed", map[string]any{
				"channel": ch.Name(),
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}

	n := Notification{ID: m.ID, UserID: m.UserID, Content: m.Content, CreatedAt: m.CreatedAt}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Error("persist notification", map[string]any{"user_id": userID, "error": err.Error()})
	}
}

func (s *Service) Mine(ctx context.Context, actor identity.Actor) ([]Notification, error) {
	if !actor.Authenticated() {
		return nil, apperr.Unauthorized("authentication required")
	}
	items, err := s.repo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal(err, "list notifications")
	}
	return items, nil
}

// Get: el destinatario o un admin.
func (s *Service) Get(ctx context.Context, actor identity.Actor, id string) (Notification, error) {
	n, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, apperr.ErrRecordNotFound) {
			return Notification{}, apperr.NotFound("Notification not found with id: %s", id)
		}
		return Notification{}, apperr.Internal(err, "load notification")
	}
	if err := access.CheckUserAccess(actor, n.UserID, false); err != nil {
		return Notification{}, apperr.Forbidden("Access denied to notification with id: %s", n.ID)
	}
	return n, nil
}
