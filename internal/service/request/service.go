// Package request implements the sourcing request lifecycle.
package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sourcinglab/sourcingbot/core/logger"
	"github.com/sourcinglab/sourcingbot/core/telegram/format"
	"github.com/sourcinglab/sourcingbot/internal/domain"
	"github.com/sourcinglab/sourcingbot/internal/notify"
)

// Store is the persistence contract the service depends on.
type Store interface {
	Exists(ctx context.Context, userID int64) (bool, error)
	Create(ctx context.Context, req domain.Request) error
	Get(ctx context.Context, userID int64) (domain.Request, error)
	Delete(ctx context.Context, userID int64) (bool, error)
	List(ctx context.Context) ([]domain.Request, error)
}

// Service coordinates request persistence with admin notification.
// It is the only component allowed to create requests.
type Service struct {
	store Store
	sink  notify.Sink
}

// New creates the request service. sink may be nil; notifications are
// then skipped entirely.
func New(store Store, sink notify.Sink) *Service {
	return &Service{store: store, sink: sink}
}

// SetSink wires the notification sink after construction. The Telegram
// sink needs a live bot instance, which only exists once the transport
// is up, so wiring happens in the startup hook.
func (s *Service) SetSink(sink notify.Sink) {
	s.sink = sink
}

// Create persists a new request and notifies the admin. Uniqueness is
// enforced by the store in a single statement: a concurrent duplicate
// surfaces as domain.ErrAlreadyExists, never as a second row.
// Notification failure does not undo the creation.
func (s *Service) Create(ctx context.Context, userID int64, username, description, contact string) error {
	req := domain.Request{
		UserID:      userID,
		Description: description,
		Contact:     contact,
	}
	if err := s.store.Create(ctx, req); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return err
		}
		return fmt.Errorf("create request: %w", err)
	}

	logger.Info(ctx, "svc.requests", "request.created",
		slog.Int64("user_id", userID),
		slog.String("username", username),
	)

	if s.sink != nil {
		text := adminNotificationText(userID, username, description, contact)
		if err := s.sink.Notify(ctx, text); err != nil {
			logger.Warn(ctx, "svc.requests", "request.notify_failed",
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
		}
	}
	return nil
}

// Exists reports whether the user has an open request.
func (s *Service) Exists(ctx context.Context, userID int64) (bool, error) {
	return s.store.Exists(ctx, userID)
}

// Get returns the user's open request.
func (s *Service) Get(ctx context.Context, userID int64) (domain.Request, error) {
	return s.store.Get(ctx, userID)
}

// Delete removes the user's request. Deleting a request that does not
// exist is not an error; the boolean reports whether one was removed.
func (s *Service) Delete(ctx context.Context, userID int64) (bool, error) {
	existed, err := s.store.Delete(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("delete request: %w", err)
	}
	return existed, nil
}

// List returns all open requests, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Request, error) {
	return s.store.List(ctx)
}

func adminNotificationText(userID int64, username, description, contact string) string {
	who := fmt.Sprintf("`%d`", userID)
	if username != "" {
		who = fmt.Sprintf("`%d` (@%s)", userID, format.EscapeMarkdown(username))
	}
	return fmt.Sprintf(
		"📬 *Новый запрос:*\n👤 *User ID:* %s\n📦 *Описание:* %s\n📞 *Контакт:* %s",
		who,
		format.EscapeMarkdown(description),
		format.EscapeMarkdown(contact),
	)
}
