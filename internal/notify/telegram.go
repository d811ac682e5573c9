// Package notify delivers best-effort admin notifications.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/sourcinglab/sourcingbot/core/logger"
)

// Sink receives one-way notification messages. Delivery is best effort:
// callers must not treat a failed Notify as fatal.
type Sink interface {
	Notify(ctx context.Context, text string) error
}

// TelegramSink sends notifications to a single admin chat.
type TelegramSink struct {
	bot     *tele.Bot
	adminID int64
	timeout time.Duration
}

// NewTelegramSink creates a sink targeting the given admin chat.
// A non-positive timeout falls back to 5 seconds.
func NewTelegramSink(bot *tele.Bot, adminID int64, timeout time.Duration) *TelegramSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TelegramSink{bot: bot, adminID: adminID, timeout: timeout}
}

// Notify sends text to the admin chat, waiting at most the configured
// timeout. The send itself keeps running in the background if the wait
// expires; only the caller stops blocking.
func (s *TelegramSink) Notify(ctx context.Context, text string) error {
	if s.bot == nil || s.adminID == 0 {
		return fmt.Errorf("notify: sink not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := s.bot.Send(tele.ChatID(s.adminID), text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Warn(ctx, "notify", "admin.send_failed",
				slog.Int64("chat_id", s.adminID),
				slog.String("err", err.Error()),
			)
			return fmt.Errorf("notify admin: %w", err)
		}
		logger.Debug(ctx, "notify", "admin.sent",
			slog.Int64("chat_id", s.adminID),
		)
		return nil
	case <-ctx.Done():
		logger.Warn(ctx, "notify", "admin.send_timeout",
			slog.Int64("chat_id", s.adminID),
		)
		return fmt.Errorf("notify admin: %w", ctx.Err())
	}
}
