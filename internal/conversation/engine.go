// Package conversation implements the per-user intake dialogue as a
// small finite state machine decoupled from the Telegram transport.
// Inbound events are tagged trigger values; outcomes are reply signals
// the transport renders.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sourcinglab/sourcingbot/core/logger"
	"github.com/sourcinglab/sourcingbot/internal/domain"
)

const (
	// MinDescriptionLen is the minimum trimmed description length in runes.
	MinDescriptionLen = 5

	// MinContactLen is the minimum trimmed contact length in runes.
	MinContactLen = 3
)

// Trigger is an inbound dialogue event. Implementations form a closed
// tagged set; the engine dispatches on the concrete type.
type Trigger interface {
	triggerUser() int64
}

// StartTrigger opens the intake dialogue.
type StartTrigger struct {
	UserID int64
}

// TextInput carries a text message while a dialogue is active.
type TextInput struct {
	UserID   int64
	Username string
	Text     string
}

// CancelTrigger abandons the dialogue from any state.
type CancelTrigger struct {
	UserID int64
}

// ViewRequestTrigger asks for the user's open request.
type ViewRequestTrigger struct {
	UserID int64
}

// DeleteRequestTrigger removes the user's open request.
type DeleteRequestTrigger struct {
	UserID int64
}

func (t StartTrigger) triggerUser() int64         { return t.UserID }
func (t TextInput) triggerUser() int64            { return t.UserID }
func (t CancelTrigger) triggerUser() int64        { return t.UserID }
func (t ViewRequestTrigger) triggerUser() int64   { return t.UserID }
func (t DeleteRequestTrigger) triggerUser() int64 { return t.UserID }

// Requests is the slice of the request service the engine needs.
type Requests interface {
	Exists(ctx context.Context, userID int64) (bool, error)
	Create(ctx context.Context, userID int64, username, description, contact string) error
	Get(ctx context.Context, userID int64) (domain.Request, error)
	Delete(ctx context.Context, userID int64) (bool, error)
}

// Engine drives intake dialogues. All methods are safe for concurrent
// use; per-user state lives in the session store.
type Engine struct {
	sessions *SessionStore
	requests Requests
}

// NewEngine creates an engine over the given session store and service.
func NewEngine(sessions *SessionStore, requests Requests) *Engine {
	return &Engine{sessions: sessions, requests: requests}
}

// InProgress reports whether the user has an active dialogue.
func (e *Engine) InProgress(userID int64) bool {
	return e.sessions.InProgress(userID)
}

// Handle dispatches a trigger through the transition table. Storage
// failures return SignalFailure together with the error; the session is
// left in its pre-operation state so the user can retry the same step.
func (e *Engine) Handle(ctx context.Context, trig Trigger) (Reply, error) {
	switch t := trig.(type) {
	case StartTrigger:
		return e.handleStart(ctx, t)
	case TextInput:
		return e.handleText(ctx, t)
	case CancelTrigger:
		return e.handleCancel(ctx, t)
	case ViewRequestTrigger:
		return e.handleView(ctx, t)
	case DeleteRequestTrigger:
		return e.handleDelete(ctx, t)
	default:
		return reply(SignalNone), fmt.Errorf("conversation: unknown trigger %T", trig)
	}
}

// handleStart opens the dialogue. If the user already has an open
// request no dialogue starts. If a dialogue is already in progress the
// current step is re-prompted without losing collected answers.
func (e *Engine) handleStart(ctx context.Context, t StartTrigger) (Reply, error) {
	switch e.sessions.get(t.UserID).State {
	case StateAwaitingDescription:
		return reply(SignalPromptDescription), nil
	case StateAwaitingContact:
		return reply(SignalPromptContact), nil
	}

	exists, err := e.requests.Exists(ctx, t.UserID)
	if err != nil {
		logger.Error(ctx, "conversation", "start.exists_failed",
			slog.Int64("user_id", t.UserID),
			slog.String("err", err.Error()),
		)
		return reply(SignalFailure), err
	}
	if exists {
		return reply(SignalAlreadyRequested), nil
	}

	e.sessions.put(t.UserID, session{State: StateAwaitingDescription})
	logger.Info(ctx, "conversation", "dialogue.started",
		slog.Int64("user_id", t.UserID),
	)
	return reply(SignalWelcome), nil
}

// handleText consumes dialogue text. Validation failures re-prompt the
// same step.
func (e *Engine) handleText(ctx context.Context, t TextInput) (Reply, error) {
	sess := e.sessions.get(t.UserID)
	trimmed := strings.TrimSpace(t.Text)

	switch sess.State {
	case StateAwaitingDescription:
		if utf8.RuneCountInString(trimmed) < MinDescriptionLen {
			return reply(SignalDescriptionTooShort), nil
		}
		sess.State = StateAwaitingContact
		sess.PendingDescription = trimmed
		e.sessions.put(t.UserID, sess)
		return reply(SignalPromptContact), nil

	case StateAwaitingContact:
		if utf8.RuneCountInString(trimmed) < MinContactLen {
			return reply(SignalContactTooShort), nil
		}
		err := e.requests.Create(ctx, t.UserID, t.Username, sess.PendingDescription, trimmed)
		switch {
		case err == nil:
			e.sessions.reset(t.UserID)
			logger.Info(ctx, "conversation", "dialogue.completed",
				slog.Int64("user_id", t.UserID),
			)
			return reply(SignalThanks), nil
		case errors.Is(err, domain.ErrAlreadyExists):
			// Raced with another submission path. The dialogue is moot.
			e.sessions.reset(t.UserID)
			return reply(SignalAlreadyRequested), nil
		default:
			logger.Error(ctx, "conversation", "dialogue.create_failed",
				slog.Int64("user_id", t.UserID),
				slog.String("err", err.Error()),
			)
			return reply(SignalFailure), err
		}

	default:
		return reply(SignalNone), nil
	}
}

// handleCancel clears the session from any state. Cancelling with no
// dialogue in progress is harmless and still acknowledged.
func (e *Engine) handleCancel(ctx context.Context, t CancelTrigger) (Reply, error) {
	if e.sessions.get(t.UserID).State != StateIdle {
		logger.Info(ctx, "conversation", "dialogue.cancelled",
			slog.Int64("user_id", t.UserID),
		)
	}
	e.sessions.reset(t.UserID)
	return reply(SignalCancelled), nil
}

func (e *Engine) handleView(ctx context.Context, t ViewRequestTrigger) (Reply, error) {
	req, err := e.requests.Get(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return reply(SignalNoActiveRequest), nil
		}
		logger.Error(ctx, "conversation", "view.get_failed",
			slog.Int64("user_id", t.UserID),
			slog.String("err", err.Error()),
		)
		return reply(SignalFailure), err
	}
	return Reply{
		Signal:      SignalRequestView,
		Description: req.Description,
		Contact:     req.Contact,
	}, nil
}

func (e *Engine) handleDelete(ctx context.Context, t DeleteRequestTrigger) (Reply, error) {
	existed, err := e.requests.Delete(ctx, t.UserID)
	if err != nil {
		logger.Error(ctx, "conversation", "delete.failed",
			slog.Int64("user_id", t.UserID),
			slog.String("err", err.Error()),
		)
		return reply(SignalFailure), err
	}
	if !existed {
		return reply(SignalNoActiveRequest), nil
	}
	return reply(SignalDeleted), nil
}
