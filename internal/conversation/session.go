package conversation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sourcinglab/sourcingbot/core/logger"
)

// State is the dialogue step a user is currently on.
type State int

const (
	// StateIdle means no dialogue is in progress.
	StateIdle State = iota

	// StateAwaitingDescription means the next text is taken as the goods description.
	StateAwaitingDescription

	// StateAwaitingContact means the next text is taken as contact details.
	StateAwaitingContact
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingDescription:
		return "awaiting_description"
	case StateAwaitingContact:
		return "awaiting_contact"
	default:
		return "unknown"
	}
}

type session struct {
	State              State
	PendingDescription string
	UpdatedAt          time.Time
}

// SessionStore keeps per-user dialogue state in memory. Sessions are
// transient; a restart drops all of them, which only means users have
// to restart an unfinished dialogue.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*session
	now      func() time.Time
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*session),
		now:      time.Now,
	}
}

// get returns a copy of the user's session; idle zero value if absent.
func (s *SessionStore) get(userID int64) session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[userID]; ok {
		return *sess
	}
	return session{State: StateIdle}
}

// put stores the session, stamping UpdatedAt.
func (s *SessionStore) put(userID int64, sess session) {
	sess.UpdatedAt = s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = &sess
}

// reset drops the user's session entirely.
func (s *SessionStore) reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// InProgress reports whether the user has an active dialogue.
func (s *SessionStore) InProgress(userID int64) bool {
	return s.get(userID).State != StateIdle
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SweepIdle removes sessions untouched for longer than ttl and returns
// how many were removed.
func (s *SessionStore) SweepIdle(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps expired sessions every interval until ctx is done.
// Intended to run as a goroutine from the startup hook.
func (s *SessionStore) RunJanitor(ctx context.Context, ttl, interval time.Duration) {
	if ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.SweepIdle(ttl); removed > 0 {
				logger.Debug(ctx, "conversation", "sessions.swept",
					slog.Int("count", removed),
					slog.Int("remaining", s.Len()),
				)
			}
		}
	}
}
