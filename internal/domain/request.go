package domain

import (
	"errors"
	"time"
)

// Request is a sourcing request left by a Telegram user.
// UserID doubles as the primary key, so at most one open request
// can exist per user at any time.
type Request struct {
	UserID      int64     `db:"user_id"`
	Description string    `db:"description"`
	Contact     string    `db:"contact"`
	CreatedAt   time.Time `db:"created_at"`
}

var (
	// ErrAlreadyExists is returned when the user already has an open request.
	ErrAlreadyExists = errors.New("request already exists")

	// ErrNotFound is returned when no request exists for the user.
	ErrNotFound = errors.New("request not found")
)
