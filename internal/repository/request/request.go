// Package request implements sourcing request persistence backed by PostgreSQL.
package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sourcinglab/sourcingbot/core/logger"
	"github.com/sourcinglab/sourcingbot/internal/domain"
)

// Repo provides request persistence on top of sqlx.
type Repo struct {
	db *sqlx.DB
}

// New creates a request repository.
func New(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

// Exists reports whether the user already has an open request.
func (r *Repo) Exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM requests WHERE user_id = $1)`, userID)
	if err != nil {
		return false, mapError(err, userID)
	}
	return exists, nil
}

// Create inserts a new request. The user_id primary key guarantees
// at most one open request per user; a unique violation is reported
// as domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, req domain.Request) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO requests (user_id, description, contact) VALUES ($1, $2, $3)`,
		req.UserID, req.Description, req.Contact)
	if err != nil {
		return mapError(err, req.UserID)
	}

	logger.Info(ctx, "db", "request.created",
		slog.Int64("user_id", req.UserID),
	)
	return nil
}

// Get returns the open request for the user, or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, userID int64) (domain.Request, error) {
	var req domain.Request
	err := r.db.GetContext(ctx, &req,
		`SELECT user_id, description, contact, created_at FROM requests WHERE user_id = $1`, userID)
	if err != nil {
		return domain.Request{}, mapError(err, userID)
	}
	return req, nil
}

// Delete removes the user's request if present. It reports whether a
// row was actually deleted; deleting a missing request is not an error.
func (r *Repo) Delete(ctx context.Context, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM requests WHERE user_id = $1`, userID)
	if err != nil {
		return false, mapError(err, userID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapError(err, userID)
	}

	logger.Info(ctx, "db", "request.deleted",
		slog.Int64("user_id", userID),
		slog.Bool("existed", n > 0),
	)
	return n > 0, nil
}

// List returns all open requests ordered by creation time, newest first.
func (r *Repo) List(ctx context.Context) ([]domain.Request, error) {
	var reqs []domain.Request
	err := r.db.SelectContext(ctx, &reqs,
		`SELECT user_id, description, contact, created_at FROM requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapError(err, 0)
	}
	return reqs, nil
}

// mapError converts driver errors into domain errors.
func mapError(err error, userID int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("request %d: %w", userID, err)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("request %d: %w", userID, domain.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("request %d: %w", userID, domain.ErrAlreadyExists)
	}
	return fmt.Errorf("request %d: %w", userID, err)
}
