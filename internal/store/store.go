// Package store persists sessions, solves and audit logs, either in
// Postgres through GORM or in process memory.
package store

import (
	"context"
	"errors"
	"time"

	"blockbreak/internal/models"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadySolved = errors.New("store: challenge already solved")
)

type Store interface {
	CreateSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	RevokeSession(ctx context.Context, id string, at time.Time) error
	// AddQueries increments the session's oracle query counter and returns
	// the new total.
	AddQueries(ctx context.Context, id string, n int64) (int64, error)
	RecordSolve(ctx context.Context, s *models.Solve) error
	ListSolves(ctx context.Context, sessionID string) ([]models.Solve, error)
	AppendLog(ctx context.Context, l *models.AuditLog) error
	// ListLogs returns the newest logs of a session first.
	ListLogs(ctx context.Context, sessionID string, limit int) ([]models.AuditLog, error)
}
