package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"blockbreak/internal/models"
)

// Memory keeps everything in maps. It is used when DATABASE_URL is empty
// and in tests.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	solves   []models.Solve
	logs     []models.AuditLog
	nextID   int64
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]models.Session)}
}

func (m *Memory) CreateSession(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	m.sessions[s.ID] = *s
	return nil
}

func (m *Memory) GetSession(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *Memory) RevokeSession(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.RevokedAt = &at
	m.sessions[id] = s
	return nil
}

func (m *Memory) AddQueries(_ context.Context, id string, n int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return 0, ErrNotFound
	}
	s.Queries += n
	m.sessions[id] = s
	return s.Queries, nil
}

func (m *Memory) RecordSolve(_ context.Context, s *models.Solve) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.solves {
		if x.SessionID == s.SessionID && x.Challenge == s.Challenge {
			return ErrAlreadySolved
		}
	}
	m.nextID++
	s.ID = m.nextID
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	m.solves = append(m.solves, *s)
	return nil
}

func (m *Memory) ListSolves(_ context.Context, sessionID string) ([]models.Solve, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Solve
	for _, s := range m.solves {
		if s.SessionID == sessionID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Memory) AppendLog(_ context.Context, l *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	l.ID = m.nextID
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	m.logs = append(m.logs, *l)
	return nil
}

func (m *Memory) ListLogs(_ context.Context, sessionID string, limit int) ([]models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AuditLog
	for _, l := range m.logs {
		if l.SessionID != nil && *l.SessionID == sessionID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
