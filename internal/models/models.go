package models

import "time"

// Session is an anonymous challenge session. Its ID doubles as the JWT jti
// and as the salt for the session's hidden oracle material.
type Session struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	Cipher    string     `gorm:"size:32;not null" json:"cipher"`
	Queries   int64      `gorm:"not null;default:0" json:"queries"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Solve records the first successful answer to a challenge.
type Solve struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"type:uuid;not null;uniqueIndex:idx_solve_session_challenge" json:"session_id"`
	Challenge string    `gorm:"size:32;not null;uniqueIndex:idx_solve_session_challenge" json:"challenge"`
	Queries   int64     `gorm:"not null" json:"queries"`
	CreatedAt time.Time `json:"created_at"`
}

type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID *string   `gorm:"type:uuid;index" json:"session_id,omitempty"`
	Action    string    `gorm:"not null" json:"action"`
	Metadata  JSONB     `gorm:"type:jsonb;default:'{}'::jsonb" json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

// All lists the models to migrate.
func All() []any {
	return []any{&Session{}, &Solve{}, &AuditLog{}}
}
