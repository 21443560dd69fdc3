package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blockbreak/internal/models"
)

type Gorm struct {
	db *gorm.DB
}

// Open connects to Postgres and migrates the schema.
func Open(dsn string) (*Gorm, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return NewGorm(db)
}

// NewGorm wraps an open connection and migrates the schema.
func NewGorm(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, err
	}
	return &Gorm{db: db}, nil
}

func (g *Gorm) CreateSession(ctx context.Context, s *models.Session) error {
	return g.db.WithContext(ctx).Create(s).Error
}

func (g *Gorm) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	err := g.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (g *Gorm) RevokeSession(ctx context.Context, id string, at time.Time) error {
	res := g.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id).Update("revoked_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) AddQueries(ctx context.Context, id string, n int64) (int64, error) {
	var s models.Session
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Session{}).Where("id = ?", id).Update("queries", gorm.Expr("queries + ?", n))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Select("queries").First(&s, "id = ?", id).Error
	})
	if err != nil {
		return 0, err
	}
	return s.Queries, nil
}

func (g *Gorm) RecordSolve(ctx context.Context, s *models.Solve) error {
	res := g.insertSolve(ctx, s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadySolved
	}
	return nil
}

// insertSolve leaves RowsAffected at 0 when the session already solved
// the challenge.
func (g *Gorm) insertSolve(ctx context.Context, s *models.Solve) *gorm.DB {
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(s)
}

func (g *Gorm) ListSolves(ctx context.Context, sessionID string) ([]models.Solve, error) {
	var out []models.Solve
	err := g.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("created_at asc").Find(&out).Error
	return out, err
}

func (g *Gorm) AppendLog(ctx context.Context, l *models.AuditLog) error {
	return g.db.WithContext(ctx).Create(l).Error
}

func (g *Gorm) ListLogs(ctx context.Context, sessionID string, limit int) ([]models.AuditLog, error) {
	var out []models.AuditLog
	err := g.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("created_at desc").Limit(limit).Find(&out).Error
	return out, err
}
