package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store exposes database-level operations: the liveness query, schema
// creation and the server clock.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewStore creates a Store over the shared connection pool.
func NewStore(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

// Ping runs a trivial query to confirm the database answers.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	if err := s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// EnsureSchema creates the usuarios table if it does not exist yet.
// Existing tables are left untouched.
func (s *Store) EnsureSchema(ctx context.Context) error {
	m := s.db.WithContext(ctx).Migrator()
	if m.HasTable(&UserSchema{}) {
		s.log.Debug("schema already present", zap.String("table", UserSchema{}.TableName()))
		return nil
	}

	if err := m.CreateTable(&UserSchema{}); err != nil {
		return fmt.Errorf("create table %s: %w", UserSchema{}.TableName(), err)
	}
	s.log.Info("schema created", zap.String("table", UserSchema{}.TableName()))
	return nil
}

// Now returns the database server's current timestamp. Drivers that report
// the value as text (sqlite) are parsed as UTC.
func (s *Store) Now(ctx context.Context) (time.Time, error) {
	rows, err := s.db.WithContext(ctx).Raw("SELECT CURRENT_TIMESTAMP").Rows()
	if err != nil {
		return time.Time{}, fmt.Errorf("query database time: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return time.Time{}, fmt.Errorf("query database time: %w", err)
		}
		return time.Time{}, fmt.Errorf("query database time: no row returned")
	}

	var raw any
	if err := rows.Scan(&raw); err != nil {
		return time.Time{}, fmt.Errorf("scan database time: %w", err)
	}

	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		return parseTimestamp(v)
	case []byte:
		return parseTimestamp(string(v))
	default:
		return time.Time{}, fmt.Errorf("unexpected database time type %T", raw)
	}
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateTime, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse database time %q: %w", s, err)
	}
	return t, nil
}
