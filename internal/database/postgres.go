package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostgreSQL-backed persistence layer. It implements the
// forum Store and the notification store on one shared pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a connection pool and verifies it.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings for production use
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// NewStore wraps an existing pool. Used by tests.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) RunMigrations(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			reputation INT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id UUID PRIMARY KEY,
			author_id UUID NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			tags TEXT[] NOT NULL DEFAULT '{}',
			answer_count INT NOT NULL DEFAULT 0,
			comment_count INT NOT NULL DEFAULT 0,
			view_count INT NOT NULL DEFAULT 0,
			accepted_answer_id UUID,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS answers (
			id UUID PRIMARY KEY,
			question_id UUID NOT NULL REFERENCES questions(id),
			author_id UUID NOT NULL REFERENCES users(id),
			content TEXT NOT NULL,
			is_accepted BOOLEAN NOT NULL DEFAULT FALSE,
			accepted_at TIMESTAMPTZ,
			accepted_by UUID,
			comment_count INT NOT NULL DEFAULT 0,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_answers_question ON answers(question_id)`,
		`CREATE TABLE IF NOT EXISTS votes (
			entity_type TEXT NOT NULL,
			entity_id UUID NOT NULL,
			user_id UUID NOT NULL REFERENCES users(id),
			direction TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (entity_type, entity_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id UUID PRIMARY KEY,
			author_id UUID NOT NULL REFERENCES users(id),
			entity_type TEXT NOT NULL,
			entity_id UUID NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_entity ON comments(entity_type, entity_id)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY,
			recipient_id UUID NOT NULL REFERENCES users(id),
			sender_id UUID NOT NULL,
			kind TEXT NOT NULL,
			question_id UUID,
			answer_id UUID,
			comment_id UUID,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			read_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, created_at DESC)`,
	}

	for _, migration := range migrations {
		if _, err := s.pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	slog.Info("Database migrations completed successfully")
	return nil
}
