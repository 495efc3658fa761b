package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
)

// EnsureUser upserts a user row. An empty username never overwrites an
// existing one; new users start at the reputation floor.
func (s *Store) EnsureUser(ctx context.Context, id uuid.UUID, username string) (*domain.User, error) {
	var user domain.User
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, reputation, created_at, updated_at)
		VALUES ($1, $2, 1, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			username = CASE WHEN EXCLUDED.username <> '' THEN EXCLUDED.username ELSE users.username END,
			updated_at = NOW()
		RETURNING id, username, reputation, created_at, updated_at
	`, id, username).Scan(
		&user.ID, &user.Username, &user.Reputation, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &user, nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, username, reputation, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id).Scan(
		&user.ID, &user.Username, &user.Reputation, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// AdjustReputation applies a delta atomically, clamped so reputation never
// drops below 1. Returns the new value.
func (s *Store) AdjustReputation(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var reputation int
	err := s.pool.QueryRow(ctx, `
		UPDATE users
		SET reputation = GREATEST(1, reputation + $2), updated_at = NOW()
		WHERE id = $1
		RETURNING reputation
	`, id, delta).Scan(&reputation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to adjust reputation: %w", err)
	}
	return reputation, nil
}
