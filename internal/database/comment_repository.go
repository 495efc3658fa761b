package database

import (
	"context"
	"fmt"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
)

// CreateComment inserts a comment and bumps the parent's comment count in
// one transaction.
func (s *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	_, err = tx.Exec(ctx, `
		INSERT INTO comments (id, author_id, entity_type, entity_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.Author, c.EntityType, c.EntityID, c.Content, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	var table string
	switch c.EntityType {
	case domain.EntityQuestion:
		table = "questions"
	case domain.EntityAnswer:
		table = "answers"
	default:
		return fmt.Errorf("unknown entity type %q", c.EntityType)
	}

	_, err = tx.Exec(ctx,
		`UPDATE `+table+` SET comment_count = comment_count + 1 WHERE id = $1`,
		c.EntityID)
	if err != nil {
		return fmt.Errorf("failed to update comment count: %w", err)
	}

	return tx.Commit(ctx)
}
