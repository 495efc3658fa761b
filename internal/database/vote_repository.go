package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
)

// ToggleVote applies one vote toggle inside a transaction. The user's own
// vote row is locked so repeated clicks from the same user serialize;
// different users on the same entity proceed concurrently.
func (s *Store) ToggleVote(ctx context.Context, entity domain.EntityType, entityID, userID uuid.UUID, direction domain.VoteDirection) (domain.VoteResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.VoteResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var existing domain.VoteDirection
	err = tx.QueryRow(ctx, `
		SELECT direction
		FROM votes
		WHERE entity_type = $1 AND entity_id = $2 AND user_id = $3
		FOR UPDATE
	`, entity, entityID, userID).Scan(&existing)

	var result domain.VoteResult
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = tx.Exec(ctx, `
			INSERT INTO votes (entity_type, entity_id, user_id, direction)
			VALUES ($1, $2, $3, $4)
		`, entity, entityID, userID, direction)
		if err != nil {
			return domain.VoteResult{}, fmt.Errorf("failed to insert vote: %w", err)
		}
		result.Applied = true

	case err != nil:
		return domain.VoteResult{}, fmt.Errorf("failed to lock vote: %w", err)

	case existing == direction:
		// Same direction again: retract.
		_, err = tx.Exec(ctx, `
			DELETE FROM votes
			WHERE entity_type = $1 AND entity_id = $2 AND user_id = $3
		`, entity, entityID, userID)
		if err != nil {
			return domain.VoteResult{}, fmt.Errorf("failed to retract vote: %w", err)
		}

	default:
		// Opposite direction: switch.
		_, err = tx.Exec(ctx, `
			UPDATE votes
			SET direction = $4, created_at = NOW()
			WHERE entity_type = $1 AND entity_id = $2 AND user_id = $3
		`, entity, entityID, userID, direction)
		if err != nil {
			return domain.VoteResult{}, fmt.Errorf("failed to switch vote: %w", err)
		}
		result.Applied = true
		result.Switched = true
	}

	err = tx.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE direction = 'upvote'),
			COUNT(*) FILTER (WHERE direction = 'downvote')
		FROM votes
		WHERE entity_type = $1 AND entity_id = $2
	`, entity, entityID).Scan(&result.Upvotes, &result.Downvotes)
	if err != nil {
		return domain.VoteResult{}, fmt.Errorf("failed to count votes: %w", err)
	}
	result.Score = result.Upvotes - result.Downvotes

	if err := tx.Commit(ctx); err != nil {
		return domain.VoteResult{}, fmt.Errorf("failed to commit vote: %w", err)
	}
	return result, nil
}
