package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
)

const questionColumns = `id, author_id, title, content, tags, answer_count, comment_count, view_count, accepted_answer_id, is_deleted, created_at, updated_at`

func (s *Store) CreateQuestion(ctx context.Context, q *domain.Question) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO questions (id, author_id, title, content, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, q.ID, q.Author, q.Title, q.Content, q.Tags, q.CreatedAt, q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}
	return nil
}

func (s *Store) GetQuestion(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	var q domain.Question
	err := s.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id,
	).Scan(
		&q.ID, &q.Author, &q.Title, &q.Content, &q.Tags,
		&q.AnswerCount, &q.CommentCount, &q.ViewCount,
		&q.AcceptedAnswerID, &q.IsDeleted, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to load question: %w", err)
	}

	votes, err := s.loadVotes(ctx, domain.EntityQuestion, q.ID)
	if err != nil {
		return nil, err
	}
	q.Votes = votes
	return &q, nil
}

// loadVotes reads the up and down voter sets of one entity.
func (s *Store) loadVotes(ctx context.Context, entity domain.EntityType, entityID uuid.UUID) (domain.VoteRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, direction
		FROM votes
		WHERE entity_type = $1 AND entity_id = $2
	`, entity, entityID)
	if err != nil {
		return domain.VoteRecord{}, fmt.Errorf("failed to load votes: %w", err)
	}
	defer rows.Close()

	var record domain.VoteRecord
	for rows.Next() {
		var userID uuid.UUID
		var direction domain.VoteDirection
		if err := rows.Scan(&userID, &direction); err != nil {
			return domain.VoteRecord{}, fmt.Errorf("failed to scan vote: %w", err)
		}
		if direction == domain.VoteUp {
			record.Upvoters = append(record.Upvoters, userID)
		} else {
			record.Downvoters = append(record.Downvoters, userID)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.VoteRecord{}, fmt.Errorf("failed to read votes: %w", err)
	}
	return record, nil
}
