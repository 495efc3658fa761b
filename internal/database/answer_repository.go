package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
)

const answerColumns = `id, question_id, author_id, content, is_accepted, accepted_at, accepted_by, comment_count, is_deleted, created_at, updated_at`

func scanAnswer(row pgx.Row) (*domain.Answer, error) {
	var a domain.Answer
	err := row.Scan(
		&a.ID, &a.QuestionID, &a.Author, &a.Content,
		&a.IsAccepted, &a.AcceptedAt, &a.AcceptedBy,
		&a.CommentCount, &a.IsDeleted, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAnswer inserts an answer and bumps the owning question's answer
// count in one transaction.
func (s *Store) CreateAnswer(ctx context.Context, a *domain.Answer) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	_, err = tx.Exec(ctx, `
		INSERT INTO answers (id, question_id, author_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.QuestionID, a.Author, a.Content, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert answer: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE questions
		SET answer_count = answer_count + 1, updated_at = $2
		WHERE id = $1 AND NOT is_deleted
	`, a.QuestionID, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update answer count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}

	return tx.Commit(ctx)
}

func (s *Store) GetAnswer(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	a, err := scanAnswer(s.pool.QueryRow(ctx,
		`SELECT `+answerColumns+` FROM answers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAnswerNotFound
		}
		return nil, fmt.Errorf("failed to load answer: %w", err)
	}

	votes, err := s.loadVotes(ctx, domain.EntityAnswer, a.ID)
	if err != nil {
		return nil, err
	}
	a.Votes = votes
	return a, nil
}

// ListAnswersByQuestion returns the non-deleted answers of a question, the
// accepted one first, then newest first.
func (s *Store) ListAnswersByQuestion(ctx context.Context, questionID uuid.UUID) ([]domain.Answer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+answerColumns+`
		FROM answers
		WHERE question_id = $1 AND NOT is_deleted
		ORDER BY is_accepted DESC, created_at DESC
	`, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	var answers []domain.Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}

	for i := range answers {
		votes, err := s.loadVotes(ctx, domain.EntityAnswer, answers[i].ID)
		if err != nil {
			return nil, err
		}
		answers[i].Votes = votes
	}
	return answers, nil
}

// SoftDeleteAnswer marks an answer deleted and adjusts the owning question:
// the answer count drops and a deleted accepted answer is unset.
func (s *Store) SoftDeleteAnswer(ctx context.Context, id, _ uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var questionID uuid.UUID
	err = tx.QueryRow(ctx, `
		UPDATE answers
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted
		RETURNING question_id
	`, id).Scan(&questionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrAnswerNotFound
		}
		return fmt.Errorf("failed to delete answer: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE questions
		SET answer_count = GREATEST(0, answer_count - 1),
			accepted_answer_id = CASE WHEN accepted_answer_id = $2 THEN NULL ELSE accepted_answer_id END,
			updated_at = NOW()
		WHERE id = $1
	`, questionID, id)
	if err != nil {
		return fmt.Errorf("failed to update question after delete: %w", err)
	}

	return tx.Commit(ctx)
}

// AcceptAnswer performs the full acceptance transition atomically: any
// previously accepted answer of the question is unmarked, the new one is
// marked, and the question's accepted answer pointer moves.
func (s *Store) AcceptAnswer(ctx context.Context, questionID, answerID, acceptedBy uuid.UUID, at time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	_, err = tx.Exec(ctx, `
		UPDATE answers
		SET is_accepted = FALSE, accepted_at = NULL, accepted_by = NULL, updated_at = $3
		WHERE question_id = $1 AND is_accepted AND id <> $2
	`, questionID, answerID, at)
	if err != nil {
		return fmt.Errorf("failed to unmark previous answer: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE answers
		SET is_accepted = TRUE, accepted_at = $3, accepted_by = $4, updated_at = $3
		WHERE id = $2 AND question_id = $1 AND NOT is_deleted
	`, questionID, answerID, at, acceptedBy)
	if err != nil {
		return fmt.Errorf("failed to mark answer accepted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAnswerNotFound
	}

	tag, err = tx.Exec(ctx, `
		UPDATE questions
		SET accepted_answer_id = $2, updated_at = $3
		WHERE id = $1 AND NOT is_deleted
	`, questionID, answerID, at)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}

	return tx.Commit(ctx)
}
