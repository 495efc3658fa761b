package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/metrics"
)

const notificationColumns = `id, recipient_id, sender_id, kind, question_id, answer_id, comment_id, read, read_at, created_at`

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	err := row.Scan(
		&n.ID, &n.Recipient, &n.Sender, &n.Kind,
		&n.Refs.QuestionID, &n.Refs.AnswerID, &n.Refs.CommentID,
		&n.Read, &n.ReadAt, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Insert persists a notification, evicting the recipient's oldest rows
// first so the retention cap is never exceeded.
func (s *Store) Insert(ctx context.Context, n *domain.Notification) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	tag, err := tx.Exec(ctx, `
		DELETE FROM notifications
		WHERE recipient_id = $1 AND id NOT IN (
			SELECT id FROM notifications
			WHERE recipient_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		)
	`, n.Recipient, domain.NotificationRetentionLimit-1)
	if err != nil {
		return fmt.Errorf("failed to evict notifications: %w", err)
	}
	if evicted := tag.RowsAffected(); evicted > 0 {
		metrics.NotificationsEvictedTotal.Add(float64(evicted))
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO notifications (id, recipient_id, sender_id, kind, question_id, answer_id, comment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, n.ID, n.Recipient, n.Sender, n.Kind,
		n.Refs.QuestionID, n.Refs.AnswerID, n.Refs.CommentID, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	n, err := scanNotification(s.pool.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}
	return n, nil
}

func (s *Store) ListByRecipient(ctx context.Context, recipient uuid.UUID, limit, offset int) ([]domain.Notification, int, error) {
	var total int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1`, recipient,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, recipient, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read notifications: %w", err)
	}
	return notifications, total, nil
}

func (s *Store) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE notifications
		SET read = TRUE, read_at = $2
		WHERE id = $1
	`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (s *Store) MarkAllRead(ctx context.Context, recipient uuid.UUID, at time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE notifications
		SET read = TRUE, read_at = $2
		WHERE recipient_id = $1 AND NOT read
	`, recipient, at)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (s *Store) UnreadCount(ctx context.Context, recipient uuid.UUID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND NOT read`,
		recipient,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
