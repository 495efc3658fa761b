// Package notify owns notification fan-out and the notification inbox
// operations. Fan-out is best-effort: a failed write is logged and counted,
// never surfaced to the operation that triggered it.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
	apperrors "github.com/Ashmita1206/Odoo-Hackathon-2025/internal/errors"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/metrics"
)

// Dispatcher persists notifications and pushes them to connected clients.
type Dispatcher struct {
	store     domain.NotificationStore
	publisher domain.PushPublisher
	clock     clockwork.Clock
}

func NewDispatcher(store domain.NotificationStore, publisher domain.PushPublisher, clock clockwork.Clock) *Dispatcher {
	return &Dispatcher{
		store:     store,
		publisher: publisher,
		clock:     clock,
	}
}

// Notify creates a notification for recipient. Self-actions are suppressed
// before anything is persisted. Errors never propagate to the caller.
func (d *Dispatcher) Notify(ctx context.Context, recipient, sender uuid.UUID, kind domain.NotificationKind, refs domain.NotificationRefs) {
	if recipient == sender {
		metrics.NotificationsSuppressedTotal.Inc()
		return
	}
	if !kind.Valid() {
		slog.Error("Dropping notification with unknown kind", "kind", kind)
		return
	}

	n := &domain.Notification{
		ID:        uuid.New(),
		Recipient: recipient,
		Sender:    sender,
		Kind:      kind,
		Refs:      refs,
		CreatedAt: d.clock.Now(),
	}
	if err := d.store.Insert(ctx, n); err != nil {
		metrics.NotificationDispatchFailures.Inc()
		slog.Error("Failed to persist notification",
			"recipient", recipient,
			"kind", kind,
			"error", err,
		)
		return
	}
	metrics.NotificationsCreatedTotal.WithLabelValues(string(kind)).Inc()

	if d.publisher != nil {
		if err := d.publisher.PublishNotification(ctx, n); err != nil {
			slog.Warn("Failed to push notification",
				"recipient", recipient,
				"kind", kind,
				"error", err,
			)
		}
	}
}

// List returns one page of the actor's notifications, newest first, along
// with the total and unread counts.
func (d *Dispatcher) List(ctx context.Context, actor domain.Identity, limit, offset int) ([]domain.Notification, int, int, error) {
	if limit <= 0 || limit > domain.NotificationRetentionLimit {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	page, total, err := d.store.ListByRecipient(ctx, actor.UserID, limit, offset)
	if err != nil {
		return nil, 0, 0, apperrors.InternalError("failed to list notifications", err)
	}
	unread, err := d.store.UnreadCount(ctx, actor.UserID)
	if err != nil {
		return nil, 0, 0, apperrors.InternalError("failed to count unread notifications", err)
	}
	return page, total, unread, nil
}

// UnreadCount returns how many of the actor's notifications are unread.
func (d *Dispatcher) UnreadCount(ctx context.Context, actor domain.Identity) (int, error) {
	count, err := d.store.UnreadCount(ctx, actor.UserID)
	if err != nil {
		return 0, apperrors.InternalError("failed to count unread notifications", err)
	}
	return count, nil
}

// MarkRead marks one of the actor's notifications as read. Marking an
// already-read notification is a no-op that succeeds.
func (d *Dispatcher) MarkRead(ctx context.Context, actor domain.Identity, id uuid.UUID) (*domain.Notification, error) {
	n, err := d.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if n.Read {
		return n, nil
	}

	at := d.clock.Now()
	if err := d.store.MarkRead(ctx, id, at); err != nil {
		return nil, apperrors.InternalError("failed to mark notification read", err)
	}
	n.Read = true
	n.ReadAt = &at
	return n, nil
}

// MarkAllRead marks every unread notification of the actor as read and
// returns how many changed.
func (d *Dispatcher) MarkAllRead(ctx context.Context, actor domain.Identity) (int64, error) {
	updated, err := d.store.MarkAllRead(ctx, actor.UserID, d.clock.Now())
	if err != nil {
		return 0, apperrors.InternalError("failed to mark notifications read", err)
	}
	return updated, nil
}

// Delete removes one of the actor's notifications.
func (d *Dispatcher) Delete(ctx context.Context, actor domain.Identity, id uuid.UUID) error {
	if _, err := d.loadOwned(ctx, actor, id); err != nil {
		return err
	}
	if err := d.store.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			return apperrors.NotFoundError("notification not found")
		}
		return apperrors.InternalError("failed to delete notification", err)
	}
	return nil
}

func (d *Dispatcher) loadOwned(ctx context.Context, actor domain.Identity, id uuid.UUID) (*domain.Notification, error) {
	n, err := d.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			return nil, apperrors.NotFoundError("notification not found")
		}
		return nil, apperrors.InternalError("failed to load notification", err)
	}
	if n.Recipient != actor.UserID {
		return nil, apperrors.ForbiddenError("notification belongs to another user")
	}
	return n, nil
}
