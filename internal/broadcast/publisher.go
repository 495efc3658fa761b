package broadcast

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/redis"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/websocket"
)

// RedisPublisher routes push payloads through Redis pub/sub so every server
// instance can deliver them to its own connections.
type RedisPublisher struct {
	publisher *redis.Publisher
}

var _ domain.PushPublisher = (*RedisPublisher)(nil)

func NewRedisPublisher(publisher *redis.Publisher) *RedisPublisher {
	return &RedisPublisher{publisher: publisher}
}

func (p *RedisPublisher) PublishNotification(ctx context.Context, n *domain.Notification) error {
	data, err := EncodeNotification(n)
	if err != nil {
		return err
	}
	return p.publisher.PublishUser(ctx, n.Recipient, data)
}

func (p *RedisPublisher) PublishQuestionEvent(ctx context.Context, questionID uuid.UUID, event domain.QuestionEvent) error {
	data, err := EncodeQuestionEvent(event)
	if err != nil {
		return err
	}
	return p.publisher.PublishRoom(ctx, websocket.QuestionRoom(questionID), data)
}

// LocalPublisher delivers push payloads straight to the in-process hub.
// Single-instance mode only.
type LocalPublisher struct {
	hub *websocket.Hub
}

var _ domain.PushPublisher = (*LocalPublisher)(nil)

func NewLocalPublisher(hub *websocket.Hub) *LocalPublisher {
	return &LocalPublisher{hub: hub}
}

func (p *LocalPublisher) PublishNotification(_ context.Context, n *domain.Notification) error {
	data, err := EncodeNotification(n)
	if err != nil {
		return err
	}
	p.hub.SendToUser(n.Recipient, data)
	return nil
}

func (p *LocalPublisher) PublishQuestionEvent(_ context.Context, questionID uuid.UUID, event domain.QuestionEvent) error {
	data, err := EncodeQuestionEvent(event)
	if err != nil {
		return err
	}
	p.hub.BroadcastRoom(websocket.QuestionRoom(questionID), data)
	return nil
}
