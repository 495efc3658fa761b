package redis

import (
	"context"
	"strings"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/metrics"
)

const (
	userChannelPrefix = "push:user:"
	roomChannelPrefix = "push:room:"
	userPattern       = userChannelPrefix + "*"
	roomPattern       = roomChannelPrefix + "*"
)

// UserChannel returns the pub/sub channel for a user's personal mailbox.
func UserChannel(userID uuid.UUID) string {
	return userChannelPrefix + userID.String()
}

// RoomChannel returns the pub/sub channel for a room (e.g. "question:<id>").
func RoomChannel(room string) string {
	return roomChannelPrefix + room
}

// ParseUserChannel extracts the user ID from a user channel name.
func ParseUserChannel(channel string) (uuid.UUID, bool) {
	raw, ok := strings.CutPrefix(channel, userChannelPrefix)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// ParseRoomChannel extracts the room key from a room channel name.
func ParseRoomChannel(channel string) (string, bool) {
	return strings.CutPrefix(channel, roomChannelPrefix)
}

// Publisher publishes raw push payloads to user and room channels. The
// circuit breaker hook on the client makes publishes fail fast when Redis
// is unhealthy.
type Publisher struct {
	rdb *goredis.Client
}

func NewPublisher(client *Client) *Publisher {
	return &Publisher{rdb: client.rdb}
}

// PublishUser delivers a payload to all instances holding connections for
// the user.
func (p *Publisher) PublishUser(ctx context.Context, userID uuid.UUID, payload []byte) error {
	return p.publish(ctx, UserChannel(userID), payload, "user")
}

// PublishRoom delivers a payload to all instances holding members of a room.
func (p *Publisher) PublishRoom(ctx context.Context, room string, payload []byte) error {
	return p.publish(ctx, RoomChannel(room), payload, "room")
}

func (p *Publisher) publish(ctx context.Context, channel string, payload []byte, class string) error {
	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		metrics.PushPublishesTotal.WithLabelValues(class, "error").Inc()
		return err
	}
	metrics.PushPublishesTotal.WithLabelValues(class, "ok").Inc()
	return nil
}

// PushMessage is one raw pub/sub message received by a Subscriber.
type PushMessage struct {
	Channel string
	Payload []byte
}

// Subscriber receives all push traffic via pattern subscriptions. Each
// server instance runs exactly one.
type Subscriber struct {
	sub    *goredis.PubSub
	ch     chan PushMessage
	cancel context.CancelFunc
}

// NewSubscriber subscribes to the user and room channel patterns and starts
// pumping messages. Call Close when done.
func NewSubscriber(ctx context.Context, client *Client) *Subscriber {
	sub := client.rdb.PSubscribe(ctx, userPattern, roomPattern)
	subCtx, cancel := context.WithCancel(ctx)
	s := &Subscriber{
		sub:    sub,
		ch:     make(chan PushMessage, 64),
		cancel: cancel,
	}
	go s.run(subCtx)
	return s
}

func (s *Subscriber) run(ctx context.Context) {
	defer close(s.ch)
	msgCh := s.sub.Channel()
	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			select {
			case s.ch <- PushMessage{Channel: msg.Channel, Payload: []byte(msg.Payload)}:
			default:
				// Drop if the forwarder falls behind; push is best-effort.
			}
		case <-ctx.Done():
			return
		}
	}
}

// Messages returns the stream of received push messages. The channel closes
// when the subscriber stops.
func (s *Subscriber) Messages() <-chan PushMessage {
	return s.ch
}

// Close unsubscribes and stops the pump goroutine.
func (s *Subscriber) Close() {
	s.cancel()
	_ = s.sub.Close()
}
