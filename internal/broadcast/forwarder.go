package broadcast

import (
	"log/slog"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/redis"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/websocket"
)

// Forwarder pumps Redis push messages into the local hub. Each instance
// runs one; messages for users or rooms with no local connections are
// dropped by the hub.
type Forwarder struct {
	sub  *redis.Subscriber
	hub  *websocket.Hub
	done chan struct{}
}

func NewForwarder(sub *redis.Subscriber, hub *websocket.Hub) *Forwarder {
	f := &Forwarder{
		sub:  sub,
		hub:  hub,
		done: make(chan struct{}),
	}
	go f.run()
	return f
}

func (f *Forwarder) run() {
	defer close(f.done)
	for msg := range f.sub.Messages() {
		if userID, ok := redis.ParseUserChannel(msg.Channel); ok {
			f.hub.SendToUser(userID, msg.Payload)
			continue
		}
		if room, ok := redis.ParseRoomChannel(msg.Channel); ok {
			f.hub.BroadcastRoom(room, msg.Payload)
			continue
		}
		slog.Warn("Ignoring message on unexpected channel", "channel", msg.Channel)
	}
}

// Stop closes the subscription and waits for the pump goroutine to exit.
func (f *Forwarder) Stop() {
	f.sub.Close()
	<-f.done
}
