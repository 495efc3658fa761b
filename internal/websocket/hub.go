package websocket

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/metrics"
)

const (
	maxClientsPerUser = 10
	sendBufferSize    = 16
	writeTimeout      = 5 * time.Second
)

// QuestionRoom returns the room key for a question's live updates.
func QuestionRoom(questionID uuid.UUID) string {
	return "question:" + questionID.String()
}

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdRegister struct {
	userID uuid.UUID
	conn   *websocket.Conn
	errCh  chan error
}

func (cmdRegister) hubCmd() {}

type cmdUnregister struct {
	conn *websocket.Conn
}

func (cmdUnregister) hubCmd() {}

type cmdJoinRoom struct {
	conn *websocket.Conn
	room string
}

func (cmdJoinRoom) hubCmd() {}

type cmdLeaveRoom struct {
	conn *websocket.Conn
	room string
}

func (cmdLeaveRoom) hubCmd() {}

type cmdSendToUser struct {
	userID uuid.UUID
	data   []byte
}

func (cmdSendToUser) hubCmd() {}

type cmdBroadcastRoom struct {
	room string
	data []byte
}

func (cmdBroadcastRoom) hubCmd() {}

type cmdClientCount struct {
	userID  uuid.UUID
	replyCh chan int
}

func (cmdClientCount) hubCmd() {}

type cmdStop struct{}

func (cmdStop) hubCmd() {}

// --- Per-connection writer ---

type clientWriter struct {
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
}

func newClientWriter(conn *websocket.Conn) *clientWriter {
	cw := &clientWriter{
		conn:   conn,
		sendCh: make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
	go cw.run()
	return cw
}

func (cw *clientWriter) run() {
	for {
		select {
		case msg, ok := <-cw.sendCh:
			if !ok {
				return
			}
			cw.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := cw.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-cw.done:
			return
		}
	}
}

func (cw *clientWriter) stop() {
	close(cw.done)
	cw.conn.Close()
}

// --- Hub ---

type client struct {
	userID uuid.UUID
	writer *clientWriter
	rooms  map[string]struct{}
}

// Hub routes payloads to connected clients. Each client has a personal
// mailbox keyed by user ID and may join any number of question rooms. All
// state is owned by a single actor goroutine; the public API sends commands
// to it.
type Hub struct {
	cmdCh   chan hubCmd
	clients map[*websocket.Conn]*client
	byUser  map[uuid.UUID]map[*websocket.Conn]*client
	rooms   map[string]map[*websocket.Conn]*client
}

func NewHub() *Hub {
	hub := &Hub{
		cmdCh:   make(chan hubCmd, 256),
		clients: make(map[*websocket.Conn]*client),
		byUser:  make(map[uuid.UUID]map[*websocket.Conn]*client),
		rooms:   make(map[string]map[*websocket.Conn]*client),
	}
	go hub.run()
	return hub
}

func (h *Hub) run() {
	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdRegister:
			h.handleRegister(c)
		case cmdUnregister:
			h.handleUnregister(c.conn)
		case cmdJoinRoom:
			h.handleJoinRoom(c.conn, c.room)
		case cmdLeaveRoom:
			h.handleLeaveRoom(c.conn, c.room)
		case cmdSendToUser:
			h.handleSendToUser(c)
		case cmdBroadcastRoom:
			h.handleBroadcastRoom(c)
		case cmdClientCount:
			c.replyCh <- len(h.byUser[c.userID])
		case cmdStop:
			h.handleStop()
			return
		}
	}
}

func (h *Hub) handleRegister(c cmdRegister) {
	existing := h.byUser[c.userID]
	if len(existing) >= maxClientsPerUser {
		slog.Warn("Rejecting client: max connections per user reached",
			"user_id", c.userID,
			"max", maxClientsPerUser,
		)
		c.conn.Close()
		c.errCh <- fmt.Errorf("max connections per user (%d) reached", maxClientsPerUser)
		return
	}

	cl := &client{
		userID: c.userID,
		writer: newClientWriter(c.conn),
		rooms:  make(map[string]struct{}),
	}
	h.clients[c.conn] = cl
	if existing == nil {
		existing = make(map[*websocket.Conn]*client)
		h.byUser[c.userID] = existing
	}
	existing[c.conn] = cl
	metrics.HubConnectedClients.Inc()

	slog.Debug("Client registered", "user_id", c.userID, "connections", len(existing))
	c.errCh <- nil
}

func (h *Hub) handleUnregister(conn *websocket.Conn) {
	cl, exists := h.clients[conn]
	if !exists {
		return
	}

	cl.writer.stop()
	delete(h.clients, conn)
	metrics.HubConnectedClients.Dec()

	if conns, exists := h.byUser[cl.userID]; exists {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.byUser, cl.userID)
		}
	}
	for room := range cl.rooms {
		h.removeFromRoom(conn, room)
	}

	slog.Debug("Client unregistered", "user_id", cl.userID)
}

func (h *Hub) handleJoinRoom(conn *websocket.Conn, room string) {
	cl, exists := h.clients[conn]
	if !exists {
		return
	}
	cl.rooms[room] = struct{}{}

	members, exists := h.rooms[room]
	if !exists {
		members = make(map[*websocket.Conn]*client)
		h.rooms[room] = members
	}
	members[conn] = cl
}

func (h *Hub) handleLeaveRoom(conn *websocket.Conn, room string) {
	cl, exists := h.clients[conn]
	if !exists {
		return
	}
	delete(cl.rooms, room)
	h.removeFromRoom(conn, room)
}

func (h *Hub) removeFromRoom(conn *websocket.Conn, room string) {
	members, exists := h.rooms[room]
	if !exists {
		return
	}
	delete(members, conn)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

func (h *Hub) handleSendToUser(c cmdSendToUser) {
	h.deliver(h.byUser[c.userID], c.data, "user")
}

func (h *Hub) handleBroadcastRoom(c cmdBroadcastRoom) {
	h.deliver(h.rooms[c.room], c.data, "room")
}

// deliver fans a payload out to a set of connections. Clients whose send
// buffer is full are evicted instead of blocking the hub.
func (h *Hub) deliver(targets map[*websocket.Conn]*client, data []byte, channel string) {
	var slow []*websocket.Conn
	for conn, cl := range targets {
		select {
		case cl.writer.sendCh <- data:
			metrics.HubMessagesDelivered.WithLabelValues(channel).Inc()
		default:
			slow = append(slow, conn)
		}
	}
	for _, conn := range slow {
		if cl, exists := h.clients[conn]; exists {
			slog.Warn("Disconnecting slow client", "user_id", cl.userID)
		}
		metrics.HubSlowClientsEvicted.Inc()
		h.handleUnregister(conn)
	}
}

func (h *Hub) handleStop() {
	for conn, cl := range h.clients {
		cl.writer.stop()
		delete(h.clients, conn)
		metrics.HubConnectedClients.Dec()
	}
	h.byUser = make(map[uuid.UUID]map[*websocket.Conn]*client)
	h.rooms = make(map[string]map[*websocket.Conn]*client)
}

// --- Public API ---

// Register adds a connection for a user. Fails when the user already has
// the maximum number of connections.
func (h *Hub) Register(userID uuid.UUID, conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	h.cmdCh <- cmdRegister{userID: userID, conn: conn, errCh: errCh}
	return <-errCh
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.cmdCh <- cmdUnregister{conn: conn}
}

// JoinRoom subscribes a connection to a room's broadcasts.
func (h *Hub) JoinRoom(conn *websocket.Conn, room string) {
	h.cmdCh <- cmdJoinRoom{conn: conn, room: room}
}

// LeaveRoom removes a connection from a room.
func (h *Hub) LeaveRoom(conn *websocket.Conn, room string) {
	h.cmdCh <- cmdLeaveRoom{conn: conn, room: room}
}

// SendToUser delivers a payload to all of a user's connections.
func (h *Hub) SendToUser(userID uuid.UUID, data []byte) {
	h.cmdCh <- cmdSendToUser{userID: userID, data: data}
}

// BroadcastRoom delivers a payload to every connection in a room.
func (h *Hub) BroadcastRoom(room string, data []byte) {
	h.cmdCh <- cmdBroadcastRoom{room: room, data: data}
}

// ClientCount returns how many connections a user currently has.
func (h *Hub) ClientCount(userID uuid.UUID) int {
	replyCh := make(chan int, 1)
	h.cmdCh <- cmdClientCount{userID: userID, replyCh: replyCh}
	return <-replyCh
}

func (h *Hub) Stop() {
	h.cmdCh <- cmdStop{}
}
