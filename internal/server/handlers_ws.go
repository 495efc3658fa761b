package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Token auth happens before the upgrade
	},
}

// wsClientMessage is the protocol clients speak on the read side: joining
// and leaving question rooms. Everything else flows server to client.
type wsClientMessage struct {
	Type       string `json:"type"`
	QuestionID string `json:"questionId"`
}

func (s *Server) handleWebSocket(c echo.Context) error {
	identity := identityFrom(c)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade WebSocket: %w", err)
	}

	if err := s.hub.Register(identity.UserID, conn); err != nil {
		slog.Warn("Failed to register websocket client", "user_id", identity.UserID, "error", err)
		return nil
	}

	// Read pump blocks until the connection closes.
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg wsClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		questionID, err := uuid.Parse(msg.QuestionID)
		if err != nil {
			continue
		}

		switch msg.Type {
		case "join-question":
			s.hub.JoinRoom(conn, websocket.QuestionRoom(questionID))
		case "leave-question":
			s.hub.LeaveRoom(conn, websocket.QuestionRoom(questionID))
		}
	}

	s.hub.Unregister(conn)
	return nil
}
