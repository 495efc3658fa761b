package broadcast

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
)

// Envelope is the wire format pushed to websocket clients.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	TypeNotification   = "notification"
	TypeQuestionUpdate = "question-update"
)

type notificationPayload struct {
	ID         uuid.UUID  `json:"id"`
	Sender     uuid.UUID  `json:"sender"`
	Kind       string     `json:"kind"`
	QuestionID *uuid.UUID `json:"questionId,omitempty"`
	AnswerID   *uuid.UUID `json:"answerId,omitempty"`
	CommentID  *uuid.UUID `json:"commentId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// EncodeNotification builds the envelope for a freshly created notification.
func EncodeNotification(n *domain.Notification) ([]byte, error) {
	payload := notificationPayload{
		ID:         n.ID,
		Sender:     n.Sender,
		Kind:       string(n.Kind),
		QuestionID: n.Refs.QuestionID,
		AnswerID:   n.Refs.AnswerID,
		CommentID:  n.Refs.CommentID,
		CreatedAt:  n.CreatedAt,
	}
	return encode(TypeNotification, payload)
}

// EncodeQuestionEvent builds the envelope for a question room event.
func EncodeQuestionEvent(event domain.QuestionEvent) ([]byte, error) {
	return encode(TypeQuestionUpdate, event)
}

func encode(envelopeType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: envelopeType, Data: data})
}
