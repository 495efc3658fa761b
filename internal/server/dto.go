package server

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
)

type questionJSON struct {
	ID               uuid.UUID  `json:"id"`
	Author           uuid.UUID  `json:"author"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	Tags             []string   `json:"tags"`
	Upvotes          int        `json:"upvotes"`
	Downvotes        int        `json:"downvotes"`
	Score            int        `json:"score"`
	AnswerCount      int        `json:"answerCount"`
	CommentCount     int        `json:"commentCount"`
	AcceptedAnswerID *uuid.UUID `json:"acceptedAnswerId,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func toQuestionJSON(q *domain.Question) questionJSON {
	return questionJSON{
		ID:               q.ID,
		Author:           q.Author,
		Title:            q.Title,
		Content:          q.Content,
		Tags:             q.Tags,
		Upvotes:          len(q.Votes.Upvoters),
		Downvotes:        len(q.Votes.Downvoters),
		Score:            q.Votes.Score(),
		AnswerCount:      q.AnswerCount,
		CommentCount:     q.CommentCount,
		AcceptedAnswerID: q.AcceptedAnswerID,
		CreatedAt:        q.CreatedAt,
		UpdatedAt:        q.UpdatedAt,
	}
}

type answerJSON struct {
	ID           uuid.UUID  `json:"id"`
	QuestionID   uuid.UUID  `json:"questionId"`
	Author       uuid.UUID  `json:"author"`
	Content      string     `json:"content"`
	Upvotes      int        `json:"upvotes"`
	Downvotes    int        `json:"downvotes"`
	Score        int        `json:"score"`
	IsAccepted   bool       `json:"isAccepted"`
	AcceptedAt   *time.Time `json:"acceptedAt,omitempty"`
	CommentCount int        `json:"commentCount"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func toAnswerJSON(a *domain.Answer) answerJSON {
	return answerJSON{
		ID:           a.ID,
		QuestionID:   a.QuestionID,
		Author:       a.Author,
		Content:      a.Content,
		Upvotes:      len(a.Votes.Upvoters),
		Downvotes:    len(a.Votes.Downvoters),
		Score:        a.Votes.Score(),
		IsAccepted:   a.IsAccepted,
		AcceptedAt:   a.AcceptedAt,
		CommentCount: a.CommentCount,
		CreatedAt:    a.CreatedAt,
	}
}

type commentJSON struct {
	ID         uuid.UUID         `json:"id"`
	Author     uuid.UUID         `json:"author"`
	EntityType domain.EntityType `json:"entityType"`
	EntityID   uuid.UUID         `json:"entityId"`
	Content    string            `json:"content"`
	CreatedAt  time.Time         `json:"createdAt"`
}

func toCommentJSON(c *domain.Comment) commentJSON {
	return commentJSON{
		ID:         c.ID,
		Author:     c.Author,
		EntityType: c.EntityType,
		EntityID:   c.EntityID,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
	}
}

type notificationJSON struct {
	ID         uuid.UUID  `json:"id"`
	Sender     uuid.UUID  `json:"sender"`
	Kind       string     `json:"kind"`
	QuestionID *uuid.UUID `json:"questionId,omitempty"`
	AnswerID   *uuid.UUID `json:"answerId,omitempty"`
	CommentID  *uuid.UUID `json:"commentId,omitempty"`
	Read       bool       `json:"read"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func toNotificationJSON(n *domain.Notification) notificationJSON {
	return notificationJSON{
		ID:         n.ID,
		Sender:     n.Sender,
		Kind:       string(n.Kind),
		QuestionID: n.Refs.QuestionID,
		AnswerID:   n.Refs.AnswerID,
		CommentID:  n.Refs.CommentID,
		Read:       n.Read,
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
	}
}
