package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
	apperrors "github.com/Ashmita1206/Odoo-Hackathon-2025/internal/errors"
)

type createQuestionRequest struct {
	Title   string   `json:"title" validate:"required,min=10,max=200"`
	Content string   `json:"content" validate:"required,min=20"`
	Tags    []string `json:"tags" validate:"required,min=1,max=5,dive,required,max=30"`
}

func (s *Server) handleCreateQuestion(c echo.Context) error {
	var req createQuestionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	q, err := s.forum.CreateQuestion(c.Request().Context(), identityFrom(c), req.Title, req.Content, req.Tags)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toQuestionJSON(q))
}

func (s *Server) handleGetQuestion(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	q, answers, err := s.forum.GetQuestion(c.Request().Context(), id)
	if err != nil {
		return err
	}

	answerList := make([]answerJSON, 0, len(answers))
	for i := range answers {
		answerList = append(answerList, toAnswerJSON(&answers[i]))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"question": toQuestionJSON(q),
		"answers":  answerList,
	})
}

// handleQuestionVote returns the handler for one vote direction.
func (s *Server) handleQuestionVote(direction domain.VoteDirection) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathUUID(c, "id")
		if err != nil {
			return err
		}

		res, err := s.forum.VoteQuestion(c.Request().Context(), identityFrom(c), id, direction)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, res)
	}
}

type acceptAnswerRequest struct {
	AnswerID uuid.UUID `json:"answerId" validate:"required"`
}

func (s *Server) handleAcceptAnswer(c echo.Context) error {
	questionID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req acceptAnswerRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	a, err := s.forum.AcceptAnswer(c.Request().Context(), identityFrom(c), questionID, req.AnswerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAnswerJSON(a))
}
