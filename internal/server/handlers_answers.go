package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
	apperrors "github.com/Ashmita1206/Odoo-Hackathon-2025/internal/errors"
)

type postAnswerRequest struct {
	Content string `json:"content" validate:"required,min=20"`
}

func (s *Server) handlePostAnswer(c echo.Context) error {
	questionID, err := pathUUID(c, "questionId")
	if err != nil {
		return err
	}

	var req postAnswerRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	a, err := s.forum.PostAnswer(c.Request().Context(), identityFrom(c), questionID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAnswerJSON(a))
}

func (s *Server) handleDeleteAnswer(c echo.Context) error {
	answerID, err := pathUUID(c, "answerId")
	if err != nil {
		return err
	}

	if err := s.forum.DeleteAnswer(c.Request().Context(), identityFrom(c), answerID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// handleAnswerVote returns the handler for one vote direction.
func (s *Server) handleAnswerVote(direction domain.VoteDirection) echo.HandlerFunc {
	return func(c echo.Context) error {
		answerID, err := pathUUID(c, "answerId")
		if err != nil {
			return err
		}

		res, err := s.forum.VoteAnswer(c.Request().Context(), identityFrom(c), answerID, direction)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, res)
	}
}
