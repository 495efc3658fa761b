package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
	apperrors "github.com/Ashmita1206/Odoo-Hackathon-2025/internal/errors"
)

type postCommentRequest struct {
	EntityType string    `json:"entityType" validate:"required,oneof=question answer"`
	EntityID   uuid.UUID `json:"entityId" validate:"required"`
	Content    string    `json:"content" validate:"required,min=1,max=600"`
}

func (s *Server) handlePostComment(c echo.Context) error {
	var req postCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := s.forum.PostComment(
		c.Request().Context(),
		identityFrom(c),
		domain.EntityType(req.EntityType),
		req.EntityID,
		req.Content,
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCommentJSON(comment))
}
