package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	api := s.echo.Group("/api", s.requireAuth)

	// Questions
	api.POST("/questions", s.handleCreateQuestion)
	api.GET("/questions/:id", s.handleGetQuestion)
	api.POST("/questions/:id/upvote", s.handleQuestionVote(domain.VoteUp))
	api.POST("/questions/:id/downvote", s.handleQuestionVote(domain.VoteDown))
	api.POST("/questions/:id/accept-answer", s.handleAcceptAnswer)

	// Answers
	api.POST("/answers/:questionId", s.handlePostAnswer)
	api.DELETE("/answers/:answerId", s.handleDeleteAnswer)
	api.POST("/answers/:answerId/upvote", s.handleAnswerVote(domain.VoteUp))
	api.POST("/answers/:answerId/downvote", s.handleAnswerVote(domain.VoteDown))

	// Comments
	api.POST("/comments", s.handlePostComment)

	// Notifications
	api.GET("/notifications", s.handleListNotifications)
	api.GET("/notifications/unread-count", s.handleUnreadCount)
	api.PUT("/notifications/:id/read", s.handleMarkRead)
	api.PUT("/notifications/read-all", s.handleMarkAllRead)
	api.DELETE("/notifications/:id", s.handleDeleteNotification)

	// Live updates
	s.echo.GET("/ws", s.handleWebSocket, s.requireAuth)
}
