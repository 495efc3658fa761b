package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/config"
	apperrors "github.com/Ashmita1206/Odoo-Hackathon-2025/internal/errors"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/forum"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/notify"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/websocket"
)

// HealthCheck verifies one backing dependency. Nil checks are skipped,
// which is how in-memory mode runs without postgres and redis.
type HealthCheck func(ctx context.Context) error

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	forum     *forum.Service
	notify    *notify.Dispatcher
	hub       *websocket.Hub
	dbHealth  HealthCheck
	rdbHealth HealthCheck
	startTime time.Time
}

func NewServer(cfg *config.Config, forumSvc *forum.Service, dispatcher *notify.Dispatcher, hub *websocket.Hub, dbHealth, rdbHealth HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newValidator()

	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		forum:     forumSvc,
		notify:    dispatcher,
		hub:       hub,
		dbHealth:  dbHealth,
		rdbHealth: rdbHealth,
		startTime: time.Now(),
	}
	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
