package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleListNotifications(c echo.Context) error {
	limit := queryInt(c, "limit", 20)
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}

	notifications, total, unread, err := s.notify.List(c.Request().Context(), identityFrom(c), limit, (page-1)*limit)
	if err != nil {
		return err
	}

	list := make([]notificationJSON, 0, len(notifications))
	for i := range notifications {
		list = append(list, toNotificationJSON(&notifications[i]))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"notifications": list,
		"total":         total,
		"unread":        unread,
		"page":          page,
		"limit":         limit,
	})
}

func (s *Server) handleUnreadCount(c echo.Context) error {
	count, err := s.notify.UnreadCount(c.Request().Context(), identityFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleMarkRead(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	n, err := s.notify.MarkRead(c.Request().Context(), identityFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNotificationJSON(n))
}

func (s *Server) handleMarkAllRead(c echo.Context) error {
	updated, err := s.notify.MarkAllRead(c.Request().Context(), identityFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"updated": updated})
}

func (s *Server) handleDeleteNotification(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := s.notify.Delete(c.Request().Context(), identityFrom(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
