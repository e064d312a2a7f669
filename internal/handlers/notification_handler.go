package handlers

import (
	"github.com/instashot/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NotificationHandler handles HTTP requests for the activity queue
type NotificationHandler struct {
	notifications *services.NotificationService
	logger        *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: logger}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.DELETE("/notifications", h.ClearNotifications)
}

// GetNotifications returns the newest events, capped by the queue size
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	events, err := h.notifications.List(c.Request().Context(), currentUserID)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return ok(c, echo.Map{"notifications": events})
}

// ClearNotifications empties the current user's queue
func (h *NotificationHandler) ClearNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	if err := h.notifications.Clear(c.Request().Context(), currentUserID); err != nil {
		return fail(c, h.logger, err)
	}
	return ok(c, echo.Map{"cleared": true})
}
