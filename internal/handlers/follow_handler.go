package handlers

import (
	"strconv"

	"github.com/instashot/backend/internal/apperrors"
	"github.com/instashot/backend/internal/cache"
	"github.com/instashot/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FollowHandler handles HTTP requests for the follow graph
type FollowHandler struct {
	graph  *services.GraphService
	cache  *cache.Coordinator
	logger *zap.Logger
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(graph *services.GraphService, coordinator *cache.Coordinator, logger *zap.Logger) *FollowHandler {
	return &FollowHandler{graph: graph, cache: coordinator, logger: logger}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow)
	g.GET("/users/:id/connections", h.GetConnections)
	g.GET("/users/suggestions", h.GetSuggestions)
}

// ToggleFollow follows the target if not yet followed, unfollows otherwise
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, h.logger, apperrors.New(apperrors.Validation, "Invalid user id"))
	}

	nowFollowing, err := h.graph.ToggleFollow(c.Request().Context(), currentUserID, uint(targetID))
	if err != nil {
		return fail(c, h.logger, err)
	}

	invalidateUserCache(c, h.cache, currentUserID)
	return ok(c, echo.Map{"following": nowFollowing})
}

// GetConnections returns a user's followers and following lists
func (h *FollowHandler) GetConnections(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, h.logger, apperrors.New(apperrors.Validation, "Invalid user id"))
	}

	followers, following, err := h.graph.Connections(uint(userID))
	if err != nil {
		return fail(c, h.logger, err)
	}
	return ok(c, echo.Map{"followers": followers, "following": following})
}

// GetSuggestions returns accounts the current user may want to follow
func (h *FollowHandler) GetSuggestions(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	suggestions, err := h.graph.Suggestions(currentUserID, limit)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return ok(c, echo.Map{"suggestions": suggestions})
}
