package handlers

import (
	"github.com/instashot/backend/internal/apperrors"
	"github.com/instashot/backend/internal/cache"
	"github.com/instashot/backend/internal/models"
	"github.com/instashot/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// StoryHandler handles HTTP requests related to stories
type StoryHandler struct {
	stories *services.StoryService
	cache   *cache.Coordinator
	logger  *zap.Logger
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(stories *services.StoryService, coordinator *cache.Coordinator, logger *zap.Logger) *StoryHandler {
	return &StoryHandler{stories: stories, cache: coordinator, logger: logger}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.POST("/stories", h.CreateStory)
	g.GET("/stories", h.GetStoryRing)
	g.GET("/stories/user/:username", h.GetUserStories)
	g.POST("/stories/:id/like", h.ToggleLike)
	g.DELETE("/stories/:id", h.DeleteStory)
}

// CreateStory publishes a story that expires after 24 hours
func (h *StoryHandler) CreateStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, h.logger, apperrors.New(apperrors.Validation, "Invalid request payload"))
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, h.logger, apperrors.Wrap(apperrors.Validation, err.Error(), err))
	}

	story, err := h.stories.Create(c.Request().Context(), currentUserID, req)
	if err != nil {
		return fail(c, h.logger, err)
	}

	invalidateUserCache(c, h.cache, currentUserID)
	return created(c, story)
}

// GetStoryRing returns one bubble per followed author with live stories
func (h *StoryHandler) GetStoryRing(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	ring, err := h.stories.ActiveRing(c.Request().Context(), currentUserID)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return ok(c, echo.Map{"ring": ring})
}

// GetUserStories returns an author's live stories and records the view
func (h *StoryHandler) GetUserStories(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	views, err := h.stories.OwnerStories(c.Request().Context(), c.Param("username"), currentUserID)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return ok(c, echo.Map{"stories": views})
}

// ToggleLike likes the story if not yet liked, unlikes otherwise
func (h *StoryHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	nowLiked, err := h.stories.ToggleLike(c.Request().Context(), c.Param("id"), currentUserID)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return ok(c, echo.Map{"liked": nowLiked})
}

// DeleteStory removes one of the current user's stories
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	if err := h.stories.Delete(c.Request().Context(), c.Param("id"), currentUserID); err != nil {
		return fail(c, h.logger, err)
	}

	invalidateUserCache(c, h.cache, currentUserID)
	return ok(c, echo.Map{"deleted": true})
}
