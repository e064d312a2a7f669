package handlers

import (
	"strconv"

	"github.com/instashot/backend/internal/apperrors"
	"github.com/instashot/backend/internal/cache"
	"github.com/instashot/backend/internal/models"
	"github.com/instashot/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	engagement *services.EngagementService
	cache      *cache.Coordinator
	logger     *zap.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(engagement *services.EngagementService, coordinator *cache.Coordinator, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{engagement: engagement, cache: coordinator, logger: logger}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetComments)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.POST("/comments/:id/like", h.ToggleCommentLike)
}

// CreateComment adds a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, h.logger, apperrors.New(apperrors.Validation, "Invalid request payload"))
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, h.logger, apperrors.Wrap(apperrors.Validation, err.Error(), err))
	}

	view, err := h.engagement.CreateComment(c.Request().Context(), c.Param("id"), currentUserID, req.Content)
	if err != nil {
		return fail(c, h.logger, err)
	}

	invalidateUserCache(c, h.cache, currentUserID)
	return created(c, view)
}

// GetComments lists a post's comments, newest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	views, err := h.engagement.ListComments(c.Request().Context(), c.Param("id"), currentUserID)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return ok(c, echo.Map{"comments": views})
}

// DeleteComment removes one of the current user's comments
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, h.logger, apperrors.New(apperrors.Validation, "Invalid comment id"))
	}

	if err := h.engagement.DeleteComment(c.Request().Context(), uint(commentID), currentUserID); err != nil {
		return fail(c, h.logger, err)
	}

	invalidateUserCache(c, h.cache, currentUserID)
	return ok(c, echo.Map{"deleted": true})
}

// ToggleCommentLike likes the comment if not yet liked, unlikes otherwise
func (h *CommentHandler) ToggleCommentLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, h.logger, apperrors.New(apperrors.Validation, "Invalid comment id"))
	}

	nowLiked, err := h.engagement.ToggleCommentLike(c.Request().Context(), uint(commentID), currentUserID)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return ok(c, echo.Map{"liked": nowLiked})
}
