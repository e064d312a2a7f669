package handlers

import (
	"github.com/instashot/backend/internal/apperrors"
	"github.com/instashot/backend/internal/cache"
	"github.com/instashot/backend/internal/models"
	"github.com/instashot/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts      *services.PostService
	engagement *services.EngagementService
	cache      *cache.Coordinator
	logger     *zap.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService, engagement *services.EngagementService, coordinator *cache.Coordinator, logger *zap.Logger) *PostHandler {
	return &PostHandler{posts: posts, engagement: engagement, cache: coordinator, logger: logger}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/saved", h.GetSavedPosts)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/like", h.ToggleLike)
	g.POST("/posts/:id/save", h.ToggleSave)
	g.GET("/posts/:id/likes", h.GetLikers)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, h.logger, apperrors.New(apperrors.Validation, "Invalid request payload"))
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, h.logger, apperrors.Wrap(apperrors.Validation, err.Error(), err))
	}

	post, err := h.posts.Create(c.Request().Context(), currentUserID, req)
	if err != nil {
		return fail(c, h.logger, err)
	}

	invalidateUserCache(c, h.cache, currentUserID)
	return created(c, post)
}

// GetPost retrieves a single post enriched for the current user
func (h *PostHandler) GetPost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	item, err := h.posts.Get(c.Request().Context(), c.Param("id"), currentUserID)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return ok(c, item)
}

// UpdatePost edits an existing post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, h.logger, apperrors.New(apperrors.Validation, "Invalid request payload"))
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, h.logger, apperrors.Wrap(apperrors.Validation, err.Error(), err))
	}

	post, err := h.posts.Update(c.Request().Context(), c.Param("id"), currentUserID, req)
	if err != nil {
		return fail(c, h.logger, err)
	}

	invalidateUserCache(c, h.cache, currentUserID)
	return ok(c, post)
}

// DeletePost removes a post
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	if err := h.posts.Delete(c.Request().Context(), c.Param("id"), currentUserID); err != nil {
		return fail(c, h.logger, err)
	}

	invalidateUserCache(c, h.cache, currentUserID)
	return ok(c, echo.Map{"deleted": true})
}

// ToggleLike likes the post if not yet liked, unlikes otherwise
func (h *PostHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	nowLiked, err := h.engagement.TogglePostLike(c.Request().Context(), c.Param("id"), currentUserID)
	if err != nil {
		return fail(c, h.logger, err)
	}

	invalidateUserCache(c, h.cache, currentUserID)
	return ok(c, echo.Map{"liked": nowLiked})
}

// ToggleSave saves the post if not yet saved, unsaves otherwise
func (h *PostHandler) ToggleSave(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	nowSaved, err := h.engagement.ToggleSave(c.Request().Context(), c.Param("id"), currentUserID)
	if err != nil {
		return fail(c, h.logger, err)
	}

	invalidateUserCache(c, h.cache, currentUserID)
	return ok(c, echo.Map{"saved": nowSaved})
}

// GetLikers returns the users who liked a post
func (h *PostHandler) GetLikers(c echo.Context) error {
	likers, err := h.engagement.SeeWhoLiked(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, h.logger, err)
	}
	return ok(c, echo.Map{"users": likers})
}

// GetSavedPosts returns the current user's saved posts
func (h *PostHandler) GetSavedPosts(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	items, err := h.posts.SavedPosts(c.Request().Context(), currentUserID)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return ok(c, echo.Map{"posts": items})
}
