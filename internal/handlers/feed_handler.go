package handlers

import (
	"strconv"

	"github.com/instashot/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FeedHandler handles HTTP requests for the home, tag, and explore feeds
type FeedHandler struct {
	feed    *services.FeedService
	explore *services.ExploreService
	logger  *zap.Logger
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed *services.FeedService, explore *services.ExploreService, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{feed: feed, explore: explore, logger: logger}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/feed/tags/:tag", h.GetTagFeed)
	g.GET("/explore", h.GetExplore)
}

func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}

// GetFeed returns the global feed page for the current user
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	page, limit := pageParams(c)

	items, pagination, err := h.feed.HomeFeed(c.Request().Context(), currentUserID, page, limit)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return paged(c, echo.Map{"posts": items}, pagination)
}

// GetTagFeed returns the posts carrying one tag
func (h *FeedHandler) GetTagFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	page, limit := pageParams(c)

	items, pagination, err := h.feed.TagFeed(c.Request().Context(), currentUserID, c.Param("tag"), page, limit)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return paged(c, echo.Map{"posts": items}, pagination)
}

// GetExplore returns tag-overlap recommendations for the current user
func (h *FeedHandler) GetExplore(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	page, limit := pageParams(c)

	items, pagination, err := h.explore.Explore(c.Request().Context(), currentUserID, page, limit)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return paged(c, echo.Map{"posts": items}, pagination)
}
