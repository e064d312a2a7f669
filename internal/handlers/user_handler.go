package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/instashot/backend/internal/apperrors"
	"github.com/instashot/backend/internal/cache"
	"github.com/instashot/backend/internal/models"
	"github.com/instashot/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	users  *services.UserService
	cache  *cache.Coordinator
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService, coordinator *cache.Coordinator, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, cache: coordinator, logger: logger}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/search", h.Search)
	g.PUT("/users/me", h.UpdateProfile)
	g.PUT("/users/me/privacy", h.UpdatePrivacy)
	g.PUT("/users/me/photo", h.UpdateProfilePhoto)
	g.DELETE("/users/me", h.DeleteAccount)
	g.GET("/users/profile/:username", h.GetProfile)
}

// GetProfile returns a user page. Responses are cached per viewer; a miss
// builds the profile and stores the serialized body.
func (h *UserHandler) GetProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	username := c.Param("username")

	key := cache.Key(currentUserID, c.Request().URL.RequestURI())
	body, _, err := h.cache.ReadThrough(c.Request().Context(), key, h.cache.TTL(), func() ([]byte, error) {
		profile, err := h.users.Profile(c.Request().Context(), username, currentUserID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(echo.Map{"success": true, "data": profile})
	})
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSONBlob(http.StatusOK, body)
}

// UpdateProfile edits the current user's profile fields
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, h.logger, apperrors.New(apperrors.Validation, "Invalid request payload"))
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, h.logger, apperrors.Wrap(apperrors.Validation, err.Error(), err))
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), currentUserID, req)
	if err != nil {
		return fail(c, h.logger, err)
	}

	invalidateUserCache(c, h.cache, currentUserID)
	return ok(c, user)
}

// UpdatePrivacy switches the current user between public and private
func (h *UserHandler) UpdatePrivacy(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.UpdatePrivacyRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, h.logger, apperrors.New(apperrors.Validation, "Invalid request payload"))
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, h.logger, apperrors.Wrap(apperrors.Validation, err.Error(), err))
	}

	user, err := h.users.UpdatePrivacy(c.Request().Context(), currentUserID, *req.IsPublic)
	if err != nil {
		return fail(c, h.logger, err)
	}

	invalidateUserCache(c, h.cache, currentUserID)
	return ok(c, user)
}

type updatePhotoRequest struct {
	Photo string `json:"photo" validate:"required"`
}

// UpdateProfilePhoto replaces the current user's avatar
func (h *UserHandler) UpdateProfilePhoto(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req updatePhotoRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, h.logger, apperrors.New(apperrors.Validation, "Invalid request payload"))
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, h.logger, apperrors.Wrap(apperrors.Validation, err.Error(), err))
	}

	user, err := h.users.UpdateProfilePhoto(c.Request().Context(), currentUserID, req.Photo)
	if err != nil {
		return fail(c, h.logger, err)
	}

	invalidateUserCache(c, h.cache, currentUserID)
	return ok(c, user)
}

// Search finds users by username, full name, or bio, and posts by tag
func (h *UserHandler) Search(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	results, err := h.users.Search(c.Request().Context(), currentUserID, c.QueryParam("q"))
	if err != nil {
		return fail(c, h.logger, err)
	}
	return ok(c, results)
}

// DeleteAccount removes the current user and everything they own
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	if err := h.users.DeleteAccount(c.Request().Context(), currentUserID); err != nil {
		return fail(c, h.logger, err)
	}

	invalidateUserCache(c, h.cache, currentUserID)
	return ok(c, echo.Map{"deleted": true})
}
