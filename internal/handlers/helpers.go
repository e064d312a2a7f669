package handlers

import (
	"fmt"
	"net/http"

	"github.com/instashot/backend/internal/apperrors"
	"github.com/instashot/backend/internal/cache"
	"github.com/instashot/backend/internal/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// getUserIDFromContext extracts the authenticated user id placed in the
// context by the JWT middleware. Zero means unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

func statusOf(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.Validation, apperrors.SelfAction:
		return http.StatusBadRequest
	case apperrors.NotFound:
		return http.StatusNotFound
	case apperrors.Unauthorized:
		return http.StatusUnauthorized
	case apperrors.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail renders a service error. Internal causes reach the log, never the
// response body.
func fail(c echo.Context, logger *zap.Logger, err error) error {
	if apperrors.KindOf(err) == apperrors.Internal {
		logger.Error("request failed",
			zap.String("path", c.Request().URL.Path),
			zap.Error(err))
	}
	return c.JSON(statusOf(err), echo.Map{
		"success": false,
		"message": apperrors.MessageOf(err),
	})
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": data})
}

func paged(c echo.Context, data interface{}, meta interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data, "meta": meta})
}

// invalidateUserCache drops every cached response scoped to the user. Called
// after mutations so the next read rebuilds from the stores.
func invalidateUserCache(c echo.Context, coordinator *cache.Coordinator, userID uint) {
	coordinator.Invalidate(c.Request().Context(), fmt.Sprintf("%d:", userID))
}
