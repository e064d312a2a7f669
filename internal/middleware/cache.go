package middleware

import (
	"bytes"
	"net/http"

	"github.com/instashot/backend/internal/cache"
	"github.com/instashot/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// bodyRecorder tees the response body so a successful render can be stored.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (r *bodyRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

// ResponseCache serves GET responses from the coordinator, keyed per user
// and request URI. Only 200 responses enter the cache; mutations elsewhere
// invalidate by user prefix.
func ResponseCache(coordinator *cache.Coordinator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			var userID uint
			if claims, ok := c.Get("user").(*models.JwtCustomClaims); ok {
				userID = claims.UserID
			}
			key := cache.Key(userID, c.Request().URL.RequestURI())

			if body, ok := coordinator.Lookup(c.Request().Context(), key); ok {
				return c.JSONBlob(http.StatusOK, body)
			}

			recorder := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = recorder

			if err := next(c); err != nil {
				return err
			}

			if recorder.status == http.StatusOK && recorder.buf.Len() > 0 {
				coordinator.Put(c.Request().Context(), key, recorder.buf.Bytes(), coordinator.TTL())
			}
			return nil
		}
	}
}
