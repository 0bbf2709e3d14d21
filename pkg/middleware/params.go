package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// UUIDParam parses the named path parameter as a UUID and stores it in the Echo
// context under key. Requests with a malformed id are rejected with 400.
func UUIDParam(param, key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := uuid.Parse(c.Param(param))
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]interface{}{
					"error":   "invalid_" + param,
					"message": param + " must be a valid UUID",
				})
			}
			c.Set(key, id)
			return next(c)
		}
	}
}

// RequireUser rejects requests that reached the handler without an
// authenticated user id under key
func RequireUser(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get(key).(uuid.UUID); !ok {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error":   "unauthorized",
					"message": "user not authenticated",
				})
			}
			return next(c)
		}
	}
}
