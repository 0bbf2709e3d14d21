package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	appErrors "github.com/johnquangdev/meetmind/errors"
	"github.com/johnquangdev/meetmind/pkg/jwt"
)

// Echo context keys set by EchoAuth
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserName  = "user_name"
)

// TokenValidator verifies access tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// EchoAuth returns an Echo middleware that validates the bearer token and sets
// "user_id" (uuid.UUID), "user_email" and "user_name" into the Echo context
func EchoAuth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return c.JSON(appErrors.ErrUnauthenticated().HTTPCode, errorBody(appErrors.ErrUnauthenticated()))
			}

			claims, err := validator.ValidateAccessToken(token)
			if err != nil {
				appErr := appErrors.ErrInvalidToken()
				if errors.Is(err, jwt.ErrTokenExpired) {
					appErr.Code = appErrors.ErrorCode_AUTH_TOKEN_EXPIRED
					appErr.Message = "Access token expired"
				}
				return c.JSON(appErr.HTTPCode, errorBody(appErr))
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextUserEmail, claims.Email)
			c.Set(ContextUserName, claims.Name)

			return next(c)
		}
	}
}

// extractToken reads the Authorization header, falling back to the access_token cookie
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func errorBody(appErr appErrors.AppError) map[string]interface{} {
	return map[string]interface{}{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
}
