package middleware

import (
	"strings"

	"platter/config"
	deliverycontext "platter/internal/delivery/context"
	domainerrors "platter/internal/domain/errors"
	"platter/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthMiddleware resolves the session token to an actor of one variant.
type AuthMiddleware struct {
	cookieName string
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	name := "token"
	if cfg != nil && cfg.Cookie != nil && cfg.Cookie.Name != "" {
		name = cfg.Cookie.Name
	}

	return &AuthMiddleware{cookieName: name}
}

// Authenticate returns a middleware that requires a valid token for uc's variant.
// The cookie is preferred; an "Authorization: Bearer" header is accepted for API clients.
func (m *AuthMiddleware) Authenticate(uc usecase.AuthUsecase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := m.tokenFrom(c)
			if token == "" {
				return errors.WithStack(domainerrors.ErrUnauthorized)
			}

			actor, err := uc.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			deliverycontext.SetActor(c, actor)

			return next(c)
		}
	}
}

func (m *AuthMiddleware) tokenFrom(c echo.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}
