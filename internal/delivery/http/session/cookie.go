// Package session carries the signed token to the client in a cookie.
package session

import (
	"net/http"
	"strings"
	"time"

	"platter/config"

	"github.com/labstack/echo/v4"
)

const defaultCookieName = "token"

// Carrier sets and clears the session cookie. The token is opaque here.
type Carrier struct {
	name     string
	path     string
	domain   string
	secure   bool
	httpOnly bool
	sameSite http.SameSite
}

// NewCarrier builds the carrier from the cookie section of the config.
func NewCarrier(cfg *config.Config) *Carrier {
	c := &Carrier{name: defaultCookieName, path: "/", httpOnly: true, sameSite: http.SameSiteLaxMode}
	if cfg == nil || cfg.Cookie == nil {
		return c
	}

	cc := cfg.Cookie
	if cc.Name != "" {
		c.name = cc.Name
	}
	if cc.Path != "" {
		c.path = cc.Path
	}
	c.domain = cc.Domain
	c.secure = cc.Secure
	if cc.HTTPOnly != nil {
		c.httpOnly = *cc.HTTPOnly
	}
	c.sameSite = parseSameSite(cc.SameSite)
	// Browsers drop SameSite=None cookies that are not Secure.
	if c.sameSite == http.SameSiteNoneMode {
		c.secure = true
	}

	return c
}

// Name returns the cookie name.
func (s *Carrier) Name() string {
	return s.name
}

// Set attaches the token, expiring together with it.
func (s *Carrier) Set(c echo.Context, token string, expiresAt time.Time) {
	cookie := s.base()
	cookie.Value = token
	cookie.Expires = expiresAt
	if ttl := time.Until(expiresAt); ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
	}
	c.SetCookie(cookie)
}

// Clear expires the cookie on the client. Safe to call when no cookie was set.
func (s *Carrier) Clear(c echo.Context) {
	cookie := s.base()
	cookie.Value = ""
	cookie.Expires = time.Unix(0, 0)
	cookie.MaxAge = -1
	c.SetCookie(cookie)
}

func (s *Carrier) base() *http.Cookie {
	return &http.Cookie{
		Name:     s.name,
		Path:     s.path,
		Domain:   s.domain,
		Secure:   s.secure,
		HttpOnly: s.httpOnly,
		SameSite: s.sameSite,
	}
}

func parseSameSite(v string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
