// Package middleware holds Echo middleware specific to the ordering service.
package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"ezeats/internal/auth"
	"ezeats/internal/config"
)

const (
	// LandingPath is where signed-in users start.
	LandingPath = "/home"
	// LoginPath is where anonymous users are sent.
	LoginPath = "/"
)

var (
	loginPages     = map[string]bool{"/": true, "/login": true}
	protectedPages = map[string]bool{"/home": true, "/checkout": true}
)

// TokenVerifier checks a session token. service.AuthService satisfies it.
type TokenVerifier interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// GuardConfig configures Guard.
type GuardConfig struct {
	// Mode is config.GuardModeVerify or config.GuardModePresence.
	Mode     string
	Verifier TokenVerifier
	// SecureCookie marks the cookie that clears a stale session as Secure.
	SecureCookie bool
}

// Guard keeps signed-in users off the login pages and anonymous users off the
// protected pages. Other paths pass through untouched.
func Guard(cfg GuardConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if !loginPages[path] && !protectedPages[path] {
				return next(c)
			}

			signedIn := hasSession(c, cfg)
			switch {
			case signedIn && loginPages[path]:
				return c.Redirect(http.StatusTemporaryRedirect, LandingPath)
			case !signedIn && protectedPages[path]:
				return c.Redirect(http.StatusTemporaryRedirect, LoginPath)
			}
			return next(c)
		}
	}
}

func hasSession(c echo.Context, cfg GuardConfig) bool {
	cookie, err := c.Cookie(auth.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	if cfg.Mode == config.GuardModePresence || cfg.Verifier == nil {
		return true
	}
	if _, err := cfg.Verifier.Authenticate(c.Request().Context(), cookie.Value); err != nil {
		c.SetCookie(auth.ExpiredSessionCookie(cfg.SecureCookie))
		return false
	}
	return true
}
