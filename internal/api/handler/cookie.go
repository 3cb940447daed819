package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/admin-console/internal/core/domain"
)

// SessionTransport controls how an issued token reaches the caller.
type SessionTransport struct {
	// Body returns the token in the login response.
	Body   bool
	Cookie SessionCookie
}

// SessionCookie controls how the session token is handed to browsers.
type SessionCookie struct {
	Name string
	// Enabled sets the cookie on login.
	Enabled bool
	// Secure marks the cookie HTTPS-only (production).
	Secure bool
}

func (s SessionCookie) set(c echo.Context, token string) {
	if !s.Enabled {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(domain.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s SessionCookie) clear(c echo.Context) {
	if s.Name == "" {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
