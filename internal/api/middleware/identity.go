package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/admin-console/internal/core/domain"
)

// Identity headers forwarded to downstream handlers. Only the gate sets
// them; client-supplied values are stripped on every request.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
)

const identityKey = "identity"

type identityContextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns the verified identity stored by the gate.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(domain.Identity)
	return id, ok
}

// IdentityFromEcho is the echo.Context flavour of IdentityFromContext.
func IdentityFromEcho(c echo.Context) (domain.Identity, bool) {
	if id, ok := c.Get(identityKey).(domain.Identity); ok {
		return id, true
	}
	return IdentityFromContext(c.Request().Context())
}

func stripIdentityHeaders(h http.Header) {
	h.Del(HeaderUserID)
	h.Del(HeaderUserEmail)
	h.Del(HeaderUserRole)
}

func attachIdentity(c echo.Context, id domain.Identity) {
	req := c.Request()
	req.Header.Set(HeaderUserID, id.UserID)
	req.Header.Set(HeaderUserEmail, id.Email)
	req.Header.Set(HeaderUserRole, id.Role.String())

	c.Set(identityKey, id)
	c.SetRequest(req.WithContext(WithIdentity(req.Context(), id)))
}
