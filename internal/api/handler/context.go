package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/admin-console/internal/api/middleware"
	"github.com/taskflow/admin-console/internal/core/domain"
)

// ctxIdentity returns the identity injected by the gate. Protected handlers
// are only reachable through the gate, so a missing identity means the
// route was wired without it.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFromEcho(c)
	if !ok || id.UserID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
