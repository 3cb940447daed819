package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/admin-console/internal/api/metrics"
	"github.com/taskflow/admin-console/internal/core/domain"
	"github.com/taskflow/admin-console/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	transport   SessionTransport
}

func NewAuthHandler(authService ports.AuthService, transport SessionTransport) *AuthHandler {
	return &AuthHandler{authService: authService, transport: transport}
}

// Login authenticates an administrator and issues a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "email and password are required"})
	}

	start := time.Now()
	result, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		RemoteIP: c.RealIP(),
	})
	metrics.LoginDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	h.transport.Cookie.set(c, result.Token)
	resp := toLoginResponse(result)
	if !h.transport.Body {
		resp.Token = ""
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout expires the session cookie. Bearer clients discard their token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.transport.Cookie.clear(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out"})
}

// Me returns the identity of the current session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userSummary
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserSummary(id))
}

// Seed creates the first administrator from the configured bootstrap
// credentials. Later calls are no-ops.
//
// @Summary      Bootstrap admin
// @Tags         auth
// @Produce      json
// @Success      201  {object}  seedResponse
// @Success      200  {object}  seedResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/seed [post]
func (h *AuthHandler) Seed(c echo.Context) error {
	result, err := h.authService.Bootstrap(c.Request().Context())
	if err != nil {
		return err
	}

	if !result.Created {
		return c.JSON(http.StatusOK, seedResponse{Message: "Admin user already exists", Email: result.Email})
	}
	return c.JSON(http.StatusCreated, seedResponse{Message: "Admin user created", Email: result.Email})
}
