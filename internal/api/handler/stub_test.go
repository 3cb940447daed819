package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/admin-console/internal/api/middleware"
	"github.com/taskflow/admin-console/internal/core/domain"
	"github.com/taskflow/admin-console/internal/core/ports"
)

type stubAuthService struct {
	loginFn     func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error)
	bootstrapFn func(ctx context.Context) (*ports.BootstrapResult, error)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Bootstrap(ctx context.Context) (*ports.BootstrapResult, error) {
	return s.bootstrapFn(ctx)
}

type stubUserService struct {
	listFn   func(ctx context.Context) ([]*domain.User, error)
	createFn func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
}

func (s *stubUserService) ListMembers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

var adminIdentity = domain.Identity{
	UserID: "665f1c2e9b1e8a0012345678",
	Email:  "root@example.com",
	Name:   "Root",
	Role:   domain.RolePrivileged,
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// asAdmin mimics the gate having admitted the request.
func asAdmin(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), adminIdentity))
}
