package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/taskflow/admin-console/internal/api/handler"
	"github.com/taskflow/admin-console/internal/api/middleware"
	"github.com/taskflow/admin-console/internal/core/ports"
	"github.com/taskflow/admin-console/internal/infrastructure/config"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Config      *config.Config
	Log         zerolog.Logger
	Codec       ports.TokenCodec
	AuthService ports.AuthService
	UserService ports.UserService
	// Limiter is optional; nil disables login throttling.
	Limiter ports.LoginLimiter
	// Registerer receives the HTTP request metrics. Nil skips them.
	Registerer   prometheus.Registerer
	HealthChecks []handler.DependencyCheck
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	cfg := deps.Config

	extractor, err := middleware.ExtractorFor(cfg.Session.Transport, cfg.Session.CookieName)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	ipExtractor, err := clientIPExtractor(cfg)
	if err != nil {
		return nil, err
	}
	e.IPExtractor = ipExtractor

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	if deps.Registerer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "http",
			Registerer: deps.Registerer,
		}))
	}
	e.Use(middleware.Gate(middleware.GateConfig{
		Policy:    middleware.DefaultRoutePolicy(cfg.Session.LoginPath),
		Extractor: extractor,
		Codec:     deps.Codec,
		LoginPath: cfg.Session.LoginPath,
		Log:       deps.Log,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService, handler.SessionTransport{
		Body:   cfg.Session.Transport != config.TransportCookie,
		Cookie: handler.SessionCookie{
			Name:    cfg.Session.CookieName,
			Enabled: cfg.Session.Transport != config.TransportBearer,
			Secure:  cfg.IsProduction(),
		},
	})
	userHandler := handler.NewUserHandler(deps.UserService)

	// --- Auth routes ---
	e.POST("/api/auth/login", authHandler.Login, middleware.LoginRateLimit(deps.Limiter, deps.Log))
	e.POST("/api/auth/logout", authHandler.Logout)
	e.GET("/api/auth/me", authHandler.Me)
	e.POST("/api/seed", authHandler.Seed)

	// --- Users (privileged, enforced by the gate) ---
	users := e.Group("/api/users")
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)

	// --- Health probes, metrics and docs (public) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if cfg.StaticDir != "" {
		e.Static("/static", cfg.StaticDir)
	}

	return e, nil
}

// clientIPExtractor decides what c.RealIP returns. Without trusted proxies
// forwarding headers are ignored, otherwise X-Forwarded-For is honoured
// only when it arrives through one of the configured ranges.
func clientIPExtractor(cfg *config.Config) (echo.IPExtractor, error) {
	nets, err := cfg.TrustedProxyNets()
	if err != nil {
		return nil, err
	}
	if len(nets) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range nets {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...), nil
}
