package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/taskflow/admin-console/internal/api/metrics"
	"github.com/taskflow/admin-console/internal/core/domain"
	"github.com/taskflow/admin-console/internal/core/ports"
)

const tracerName = "github.com/taskflow/admin-console/internal/api/middleware"

// GateState is the outcome of evaluating one request.
type GateState int

const (
	StatePublic GateState = iota
	StateUnauthenticated
	StateNonPrivileged
	StatePrivileged
)

func (s GateState) String() string {
	switch s {
	case StatePublic:
		return "public"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateNonPrivileged:
		return "non_privileged"
	case StatePrivileged:
		return "privileged"
	default:
		return "unknown"
	}
}

// GateConfig wires the request gate.
type GateConfig struct {
	Policy    RoutePolicy
	Extractor TokenExtractor
	Codec     ports.TokenCodec
	// LoginPath is where page requests are redirected when rejected.
	LoginPath string
	Log       zerolog.Logger
	// Tracer defaults to the global otel tracer.
	Tracer trace.Tracer
}

// Decide maps a request's facts to a gate state. A token that fails
// verification counts the same as no token.
func Decide(class RouteClass, tokenPresent bool, claims domain.SessionClaims, verifyErr error) GateState {
	if class == RoutePublic {
		return StatePublic
	}
	if !tokenPresent || verifyErr != nil {
		return StateUnauthenticated
	}
	if !claims.Role.IsPrivileged() {
		return StateNonPrivileged
	}
	return StatePrivileged
}

type gateError struct {
	Error string `json:"error"`
}

// Gate guards every route. Public routes pass without touching the token;
// protected routes need a valid token carrying the privileged role.
func Gate(cfg GateConfig) echo.MiddlewareFunc {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(tracerName)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			stripIdentityHeaders(req.Header)

			class, shape := cfg.Policy.Classify(req.URL.Path)
			if class == RoutePublic {
				metrics.GateDecisionsTotal.WithLabelValues(StatePublic.String()).Inc()
				return next(c)
			}

			var (
				claims    domain.SessionClaims
				verifyErr error
			)
			token, present := cfg.Extractor(req)
			if present {
				claims, verifyErr = cfg.verify(c, token)
			}

			state := Decide(class, present, claims, verifyErr)
			metrics.GateDecisionsTotal.WithLabelValues(state.String()).Inc()

			switch state {
			case StatePrivileged:
				attachIdentity(c, claims.Identity)
				return next(c)
			case StateNonPrivileged:
				cfg.Log.Warn().
					Str("user_id", claims.UserID).
					Str("role", claims.Role.String()).
					Str("path", req.URL.Path).
					Msg("non-privileged session rejected")
				if shape == ShapeAPI {
					return c.JSON(http.StatusForbidden, gateError{Error: "forbidden"})
				}
				return c.Redirect(http.StatusFound, cfg.LoginPath)
			default:
				if shape == ShapeAPI {
					return c.JSON(http.StatusUnauthorized, gateError{Error: "unauthorized"})
				}
				return c.Redirect(http.StatusFound, cfg.LoginPath)
			}
		}
	}
}

func (cfg GateConfig) verify(c echo.Context, token string) (domain.SessionClaims, error) {
	_, span := cfg.Tracer.Start(c.Request().Context(), "gate.verify")
	defer span.End()

	claims, err := cfg.Codec.Verify(token)

	outcome := "valid"
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		outcome = "expired"
	case err != nil:
		outcome = "tampered"
	}
	metrics.TokenVerificationsTotal.WithLabelValues(outcome).Inc()
	span.SetAttributes(attribute.String("gate.token_outcome", outcome))

	if err != nil {
		span.SetStatus(codes.Error, outcome)
		cfg.Log.Debug().Err(err).Str("path", c.Request().URL.Path).Msg("session token rejected")
		return domain.SessionClaims{}, err
	}
	span.SetAttributes(attribute.String("gate.role", claims.Role.String()))
	return claims, nil
}
