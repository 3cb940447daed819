package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskflow/admin-console/internal/api/metrics"
	"github.com/taskflow/admin-console/internal/core/domain"
	"github.com/taskflow/admin-console/internal/core/ports"
)

// maxLoginBody bounds how much of the login payload is buffered to find
// the email.
const maxLoginBody = 64 << 10

// LoginRateLimit throttles login attempts per client IP and email. The IP
// is c.RealIP, so it is only as trustworthy as the Echo IPExtractor. Limiter
// failures let the request through: an unavailable Redis must not lock
// every administrator out.
func LoginRateLimit(limiter ports.LoginLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter == nil {
				return next(c)
			}

			key := c.RealIP() + "|" + peekEmail(c.Request())

			allowed, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("login limiter unavailable, allowing request")
				return next(c)
			}
			if !allowed {
				metrics.LoginAttemptsTotal.WithLabelValues("rate_limited").Inc()
				return c.JSON(http.StatusTooManyRequests, gateError{Error: domain.ErrRateLimited.Error()})
			}
			return next(c)
		}
	}
}

// peekEmail reads the email from a JSON body and restores the body for the
// handler. Unparseable bodies key on the IP alone.
func peekEmail(req *http.Request) string {
	if req.Body == nil {
		return ""
	}
	body := req.Body
	raw, err := io.ReadAll(io.LimitReader(body, maxLoginBody))
	req.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(raw), body), body}
	if err != nil {
		return ""
	}

	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &payload) != nil {
		return ""
	}
	return domain.NormalizeEmail(payload.Email)
}
