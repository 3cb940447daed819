package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/admin-console/internal/infrastructure/config"
)

// TokenExtractor pulls a raw session token out of a request. The bool is
// false when the request carries no token at all.
type TokenExtractor func(r *http.Request) (string, bool)

// CookieExtractor reads the token from the named cookie.
func CookieExtractor(name string) TokenExtractor {
	return func(r *http.Request) (string, bool) {
		ck, err := r.Cookie(name)
		if err != nil || ck.Value == "" {
			return "", false
		}
		return ck.Value, true
	}
}

// BearerExtractor reads the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func BearerExtractor() TokenExtractor {
	return func(r *http.Request) (string, bool) {
		header := r.Header.Get(echo.HeaderAuthorization)
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return "", false
		}
		token = strings.TrimSpace(token)
		return token, token != ""
	}
}

// ChainExtractors tries each extractor in order; the first hit wins.
func ChainExtractors(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) (string, bool) {
		for _, ex := range extractors {
			if token, ok := ex(r); ok {
				return token, true
			}
		}
		return "", false
	}
}

// ExtractorFor builds the extractor for a configured transport. With "both"
// the cookie is preferred over the header.
func ExtractorFor(transport, cookieName string) (TokenExtractor, error) {
	switch transport {
	case config.TransportBearer:
		return BearerExtractor(), nil
	case config.TransportCookie:
		return CookieExtractor(cookieName), nil
	case config.TransportBoth:
		return ChainExtractors(CookieExtractor(cookieName), BearerExtractor()), nil
	default:
		return nil, fmt.Errorf("unknown token transport %q", transport)
	}
}
