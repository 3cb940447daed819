package middleware

import (
	"path"
	"strings"
)

// RouteClass says whether a path needs a session.
type RouteClass int

const (
	RoutePublic RouteClass = iota
	RouteProtected
)

// RouteShape decides how a rejection is rendered: JSON for API routes,
// a redirect to the login page for everything else.
type RouteShape int

const (
	ShapePage RouteShape = iota
	ShapeAPI
)

// RoutePolicy is the static route classification. It is built once at
// startup and never mutated.
type RoutePolicy struct {
	// PublicPrefixes are reachable without a session. A prefix matches the
	// path itself and anything below it, never a sibling ("/login" does not
	// match "/loginx").
	PublicPrefixes []string
	// StaticPrefixes bypass the gate entirely.
	StaticPrefixes []string
	// APIPrefix marks API-shaped routes.
	APIPrefix string
}

// DefaultRoutePolicy returns the console's allow-list.
func DefaultRoutePolicy(loginPath string) RoutePolicy {
	if loginPath == "" {
		loginPath = "/login"
	}
	return RoutePolicy{
		PublicPrefixes: []string{
			loginPath,
			"/api/auth/login",
			"/api/auth/logout",
			"/api/seed",
			"/health",
			"/metrics",
			"/swagger",
		},
		StaticPrefixes: []string{"/static", "/assets", "/favicon"},
		APIPrefix:      "/api",
	}
}

// Classify returns the class and shape of p. A path is public only if both
// its raw and cleaned forms are public, so dot segments cannot smuggle a
// protected route under an allow-listed prefix.
func (rp RoutePolicy) Classify(p string) (RouteClass, RouteShape) {
	if p == "" {
		p = "/"
	}
	cleaned := path.Clean(p)
	shape := ShapePage
	if rp.isAPI(p) || rp.isAPI(cleaned) {
		shape = ShapeAPI
	}
	if rp.isPublic(p) && rp.isPublic(cleaned) {
		return RoutePublic, shape
	}
	return RouteProtected, shape
}

func (rp RoutePolicy) isAPI(p string) bool {
	return rp.APIPrefix != "" && hasPathPrefix(p, rp.APIPrefix)
}

func (rp RoutePolicy) isPublic(p string) bool {
	for _, prefix := range rp.PublicPrefixes {
		if hasPathPrefix(p, prefix) {
			return true
		}
	}
	return rp.isStatic(p)
}

// isStatic matches asset prefixes, and file-like page paths (last segment
// has an extension). API paths never qualify by extension.
func (rp RoutePolicy) isStatic(p string) bool {
	for _, prefix := range rp.StaticPrefixes {
		if hasPathPrefix(p, prefix) {
			return true
		}
	}
	if rp.isAPI(p) {
		return false
	}
	last := p[strings.LastIndex(p, "/")+1:]
	return strings.Contains(last, ".") && last != "." && last != ".."
}

func hasPathPrefix(p, prefix string) bool {
	if p == prefix {
		return true
	}
	if strings.HasSuffix(prefix, "/") {
		return strings.HasPrefix(p, prefix)
	}
	return strings.HasPrefix(p, prefix+"/")
}
