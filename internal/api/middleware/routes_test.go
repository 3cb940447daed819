package middleware

import "testing"

func TestRoutePolicy_Classify(t *testing.T) {
	policy := DefaultRoutePolicy("/login")

	cases := []struct {
		path  string
		class RouteClass
		shape RouteShape
	}{
		{"/login", RoutePublic, ShapePage},
		{"/login/reset", RoutePublic, ShapePage},
		{"/loginx", RouteProtected, ShapePage},
		{"/api/auth/login", RoutePublic, ShapeAPI},
		{"/api/auth/logout", RoutePublic, ShapeAPI},
		{"/api/auth/me", RouteProtected, ShapeAPI},
		{"/api/seed", RoutePublic, ShapeAPI},
		{"/api/users", RouteProtected, ShapeAPI},
		{"/api/users/jane.doe", RouteProtected, ShapeAPI},
		{"/apix", RouteProtected, ShapePage},
		{"/", RouteProtected, ShapePage},
		{"", RouteProtected, ShapePage},
		{"/dashboard", RouteProtected, ShapePage},
		{"/static/app.css", RoutePublic, ShapePage},
		{"/assets/logo", RoutePublic, ShapePage},
		{"/favicon.ico", RoutePublic, ShapePage},
		{"/robots.txt", RoutePublic, ShapePage},
		{"/health", RoutePublic, ShapePage},
		{"/metrics", RoutePublic, ShapePage},
		{"/swagger/index.html", RoutePublic, ShapePage},
		{"/login/../api/users", RouteProtected, ShapeAPI},
		{"/static/../dashboard", RouteProtected, ShapePage},
	}
	for _, tc := range cases {
		class, shape := policy.Classify(tc.path)
		if class != tc.class || shape != tc.shape {
			t.Fatalf("%q: expected (%d,%d), got (%d,%d)", tc.path, tc.class, tc.shape, class, shape)
		}
	}
}

func TestExtractorFor_UnknownTransport(t *testing.T) {
	if _, err := ExtractorFor("header", "auth-token"); err == nil {
		t.Fatalf("expected error for unknown transport")
	}
}
