package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskflow/admin-console/internal/core/domain"
)

const defaultIssuer = "admin-console"

// sessionClaims is the JWT payload layout.
type sessionClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 session tokens. The signing secret is
// fixed at construction and never mutated, so a codec is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

// CodecOption customises a TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIssuer sets the iss claim written and required by the codec.
func WithIssuer(iss string) CodecOption {
	return func(c *TokenCodec) {
		if iss != "" {
			c.issuer = iss
		}
	}
}

// NewTokenCodec returns ErrMissingSigningSecret when secret is empty.
func NewTokenCodec(secret []byte, opts ...CodecOption) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, domain.ErrMissingSigningSecret
	}
	c := &TokenCodec{
		secret: append([]byte(nil), secret...),
		issuer: defaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Zero leeway: a token is rejected from the second its exp is reached.
	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(c.now),
	)
	return c, nil
}

// Issue signs a token for identity valid for domain.SessionTTL from now.
func (c *TokenCodec) Issue(identity domain.Identity) (string, domain.SessionClaims, error) {
	if !identity.Role.Valid() {
		return "", domain.SessionClaims{}, domain.ErrInvalidRole
	}

	iat := jwt.NewNumericDate(c.now())
	exp := jwt.NewNumericDate(iat.Time.Add(domain.SessionTTL))

	claims := sessionClaims{
		UserID: identity.UserID,
		Email:  identity.Email,
		Name:   identity.Name,
		Role:   identity.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.issuer,
			Subject:   identity.UserID,
			IssuedAt:  iat,
			ExpiresAt: exp,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", domain.SessionClaims{}, err
	}

	return signed, domain.SessionClaims{
		Identity:  identity,
		IssuedAt:  iat.Time.UTC(),
		ExpiresAt: exp.Time.UTC(),
	}, nil
}

// Verify checks the signature before expiry; any failure other than a
// past exp on an authentic token is reported as ErrTokenTampered.
func (c *TokenCodec) Verify(token string) (domain.SessionClaims, error) {
	var claims sessionClaims
	parsed, err := c.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.SessionClaims{}, domain.ErrTokenExpired
		}
		return domain.SessionClaims{}, domain.ErrTokenTampered
	}
	if !parsed.Valid {
		return domain.SessionClaims{}, domain.ErrTokenTampered
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.SessionClaims{}, domain.ErrTokenTampered
	}

	return domain.SessionClaims{
		Identity: domain.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Name:   claims.Name,
			Role:   role,
		},
		IssuedAt:  claims.IssuedAt.Time.UTC(),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}
