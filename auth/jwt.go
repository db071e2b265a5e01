package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller of a tool.
type Identity struct {
	// Principal is the subject claim of the token.
	Principal string

	// Scopes are the space-separated entries of the scope claim.
	Scopes []string
}

// HasScope reports whether the identity carries the given scope.
func (id *Identity) HasScope(scope string) bool {
	if id == nil {
		return false
	}
	for _, s := range id.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// JWTConfig configures the JWT authenticator.
type JWTConfig struct {
	// Key is the HMAC signing key used to verify tokens. Required.
	Key []byte

	// Issuer is the expected iss claim. Empty skips the check.
	Issuer string

	// Audience is the expected aud claim. Empty skips the check.
	Audience string
}

// JWTAuthenticator validates HMAC-signed JWT bearer tokens.
type JWTAuthenticator struct {
	config JWTConfig
}

// NewJWTAuthenticator creates a JWT authenticator.
func NewJWTAuthenticator(config JWTConfig) *JWTAuthenticator {
	return &JWTAuthenticator{config: config}
}

// Authenticate validates a bearer token value (with or without the
// "Bearer " prefix) and returns the caller's identity.
func (a *JWTAuthenticator) Authenticate(_ context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil, ErrMissingCredentials
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	}
	if a.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.config.Issuer))
	}
	if a.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(a.config.Audience))
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return a.config.Key, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrInvalidCredentials
		}
	}
	if !parsed.Valid {
		return nil, ErrInvalidCredentials
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenMalformed
	}

	identity := &Identity{}
	if sub, err := claims.GetSubject(); err == nil {
		identity.Principal = sub
	}
	if scope, ok := claims["scope"].(string); ok && scope != "" {
		identity.Scopes = strings.Fields(scope)
	}
	return identity, nil
}
