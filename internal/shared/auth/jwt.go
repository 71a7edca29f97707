// Package auth signs and verifies the HS256 bearer tokens the API accepts.
package auth

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity carried by a token. Subject is the user id.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingSecret = errors.New("JWT_SECRET is required in production")
	errNoSubject     = errors.New("token subject is required")
)

const (
	tokenTTL   = 24 * time.Hour
	clockSkew  = 30 * time.Second
	devSecret  = "dev-secret"
	envSecret  = "JWT_SECRET"
	envIssuer  = "JWT_ISSUER"
	envRuntime = "ENV"
)

// keys is the signing material read from the environment on each call so
// tests can switch secrets with t.Setenv.
type keys struct {
	secret []byte
	issuer string
}

func loadKeys() (keys, error) {
	secret := strings.TrimSpace(os.Getenv(envSecret))
	if secret == "" {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envRuntime))) {
		case "production", "prod":
			return keys{}, ErrMissingSecret
		}
		secret = devSecret
	}
	return keys{secret: []byte(secret), issuer: strings.TrimSpace(os.Getenv(envIssuer))}, nil
}

// SignJWT signs claims, filling in issued-at, expiry and issuer when unset.
func SignJWT(claims Claims) (string, error) {
	k, err := loadKeys()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errNoSubject
	}
	now := time.Now().UTC()
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(tokenTTL))
	}
	if claims.Issuer == "" {
		claims.Issuer = k.issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(k.secret)
}

// VerifyJWT checks signature, expiry and, when JWT_ISSUER is set, the
// issuer. Every failure is reported as ErrInvalidToken except a missing
// production secret.
func VerifyJWT(token string) (Claims, error) {
	k, err := loadKeys()
	if err != nil {
		return Claims{}, err
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(clockSkew),
		jwt.WithExpirationRequired(),
	}
	if k.issuer != "" {
		opts = append(opts, jwt.WithIssuer(k.issuer))
	}

	var claims Claims
	if _, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) { return k.secret, nil }, opts...); err != nil {
		return Claims{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
