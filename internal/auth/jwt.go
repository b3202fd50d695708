// Package auth issues and checks the tokens that gate the watch feed.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing watch token")
)

// DefaultExpiry is the lifetime of a watch token when none is given.
const DefaultExpiry = 24 * time.Hour

const issuer = "gomoku-watch"

// Claims holds the JWT payload of a watch token.
type Claims struct {
	Viewer string `json:"viewer"`
	jwt.RegisteredClaims
}

// JWTManager signs and validates watch tokens with a shared secret.
type JWTManager struct {
	secret []byte
	expiry time.Duration
}

// NewJWTManager creates a JWTManager with the given secret.
func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret), expiry: DefaultExpiry}
}

// WithExpiry returns a copy of m that issues tokens valid for d.
func (m *JWTManager) WithExpiry(d time.Duration) *JWTManager {
	return &JWTManager{secret: m.secret, expiry: d}
}

// GenerateToken creates a token that lets viewer subscribe to the feed.
func (m *JWTManager) GenerateToken(viewer string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Viewer: viewer,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   viewer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates a JWT string, returning the claims.
func (m *JWTManager) ValidateToken(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrMissingToken
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
