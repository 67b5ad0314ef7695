package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"farmstand/pkg/errors"
)

// Claims are the JWT claims carried by a bearer token
type Claims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and verifies signed bearer tokens
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager with an HMAC secret and token lifetime
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate issues a signed token for a user
func (m *Manager) Generate(userID uint, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", errors.NewInternal("failed to sign token", err)
	}
	return signed, nil
}

// Verify parses a token string and returns its claims
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.NewUnauthorized("invalid or expired token")
	}
	return claims, nil
}
