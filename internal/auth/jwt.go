// Package auth issues and verifies the bearer tokens accepted by the HTTP
// surface. The token subject is the owner id stamped onto imported records.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/synonym-backend/internal/domain"
)

// ErrEmptyToken is returned for a missing bearer token.
var ErrEmptyToken = errors.New("token is empty")

// JWTManager signs and validates HS256 owner tokens.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager creates a manager. secret must be at least 32 characters;
// config.Validate enforces that before the manager is built.
func NewJWTManager(secret, issuer string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

type ownerClaims struct {
	jwt.RegisteredClaims
	Label string `json:"label,omitempty"`
}

// Claims is the verified content of a token.
type Claims struct {
	OwnerID   uuid.UUID
	Label     string
	ExpiresAt time.Time
}

// Issue creates a signed token for ownerID. label is a free-form note
// (for example the operator name) carried for audit logs.
func (m *JWTManager) Issue(ownerID uuid.UUID, label string) (string, time.Time, error) {
	if ownerID == uuid.Nil {
		return "", time.Time{}, domain.NewValidationError("owner", "required")
	}

	now := m.now()
	exp := now.Add(m.ttl)
	claims := ownerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID.String(),
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Label: label,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Validate parses a token and returns its claims. Every failure wraps
// domain.ErrUnauthorized.
func (m *JWTManager) Validate(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, ErrEmptyToken)
	}

	token, err := jwt.ParseWithClaims(tokenString, &ownerClaims{}, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: parse token: %w", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*ownerClaims)
	if !ok || !token.Valid {
		return Claims{}, fmt.Errorf("%w: invalid token claims", domain.ErrUnauthorized)
	}

	ownerID, err := uuid.Parse(claims.Subject)
	if err != nil || ownerID == uuid.Nil {
		return Claims{}, fmt.Errorf("%w: invalid subject %q", domain.ErrUnauthorized, claims.Subject)
	}

	out := Claims{OwnerID: ownerID, Label: claims.Label}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
