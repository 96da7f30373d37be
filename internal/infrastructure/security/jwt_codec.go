package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/haulmatic/user-directory/internal/core/domain"
)

// DefaultTokenTTL is the lifetime of every session token.
const DefaultTokenTTL = time.Hour

// Claims is the JWT payload: {id, username, role, iat, exp}.
type Claims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTCodec signs and verifies HS256 session tokens with a static key.
type JWTCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewJWTCodec builds a codec. The key must be non-empty; ttl <= 0 falls back
// to DefaultTokenTTL.
func NewJWTCodec(key string, ttl time.Duration) (*JWTCodec, error) {
	if key == "" {
		return nil, fmt.Errorf("jwt codec: %w", domain.ErrEmptySecret)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTCodec{key: []byte(key), ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the time source used for issuing and validating.
func (c *JWTCodec) WithClock(now func() time.Time) *JWTCodec {
	c.now = now
	return c
}

func (c *JWTCodec) Issue(identity domain.Identity) (string, error) {
	now := c.now()
	claims := Claims{
		UserID:   identity.UserID,
		Username: identity.Username,
		Role:     identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (c *JWTCodec) Verify(token string) (*domain.Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: expired", domain.ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	return &domain.Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
