//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"vintour/internal/pkg/config"
	"vintour/internal/pkg/jwt"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTHelper mints staff tokens the way the upstream identity service
// would. The engine itself only verifies tokens, so signing lives here.
type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, staffID uuid.UUID, role string) string {
	t.Helper()
	return h.sign(t, staffID, role, nil, time.Hour)
}

func (h *JWTHelper) GenerateBrandToken(t *testing.T, staffID uuid.UUID, role string, brandID uuid.UUID) string {
	t.Helper()
	return h.sign(t, staffID, role, &brandID, time.Hour)
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, staffID uuid.UUID, role string) string {
	t.Helper()
	return h.sign(t, staffID, role, nil, -time.Minute)
}

func (h *JWTHelper) sign(t *testing.T, staffID uuid.UUID, role string, brandID *uuid.UUID, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := jwt.Claims{
		Role: role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    h.cfg.Issuer,
			Subject:   staffID.String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	if brandID != nil {
		claims.BrandID = brandID.String()
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.Secret))
	require.NoError(t, err)
	return signed
}
