package jwt

import (
	"errors"

	"vintour/internal/pkg/config"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims carried by staff tokens issued upstream. This engine only
// verifies them; it never issues credentials of its own.
type Claims struct {
	Role    string `json:"role"`
	BrandID string `json:"brand_id,omitempty"`
	jwtlib.RegisteredClaims
}

type Validator struct {
	secret []byte
	issuer string
}

func NewValidator(cfg config.JWTConfig) *Validator {
	return &Validator{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

func (v *Validator) Validate(tokenString string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenString, &Claims{}, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwtlib.WithIssuer(v.issuer))
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *Claims) StaffID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
