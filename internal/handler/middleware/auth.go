package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"vintour/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	validator *jwt.Validator
}

const (
	ctxStaffIDKey   = "staff_id"
	ctxStaffRoleKey = "staff_role"
	ctxBrandIDKey   = "brand_id"
)

func NewAuthMiddleware(validator *jwt.Validator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			c.Abort()
			return
		}

		claims, err := m.validator.Validate(token)
		if err != nil {
			slog.Warn("token validation failed", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		staffID, err := claims.StaffID()
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ctxStaffIDKey, staffID)
		c.Set(ctxStaffRoleKey, claims.Role)
		if claims.BrandID != "" {
			if brandID, err := uuid.Parse(claims.BrandID); err == nil {
				c.Set(ctxBrandIDKey, brandID)
			}
		}
		c.Set("jwt_claims", map[string]any{
			"staff_id": staffID.String(),
			"role":     claims.Role,
		})
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

func GetStaffID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxStaffIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetBrandID returns the brand scope from the token, if any. Bookings made
// without a brand scope see the whole fleet.
func GetBrandID(c *gin.Context) *uuid.UUID {
	v, exists := c.Get(ctxBrandIDKey)
	if !exists {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}
