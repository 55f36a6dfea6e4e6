package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthGuard validates the bearer token and, when roles are given, requires
// the token's role claim to match one of them. The user id and role are
// injected into the context.
func AuthGuard(secret string, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		role, _ := claims["role"].(string)
		if len(allowedRoles) > 0 {
			match := false
			for _, r := range allowedRoles {
				if role == r {
					match = true
					break
				}
			}
			if !match {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}

		userIDValue, _ := claims["userId"].(string)
		if userID, err := primitive.ObjectIDFromHex(userIDValue); err == nil {
			c.Set("userId", userID)
		}

		c.Set("role", role)
		c.Set("claims", claims)
		c.Next()
	}
}

// AdminAuth allows admins only.
func AdminAuth(secret string) gin.HandlerFunc {
	return AuthGuard(secret, "admin")
}

// StaffAuth allows admins and staff.
func StaffAuth(secret string) gin.HandlerFunc {
	return AuthGuard(secret, "admin", "staff")
}

// UserAuth allows any authenticated user.
func UserAuth(secret string) gin.HandlerFunc {
	return AuthGuard(secret)
}
