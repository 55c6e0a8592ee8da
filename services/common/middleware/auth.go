package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Context keys populated by RequireAuth.
const (
	UserContextKey = "user_email"
	RoleContextKey = "role"
)

// Identity verification lives in an external auth service; this package only
// verifies the HS256 tokens it issues. No sessions or role claims are stored
// here.

func parseToken(tokenStr string, secret []byte) (jwt.MapClaims, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// RequireAuth validates the bearer token and stores the subject email and
// role on the request context.
func RequireAuth(secret string) gin.HandlerFunc {
	key := []byte(strings.TrimSpace(secret))

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := parseToken(strings.TrimPrefix(header, "Bearer "), key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		email, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(UserContextKey, email)
		c.Set(RoleContextKey, role)
		c.Next()
	}
}

// RequireAdmin rejects requests whose verified token does not carry the admin
// role. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(RoleContextKey)
		if roleStr, ok := role.(string); !ok || roleStr != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// UserEmail returns the verified subject email set by RequireAuth.
func UserEmail(c *gin.Context) (string, bool) {
	if val, ok := c.Get(UserContextKey); ok {
		if email, ok := val.(string); ok && email != "" {
			return email, true
		}
	}
	return "", false
}
