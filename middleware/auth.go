package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ValidateToken checks the Bearer token and stores user_id and role in the
// request context for downstream handlers.
func ValidateToken(c *gin.Context) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Acceso denegado. No se proporcionó un token."})
		c.Abort()
		return
	}
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusForbidden, gin.H{"error": "Token inválido o expirado."})
		c.Abort()
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Token inválido o expirado."})
		c.Abort()
		return
	}

	c.Set("user_id", claims["user_id"])
	if role, ok := claims["role"].(string); ok {
		c.Set("role", role)
	}

	c.Next()
}

// RequireRole allows the request through only if the token's role is one
// of the given roles. Must run after ValidateToken.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "No tienes permiso para realizar esta acción."})
		c.Abort()
	}
}
