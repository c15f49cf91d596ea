package authentication

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"clinic-connect/models"
)

var adminSigningKey = []byte(envSecret("ADMIN_JWT_KEY", "adminkey"))

// GenerateAdminToken issues a 24h token carrying the admin's username.
func GenerateAdminToken(username string) (string, error) {
	claims := &models.AdminClaims{
		Username:       username,
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(24 * time.Hour).Unix()},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(adminSigningKey)
}

// AdminAuthentication parses an admin token and returns its username claim.
func AdminAuthentication(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AdminClaims{}, func(*jwt.Token) (interface{}, error) {
		return adminSigningKey, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*models.AdminClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	return claims.Username, nil
}

// AdminAuthMiddleware puts "username" and "role" on the context.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing the authorization header"})
			return
		}

		username, err := AdminAuthentication(strings.TrimSpace(strings.TrimPrefix(header, "Bearer")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("username", username)
		c.Set("role", string(models.RoleAdmin))
		c.Next()
	}
}
