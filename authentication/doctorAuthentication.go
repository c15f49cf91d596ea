package authentication

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"clinic-connect/configuration"
	"clinic-connect/models"
)

var doctorSigningKey = []byte(envSecret("DOCTOR_JWT_KEY", "doctorkey"))

// envSecret falls back to a development default when the variable is unset.
func envSecret(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// GenerateDoctorToken issues a 24h token carrying the doctor's id and email.
func GenerateDoctorToken(doctorEmail string, doctorId uint) (string, error) {
	now := time.Now()
	claims := &models.DoctorClaims{
		Id:          doctorId,
		DoctorEmail: doctorEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(doctorSigningKey)
}

// DoctorAuthentication parses a doctor token and returns its email and id claims.
func DoctorAuthentication(tokenString string) (string, uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.DoctorClaims{}, func(*jwt.Token) (interface{}, error) {
		return doctorSigningKey, nil
	})
	if err != nil {
		return "", 0, err
	}
	claims, ok := token.Claims.(*models.DoctorClaims)
	if !ok || !token.Valid {
		return "", 0, errors.New("invalid token")
	}
	return claims.DoctorEmail, claims.Id, nil
}

// DoctorAuthMiddleware puts "doctor_id", "email" and "role" on the context.
func DoctorAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing the authorization header"})
			return
		}

		email, id, err := DoctorAuthentication(strings.TrimSpace(strings.TrimPrefix(header, "Bearer")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("email", email)
		c.Set("doctor_id", id)
		c.Set("role", string(models.RoleDoctor))
		c.Next()
	}
}

func GetDoctorByEmail(email string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := configuration.DB.Where("email = ?", email).First(&doctor).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}
