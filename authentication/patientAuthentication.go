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

var patientSigningKey = []byte(envSecret("PATIENT_JWT_KEY", "secretKey"))

// GeneratePatientToken issues a 24h token carrying the patient's id and phone.
func GeneratePatientToken(patientID int, phone string) (string, error) {
	claims := &models.PatientClaims{
		PatientID: patientID,
		Phone:     phone,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(patientSigningKey)
}

// AuthenticatePatient parses a patient token and returns its phone and id claims.
func AuthenticatePatient(signedToken string) (string, int, error) {
	var patientClaims models.PatientClaims
	token, err := jwt.ParseWithClaims(signedToken, &patientClaims, func(*jwt.Token) (interface{}, error) {
		return patientSigningKey, nil
	})
	if err != nil {
		return "", 0, err
	}
	if !token.Valid {
		return "", 0, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(*models.PatientClaims)
	if !ok {
		return "", 0, errors.New("couldn't parse claims")
	}
	if claims.ExpiresAt < time.Now().Unix() {
		return "", 0, errors.New("token expired")
	}
	return claims.Phone, claims.PatientID, nil
}

// PatientAuthMiddleware puts "patientID", "phone" and "role" on the context.
func PatientAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User Authorization is missing"})
			return
		}

		phone, patientID, err := AuthenticatePatient(strings.Replace(header, "Bearer ", "", 1))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set("patientID", patientID)
		c.Set("phone", phone)
		c.Set("role", string(models.RolePatient))
		c.Next()
	}
}
