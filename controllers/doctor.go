package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"clinic-connect/authentication"
	"clinic-connect/configuration"
	"clinic-connect/models"
)

var validate = validator.New()

func signupFailure(c *gin.Context, code int, message string, data any) {
	c.JSON(code, gin.H{
		"status":  "Failed",
		"message": message,
		"data":    data,
	})
}

// Signup registers a new doctor. The record is staged in redis until the
// emailed OTP is verified.
func Signup(c *gin.Context) {
	var doctor models.Doctor
	if err := c.ShouldBindJSON(&doctor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"Status":  "Failed",
			"message": "Binding error",
			"data":    err.Error(),
		})
		return
	}
	if err := validate.Struct(doctor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"Status":  "Failed",
			"message": "Please fill all the mandatory fields",
			"data":    err.Error(),
		})
		return
	}

	uniqueChecks := []struct {
		column  string
		value   string
		message string
		hint    string
	}{
		{"email", doctor.Email, "Email already in use", "Choose another email"},
		{"phone", doctor.Phone, "Phone number already in use", "Choose another phone number"},
		{"license_number", doctor.LicenseNumber, "Licence number already in use", "Choose another Licence number"},
	}
	for _, check := range uniqueChecks {
		var existing models.Doctor
		err := configuration.DB.Where(check.column+" = ?", check.value).First(&existing).Error
		if err == nil {
			signupFailure(c, http.StatusConflict, check.message, check.hint)
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			signupFailure(c, http.StatusInternalServerError, "Database error", err.Error())
			return
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(doctor.Password), bcrypt.DefaultCost)
	if err != nil {
		signupFailure(c, http.StatusInternalServerError, "Failed to hash password", err.Error())
		return
	}
	doctor.Password = string(hashed)

	otp := authentication.GenerateOTP(6)
	authentication.SendOTPByEmail(otp, doctor.Email)

	staged, err := json.Marshal(doctor)
	if err != nil {
		signupFailure(c, http.StatusBadRequest, "Failed to marshal json data", err.Error())
		return
	}

	if err := configuration.SetRedis("otp"+doctor.Email, otp, 300*time.Second); err != nil {
		signupFailure(c, http.StatusInternalServerError, "Redis error", err.Error())
		return
	}
	if err := configuration.SetRedis("user"+doctor.Email, staged, 1200*time.Second); err != nil {
		signupFailure(c, http.StatusInternalServerError, "Redis error", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "Success",
		"message": "Go to verification page",
		"data":    nil,
	})
}

// VerifyOTP finishes a doctor signup: the staged record becomes a real row,
// still unverified and unapproved until an admin acts on it.
func VerifyOTP(c *gin.Context) {
	type otpRequest struct {
		Email string `json:"email"`
		Otp   string `json:"otp"`
	}

	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		signupFailure(c, http.StatusBadRequest, "Binding error", err.Error())
		return
	}
	if req.Otp == "" {
		signupFailure(c, http.StatusBadRequest, "OTP not entered", nil)
		return
	}

	otp, err := configuration.GetRedis("otp" + req.Email)
	if err != nil {
		signupFailure(c, http.StatusNotFound, "otp not found", err.Error())
		return
	}
	if !authentication.ValidateOTP(otp, req.Otp) {
		signupFailure(c, http.StatusUnauthorized, "Wrong OTP provided", nil)
		return
	}

	staged, err := configuration.GetRedis("user" + req.Email)
	if err != nil {
		signupFailure(c, http.StatusNotFound, "User details missing", err.Error())
		return
	}

	var doctor models.Doctor
	if err := json.Unmarshal([]byte(staged), &doctor); err != nil {
		signupFailure(c, http.StatusInternalServerError, "Error in unmarshaling json data", err.Error())
		return
	}

	doctor.Verified = "false"
	doctor.Approved = "false"
	if err := configuration.DB.Create(&doctor).Error; err != nil {
		signupFailure(c, http.StatusInternalServerError, "Failed to create doctor", err.Error())
		return
	}

	_ = configuration.DeleteRedis("otp" + req.Email)
	_ = configuration.DeleteRedis("user" + req.Email)

	c.JSON(http.StatusOK, gin.H{
		"status":  "Success",
		"message": "Signup successful",
		"data":    doctor,
	})
}

// DoctorLogin issues a doctor token once the account is approved.
func DoctorLogin(c *gin.Context) {
	var creds models.Doctor
	if err := c.BindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"Error": err.Error()})
		return
	}

	var doctor models.Doctor
	if err := configuration.DB.Where("email = ?", creds.Email).First(&doctor).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(doctor.Password), []byte(creds.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}
	if doctor.Approved != "true" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not approved yet"})
		return
	}

	token, err := authentication.GenerateDoctorToken(doctor.Email, doctor.DoctorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}
