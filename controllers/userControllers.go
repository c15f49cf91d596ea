package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"clinic-connect/authentication"
	"clinic-connect/configuration"
	"clinic-connect/models"
)

func twilioClient() *twilio.RestClient {
	return twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: os.Getenv("TWILIO_ACCOUNT_SID"),
		Password: os.Getenv("TWILIO_AUTHTOKEN"),
	})
}

func signupStagingKey(phone string) string {
	return fmt.Sprintf("user:%s", phone)
}

// PatientLogin authenticates by phone and password and issues a patient token.
func PatientLogin(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var patient models.Patient
	if err := configuration.DB.Where("phone = ?", req.Phone).First(&patient).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid phone number or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(patient.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid phone number or password"})
		return
	}

	token, err := authentication.GeneratePatientToken(patient.PatientID, req.Phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"message": "Login successful",
		"token":   token,
	})
}

// PatientSignup stages a new patient record behind phone OTP verification.
// Nothing is written to the database until UserOtpVerify succeeds.
func PatientSignup(c *gin.Context) {
	var patient models.Patient
	if err := c.BindJSON(&patient); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(patient.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	patient.Password = string(hashed)

	var existing models.Patient
	err = configuration.DB.Where("phone = ?", patient.Phone).First(&existing).Error
	switch {
	case err == nil:
		c.JSON(http.StatusConflict, gin.H{"message": "Patient already exists"})
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusInternalServerError, gin.H{"message": "database error"})
		return
	}

	if err := SendOTP(patient.Phone); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send OTP", "data": err.Error()})
		return
	}

	staged, err := json.Marshal(&patient)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to marshal patient", "data": err.Error()})
		return
	}
	if err := configuration.SetRedis(signupStagingKey(patient.Phone), staged, 5*time.Minute); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"Status": false, "Data": nil, "Message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Message": "Otp generated successfully. Proceed to verification page>>>"})
}

// SendOTP starts a Twilio Verify SMS challenge for the phone number.
func SendOTP(phoneNumber string) error {
	params := verify.CreateVerificationParams{}
	params.SetTo(phoneNumber)
	params.SetChannel("sms")

	_, err := twilioClient().VerifyV2.CreateVerification(os.Getenv("TWILIO_SERVICE_ID"), &params)
	return err
}

// UserOtpVerify checks the SMS code with Twilio and, on success, creates the
// patient together with their empty wallet.
func UserOtpVerify(c *gin.Context) {
	var req models.VerifyOTP
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"Status": false, "Data": nil, "Message": "Failed to parse JSON data"})
		return
	}
	if req.Otp == "" {
		c.JSON(http.StatusBadRequest, gin.H{"Status": false, "Message": "OTP is required"})
		return
	}

	params := verify.CreateVerificationCheckParams{}
	params.SetTo(req.Phone)
	params.SetCode(req.Otp)

	check, err := twilioClient().VerifyV2.CreateVerificationCheck(os.Getenv("TWILIO_SERVICE_ID"), &params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"Status": false, "Data": nil, "Message": "error in verifying provided OTP"})
		return
	}
	if *check.Status != "approved" {
		c.JSON(http.StatusUnauthorized, gin.H{"Status": false, "Data": nil, "Message": "Wrong OTP provided"})
		return
	}

	key := signupStagingKey(req.Phone)
	staged, err := configuration.GetRedis(key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  false,
			"Data":    nil,
			"Message": "Internal server error",
		})
		return
	}

	var patient models.Patient
	if err := json.Unmarshal([]byte(staged), &patient); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unmarshal patient", "data": err.Error()})
		return
	}
	if err := configuration.DB.Create(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"Status": false, "Data": nil, "Message": "Failed to create user"})
		return
	}

	wallet := models.Wallet{UserID: patient.PatientID, Amount: 0}
	if err := configuration.DB.Create(&wallet).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"Status": false, "Data": nil, "Message": "Failed to create wallet"})
		return
	}

	_ = configuration.DeleteRedis(key)

	c.JSON(http.StatusOK, gin.H{
		"Status":  true,
		"Message": "OTP verified successfully and user has been created. Login to continue...",
	})
}

func PatientLogout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "You are successfully logged out"})
}
