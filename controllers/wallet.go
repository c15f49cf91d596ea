package controllers

import (
	"clinic-connect/configuration"
	"clinic-connect/models"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Wallet returns the signed-in patient's wallet balance
func Wallet(c *gin.Context) {
	patientID, ok := currentPatientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var wallet models.Wallet
	if err := configuration.DB.Where("user_id = ?", patientID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"status": "Success",
				"amount": 0.0,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "Success",
		"amount": wallet.Amount,
	})
}

// creditWallet adds the amount to the user's wallet, creating the
// wallet row if the user has never held a balance.
func creditWallet(tx *gorm.DB, userID int, amount float64) error {
	var wallet models.Wallet
	if err := tx.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			wallet = models.Wallet{
				UserID: userID,
				Amount: amount,
			}
			return tx.Create(&wallet).Error
		}
		return err
	}
	wallet.Amount += amount
	return tx.Save(&wallet).Error
}

// PayFromWallet settles a pending payment from the patient's wallet balance
func PayFromWallet(c *gin.Context) {
	var request payRequest
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	patientID, ok := currentPatientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payment, ok := findPendingPayment(c, request.PaymentID)
	if !ok {
		return
	}
	if payment.PatientID != patientID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot pay for this appointment"})
		return
	}

	var appointment models.Appointment
	err := configuration.DB.Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		if err := tx.Where("user_id = ?", patientID).First(&wallet).Error; err != nil {
			// A patient without a wallet row has a zero balance; any
			// other lookup failure is a real error.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errInsufficientBalance
			}
			return err
		}
		if wallet.Amount < payment.Amount {
			return errInsufficientBalance
		}

		wallet.Amount -= payment.Amount
		if err := tx.Save(&wallet).Error; err != nil {
			return err
		}

		if err := markPaymentPaid(tx, payment, "wallet"); err != nil {
			return err
		}

		if err := tx.Where("appointment_id = ?", payment.AppointmentID).First(&appointment).Error; err != nil {
			return err
		}
		appointment.PaymentStatus = models.PaymentPaid
		return tx.Save(&appointment).Error
	})
	if err != nil {
		if errors.Is(err, errInsufficientBalance) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient wallet balance"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process wallet payment"})
		return
	}

	emailReceiptAsync(appointment, *payment)

	c.JSON(http.StatusOK, gin.H{
		"status":  "Success",
		"message": "Payment successful",
		"payment": payment,
	})
}

var errInsufficientBalance = errors.New("insufficient wallet balance")
