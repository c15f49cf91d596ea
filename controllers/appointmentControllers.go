package controllers

import (
	"clinic-connect/configuration"
	"clinic-connect/models"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const minReasonLength = 10

func findAppointment(c *gin.Context) (*models.Appointment, bool) {
	var appointment models.Appointment
	if err := configuration.DB.Where("appointment_id = ?", c.Param("id")).First(&appointment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return nil, false
	}
	return &appointment, true
}

// validReason counts characters, not bytes, so multibyte reasons are
// measured the same way the patient typed them.
func validReason(reason string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(reason)) >= minReasonLength
}

// ApproveAppointment moves a pending appointment to SCHEDULED.
func ApproveAppointment(c *gin.Context) {
	role := currentRole(c)
	if !role.CanApprove() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only a doctor or admin can approve appointments"})
		return
	}

	appointment, ok := findAppointment(c)
	if !ok {
		return
	}
	if !appointment.Status.CanTransitionTo(models.StatusScheduled) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only pending appointments can be approved"})
		return
	}

	now := time.Now()
	appointment.Status = models.StatusScheduled
	appointment.ApprovedBy = string(role)
	appointment.ApprovedAt = &now

	if err := configuration.DB.Save(appointment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment status"})
		return
	}

	notifyAppointmentAsync("approved", *appointment)
	triggerAppointmentUpdateAsync(*appointment)

	c.JSON(http.StatusOK, gin.H{"appointment": appointment})
}

type declineAppointmentRequest struct {
	Reason string `json:"reason"`
}

// DeclineAppointment moves a pending appointment to DECLINED.
func DeclineAppointment(c *gin.Context) {
	role := currentRole(c)
	if !role.CanDecline() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only a doctor or admin can decline appointments"})
		return
	}

	var request declineAppointmentRequest
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validReason(request.Reason) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Decline reason must be at least 10 characters"})
		return
	}

	appointment, ok := findAppointment(c)
	if !ok {
		return
	}
	if !appointment.Status.CanTransitionTo(models.StatusDeclined) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only pending appointments can be declined"})
		return
	}

	now := time.Now()
	appointment.Status = models.StatusDeclined
	appointment.DeclinedBy = string(role)
	appointment.DeclineReason = strings.TrimSpace(request.Reason)
	appointment.DeclinedAt = &now

	if err := configuration.DB.Save(appointment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment status"})
		return
	}

	notifyAppointmentAsync("declined", *appointment)
	triggerAppointmentUpdateAsync(*appointment)

	c.JSON(http.StatusOK, gin.H{"appointment": appointment})
}

type cancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// CancelAppointment is a handler function for cancelling an appointment.
// Staff can cancel any appointment, a patient only their own. Paid online
// bookings are refunded to the patient wallet.
func CancelAppointment(c *gin.Context) {
	appointment, ok := findAppointment(c)
	if !ok {
		return
	}

	role := currentRole(c)
	patientID, _ := currentPatientID(c)
	if !role.CanCancel(patientID != 0 && patientID == appointment.PatientID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot cancel this appointment"})
		return
	}

	var request cancelAppointmentRequest
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validReason(request.Reason) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cancel reason must be at least 10 characters"})
		return
	}

	if !appointment.Status.CanTransitionTo(models.StatusCancelled) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only scheduled or rescheduled appointments can be cancelled"})
		return
	}

	now := time.Now()
	appointment.Status = models.StatusCancelled
	appointment.CancelledBy = string(role)
	appointment.CancelReason = strings.TrimSpace(request.Reason)
	appointment.CancelledAt = &now

	var refund float64
	err := configuration.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(appointment).Error; err != nil {
			return err
		}

		var payment models.Payment
		err := tx.Where("appointment_id = ?", appointment.AppointmentID).First(&payment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		switch payment.Status {
		case models.PaymentPaid:
			// Refund applicable for online payments
			if !strings.EqualFold(payment.Method, "online") {
				return nil
			}
			refund = payment.Amount * 0.95
			payment.Status = models.PaymentRefunded
			if err := tx.Save(&payment).Error; err != nil {
				return err
			}
			return creditWallet(tx, appointment.PatientID, refund)
		case models.PaymentPending:
			// A pending payment is never going to be collected
			payment.Status = models.PaymentFailed
			return tx.Save(&payment).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel appointment"})
		return
	}

	notifyAppointmentAsync("cancelled", *appointment)
	triggerAppointmentUpdateAsync(*appointment)

	response := gin.H{"appointment": appointment}
	if refund > 0 {
		response["refundAmount"] = refund
	}
	c.JSON(http.StatusOK, response)
}

type completeAppointmentRequest struct {
	ConsultationFee float64 `json:"consultationFee"`
	IsPaid          bool    `json:"isPaid"`
	PaymentMethod   string  `json:"paymentMethod"`
	Prescription    string  `json:"prescription"`
}

// CompleteAppointment flips a scheduled appointment to COMPLETED and
// creates the payment record in the same transaction.
func CompleteAppointment(c *gin.Context) {
	role := currentRole(c)
	if !role.CanComplete() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only a doctor or admin can complete appointments"})
		return
	}

	var request completeAppointmentRequest
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.ConsultationFee <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Consultation fee must be positive"})
		return
	}

	appointment, ok := findAppointment(c)
	if !ok {
		return
	}
	if !appointment.Status.CanTransitionTo(models.StatusCompleted) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only scheduled appointments can be completed"})
		return
	}

	now := time.Now()
	paymentStatus := models.PaymentPending
	var paidAt *time.Time
	if request.IsPaid {
		paymentStatus = models.PaymentPaid
		paidAt = &now
	}

	appointment.Status = models.StatusCompleted
	appointment.PaymentStatus = paymentStatus

	payment := models.Payment{
		AppointmentID: appointment.AppointmentID,
		DoctorID:      uint(appointment.DoctorID),
		PatientID:     appointment.PatientID,
		Amount:        request.ConsultationFee,
		Method:        request.PaymentMethod,
		Status:        paymentStatus,
		PaidAt:        paidAt,
	}

	err := configuration.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(appointment).Error; err != nil {
			return err
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		if request.Prescription != "" {
			prescription := models.Prescription{
				DoctorID:         uint(appointment.DoctorID),
				PatientID:        appointment.PatientID,
				AppointmentID:    appointment.AppointmentID,
				HealthIssue:      appointment.Symptoms,
				PrescriptionText: request.Prescription,
			}
			return tx.Create(&prescription).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete appointment"})
		return
	}

	notifyAppointmentAsync("completed", *appointment)
	triggerAppointmentUpdateAsync(*appointment)
	emailReceiptAsync(*appointment, payment)

	c.JSON(http.StatusOK, gin.H{
		"appointment": appointment,
		"payment":     payment,
	})
}

type rescheduleAppointmentRequest struct {
	NewDate string `json:"newDate" binding:"required"`
	NewTime string `json:"newTime" binding:"required"`
}

// RescheduleAppointment moves a non-cancelled appointment to a new slot.
// The original date and time are kept from the first reschedule only.
func RescheduleAppointment(c *gin.Context) {
	role := currentRole(c)
	if !role.CanReschedule() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only a doctor or admin can reschedule appointments"})
		return
	}

	var request rescheduleAppointmentRequest
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newDate, err := parseISODate(request.NewDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid new date"})
		return
	}
	offset, err := minuteOffset(request.NewTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid new time"})
		return
	}

	dayStart, dayEnd := dayBounds(newDate)
	if !dayStart.Add(time.Duration(offset) * time.Minute).After(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New date must be in the future"})
		return
	}

	appointment, ok := findAppointment(c)
	if !ok {
		return
	}
	if !appointment.Status.CanTransitionTo(models.StatusRescheduled) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cancelled appointments cannot be rescheduled"})
		return
	}

	err = configuration.DB.Transaction(func(tx *gorm.DB) error {
		// Respect the slot capacity of the new day's schedule when one
		// exists; without a schedule a slot holds a single appointment.
		capacity := 1
		var schedule models.DoctorSchedule
		err := lockForUpdate(tx).
			Where("doctor_id = ? AND date >= ? AND date < ? AND is_active = ?", appointment.DoctorID, dayStart, dayEnd, true).
			First(&schedule).Error
		if err == nil {
			capacity = slotCapacity(schedule)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		count, err := slotOccupancy(tx, appointment.DoctorID, newDate, request.NewTime, appointment.AppointmentID)
		if err != nil {
			return err
		}
		if count >= int64(capacity) {
			return errSlotConflict
		}

		if appointment.OriginalAppointmentDate == nil {
			original := appointment.AppointmentDate
			appointment.OriginalAppointmentDate = &original
			appointment.OriginalAppointmentTime = appointment.AppointmentTime
		}

		now := time.Now()
		appointment.AppointmentDate = dayStart
		appointment.AppointmentTime = request.NewTime
		appointment.Status = models.StatusRescheduled
		appointment.RescheduledBy = string(role)
		appointment.RescheduledAt = &now

		return tx.Save(appointment).Error
	})
	if err != nil {
		if errors.Is(err, errSlotConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "The new time slot is already booked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reschedule appointment"})
		return
	}

	notifyAppointmentAsync("rescheduled", *appointment)
	triggerAppointmentUpdateAsync(*appointment)

	c.JSON(http.StatusOK, gin.H{"appointment": appointment})
}
