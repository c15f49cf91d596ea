package controllers

import (
	"clinic-connect/configuration"
	"clinic-connect/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAppointmentHistory returns the signed-in patient's appointments
func GetAppointmentHistory(c *gin.Context) {
	patientID, ok := currentPatientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var appointmentHistory []models.Appointment
	if err := configuration.DB.Where("patient_id = ?", patientID).
		Order("appointment_date desc, appointment_time desc").
		Find(&appointmentHistory).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"Error":   "Couldn't Get appointment history",
			"details": err.Error(),
		})
		return
	}
	if len(appointmentHistory) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No history found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Appointment history fetched successfully",
		"data":    appointmentHistory,
	})
}
