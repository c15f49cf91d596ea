package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-connect/configuration"
	"clinic-connect/models"
)

// listDoctors runs a filtered doctor query and renders the standard list
// response. An empty filter lists everyone.
func listDoctors(c *gin.Context, fetchError, successMessage string, query interface{}, args ...interface{}) {
	var doctors []models.Doctor

	tx := configuration.DB
	if query != nil {
		tx = tx.Where(query, args...)
	}
	if err := tx.Find(&doctors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fetchError})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": successMessage,
		"data":    doctors,
	})
}

func ViewVerifiedDoctors(c *gin.Context) {
	listDoctors(c, "Error while fetching verified Doctors",
		"Verified doctors list fetched successfully",
		"verified = ?", "true")
}

func ViewNotVerifiedDoctors(c *gin.Context) {
	listDoctors(c, "Error while fetching Doctors list",
		"Doctors list fetched successfully",
		"verified = ?", "false")
}

func ViewVerifiedApprovedDoctors(c *gin.Context) {
	listDoctors(c, "Error while fetching verified and approved Doctors",
		"Verified and approved doctors list fetched successfully",
		"verified = ? AND approved = ?", "true", "true")
}

func ViewVerifiedNotApprovedDoctors(c *gin.Context) {
	listDoctors(c, "Error while fetching pending Doctors",
		"Doctors pending approval fetched successfully",
		"verified = ? AND approved = ?", "true", "false")
}

func ViewDoctors(c *gin.Context) {
	listDoctors(c, "Doctors not found", "Doctors list fetched successfully", nil)
}

// UpdateDoctor lets an admin edit a doctor row, including the verified and
// approved flags that gate login and booking.
func UpdateDoctor(c *gin.Context) {
	var doctor models.Doctor
	if err := configuration.DB.First(&doctor, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"Error": "No doctor with this ID"})
		return
	}

	if err := c.BindJSON(&doctor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"Error": err.Error()})
		return
	}
	if err := configuration.DB.Save(&doctor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"Error": err.Error()})
		return
	}

	// Stale cached copies would keep serving the old approval flags
	clearDoctorCache(doctor.DoctorID)

	go func(doctor models.Doctor) {
		defer func() {
			if r := recover(); r != nil {
				log.Println("Recovered doctor update email panic:", r)
			}
		}()
		if err := SendEmailToDoctor(doctor); err != nil {
			log.Println("Failed to send doctor update email:", err)
		}
	}(doctor)

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"message": "Doctor details have been updated successfully",
		"data":    doctor,
	})
}

func SendEmailToDoctor(doctor models.Doctor) error {
	subject := "Your details have been updated"
	body := fmt.Sprintf("Hello %s,\n\nYour details have been successfully updated.\n\nUpdated details:\nName: %s\nSpecialization: %s\nEmail: %s\nPhone: %s\nLicense Number: %s\nVerified: %s\nApproved: %s\n",
		doctor.Name, doctor.Name, doctor.Specialization, doctor.Email, doctor.Phone, doctor.LicenseNumber, doctor.Verified, doctor.Approved)

	return SendEmail(subject, doctor.Email, body)
}

func GetDoctorByID(c *gin.Context) {
	var doctor models.Doctor
	if err := configuration.DB.First(&doctor, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"Error": "Couldn't Get doctor details"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Doctor details fetched successfully",
		"data":    doctor,
	})
}

// GetDoctorBySpeciality lists doctors in one specialization for patients
// choosing who to book with.
func GetDoctorBySpeciality(c *gin.Context) {
	var doctors []models.Doctor
	speciality := c.Param("specialization")

	if err := configuration.DB.Where("specialization = ?", speciality).Find(&doctors).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No doctors found with the specified speciality"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"Error":   "Couldn't Get doctors details",
			"details": err.Error(),
		})
		return
	}
	if len(doctors) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No doctors found with the specified speciality"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Doctors list fetched successfully",
		"data":    doctors,
	})
}
