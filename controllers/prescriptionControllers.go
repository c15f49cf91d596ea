package controllers

import (
	"bytes"
	"clinic-connect/configuration"
	"clinic-connect/models"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
)

type addPrescriptionRequest struct {
	AppointmentID    int    `json:"appointment_id" binding:"required"`
	PrescriptionText string `json:"prescription_text" binding:"required"`
}

// AddPrescription attaches a prescription to a completed appointment of
// the authenticated doctor. An appointment holds at most one.
func AddPrescription(c *gin.Context) {
	var request addPrescriptionRequest
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doctorID, ok := currentDoctorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	var appointment models.Appointment
	if err := configuration.DB.
		Where("appointment_id = ? AND doctor_id = ?", request.AppointmentID, doctorID).
		First(&appointment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No appointment found for the doctor"})
		return
	}
	if appointment.Status != models.StatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prescriptions can only be added to completed appointments"})
		return
	}

	var existing models.Prescription
	if err := configuration.DB.Where("appointment_id = ?", appointment.AppointmentID).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prescription already added for this appointment"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check prescription"})
		return
	}

	prescription := models.Prescription{
		DoctorID:         doctorID,
		PatientID:        appointment.PatientID,
		AppointmentID:    appointment.AppointmentID,
		HealthIssue:      appointment.Symptoms,
		PrescriptionText: request.PrescriptionText,
	}
	if err := configuration.DB.Create(&prescription).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add prescription"})
		return
	}

	emailPrescriptionAsync(appointment, prescription)

	c.JSON(http.StatusOK, gin.H{
		"Status":       "Success",
		"Message":      "Prescription added successfully",
		"prescription": prescription,
	})
}

// GetMyPrescriptions lists the prescriptions of the authenticated patient
func GetMyPrescriptions(c *gin.Context) {
	patientID, ok := currentPatientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Patient not authenticated"})
		return
	}

	var prescriptions []models.Prescription
	if err := configuration.DB.
		Where("patient_id = ?", patientID).
		Order("created_at desc").
		Find(&prescriptions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prescriptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"prescriptions": prescriptions})
}

func emailPrescriptionAsync(appointment models.Appointment, prescription models.Prescription) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Println("Recovered prescription email panic:", r)
			}
		}()

		doctor, err := getDoctor(prescription.DoctorID)
		if err != nil {
			log.Println("Failed to fetch doctor for prescription email:", err)
			return
		}
		var patient models.Patient
		if err := configuration.DB.Where("patient_id = ?", prescription.PatientID).First(&patient).Error; err != nil {
			log.Println("Failed to fetch patient for prescription email:", err)
			return
		}

		pdfData, err := GeneratePrescriptionPDF(appointment, *doctor, patient, prescription)
		if err != nil {
			log.Println("Failed to generate prescription PDF:", err)
			return
		}
		if err := SendDocumentEmail("Prescription attachment", patient.Email, "Your prescription is attached.", "prescription.pdf", pdfData); err != nil {
			log.Println("Failed to send prescription email:", err)
		}
	}()
}

// Generates a professional PDF prescription
func GeneratePrescriptionPDF(appointment models.Appointment, doctor models.Doctor, patient models.Patient, prescription models.Prescription) ([]byte, error) {
	// Initialize PDF document
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Set font and font size
	pdf.SetFont("Arial", "B", 14)

	// Title
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Doctor Prescription", "", 1, "C", false, 0, "")

	// Doctor details section
	pdf.SetFont("Arial", "B", 12)
	addPrescriptionDetail(pdf, "Doctor Name:", doctor.Name, true)
	addPrescriptionDetail(pdf, "Specialization:", doctor.Specialization, false)

	// Patient details section
	pdf.SetFont("Arial", "B", 12)
	pdf.SetY(pdf.GetY() + 10)
	addPrescriptionDetail(pdf, "Patient Name:", patient.Name, true)
	addPrescriptionDetail(pdf, "Age:", patient.Age, false)
	addPrescriptionDetail(pdf, "Gender:", patient.Gender, false)

	// Appointment details section
	pdf.SetFont("Arial", "B", 12)
	pdf.SetY(pdf.GetY() + 10)
	addPrescriptionDetail(pdf, "Appointment Date:", appointment.AppointmentDate.Format("2006-01-02"), true)
	addPrescriptionDetail(pdf, "Time Slot:", appointment.AppointmentTime, false)

	// Prescription details section
	pdf.SetFont("Arial", "B", 12)
	pdf.SetY(pdf.GetY() + 10)
	addPrescriptionDetail(pdf, "Prescription ID:", fmt.Sprintf("%d", prescription.ID), true)
	addPrescriptionDetail(pdf, "Health Issue:", prescription.HealthIssue, false)
	addPrescriptionDetail(pdf, "Instructions:", prescription.PrescriptionText, false)

	// Prescription note
	pdf.SetFont("Arial", "", 10)
	pdf.SetY(pdf.GetY() + 10)
	pdf.MultiCell(0, 5, "Follow the instructions given by the doctor properly. Your health is all that matters!", "", "C", false)

	// Output PDF to buffer
	var pdfBuffer bytes.Buffer
	err := pdf.Output(&pdfBuffer)
	if err != nil {
		return nil, err
	}

	return pdfBuffer.Bytes(), nil
}

// addPrescriptionDetail adds a detail line to the PDF
func addPrescriptionDetail(pdf *gofpdf.Fpdf, label, value string, isHeader bool) {
	if isHeader {
		pdf.SetFont("Arial", "B", 12)
	} else {
		pdf.SetFont("Arial", "", 12)
	}
	pdf.CellFormat(0, 10, label, "", 1, "", false, 0, "")
	pdf.CellFormat(0, 10, value, "", 1, "", false, 0, "")
}
