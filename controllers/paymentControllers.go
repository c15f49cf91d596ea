package controllers

import (
	"bytes"
	"clinic-connect/configuration"
	"clinic-connect/models"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/razorpay/razorpay-go"
	"gorm.io/gorm"
)

// GetPayments lists all payments for the admin dashboard
func GetPayments(c *gin.Context) {
	var payments []models.Payment
	if err := configuration.DB.Order("created_at desc").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error occurred while fetching payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

type payRequest struct {
	PaymentID uint `json:"payment_id" binding:"required"`
}

// findPendingPayment loads a payment that still awaits settlement.
func findPendingPayment(c *gin.Context, paymentID uint) (*models.Payment, bool) {
	var payment models.Payment
	if err := configuration.DB.Where("payment_id = ?", paymentID).First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return nil, false
	}
	if payment.Status == models.PaymentPaid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment already settled"})
		return nil, false
	}
	if payment.Status != models.PaymentPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment cannot be settled"})
		return nil, false
	}
	return &payment, true
}

// markPaymentPaid stamps the payment as settled with the given method.
func markPaymentPaid(tx *gorm.DB, payment *models.Payment, method string) error {
	now := time.Now()
	payment.Status = models.PaymentPaid
	payment.Method = method
	payment.PaidAt = &now
	return tx.Save(payment).Error
}

// PayOffline settles a pending payment in cash at the clinic desk
func PayOffline(c *gin.Context) {
	var request payRequest
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	payment, ok := findPendingPayment(c, request.PaymentID)
	if !ok {
		return
	}

	patientID, _ := currentPatientID(c)
	if patientID != payment.PatientID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot pay for this appointment"})
		return
	}

	if err := markPaymentPaid(configuration.DB, payment, "offline"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
		return
	}

	var appointment models.Appointment
	if err := configuration.DB.Where("appointment_id = ?", payment.AppointmentID).First(&appointment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointment"})
		return
	}
	appointment.PaymentStatus = models.PaymentPaid
	if err := configuration.DB.Save(&appointment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment status"})
		return
	}

	emailReceiptAsync(appointment, *payment)

	c.JSON(http.StatusOK, gin.H{
		"status":  "Success",
		"message": "Payment successful",
		"payment": payment,
	})
}

// MakePaymentOnline creates a razorpay order for a pending payment
func MakePaymentOnline(c *gin.Context) {
	paymentIDStr := c.Query("id")
	id, err := strconv.Atoi(paymentIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	payment, ok := findPendingPayment(c, uint(id))
	if !ok {
		return
	}

	// Convert amount to paisa (multiply by 100) for the RazorPay API
	amountInPaisa := payment.Amount * 100
	razorpayClient := razorpay.NewClient(os.Getenv("RazorPay_key_id"), os.Getenv("RazorPay_key_secret"))

	data := map[string]interface{}{
		"amount":   amountInPaisa,
		"currency": "INR",
		"receipt":  generateUniqueID(),
	}

	body, err := razorpayClient.Order.Create(data, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create razorpay order"})
		return
	}

	orderID, _ := body["id"].(string)

	razorpayment := models.RazorPay{
		RazorPaymentID:  generateUniqueID(),
		RazorPayorderID: orderID,
		PaymentID:       payment.PaymentID,
		AmountPaid:      payment.Amount,
	}
	if err := configuration.DB.Create(&razorpayment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create razor payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"paymentID": payment.PaymentID,
		"orderID":   orderID,
		"amount":    amountInPaisa,
		"currency":  "INR",
	})
}

// PaymentSuccess settles a payment after the razorpay checkout completes
func PaymentSuccess(c *gin.Context) {
	paymentIDStr := c.Query("id")
	id, err := strconv.Atoi(paymentIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	payment, ok := findPendingPayment(c, uint(id))
	if !ok {
		return
	}

	if err := markPaymentPaid(configuration.DB, payment, "online"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
		return
	}

	var appointment models.Appointment
	if err := configuration.DB.Where("appointment_id = ?", payment.AppointmentID).First(&appointment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointment"})
		return
	}
	appointment.PaymentStatus = models.PaymentPaid
	if err := configuration.DB.Save(&appointment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment status"})
		return
	}

	emailReceiptAsync(appointment, *payment)

	c.JSON(http.StatusOK, gin.H{
		"status":     "Success",
		"message":    "Payment successful",
		"amountPaid": payment.Amount,
		"paymentID":  payment.PaymentID,
	})
}

// generateUniqueID generates a unique ID using UUID
func generateUniqueID() string {
	return uuid.New().String()
}

func emailReceiptAsync(appointment models.Appointment, payment models.Payment) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Println("Recovered receipt email panic:", r)
			}
		}()

		if appointment.PatientEmail == "" {
			return
		}
		doctor, err := getDoctor(uint(appointment.DoctorID))
		if err != nil {
			log.Println("Failed to fetch doctor for receipt email:", err)
			return
		}
		var patient models.Patient
		if err := configuration.DB.Where("patient_id = ?", appointment.PatientID).First(&patient).Error; err != nil {
			log.Println("Failed to fetch patient for receipt email:", err)
			return
		}

		pdfData, err := GenerateReceiptPDF(appointment, payment, *doctor, patient)
		if err != nil {
			log.Println("Failed to generate receipt PDF:", err)
			return
		}

		subject := "Payment receipt"
		body := "Thank you for your visit. Your receipt is attached."
		if payment.Status == models.PaymentPending {
			subject = "Payment due"
			body = "Your consultation fee is due. The invoice is attached."
		}
		if err := SendDocumentEmail(subject, appointment.PatientEmail, body, "receipt.pdf", pdfData); err != nil {
			log.Println("Failed to send receipt email:", err)
		}
	}()
}

// GenerateReceiptPDF generates a PDF receipt for an appointment payment
func GenerateReceiptPDF(appointment models.Appointment, payment models.Payment, doctor models.Doctor, patient models.Patient) ([]byte, error) {
	// Initialize PDF document
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Set font and font size
	pdf.SetFont("Arial", "B", 14)

	// Title
	pdf.SetTextColor(128, 0, 128)
	pdf.CellFormat(0, 10, "Clinic Connect - Appointment Payment", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 7, "www.clinic-connect.example", "", 1, "C", false, 0, "")

	// Appointment details section
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Receipt", "1", 1, "C", false, 0, "")
	addReceiptDetail(pdf, "Receipt ID", fmt.Sprintf("%d", payment.PaymentID), true)
	addReceiptDetail(pdf, "Doctor Name", doctor.Name, true)
	addReceiptDetail(pdf, "Specialization", doctor.Specialization, true)
	addReceiptDetail(pdf, "Patient Name", patient.Name, true)
	addReceiptDetail(pdf, "Appointment ID", fmt.Sprintf("%d", appointment.AppointmentID), true)
	addReceiptDetail(pdf, "Appointment Date", appointment.AppointmentDate.Format("2006-01-02"), true)
	addReceiptDetail(pdf, "Time Slot", appointment.AppointmentTime, true)

	// Payment details section
	pdf.CellFormat(0, 10, "Payment Details", "1", 1, "C", false, 0, "")
	addReceiptDetail(pdf, "Appointment Status", string(appointment.Status), false)
	addReceiptDetail(pdf, "Payment Status", payment.Status, false)
	addReceiptDetail(pdf, "Payment Method", payment.Method, false)
	if payment.PaidAt != nil {
		addReceiptDetail(pdf, "Paid date", payment.PaidAt.Format("2006-01-02"), false)
	}
	pdf.SetFont("Arial", "B", 13)
	addReceiptDetail(pdf, "Grand Total", fmt.Sprintf("%.2f", payment.Amount), true)

	pdf.SetTextColor(0, 0, 0)
	if payment.Status == models.PaymentPending {
		pdf.CellFormat(0, 10, "Payment Instructions:", "", 1, "L", false, 0, "")
		pdf.MultiCell(0, 5, "To settle the consultation fee please pay online, from your wallet or at the clinic desk.", "", "L", false)
	}

	// Seal and signature section
	pdf.SetY(pdf.GetY() + 12)
	pdf.CellFormat(0, 10, "This is a computer generated receipt", "", 1, "R", false, 0, "")

	// Output PDF to buffer
	var pdfBuffer bytes.Buffer
	err := pdf.Output(&pdfBuffer)
	if err != nil {
		return nil, err
	}

	return pdfBuffer.Bytes(), nil
}

// addReceiptDetail adds a detail line to the PDF
func addReceiptDetail(pdf *gofpdf.Fpdf, label, value string, isHeader bool) {
	if isHeader {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(255, 255, 255)
	} else {
		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(240, 240, 240)
	}
	pdf.CellFormat(45, 10, label, "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 10, value, "1", 1, "", false, 0, "")
}
