package models

import "time"

const (
	PaymentPaid     = "PAID"
	PaymentPending  = "PENDING"
	PaymentFailed   = "FAILED"
	PaymentRefunded = "REFUNDED"
)

// Payment is created when an appointment is completed. One payment per
// appointment.
type Payment struct {
	PaymentID     uint       `gorm:"primaryKey" json:"id"`
	AppointmentID int        `gorm:"uniqueIndex;not null" json:"appointmentId"`
	DoctorID      uint       `gorm:"not null" json:"doctorId"`
	PatientID     int        `gorm:"not null" json:"patientId"`
	Amount        float64    `gorm:"not null" json:"amount"`
	Method        string     `json:"method,omitempty"`
	Status        string     `gorm:"not null" json:"status"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

type RazorPay struct {
	RazorPaymentID  string  `json:"razorpaymentID" gorm:"primaryKey"`
	RazorPayorderID string  `json:"razorpayorderID"`
	PaymentID       uint    `json:"payment_id"`
	AmountPaid      float64 `json:"amount_paid"`
}
