package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "PENDING"
	StatusScheduled   AppointmentStatus = "SCHEDULED"
	StatusRescheduled AppointmentStatus = "RESCHEDULED"
	StatusCompleted   AppointmentStatus = "COMPLETED"
	StatusCancelled   AppointmentStatus = "CANCELLED"
	StatusDeclined    AppointmentStatus = "DECLINED"
)

// legalTransitions lists the next states reachable from each status.
// Rescheduling is handled separately because it is allowed from every
// non-cancelled state.
var legalTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:     {StatusScheduled, StatusDeclined},
	StatusScheduled:   {StatusCompleted, StatusCancelled},
	StatusRescheduled: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether the status machine allows moving from s to next.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if next == StatusRescheduled {
		return s != StatusCancelled
	}
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further status change is allowed.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusDeclined || s == StatusCompleted
}

type Appointment struct {
	AppointmentID   int               `gorm:"primaryKey" json:"id"`
	PatientID       int               `json:"patientId"`
	DoctorID        int               `json:"doctorId"`
	PatientEmail    string            `json:"email"`
	AppointmentDate time.Time         `json:"appointmentDate"`
	AppointmentTime string            `json:"appointmentTime"`
	Symptoms        string            `json:"symptoms"`
	Notes           string            `json:"notes,omitempty"`
	Status          AppointmentStatus `gorm:"index" json:"status"`
	PaymentStatus   string            `json:"paymentStatus,omitempty"`

	ApprovedBy string     `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`

	DeclinedBy    string     `json:"declinedBy,omitempty"`
	DeclineReason string     `json:"declineReason,omitempty"`
	DeclinedAt    *time.Time `json:"declinedAt,omitempty"`

	CancelledBy  string     `json:"cancelledBy,omitempty"`
	CancelReason string     `json:"cancelReason,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`

	RescheduledBy string     `json:"rescheduledBy,omitempty"`
	RescheduledAt *time.Time `json:"rescheduledAt,omitempty"`

	// Set on the first reschedule only, never overwritten afterwards.
	OriginalAppointmentDate *time.Time `json:"originalAppointmentDate,omitempty"`
	OriginalAppointmentTime string     `json:"originalAppointmentTime,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
