package models

import "time"

// DoctorSchedule is the working window of a doctor on a single calendar
// date. Removed schedules are soft-deleted by flipping IsActive.
type DoctorSchedule struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	DoctorID           uint      `gorm:"index" json:"doctorId"`
	Date               time.Time `json:"date"`
	StartTime          string    `json:"startTime"`
	EndTime            string    `json:"endTime"`
	BreakStartTime     string    `json:"breakStartTime,omitempty"`
	BreakEndTime       string    `json:"breakEndTime,omitempty"`
	SlotDuration       int       `json:"slotDuration"`
	MaxPatientsPerSlot int       `json:"maxPatientsPerSlot"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
