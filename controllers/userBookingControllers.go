package controllers

import (
	"clinic-connect/configuration"
	"clinic-connect/models"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errSlotConflict = errors.New("slot already booked")

// Function to GetAvailableTimeSlots
func GetAvailableTimeSlots(c *gin.Context) {
	doctorID := c.Param("doctor_id")
	dateStr := c.Query("date")

	// Parse date string into time.Time object
	date, err := parseISODate(dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	today, _ := dayBounds(time.Now())
	dayStart, dayEnd := dayBounds(date)

	// Check if the specified date is before the current date
	if dayStart.Before(today) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date cannot be in the past"})
		return
	}

	// Query database for the doctor's schedule on the specified date
	var schedule models.DoctorSchedule
	err = configuration.DB.
		Where("doctor_id = ? AND date >= ? AND date < ? AND is_active = ?", doctorID, dayStart, dayEnd, true).
		First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"slots":   []string{},
				"message": "The doctor has no schedule for this date",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve schedule"})
		return
	}

	slots := generateSlots(schedule.StartTime, schedule.EndTime, schedule.SlotDuration, schedule.BreakStartTime, schedule.BreakEndTime)

	// For today only strictly-future slots remain
	if dayStart.Equal(today) {
		slots = filterElapsedSlots(slots, time.Now())
		if len(slots) == 0 {
			c.JSON(http.StatusOK, gin.H{
				"slots":          []string{},
				"message":        "closed for today",
				"closedForToday": true,
			})
			return
		}
	}

	// Query database for existing bookings for the doctor on the specified date
	var bookings []models.Appointment
	if err := configuration.DB.
		Where("doctor_id = ? AND appointment_date >= ? AND appointment_date < ? AND status <> ?",
			doctorID, dayStart, dayEnd, models.StatusCancelled).
		Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bookings"})
		return
	}

	// Occupancy per time label
	booked := make(map[string]int)
	for _, booking := range bookings {
		booked[booking.AppointmentTime]++
	}

	// Filter out time labels whose slot capacity is exhausted
	capacity := slotCapacity(schedule)
	openSlots := make([]string, 0, len(slots))
	for _, slot := range slots {
		if booked[slot] < capacity {
			openSlots = append(openSlots, slot)
		}
	}

	if len(openSlots) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"slots":   openSlots,
			"message": "All slots for this date are fully booked",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"slots": openSlots,
	})
}

// minuteOffset converts an HH:MM label into minutes since midnight.
func minuteOffset(label string) (int, error) {
	t, err := time.Parse("15:04", label)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// generateSlots produces the ordered time labels from startTime stepping
// by slotDuration, stopping strictly before endTime. Labels inside
// [breakStart, breakEnd) are skipped. A ragged final slot that would
// cross endTime is never emitted.
func generateSlots(startTime, endTime string, slotDuration int, breakStart, breakEnd string) []string {
	start, err := minuteOffset(startTime)
	if err != nil {
		return nil
	}
	end, err := minuteOffset(endTime)
	if err != nil {
		return nil
	}
	if slotDuration <= 0 || end <= start {
		return nil
	}

	breakFrom, breakTo := -1, -1
	if breakStart != "" && breakEnd != "" {
		if from, err := minuteOffset(breakStart); err == nil {
			if to, err := minuteOffset(breakEnd); err == nil {
				breakFrom, breakTo = from, to
			}
		}
	}

	slots := make([]string, 0, (end-start)/slotDuration)
	for m := start; m+slotDuration <= end; m += slotDuration {
		if breakFrom >= 0 && m >= breakFrom && m < breakTo {
			continue
		}
		slots = append(slots, formatMinutes(m))
	}
	return slots
}

// filterElapsedSlots drops labels whose minute-offset is not strictly
// after the current minute-offset of now.
func filterElapsedSlots(slots []string, now time.Time) []string {
	nowOffset := now.Hour()*60 + now.Minute()
	remaining := make([]string, 0, len(slots))
	for _, slot := range slots {
		offset, err := minuteOffset(slot)
		if err != nil {
			continue
		}
		if offset > nowOffset {
			remaining = append(remaining, slot)
		}
	}
	return remaining
}

func slotCapacity(schedule models.DoctorSchedule) int {
	if schedule.MaxPatientsPerSlot < 1 {
		return 1
	}
	return schedule.MaxPatientsPerSlot
}

// slotOccupancy counts non-cancelled appointments holding the given
// (date, time) slot, optionally excluding one appointment id.
func slotOccupancy(tx *gorm.DB, doctorID int, date time.Time, timeSlot string, excludeID int) (int64, error) {
	dayStart, dayEnd := dayBounds(date)
	query := tx.Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_date >= ? AND appointment_date < ? AND appointment_time = ? AND status <> ?",
			doctorID, dayStart, dayEnd, timeSlot, models.StatusCancelled)
	if excludeID != 0 {
		query = query.Where("appointment_id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// lockForUpdate serializes concurrent bookings of one schedule through a
// row lock. The sqlite database used by the tests has no row locks and
// serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

type bookAppointmentRequest struct {
	DoctorID        int    `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate" binding:"required"`
	AppointmentTime string `json:"appointmentTime" binding:"required"`
	Symptoms        string `json:"symptoms" binding:"required"`
	Notes           string `json:"notes"`
}

// Book appointment func
func BookAppointment(c *gin.Context) {
	var request bookAppointmentRequest
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patientID, ok := currentPatientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Patient not authenticated"})
		return
	}

	date, err := parseISODate(request.AppointmentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment date"})
		return
	}
	if _, err := minuteOffset(request.AppointmentTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment time"})
		return
	}

	today, _ := dayBounds(time.Now())
	dayStart, dayEnd := dayBounds(date)

	// Check if the appointment date is in the past
	if dayStart.Before(today) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Appointment date cannot be in the past"})
		return
	}

	// The clinic's single-doctor booking form omits the doctor; fall
	// back to the default doctor in that case.
	doctorID := request.DoctorID
	if doctorID == 0 {
		id, err := defaultDoctorID()
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No doctor available"})
			return
		}
		doctorID = int(id)
	}

	doctor, err := getDoctor(uint(doctorID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}
	if doctor.Approved != "true" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}

	// Check if the patient exists
	var patient models.Patient
	if err := configuration.DB.Where("patient_id = ?", patientID).First(&patient).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wrong patient ID"})
		return
	}

	// The requested time label must be one of the schedule's slots
	var schedule models.DoctorSchedule
	if err := configuration.DB.
		Where("doctor_id = ? AND date >= ? AND date < ? AND is_active = ?", doctorID, dayStart, dayEnd, true).
		First(&schedule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "The doctor has no schedule for this date"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve schedule"})
		return
	}

	slots := generateSlots(schedule.StartTime, schedule.EndTime, schedule.SlotDuration, schedule.BreakStartTime, schedule.BreakEndTime)
	if dayStart.Equal(today) {
		slots = filterElapsedSlots(slots, time.Now())
	}
	if !containsSlot(slots, request.AppointmentTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Appointment time slot not available"})
		return
	}

	booking := models.Appointment{
		PatientID:       patientID,
		DoctorID:        doctorID,
		PatientEmail:    patient.Email,
		AppointmentDate: dayStart,
		AppointmentTime: request.AppointmentTime,
		Symptoms:        request.Symptoms,
		Notes:           request.Notes,
		Status:          models.StatusPending,
	}

	// The conflict check and the insert share one transaction holding
	// the schedule row lock, so two requests for the last opening of a
	// slot cannot both win.
	err = configuration.DB.Transaction(func(tx *gorm.DB) error {
		var locked models.DoctorSchedule
		if err := lockForUpdate(tx).Where("id = ?", schedule.ID).First(&locked).Error; err != nil {
			return err
		}

		count, err := slotOccupancy(tx, doctorID, date, request.AppointmentTime, 0)
		if err != nil {
			return err
		}
		if count >= int64(slotCapacity(locked)) {
			return errSlotConflict
		}

		return tx.Create(&booking).Error
	})
	if err != nil {
		if errors.Is(err, errSlotConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Another appointment has already been booked for the same date and time slot with the doctor"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to book appointment"})
		return
	}

	notifyAppointmentAsync("requested", booking)
	triggerAppointmentUpdateAsync(booking)

	c.JSON(http.StatusCreated, gin.H{
		"appointment": booking,
	})
}

func containsSlot(slots []string, timeSlot string) bool {
	for _, slot := range slots {
		if slot == timeSlot {
			return true
		}
	}
	return false
}
