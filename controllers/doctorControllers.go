package controllers

import (
	"clinic-connect/configuration"
	"clinic-connect/models"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DoctorLogout
func DoctorLogout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "You are successfully logged out"})
}

type saveScheduleRequest struct {
	DoctorID           uint   `json:"doctorId"`
	Date               string `json:"date" binding:"required"`
	StartTime          string `json:"startTime" binding:"required"`
	EndTime            string `json:"endTime" binding:"required"`
	BreakStartTime     string `json:"breakStartTime"`
	BreakEndTime       string `json:"breakEndTime"`
	SlotDuration       int    `json:"slotDuration" binding:"required"`
	MaxPatientsPerSlot int    `json:"maxPatientsPerSlot"`
}

// validateScheduleWindow checks the time labels of a schedule make a
// usable working window.
func validateScheduleWindow(request saveScheduleRequest) error {
	start, err := minuteOffset(request.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start time %q", request.StartTime)
	}
	end, err := minuteOffset(request.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end time %q", request.EndTime)
	}
	if end <= start {
		return errors.New("end time must be after start time")
	}
	if request.SlotDuration <= 0 {
		return errors.New("slot duration must be positive")
	}
	if request.MaxPatientsPerSlot < 0 {
		return errors.New("max patients per slot cannot be negative")
	}
	if (request.BreakStartTime == "") != (request.BreakEndTime == "") {
		return errors.New("break start and end must be set together")
	}
	if request.BreakStartTime != "" {
		breakFrom, err := minuteOffset(request.BreakStartTime)
		if err != nil {
			return fmt.Errorf("invalid break start time %q", request.BreakStartTime)
		}
		breakTo, err := minuteOffset(request.BreakEndTime)
		if err != nil {
			return fmt.Errorf("invalid break end time %q", request.BreakEndTime)
		}
		if breakTo <= breakFrom {
			return errors.New("break end must be after break start")
		}
		if breakFrom < start || breakTo > end {
			return errors.New("break must fall inside the working window")
		}
	}
	return nil
}

// scheduleTarget resolves which doctor a schedule request acts on. A
// doctor always acts on their own schedule, an admin names the doctor.
func scheduleTarget(c *gin.Context, requested uint) (uint, bool) {
	role := currentRole(c)
	if role == models.RoleDoctor {
		doctorID, ok := currentDoctorID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
			return 0, false
		}
		return doctorID, true
	}
	if role == models.RoleAdmin {
		if requested == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "doctorId is required"})
			return 0, false
		}
		return requested, true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "Only the doctor or an admin can manage schedules"})
	return 0, false
}

// SaveSchedule creates the working window of a doctor for one date
func SaveSchedule(c *gin.Context) {
	var request saveScheduleRequest
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doctorID, ok := scheduleTarget(c, request.DoctorID)
	if !ok {
		return
	}

	date, err := parseISODate(request.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}
	if err := validateScheduleWindow(request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Check if doctor exists and is approved
	doctor, err := getDoctor(doctorID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor id not found"})
		return
	}
	if doctor.Approved != "true" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}

	dayStart, dayEnd := dayBounds(date)

	// Check if an active schedule for the given date already exists
	var existing models.DoctorSchedule
	if err := configuration.DB.
		Where("doctor_id = ? AND date >= ? AND date < ? AND is_active = ?", doctorID, dayStart, dayEnd, true).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Schedule already exists for this date"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check schedule"})
		return
	}

	schedule := models.DoctorSchedule{
		DoctorID:           doctorID,
		Date:               dayStart,
		StartTime:          request.StartTime,
		EndTime:            request.EndTime,
		BreakStartTime:     request.BreakStartTime,
		BreakEndTime:       request.BreakEndTime,
		SlotDuration:       request.SlotDuration,
		MaxPatientsPerSlot: request.MaxPatientsPerSlot,
		IsActive:           true,
	}
	if schedule.MaxPatientsPerSlot == 0 {
		schedule.MaxPatientsPerSlot = 1
	}

	if err := configuration.DB.Create(&schedule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

// findOwnedSchedule loads a schedule and enforces that the caller may
// mutate it.
func findOwnedSchedule(c *gin.Context) (*models.DoctorSchedule, bool) {
	var schedule models.DoctorSchedule
	if err := configuration.DB.First(&schedule, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return nil, false
	}

	role := currentRole(c)
	doctorID, _ := currentDoctorID(c)
	if !role.CanManageSchedule(doctorID != 0 && doctorID == schedule.DoctorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot modify this schedule"})
		return nil, false
	}
	return &schedule, true
}

type updateScheduleRequest struct {
	StartTime          *string `json:"startTime"`
	EndTime            *string `json:"endTime"`
	BreakStartTime     *string `json:"breakStartTime"`
	BreakEndTime       *string `json:"breakEndTime"`
	SlotDuration       *int    `json:"slotDuration"`
	MaxPatientsPerSlot *int    `json:"maxPatientsPerSlot"`
}

// UpdateSchedule changes the working window of an existing schedule
func UpdateSchedule(c *gin.Context) {
	schedule, ok := findOwnedSchedule(c)
	if !ok {
		return
	}

	var request updateScheduleRequest
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if request.StartTime != nil {
		schedule.StartTime = *request.StartTime
	}
	if request.EndTime != nil {
		schedule.EndTime = *request.EndTime
	}
	if request.BreakStartTime != nil {
		schedule.BreakStartTime = *request.BreakStartTime
	}
	if request.BreakEndTime != nil {
		schedule.BreakEndTime = *request.BreakEndTime
	}
	if request.SlotDuration != nil {
		schedule.SlotDuration = *request.SlotDuration
	}
	if request.MaxPatientsPerSlot != nil {
		schedule.MaxPatientsPerSlot = *request.MaxPatientsPerSlot
	}

	check := saveScheduleRequest{
		Date:               schedule.Date.Format("2006-01-02"),
		StartTime:          schedule.StartTime,
		EndTime:            schedule.EndTime,
		BreakStartTime:     schedule.BreakStartTime,
		BreakEndTime:       schedule.BreakEndTime,
		SlotDuration:       schedule.SlotDuration,
		MaxPatientsPerSlot: schedule.MaxPatientsPerSlot,
	}
	if err := validateScheduleWindow(check); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := configuration.DB.Save(schedule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

// RemoveSchedule soft-deletes a schedule by flipping its active flag
func RemoveSchedule(c *gin.Context) {
	schedule, ok := findOwnedSchedule(c)
	if !ok {
		return
	}

	if err := configuration.DB.Model(schedule).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Schedule removed"})
}

// ViewSchedules lists a doctor's schedules ordered by date
func ViewSchedules(c *gin.Context) {
	role := currentRole(c)

	var doctorID uint
	if role == models.RoleDoctor {
		id, ok := currentDoctorID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
			return
		}
		doctorID = id
	}

	query := configuration.DB.Order("date")
	if doctorID != 0 {
		query = query.Where("doctor_id = ?", doctorID)
	} else if requested := c.Query("doctor_id"); requested != "" {
		query = query.Where("doctor_id = ?", requested)
	}

	var schedules []models.DoctorSchedule
	if err := query.Find(&schedules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

// GetDoctorAppointmentsByDate lists the doctor's non-cancelled
// appointments for a single day
func GetDoctorAppointmentsByDate(c *gin.Context) {
	doctorID, ok := currentDoctorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	dateStr := c.Query("date")
	date, err := parseISODate(dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}
	dayStart, dayEnd := dayBounds(date)

	var appointments []models.Appointment
	if err := configuration.DB.
		Where("doctor_id = ? AND appointment_date >= ? AND appointment_date < ? AND status <> ?",
			doctorID, dayStart, dayEnd, models.StatusCancelled).
		Order("appointment_time").
		Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         dateStr,
		"appointments": appointments,
	})
}

// GetAppHistory lists every appointment of the authenticated doctor
func GetAppHistory(c *gin.Context) {
	doctorID, ok := currentDoctorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	var appointments []models.Appointment
	if err := configuration.DB.
		Where("doctor_id = ?", doctorID).
		Order("appointment_date desc").
		Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointment history"})
		return
	}
	if len(appointments) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No history found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Appointment history fetched successfully",
		"data":    appointments,
	})
}
