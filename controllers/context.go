package controllers

import (
	"time"

	"clinic-connect/models"

	"github.com/gin-gonic/gin"
)

// currentRole returns the normalized role the auth middleware stored on
// the request, or "" when the request carries no usable role.
func currentRole(c *gin.Context) models.Role {
	value, ok := c.Get("role")
	if !ok {
		return ""
	}
	raw, ok := value.(string)
	if !ok {
		return ""
	}
	role, err := models.ParseRole(raw)
	if err != nil {
		return ""
	}
	return role
}

func currentPatientID(c *gin.Context) (int, bool) {
	value, ok := c.Get("patientID")
	if !ok {
		return 0, false
	}
	id, ok := value.(int)
	return id, ok
}

func currentDoctorID(c *gin.Context) (uint, bool) {
	value, ok := c.Get("doctor_id")
	if !ok {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// dayBounds returns the [start, end) range covering the calendar day of
// the given date. Stored appointment dates may carry time-of-day
// artifacts, so date matching always goes through this range.
func dayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}

// parseISODate accepts a plain calendar date or a full RFC3339 stamp.
// Plain dates anchor to the server's zone so that comparisons against
// dayBounds(time.Now()) stay within a single zone.
func parseISODate(value string) (time.Time, error) {
	if date, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return date, nil
	}
	return time.Parse(time.RFC3339, value)
}
