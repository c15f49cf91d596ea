package controllers

import (
	"clinic-connect/configuration"
	"clinic-connect/models"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetBookingStatusCounts returns the total booking count plus a breakdown per
// appointment status.
func GetBookingStatusCounts(c *gin.Context) {
	var totalBookings int64
	if err := configuration.DB.Model(&models.Appointment{}).Count(&totalBookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"Error": "Failed to fetch total bookings"})
		return
	}

	counts := gin.H{
		"Status":        "Success",
		"Message":       "Booking details fetched successfully",
		"TotalBookings": totalBookings,
	}

	statuses := map[string]models.AppointmentStatus{
		"PendingBookings":     models.StatusPending,
		"ScheduledBookings":   models.StatusScheduled,
		"RescheduledBookings": models.StatusRescheduled,
		"CompletedBookings":   models.StatusCompleted,
		"CancelledBookings":   models.StatusCancelled,
		"DeclinedBookings":    models.StatusDeclined,
	}
	for key, status := range statuses {
		var count int64
		if err := configuration.DB.Model(&models.Appointment{}).Where("status = ?", status).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"Error": "Failed to fetch booking counts"})
			return
		}
		counts[key] = count
	}

	c.JSON(http.StatusOK, counts)
}

// GetDoctorWiseBookings aggregates booking counts and billed revenue per
// doctor over appointments that have a payment row.
func GetDoctorWiseBookings(c *gin.Context) {
	var doctorData []struct {
		DoctorID     int     `json:"doctor_id"`
		BookingCount int     `json:"booking_count"`
		TotalRevenue float64 `json:"total_revenue"`
	}

	err := configuration.DB.Table("appointments").
		Select("appointments.doctor_id, COUNT(*) as booking_count, SUM(payments.amount) as total_revenue").
		Joins("INNER JOIN payments ON appointments.appointment_id = payments.appointment_id").
		Group("appointments.doctor_id").
		Scan(&doctorData).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch doctor-wise data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "Doctor-wise data fetched successfully",
		"doctorData": doctorData,
	})
}

// GetDepartmentWiseBookings aggregates the same figures grouped by doctor
// specialization.
func GetDepartmentWiseBookings(c *gin.Context) {
	var departmentData []struct {
		Specialization string  `json:"specialization"`
		BookingCount   int     `json:"booking_count"`
		TotalRevenue   float64 `json:"total_revenue"`
	}

	err := configuration.DB.Table("appointments").
		Select("doctors.specialization as specialization, COUNT(*) as booking_count, SUM(payments.amount) as total_revenue").
		Joins("JOIN doctors ON appointments.doctor_id = doctors.doctor_id").
		Joins("JOIN payments ON appointments.appointment_id = payments.appointment_id").
		Group("doctors.specialization").
		Scan(&departmentData).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch department-wise data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"message":        "Department-wise data fetched successfully",
		"departmentData": departmentData,
	})
}

// Revenue holds totals for the standard reporting windows
type Revenue struct {
	Day   *float64 `json:"day"`
	Week  *float64 `json:"week"`
	Month *float64 `json:"month"`
	Year  *float64 `json:"year"`
}

// sumPaidBetween totals settled payments inside the window.
func sumPaidBetween(start, end time.Time, dest **float64) error {
	return configuration.DB.Model(&models.Payment{}).
		Select("SUM(amount) as total_revenue").
		Where("status = ?", models.PaymentPaid).
		Where("paid_at BETWEEN ? AND ?", start, end).
		Scan(dest).Error
}

// GetTotalRevenue reports settled revenue for the current day, week, month
// and year.
func GetTotalRevenue(c *gin.Context) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -int(now.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	var revenue Revenue
	windows := []struct {
		name       string
		start, end time.Time
		dest       **float64
	}{
		{"day", dayStart, dayStart.AddDate(0, 0, 1).Add(-time.Second), &revenue.Day},
		{"week", weekStart, weekStart.AddDate(0, 0, 7).Add(-time.Second), &revenue.Week},
		{"month", monthStart, monthStart.AddDate(0, 1, 0).Add(-time.Second), &revenue.Month},
		{"year", yearStart, yearStart.AddDate(1, 0, 0).Add(-time.Second), &revenue.Year},
	}
	for _, w := range windows {
		if err := sumPaidBetween(w.start, w.end, w.dest); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"Error": "Failed to fetch revenue for the " + w.name})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"message": "Revenue details fetched successfully",
		"Revenue": revenue,
	})
}

// SpecificRevenue holds the total for a caller supplied date range
type SpecificRevenue struct {
	Revenue *float64 `json:"revenue"`
}

// parseRangeBound reads a YYYY-MM-DD query value, defaulting to now when the
// parameter is absent.
func parseRangeBound(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Now(), true
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	return t, err == nil
}

func GetSpecificRevenue(c *gin.Context) {
	startDate, ok := parseRangeBound(c.Query("start_date"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"Error": "Invalid start date format. Use YYYY-MM-DD"})
		return
	}
	endDate, ok := parseRangeBound(c.Query("end_date"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"Error": "Invalid end date format. Use YYYY-MM-DD"})
		return
	}

	var specificRevenue SpecificRevenue
	if err := sumPaidBetween(startDate, endDate, &specificRevenue.Revenue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"Error": "Failed to fetch revenue for specific date range"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Revenue details fetched successfully",
		"Revenue": specificRevenue,
	})
}
