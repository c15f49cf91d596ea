package jobs

import (
	"clinic-connect/configuration"
	"clinic-connect/controllers"
	"clinic-connect/models"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// StartDailyScheduler wires the recurring clinic jobs.
func StartDailyScheduler() {
	c := cron.New()

	// Runs every day at 08:00 AM
	c.AddFunc("0 8 * * *", func() {
		log.Println("Running daily appointment reminder job...")
		SendAppointmentReminders()
	})

	c.Start()
}

// SendAppointmentReminders mails every patient with a confirmed
// appointment scheduled for tomorrow.
func SendAppointmentReminders() {
	tomorrow := time.Now().AddDate(0, 0, 1)
	dayStart := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, tomorrow.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var appointments []models.Appointment
	err := configuration.DB.
		Where("appointment_date >= ? AND appointment_date < ?", dayStart, dayEnd).
		Where("status IN ?", []models.AppointmentStatus{models.StatusScheduled, models.StatusRescheduled}).
		Find(&appointments).Error
	if err != nil {
		log.Println("Error fetching appointments for reminders:", err)
		return
	}

	for _, appointment := range appointments {
		if appointment.PatientEmail == "" {
			continue
		}
		body := fmt.Sprintf("This is a reminder for your appointment tomorrow, %s at %s. Please arrive a few minutes early.",
			appointment.AppointmentDate.Format("2006-01-02"), appointment.AppointmentTime)
		if err := controllers.SendEmail("Appointment reminder", appointment.PatientEmail, body); err != nil {
			log.Println("Error sending reminder for appointment:", appointment.AppointmentID, err)
		}
	}
}
