package controllers

import (
	"clinic-connect/configuration"
	"clinic-connect/models"
	"encoding/json"
	"fmt"
	"log"
)

const appointmentUpdateChannel = "appointment-updates"

// notifyAppointmentEvent mails the patient about a status change. Kept as
// a variable so tests can swap it out.
var notifyAppointmentEvent = func(event string, appointment models.Appointment) error {
	if appointment.PatientEmail == "" {
		return nil
	}
	subject := fmt.Sprintf("Appointment %s", event)
	body := fmt.Sprintf("Your appointment on %s at %s has been %s.",
		appointment.AppointmentDate.Format("2006-01-02"), appointment.AppointmentTime, event)
	return SendEmail(subject, appointment.PatientEmail, body)
}

// notifyAppointmentAsync fires the patient notification without blocking
// the request. Failures are logged, never surfaced to the caller.
func notifyAppointmentAsync(event string, appointment models.Appointment) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Println("Recovered notification panic:", r)
			}
		}()
		if err := notifyAppointmentEvent(event, appointment); err != nil {
			log.Println("Failed to send appointment notification:", err)
		}
	}()
}

type appointmentUpdate struct {
	ID        int                      `json:"id"`
	Status    models.AppointmentStatus `json:"status"`
	PatientID int                      `json:"patientId"`
}

// triggerAppointmentUpdate publishes the status change for realtime
// listeners. Also swappable in tests.
var triggerAppointmentUpdate = func(appointment models.Appointment) error {
	payload, err := json.Marshal(appointmentUpdate{
		ID:        appointment.AppointmentID,
		Status:    appointment.Status,
		PatientID: appointment.PatientID,
	})
	if err != nil {
		return err
	}
	return configuration.PublishRedis(appointmentUpdateChannel, payload)
}

func triggerAppointmentUpdateAsync(appointment models.Appointment) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Println("Recovered realtime update panic:", r)
			}
		}()
		if err := triggerAppointmentUpdate(appointment); err != nil {
			log.Println("Failed to publish appointment update:", err)
		}
	}()
}
