package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinic-connect/configuration"
	"clinic-connect/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB points the package at a fresh in-memory database and
// silences the outbound notifications.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Appointment{},
		&models.DoctorSchedule{},
		&models.Doctor{},
		&models.Patient{},
		&models.Payment{},
		&models.Prescription{},
		&models.Wallet{},
	))

	prevDB := configuration.DB
	configuration.DB = db
	t.Cleanup(func() { configuration.DB = prevDB })

	stubNotifications(t)
	return db
}

func stubNotifications(t *testing.T) {
	t.Helper()
	prevNotify := notifyAppointmentEvent
	prevTrigger := triggerAppointmentUpdate
	notifyAppointmentEvent = func(string, models.Appointment) error { return nil }
	triggerAppointmentUpdate = func(models.Appointment) error { return nil }
	t.Cleanup(func() {
		notifyAppointmentEvent = prevNotify
		triggerAppointmentUpdate = prevTrigger
	})
}

// performJSON invokes a handler with an optional JSON body, url params
// and context keys, returning the recorded response.
func performJSON(t *testing.T, handler gin.HandlerFunc, method, target string, body any, params gin.Params, keys map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	for k, v := range keys {
		c.Set(k, v)
	}

	handler(c)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}

func patientKeys(id int) map[string]any {
	return map[string]any{
		"patientID": id,
		"role":      string(models.RolePatient),
	}
}

func doctorKeys(id uint) map[string]any {
	return map[string]any{
		"doctor_id": id,
		"role":      string(models.RoleDoctor),
	}
}

func adminKeys() map[string]any {
	return map[string]any{
		"username": "admin",
		"role":     string(models.RoleAdmin),
	}
}

func seedDoctor(t *testing.T, db *gorm.DB) models.Doctor {
	t.Helper()
	doctor := models.Doctor{
		Name:           "Dr. Asha Rao",
		Gender:         "female",
		Specialization: "dermatology",
		Experience:     8,
		Email:          "asha@clinic.example",
		Password:       "secret",
		Phone:          "9876543210",
		LicenseNumber:  "KA-4521",
		Verified:       "true",
		Approved:       "true",
	}
	require.NoError(t, db.Create(&doctor).Error)
	return doctor
}

func seedPatient(t *testing.T, db *gorm.DB) models.Patient {
	t.Helper()
	patient := models.Patient{
		Name:   "Ravi Kumar",
		Age:    "34",
		Gender: "male",
		Phone:  "9123456780",
		Email:  "ravi@example.com",
	}
	require.NoError(t, db.Create(&patient).Error)
	return patient
}

func seedSchedule(t *testing.T, db *gorm.DB, doctorID uint, date time.Time, maxPerSlot int) models.DoctorSchedule {
	t.Helper()
	dayStart, _ := dayBounds(date)
	schedule := models.DoctorSchedule{
		DoctorID:           doctorID,
		Date:               dayStart,
		StartTime:          "09:00",
		EndTime:            "17:00",
		BreakStartTime:     "13:00",
		BreakEndTime:       "14:00",
		SlotDuration:       30,
		MaxPatientsPerSlot: maxPerSlot,
		IsActive:           true,
	}
	require.NoError(t, db.Create(&schedule).Error)
	return schedule
}

func seedAppointment(t *testing.T, db *gorm.DB, patient models.Patient, doctorID int, date time.Time, timeSlot string, status models.AppointmentStatus) models.Appointment {
	t.Helper()
	dayStart, _ := dayBounds(date)
	appointment := models.Appointment{
		PatientID:       patient.PatientID,
		DoctorID:        doctorID,
		PatientEmail:    patient.Email,
		AppointmentDate: dayStart,
		AppointmentTime: timeSlot,
		Symptoms:        "persistent rash on left arm",
		Status:          status,
	}
	require.NoError(t, db.Create(&appointment).Error)
	return appointment
}

func idParam(id int) gin.Params {
	return gin.Params{{Key: "id", Value: fmt.Sprintf("%d", id)}}
}

func tomorrow() time.Time {
	return time.Now().AddDate(0, 0, 1)
}
