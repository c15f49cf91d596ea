package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"clinic-connect/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateScheduleWindow(t *testing.T) {
	base := saveScheduleRequest{
		StartTime:    "09:00",
		EndTime:      "17:00",
		SlotDuration: 30,
	}

	cases := []struct {
		name    string
		mutate  func(r *saveScheduleRequest)
		wantErr bool
	}{
		{
			name:   "plain window",
			mutate: func(r *saveScheduleRequest) {},
		},
		{
			name: "window with break",
			mutate: func(r *saveScheduleRequest) {
				r.BreakStartTime = "13:00"
				r.BreakEndTime = "14:00"
			},
		},
		{
			name:    "end before start",
			mutate:  func(r *saveScheduleRequest) { r.EndTime = "08:00" },
			wantErr: true,
		},
		{
			name:    "zero duration",
			mutate:  func(r *saveScheduleRequest) { r.SlotDuration = 0 },
			wantErr: true,
		},
		{
			name:    "negative max patients",
			mutate:  func(r *saveScheduleRequest) { r.MaxPatientsPerSlot = -1 },
			wantErr: true,
		},
		{
			name:    "unpaired break",
			mutate:  func(r *saveScheduleRequest) { r.BreakStartTime = "13:00" },
			wantErr: true,
		},
		{
			name: "break outside window",
			mutate: func(r *saveScheduleRequest) {
				r.BreakStartTime = "08:00"
				r.BreakEndTime = "09:30"
			},
			wantErr: true,
		},
		{
			name: "inverted break",
			mutate: func(r *saveScheduleRequest) {
				r.BreakStartTime = "14:00"
				r.BreakEndTime = "13:00"
			},
			wantErr: true,
		},
		{
			name:    "garbage start time",
			mutate:  func(r *saveScheduleRequest) { r.StartTime = "morning" },
			wantErr: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			request := base
			c.mutate(&request)
			err := validateScheduleWindow(request)
			if c.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func scheduleBody(date string) map[string]any {
	return map[string]any{
		"date":         date,
		"startTime":    "09:00",
		"endTime":      "17:00",
		"slotDuration": 30,
	}
}

func TestSaveSchedule(t *testing.T) {
	db := setupTestDB(t)
	doctor := seedDoctor(t, db)

	date := tomorrow().Format("2006-01-02")
	w := performJSON(t, SaveSchedule, http.MethodPost, "/doctor/schedule", scheduleBody(date), nil, doctorKeys(doctor.DoctorID))

	require.Equal(t, http.StatusOK, w.Code)

	var stored models.DoctorSchedule
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, doctor.DoctorID, stored.DoctorID)
	assert.True(t, stored.IsActive)
	// Omitted capacity defaults to one patient per slot
	assert.Equal(t, 1, stored.MaxPatientsPerSlot)
}

func TestSaveScheduleDuplicateDate(t *testing.T) {
	db := setupTestDB(t)
	doctor := seedDoctor(t, db)
	seedSchedule(t, db, doctor.DoctorID, tomorrow(), 1)

	date := tomorrow().Format("2006-01-02")
	w := performJSON(t, SaveSchedule, http.MethodPost, "/doctor/schedule", scheduleBody(date), nil, doctorKeys(doctor.DoctorID))

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveScheduleAdminMustNameDoctor(t *testing.T) {
	db := setupTestDB(t)
	doctor := seedDoctor(t, db)

	date := tomorrow().Format("2006-01-02")
	w := performJSON(t, SaveSchedule, http.MethodPost, "/admin/schedule", scheduleBody(date), nil, adminKeys())
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := scheduleBody(date)
	body["doctorId"] = doctor.DoctorID
	w = performJSON(t, SaveSchedule, http.MethodPost, "/admin/schedule", body, nil, adminKeys())
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateScheduleRevalidatesWindow(t *testing.T) {
	db := setupTestDB(t)
	doctor := seedDoctor(t, db)
	schedule := seedSchedule(t, db, doctor.DoctorID, tomorrow(), 1)

	body := map[string]any{"endTime": "08:00"}
	w := performJSON(t, UpdateSchedule, http.MethodPatch, "/doctor/schedule", body, idParam(int(schedule.ID)), doctorKeys(doctor.DoctorID))
	require.Equal(t, http.StatusBadRequest, w.Code)

	body = map[string]any{"endTime": "18:00", "maxPatientsPerSlot": 3}
	w = performJSON(t, UpdateSchedule, http.MethodPatch, "/doctor/schedule", body, idParam(int(schedule.ID)), doctorKeys(doctor.DoctorID))
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.DoctorSchedule
	require.NoError(t, db.First(&stored, schedule.ID).Error)
	assert.Equal(t, "18:00", stored.EndTime)
	assert.Equal(t, 3, stored.MaxPatientsPerSlot)
}

func TestUpdateScheduleForeignDoctorForbidden(t *testing.T) {
	db := setupTestDB(t)
	doctor := seedDoctor(t, db)
	schedule := seedSchedule(t, db, doctor.DoctorID, tomorrow(), 1)

	body := map[string]any{"endTime": "18:00"}
	w := performJSON(t, UpdateSchedule, http.MethodPatch, "/doctor/schedule", body, idParam(int(schedule.ID)), doctorKeys(doctor.DoctorID+1))

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRemoveScheduleHidesSlots(t *testing.T) {
	db := setupTestDB(t)
	doctor := seedDoctor(t, db)
	patient := seedPatient(t, db)
	schedule := seedSchedule(t, db, doctor.DoctorID, tomorrow(), 1)

	w := performJSON(t, RemoveSchedule, http.MethodPost, "/doctor/schedule/remove", nil, idParam(int(schedule.ID)), doctorKeys(doctor.DoctorID))
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.DoctorSchedule
	require.NoError(t, db.First(&stored, schedule.ID).Error)
	assert.False(t, stored.IsActive)

	// A removed schedule no longer offers slots
	date := tomorrow().Format("2006-01-02")
	target := fmt.Sprintf("/user/doctors/%d/available-slots?date=%s", doctor.DoctorID, date)
	w = performJSON(t, GetAvailableTimeSlots, http.MethodGet, target, nil, doctorParam(doctor.DoctorID), patientKeys(patient.PatientID))
	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, "The doctor has no schedule for this date", response["message"])
}

func TestGetDoctorAppointmentsByDate(t *testing.T) {
	db := setupTestDB(t)
	doctor := seedDoctor(t, db)
	patient := seedPatient(t, db)
	seedAppointment(t, db, patient, int(doctor.DoctorID), tomorrow(), "10:00", models.StatusScheduled)
	seedAppointment(t, db, patient, int(doctor.DoctorID), tomorrow(), "09:00", models.StatusPending)
	seedAppointment(t, db, patient, int(doctor.DoctorID), tomorrow(), "11:00", models.StatusCancelled)

	date := tomorrow().Format("2006-01-02")
	target := fmt.Sprintf("/doctor/appointments/date?date=%s", date)
	w := performJSON(t, GetDoctorAppointmentsByDate, http.MethodGet, target, nil, nil, doctorKeys(doctor.DoctorID))

	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	appointments, ok := response["appointments"].([]any)
	require.True(t, ok)
	// Cancelled bookings are hidden, the rest ordered by time
	require.Len(t, appointments, 2)
	first, ok := appointments[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "09:00", first["appointmentTime"])
}
