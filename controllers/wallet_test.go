package controllers

import (
	"net/http"
	"testing"

	"clinic-connect/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditWalletCreatesAndTopsUp(t *testing.T) {
	db := setupTestDB(t)
	patient := seedPatient(t, db)

	require.NoError(t, creditWallet(db, patient.PatientID, 200))

	var wallet models.Wallet
	require.NoError(t, db.Where("user_id = ?", patient.PatientID).First(&wallet).Error)
	assert.InDelta(t, 200.0, wallet.Amount, 0.001)

	require.NoError(t, creditWallet(db, patient.PatientID, 50))
	require.NoError(t, db.Where("user_id = ?", patient.PatientID).First(&wallet).Error)
	assert.InDelta(t, 250.0, wallet.Amount, 0.001)
}

func TestWalletBalanceForNewPatientIsZero(t *testing.T) {
	db := setupTestDB(t)
	patient := seedPatient(t, db)

	w := performJSON(t, Wallet, http.MethodGet, "/user/wallet", nil, nil, patientKeys(patient.PatientID))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.InDelta(t, 0.0, body["amount"], 0.001)
}

func TestPayFromWallet(t *testing.T) {
	db := setupTestDB(t)
	doctor := seedDoctor(t, db)
	patient := seedPatient(t, db)
	appointment := seedAppointment(t, db, patient, int(doctor.DoctorID), tomorrow(), "10:00", models.StatusCompleted)

	payment := models.Payment{
		AppointmentID: appointment.AppointmentID,
		DoctorID:      doctor.DoctorID,
		PatientID:     patient.PatientID,
		Amount:        400,
		Status:        models.PaymentPending,
	}
	require.NoError(t, db.Create(&payment).Error)
	require.NoError(t, db.Create(&models.Wallet{UserID: patient.PatientID, Amount: 500}).Error)

	body := map[string]any{"payment_id": payment.PaymentID}
	w := performJSON(t, PayFromWallet, http.MethodPost, "/user/pay/wallet", body, nil, patientKeys(patient.PatientID))

	require.Equal(t, http.StatusOK, w.Code)

	var wallet models.Wallet
	require.NoError(t, db.Where("user_id = ?", patient.PatientID).First(&wallet).Error)
	assert.InDelta(t, 100.0, wallet.Amount, 0.001)

	var storedPayment models.Payment
	require.NoError(t, db.First(&storedPayment, payment.PaymentID).Error)
	assert.Equal(t, models.PaymentPaid, storedPayment.Status)
	assert.Equal(t, "wallet", storedPayment.Method)
	assert.NotNil(t, storedPayment.PaidAt)

	var storedAppointment models.Appointment
	require.NoError(t, db.First(&storedAppointment, appointment.AppointmentID).Error)
	assert.Equal(t, models.PaymentPaid, storedAppointment.PaymentStatus)
}

func TestPayFromWalletInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	doctor := seedDoctor(t, db)
	patient := seedPatient(t, db)
	appointment := seedAppointment(t, db, patient, int(doctor.DoctorID), tomorrow(), "10:00", models.StatusCompleted)

	payment := models.Payment{
		AppointmentID: appointment.AppointmentID,
		DoctorID:      doctor.DoctorID,
		PatientID:     patient.PatientID,
		Amount:        400,
		Status:        models.PaymentPending,
	}
	require.NoError(t, db.Create(&payment).Error)
	require.NoError(t, db.Create(&models.Wallet{UserID: patient.PatientID, Amount: 100}).Error)

	body := map[string]any{"payment_id": payment.PaymentID}
	w := performJSON(t, PayFromWallet, http.MethodPost, "/user/pay/wallet", body, nil, patientKeys(patient.PatientID))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var wallet models.Wallet
	require.NoError(t, db.Where("user_id = ?", patient.PatientID).First(&wallet).Error)
	assert.InDelta(t, 100.0, wallet.Amount, 0.001)

	var storedPayment models.Payment
	require.NoError(t, db.First(&storedPayment, payment.PaymentID).Error)
	assert.Equal(t, models.PaymentPending, storedPayment.Status)
}

func TestPayFromWalletMissingWalletIsInsufficient(t *testing.T) {
	db := setupTestDB(t)
	doctor := seedDoctor(t, db)
	patient := seedPatient(t, db)
	appointment := seedAppointment(t, db, patient, int(doctor.DoctorID), tomorrow(), "10:00", models.StatusCompleted)

	payment := models.Payment{
		AppointmentID: appointment.AppointmentID,
		DoctorID:      doctor.DoctorID,
		PatientID:     patient.PatientID,
		Amount:        400,
		Status:        models.PaymentPending,
	}
	require.NoError(t, db.Create(&payment).Error)

	body := map[string]any{"payment_id": payment.PaymentID}
	w := performJSON(t, PayFromWallet, http.MethodPost, "/user/pay/wallet", body, nil, patientKeys(patient.PatientID))

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayFromWalletLookupFailureIsServerError(t *testing.T) {
	db := setupTestDB(t)
	doctor := seedDoctor(t, db)
	patient := seedPatient(t, db)
	appointment := seedAppointment(t, db, patient, int(doctor.DoctorID), tomorrow(), "10:00", models.StatusCompleted)

	payment := models.Payment{
		AppointmentID: appointment.AppointmentID,
		DoctorID:      doctor.DoctorID,
		PatientID:     patient.PatientID,
		Amount:        400,
		Status:        models.PaymentPending,
	}
	require.NoError(t, db.Create(&payment).Error)

	// A broken wallet table is a server fault, not an empty wallet.
	require.NoError(t, db.Migrator().DropTable(&models.Wallet{}))

	body := map[string]any{"payment_id": payment.PaymentID}
	w := performJSON(t, PayFromWallet, http.MethodPost, "/user/pay/wallet", body, nil, patientKeys(patient.PatientID))

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var storedPayment models.Payment
	require.NoError(t, db.First(&storedPayment, payment.PaymentID).Error)
	assert.Equal(t, models.PaymentPending, storedPayment.Status)
}

func TestPayFromWalletForeignPaymentForbidden(t *testing.T) {
	db := setupTestDB(t)
	doctor := seedDoctor(t, db)
	patient := seedPatient(t, db)
	appointment := seedAppointment(t, db, patient, int(doctor.DoctorID), tomorrow(), "10:00", models.StatusCompleted)

	payment := models.Payment{
		AppointmentID: appointment.AppointmentID,
		DoctorID:      doctor.DoctorID,
		PatientID:     patient.PatientID,
		Amount:        400,
		Status:        models.PaymentPending,
	}
	require.NoError(t, db.Create(&payment).Error)

	body := map[string]any{"payment_id": payment.PaymentID}
	w := performJSON(t, PayFromWallet, http.MethodPost, "/user/pay/wallet", body, nil, patientKeys(patient.PatientID+5))

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestPayOfflineSettlesPayment(t *testing.T) {
	db := setupTestDB(t)
	doctor := seedDoctor(t, db)
	patient := seedPatient(t, db)
	appointment := seedAppointment(t, db, patient, int(doctor.DoctorID), tomorrow(), "10:00", models.StatusCompleted)

	payment := models.Payment{
		AppointmentID: appointment.AppointmentID,
		DoctorID:      doctor.DoctorID,
		PatientID:     patient.PatientID,
		Amount:        300,
		Status:        models.PaymentPending,
	}
	require.NoError(t, db.Create(&payment).Error)

	body := map[string]any{"payment_id": payment.PaymentID}
	w := performJSON(t, PayOffline, http.MethodPost, "/user/pay/offline", body, nil, patientKeys(patient.PatientID))

	require.Equal(t, http.StatusOK, w.Code)

	var storedPayment models.Payment
	require.NoError(t, db.First(&storedPayment, payment.PaymentID).Error)
	assert.Equal(t, models.PaymentPaid, storedPayment.Status)
	assert.Equal(t, "offline", storedPayment.Method)

	// Settling twice is rejected
	w = performJSON(t, PayOffline, http.MethodPost, "/user/pay/offline", body, nil, patientKeys(patient.PatientID))
	require.Equal(t, http.StatusBadRequest, w.Code)
}
