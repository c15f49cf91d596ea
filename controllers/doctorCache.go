package controllers

import (
	"clinic-connect/configuration"
	"clinic-connect/models"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Doctor records change rarely but are read on every booking, so repeat
// lookups are served from a short-TTL redis cache keyed by doctor id.
const doctorCacheTTL = 5 * time.Minute

func doctorCacheKey(id uint) string {
	return fmt.Sprintf("doctor:%d", id)
}

func getDoctor(id uint) (*models.Doctor, error) {
	if configuration.Client != nil {
		if cached, err := configuration.GetRedis(doctorCacheKey(id)); err == nil {
			var doctor models.Doctor
			if err := json.Unmarshal([]byte(cached), &doctor); err == nil {
				return &doctor, nil
			}
		}
	}

	var doctor models.Doctor
	if err := configuration.DB.First(&doctor, id).Error; err != nil {
		return nil, err
	}

	if configuration.Client != nil {
		if data, err := json.Marshal(doctor); err == nil {
			if err := configuration.SetRedis(doctorCacheKey(id), data, doctorCacheTTL); err != nil {
				log.Println("Failed to cache doctor:", err)
			}
		}
	}
	return &doctor, nil
}

// clearDoctorCache drops the cached entry after a doctor record changes.
func clearDoctorCache(id uint) {
	if configuration.Client == nil {
		return
	}
	if err := configuration.DeleteRedis(doctorCacheKey(id)); err != nil {
		log.Println("Failed to clear doctor cache:", err)
	}
}

// defaultDoctorID resolves the clinic's default doctor for booking
// requests that do not name one.
func defaultDoctorID() (uint, error) {
	var doctor models.Doctor
	if err := configuration.DB.Where("approved = ?", "true").Order("doctor_id").First(&doctor).Error; err != nil {
		return 0, err
	}
	return doctor.DoctorID, nil
}
