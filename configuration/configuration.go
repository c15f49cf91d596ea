package configuration

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"clinic-connect/models"
)

// DB is the shared connection handle used by every controller.
var DB *gorm.DB

// ConfigDB opens the postgres connection from the DB env var and migrates the schema.
func ConfigDB() {
	if err := godotenv.Load(".env"); err != nil {
		log.Fatal("Error loading .env file")
	}

	var err error
	DB, err = gorm.Open(postgres.Open(os.Getenv("DB")), &gorm.Config{})
	if err != nil {
		panic("Failed to connect to the database")
	}

	DB.AutoMigrate(
		&models.Appointment{},
		&models.DoctorSchedule{},
		&models.Doctor{},
		&models.Patient{},
		&models.Payment{},
		&models.RazorPay{},
		&models.Prescription{},
		&models.Admin{},
		&models.Wallet{},
	)
}
