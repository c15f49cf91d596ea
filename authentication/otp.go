package authentication

import (
	"log"
	"math/rand"
	"net/smtp"
	"os"
)

const otpDigits = "0123456789"

// GenerateOTP returns a numeric one time password of the given length.
func GenerateOTP(length int) string {
	otp := make([]byte, length)
	for i := range otp {
		otp[i] = otpDigits[rand.Intn(len(otpDigits))]
	}
	return string(otp)
}

// SendOTPByEmail mails the code through the clinic's gmail account.
func SendOTPByEmail(otp, email string) error {
	message := "Subject: Clinic Portal OTP\nHey Your OTP is " + otp

	sender := os.Getenv("Email")
	password := os.Getenv("Password")
	auth := smtp.PlainAuth("", sender, password, "smtp.gmail.com")

	if err := smtp.SendMail("smtp.gmail.com:587", auth, sender, []string{email}, []byte(message)); err != nil {
		log.Println("Error sending email:", err)
		return err
	}
	return nil
}

func ValidateOTP(otp, storedOTP string) bool {
	return otp == storedOTP
}
