package controllers

import (
	"fmt"
	"io"
	"os"

	"github.com/go-gomail/gomail"
)

func composeMessage(subject, recipient, body string) (*gomail.Message, *gomail.Dialer) {
	sender := os.Getenv("Email")
	password := os.Getenv("Password")

	m := gomail.NewMessage()
	m.SetHeader("From", sender)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return m, gomail.NewDialer("smtp.gmail.com", 587, sender, password)
}

// SendEmail sends a plain text email through the clinic's gmail account.
func SendEmail(subject, email, body string) error {
	m, d := composeMessage(subject, email, body)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	return nil
}

// SendDocumentEmail sends an email with a PDF attachment.
func SendDocumentEmail(subject, email, body, attachmentName string, attachmentData []byte) error {
	m, d := composeMessage(subject, email, body)
	m.Attach(attachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(attachmentData)
		return err
	}))

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	return nil
}
