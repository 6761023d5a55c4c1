// utils/email.go
package utils

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/gomail.v2"
)

// SendEmail sends a plain-text email through the configured SMTP server.
// When SMTP_HOST is unset the send is skipped, so local setups work
// without a mail server.
func SendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		log.Printf("SMTP not configured, skipping email to %s (%s)", to, subject)
		return nil
	}

	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return err
	}

	return nil
}

// SendEnquiryReceivedEmail confirms to the customer that their enquiry
// was recorded.
func SendEnquiryReceivedEmail(to, customerName, enquiryCode, catalogTitle string) {
	subject := "We received your enquiry " + enquiryCode
	body := fmt.Sprintf(
		"Dear %s,\n\nThank you for your interest in %s. Your enquiry has been recorded under reference %s and one of our partners will contact you shortly.\n\nBest regards,\nEstateFlow",
		customerName, catalogTitle, enquiryCode)
	_ = SendEmail(to, subject, body)
}

// SendEnquiryConfirmedEmail tells the customer their order was confirmed.
func SendEnquiryConfirmedEmail(to, customerName, catalogTitle string) {
	subject := "Your order has been confirmed"
	body := fmt.Sprintf(
		"Dear %s,\n\nYour enquiry for %s has been confirmed. Our team will reach out with the next steps.\n\nBest regards,\nEstateFlow",
		customerName, catalogTitle)
	_ = SendEmail(to, subject, body)
}
