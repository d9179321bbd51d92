package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	config "surfschool_backend/configs"
)

// Sender is the notification collaborator the booking engine depends on.
// Every send is fire-and-forget: failures are logged and never change the
// outcome of the transaction that triggered them.
type Sender interface {
	SendReservationConfirmed(name, email, classTitle, date, startTime string)
	SendReservationReminder(name, email, classTitle, date, startTime string)
	SendReservationCanceled(name, email, classTitle, date string)
	SendWelcomeEmail(name, email, tempPassword string)
}

// NoopSender discards every notification. Used in tests and when the
// email provider is not configured.
type NoopSender struct{}

func (NoopSender) SendReservationConfirmed(name, email, classTitle, date, startTime string) {}
func (NoopSender) SendReservationReminder(name, email, classTitle, date, startTime string)  {}
func (NoopSender) SendReservationCanceled(name, email, classTitle, date string)             {}
func (NoopSender) SendWelcomeEmail(name, email, tempPassword string)                        {}

// BrevoSender delivers email through the Brevo transactional API.
type BrevoSender struct {
	APIKey      string
	SenderEmail string
	SenderName  string
}

// NewSenderFromEnv returns a BrevoSender when the provider is configured,
// otherwise a NoopSender so booking flows keep working without email.
func NewSenderFromEnv() Sender {
	apiKey := config.Config("BREVO_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.Config("EMAIL_SENDER_NAME")

	if apiKey == "" || senderEmail == "" || senderName == "" {
		log.Println("⚠️ Email service not configured, notifications are disabled.")
		return NoopSender{}
	}

	log.Println("✅ Email service initialized successfully.")
	return &BrevoSender{APIKey: apiKey, SenderEmail: senderEmail, SenderName: senderName}
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func (s *BrevoSender) send(toName, toEmail, subject, htmlContent string) {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		log.Printf("🔥 Invalid recipient email: %s", toEmail)
		return
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("🔥 Failed to marshal email payload: %v", err)
		return
	}

	req, err := http.NewRequest("POST", "https://api.brevo.com/v3/smtp/email", bytes.NewBuffer(body))
	if err != nil {
		log.Printf("🔥 Failed to create email request: %v", err)
		return
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("🔥 Failed to send email to %s: %v", toEmail, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("🔥 Brevo API error: Status %d, Body: %s", resp.StatusCode, string(respBody))
		return
	}
	log.Printf("✅ Email sent successfully to %s", toEmail)
}

func (s *BrevoSender) SendReservationConfirmed(name, email, classTitle, date, startTime string) {
	s.send(name, email, "Your Reservation is Confirmed!",
		fmt.Sprintf("<h1>Reservation Confirmed</h1><p>Hi %s,</p><p>Your spot in <b>%s</b> on %s at %s is reserved. See you in the water!</p>", name, classTitle, date, startTime))
}

func (s *BrevoSender) SendReservationReminder(name, email, classTitle, date, startTime string) {
	s.send(name, email, "Reminder: Your Class is Coming Up!",
		fmt.Sprintf("<h1>Class Reminder</h1><p>Hi %s,</p><p>This is a friendly reminder that <b>%s</b> takes place on %s at %s.</p>", name, classTitle, date, startTime))
}

func (s *BrevoSender) SendReservationCanceled(name, email, classTitle, date string) {
	s.send(name, email, "Your Reservation Was Canceled",
		fmt.Sprintf("<h1>Reservation Canceled</h1><p>Hi %s,</p><p>Your reservation for <b>%s</b> on %s has been canceled.</p>", name, classTitle, date))
}

func (s *BrevoSender) SendWelcomeEmail(name, email, tempPassword string) {
	s.send(name, email, "Welcome! Your Account Details",
		fmt.Sprintf("<h1>Welcome, %s!</h1><p>An account was created for you during checkout. Your temporary password is <b>%s</b> — please change it after your first login.</p>", name, tempPassword))
}
