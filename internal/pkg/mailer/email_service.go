package mailer

import (
	"fmt"
	"html"

	"mitr-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type BookingEmail struct {
	Email          string `json:"email"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	CounsellorID   string `json:"counsellorId"`
	CounsellorName string `json:"counsellorName,omitempty"`
	Notes          string `json:"notes"`
}

type IEmailService interface {
	SendOTP(toEmail, otp string) error
	SendResetToken(toEmail, token string) error
	SendBookingConfirmation(booking BookingEmail) error
	SendJournalReminder(toEmail, fullName string) error
}

// Sender is the part of gomail.Dialer the service needs.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	sender      Sender
	senderEmail string
	senderName  string
	clientURL   string
	logger      logger.ILogger
}

// NewEmailService returns a service that silently skips sending when no SMTP
// host is configured.
func NewEmailService(host string, port int, username, password, senderName, clientURL string, log logger.ILogger) IEmailService {
	var sender Sender
	if host != "" {
		sender = gomail.NewDialer(host, port, username, password)
	}
	return NewEmailServiceWithSender(sender, username, senderName, clientURL, log)
}

func NewEmailServiceWithSender(sender Sender, senderEmail, senderName, clientURL string, log logger.ILogger) IEmailService {
	return &emailService{
		sender:      sender,
		senderEmail: senderEmail,
		senderName:  senderName,
		clientURL:   clientURL,
		logger:      log,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	if s.sender == nil {
		s.logger.Warn("Mailer", "SMTP not configured, skipping email", map[string]interface{}{"to": toEmail, "subject": subject})
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.sender.DialAndSend(m); err != nil {
		s.logger.Error("Mailer", "Failed to send email", map[string]interface{}{"to": toEmail, "subject": subject, "error": err.Error()})
		return err
	}

	s.logger.Info("Mailer", "Email sent", map[string]interface{}{"to": toEmail, "subject": subject})
	return nil
}

func (s *emailService) SendOTP(toEmail, otp string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome to mitr</h2>
			<p>Your verification code is:</p>
			<h1 style="color: #4CAF50; letter-spacing: 5px;">%s</h1>
			<p>This code will expire in 15 minutes.</p>
			<p>If you didn't request this, please ignore this email.</p>
		</div>
	`, otp)
	return s.send(toEmail, "Your Verification Code", body)
}

func (s *emailService) SendResetToken(toEmail, token string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.clientURL, token)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Password Reset Request</h2>
			<p>You requested to reset your password. Click the button below to proceed:</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Reset Password</a>
			<p>Or copy this link:</p>
			<p>%s</p>
			<p>This link will expire in 1 hour.</p>
		</div>
	`, resetLink, resetLink)
	return s.send(toEmail, "Reset Your Password", body)
}

func (s *emailService) SendBookingConfirmation(booking BookingEmail) error {
	counsellor := booking.CounsellorName
	if counsellor == "" {
		counsellor = booking.CounsellorID
	}
	if counsellor == "" {
		counsellor = "our counselling team"
	}

	notes := "None"
	if booking.Notes != "" {
		notes = html.EscapeString(booking.Notes)
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your session is booked</h2>
			<p><strong>Date:</strong> %s</p>
			<p><strong>Time:</strong> %s</p>
			<p><strong>With:</strong> %s</p>
			<p><strong>Notes:</strong> %s</p>
			<p>Sessions are confidential. If you need to reschedule, cancel from the booking page.</p>
		</div>
	`, html.EscapeString(booking.Date), html.EscapeString(booking.Time), html.EscapeString(counsellor), notes)
	return s.send(booking.Email, "Booking Confirmation", body)
}

func (s *emailService) SendJournalReminder(toEmail, fullName string) error {
	name := fullName
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hi %s,</h2>
			<p>A few minutes of writing can help you unwind. How was your day?</p>
			<a href="%s/journal">Open your journal</a>
		</div>
	`, html.EscapeString(name), s.clientURL)
	return s.send(toEmail, "Time for today's journal", body)
}
