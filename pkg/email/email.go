package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"tedred-internship-api/config"
	"tedred-internship-api/internal/catalog"
	"tedred-internship-api/internal/domain"
)

// SendFunc matches smtp.SendMail so tests can capture outgoing mail
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService sends applicant confirmation emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	bccEmail  string
	send      SendFunc
}

// ConfirmationEmailData holds the data rendered into the confirmation email
type ConfirmationEmailData struct {
	FirstName       string
	ReferenceNumber string
	Department      string
	InterviewDate   string
	ResumeName      string
	SubmittedAt     string
}

// NewEmailService creates a new email service with Brevo SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
		bccEmail:  cfg.HREmailTo,
		send:      smtp.SendMail,
	}
}

// WithSender replaces the SMTP transport
func (s *EmailService) WithSender(send SendFunc) *EmailService {
	s.send = send
	return s
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Application Received</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1E3A5F; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .reference { font-size: 20px; font-weight: bold; color: #1E3A5F; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Thank you, {{.FirstName}}!</h1>
        </div>
        <div class="content">
            <p>We have received your TedRed internship application.</p>
            <div class="field">
                <div class="label">Reference Number:</div>
                <div class="reference">{{.ReferenceNumber}}</div>
            </div>
            {{if .Department}}<div class="field">
                <div class="label">Department:</div>
                <div>{{.Department}}</div>
            </div>{{end}}
            {{if .InterviewDate}}<div class="field">
                <div class="label">Preferred Interview Slot:</div>
                <div>{{.InterviewDate}}</div>
            </div>{{end}}
            {{if .ResumeName}}<div class="field">
                <div class="label">Resume:</div>
                <div>{{.ResumeName}}</div>
            </div>{{end}}
            <p>Our team will review your application and contact you within 5-7 business days.</p>
        </div>
        <div class="footer">
            <p>Submitted {{.SubmittedAt}}. Please quote your reference number in any correspondence.</p>
        </div>
    </div>
</body>
</html>`))

// BuildConfirmation renders subject and HTML body for app
func BuildConfirmation(app *domain.SubmittedApplication) (string, string, error) {
	r := app.Record
	data := ConfirmationEmailData{
		FirstName:       strings.TrimSpace(r.FirstName),
		ReferenceNumber: app.ReferenceNumber,
		ResumeName:      r.ResumeURL,
		SubmittedAt:     app.SubmittedAt.UTC().Format(time.RFC1123),
	}
	if team, dept, ok := catalog.TeamByID(r.Department); ok {
		data.Department = fmt.Sprintf("%s (%s)", team.Name, dept.Name)
	}
	if r.InterviewDate != nil {
		data.InterviewDate = r.InterviewDate.Format("Monday, January 2, 2006 - 3:04 PM")
	}

	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("failed to execute email template: %w", err)
	}
	subject := fmt.Sprintf("Application received: %s", app.ReferenceNumber)
	return subject, body.String(), nil
}

// NotifySubmitted sends the confirmation to the applicant
func (s *EmailService) NotifySubmitted(ctx context.Context, app *domain.SubmittedApplication) error {
	if !s.IsConfigured() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	to := strings.TrimSpace(app.Record.Email)
	if to == "" {
		return fmt.Errorf("application %s has no email address", app.ReferenceNumber)
	}

	subject, body, err := BuildConfirmation(app)
	if err != nil {
		return err
	}

	// Construct MIME message
	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		to,
		subject,
		body,
	))

	recipients := []string{to}
	if s.bccEmail != "" {
		recipients = append(recipients, s.bccEmail)
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, recipients, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
