package email

import (
	"context"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tedred-internship-api/config"
	"tedred-internship-api/internal/domain"
)

func testApplication() *domain.SubmittedApplication {
	r := domain.NewApplicationRecord()
	r.FirstName = "Ayesha"
	r.LastName = "Khan"
	r.Email = "ayesha@example.com"
	r.Department = "ai_automation"
	r.ResumeURL = "cv.pdf"
	return &domain.SubmittedApplication{
		ReferenceNumber: "TED-1A2B3C4D",
		SessionID:       "s-1",
		Record:          r,
		SubmittedAt:     time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func configured() *config.Config {
	return &config.Config{
		SMTPHost:      "smtp.test",
		SMTPPort:      "587",
		SMTPUsername:  "user",
		SMTPPassword:  "secret",
		SMTPFromEmail: "careers@tedred.com",
		HREmailTo:     "hr@tedred.com",
	}
}

func TestBuildConfirmation(t *testing.T) {
	subject, body, err := BuildConfirmation(testApplication())
	require.NoError(t, err)

	assert.Equal(t, "Application received: TED-1A2B3C4D", subject)
	assert.Contains(t, body, "Thank you, Ayesha!")
	assert.Contains(t, body, "TED-1A2B3C4D")
	assert.Contains(t, body, "cv.pdf")
	assert.NotContains(t, body, "Preferred Interview Slot")
}

func TestNotifySubmitted_SendsToApplicantAndHR(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	svc := NewEmailService(configured()).WithSender(func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	})

	require.NoError(t, svc.NotifySubmitted(context.Background(), testApplication()))

	assert.Equal(t, "smtp.test:587", gotAddr)
	assert.Equal(t, "careers@tedred.com", gotFrom)
	assert.Equal(t, []string{"ayesha@example.com", "hr@tedred.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Application received: TED-1A2B3C4D\r\n")
	assert.Contains(t, string(gotMsg), "To: ayesha@example.com\r\n")
}

func TestNotifySubmitted_NotConfiguredIsNoop(t *testing.T) {
	called := false
	svc := NewEmailService(&config.Config{}).WithSender(func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	})

	assert.False(t, svc.IsConfigured())
	require.NoError(t, svc.NotifySubmitted(context.Background(), testApplication()))
	assert.False(t, called)
}

func TestNotifySubmitted_MissingEmail(t *testing.T) {
	app := testApplication()
	app.Record.Email = "  "
	svc := NewEmailService(configured()).WithSender(func(string, smtp.Auth, string, []string, []byte) error {
		return nil
	})

	assert.Error(t, svc.NotifySubmitted(context.Background(), app))
}
