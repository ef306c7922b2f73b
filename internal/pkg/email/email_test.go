package email

import (
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendOTP_RendersMessage(t *testing.T) {
	var sent []byte
	var rcpt []string
	svc, err := newEmailService(config.SMTPConfig{Host: "smtp.test", Port: 587, From: "noreply@test", FromName: "EMS"},
		func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			assert.Equal(t, "smtp.test:587", addr)
			rcpt = to
			sent = msg
			return nil
		}, 0)
	require.NoError(t, err)

	require.NoError(t, svc.SendOTP("ana@test", "123456", 5*time.Minute))
	assert.Equal(t, []string{"ana@test"}, rcpt)
	assert.Contains(t, string(sent), "Subject: "+SubjectOTP)
	assert.Contains(t, string(sent), "123456")
	assert.Contains(t, string(sent), "It will expire in 5 minutes.")
}

func TestSendOTP_RetriesThenFails(t *testing.T) {
	calls := 0
	svc, err := newEmailService(config.SMTPConfig{Host: "smtp.test", Port: 25},
		func(string, smtp.Auth, string, []string, []byte) error {
			calls++
			return errors.New("connection refused")
		}, 0)
	require.NoError(t, err)

	err = svc.SendOTP("ana@test", "123456", 5*time.Minute)
	assert.Error(t, err)
	assert.Equal(t, maxRetries, calls)
}

func TestSendOTP_SkipsWithoutHost(t *testing.T) {
	svc, err := newEmailService(config.SMTPConfig{}, func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}, 0)
	require.NoError(t, err)
	assert.NoError(t, svc.SendOTP("ana@test", "123456", 5*time.Minute))
}
