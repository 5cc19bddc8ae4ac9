package email

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	to      string
	message string
}

func newTestService(t *testing.T, cfg SMTPConfig, sendErr error) (*EmailServiceImpl, *[]capturedMail) {
	t.Helper()
	sent := &[]capturedMail{}
	svc := NewEmailServiceWithSender(cfg, func(_ SMTPConfig, to string, message []byte) error {
		*sent = append(*sent, capturedMail{to: to, message: string(message)})
		return sendErr
	}, zerolog.Nop())
	return svc, sent
}

var configuredSMTP = SMTPConfig{
	Host:      "smtp.example.com",
	Port:      587,
	Username:  "user",
	Password:  "secret",
	FromName:  "FormCo",
	FromEmail: "noreply@formco.dev",
}

func TestSendApplicationConfirmation(t *testing.T) {
	svc, sent := newTestService(t, configuredSMTP, nil)

	err := svc.SendApplicationConfirmation(ApplicationConfirmation{
		ToEmail:          "ada@example.com",
		ToName:           "Ada <script>",
		CompetitionTitle: "Hack Night",
		VerificationCode: "AB12CD",
		ApplicationID:    "app-1",
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	mail := (*sent)[0]
	assert.Equal(t, "ada@example.com", mail.to)
	assert.Contains(t, mail.message, "From: FormCo <noreply@formco.dev>\r\n")
	assert.Contains(t, mail.message, "Subject: Application received - Hack Night\r\n")
	assert.Contains(t, mail.message, "AB12CD")
	assert.Contains(t, mail.message, "Ada &lt;script&gt;")
	assert.False(t, strings.Contains(mail.message, "<script>"))
}

func TestSendApplicationDecision(t *testing.T) {
	svc, sent := newTestService(t, configuredSMTP, nil)

	require.NoError(t, svc.SendApplicationDecision(ApplicationDecision{
		ToEmail:          "ada@example.com",
		ToName:           "Ada",
		CompetitionTitle: "Hack Night",
		Decision:         "accepted",
	}))
	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].message, "has been accepted")
}

func TestUnconfiguredSMTPSkipsDelivery(t *testing.T) {
	svc, sent := newTestService(t, SMTPConfig{Host: "smtp.example.com"}, nil)

	assert.NoError(t, svc.SendApplicationConfirmation(ApplicationConfirmation{ToEmail: "a@b.co"}))
	assert.NoError(t, svc.SendApplicationDecision(ApplicationDecision{ToEmail: "a@b.co", Decision: "rejected"}))
	assert.Empty(t, *sent)
}

func TestDeliveryErrorIsReturned(t *testing.T) {
	svc, _ := newTestService(t, configuredSMTP, errors.New("connection refused"))

	err := svc.SendApplicationDecision(ApplicationDecision{ToEmail: "a@b.co", Decision: "rejected"})
	assert.EqualError(t, err, "connection refused")
}
