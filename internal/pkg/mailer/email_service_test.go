package mailer

import (
	"bytes"
	"errors"
	"testing"

	"mitr-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	messages []*gomail.Message
	err      error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.messages = append(c.messages, m...)
	return c.err
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSendBookingConfirmationEscapesNotes(t *testing.T) {
	sender := &captureSender{}
	svc := NewEmailServiceWithSender(sender, "noreply@mitr.test", "mitr", "http://app", logger.NewNopLogger())

	err := svc.SendBookingConfirmation(BookingEmail{
		Email:        "student@example.com",
		Date:         "2030-01-07",
		Time:         "10:00",
		CounsellorID: "c1",
		Notes:        "<script>x</script>",
	})
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)

	assert.Equal(t, []string{"student@example.com"}, sender.messages[0].GetHeader("To"))
	out := render(t, sender.messages[0])
	assert.NotContains(t, out, "<script>")
}

func TestSendWithoutSMTPIsNoop(t *testing.T) {
	svc := NewEmailService("", 587, "", "", "mitr", "http://app", logger.NewNopLogger())
	assert.NoError(t, svc.SendOTP("a@b.c", "123456"))
}

func TestSendPropagatesDialError(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	svc := NewEmailServiceWithSender(sender, "noreply@mitr.test", "mitr", "http://app", logger.NewNopLogger())
	assert.EqualError(t, svc.SendJournalReminder("a@b.c", "Asha"), "smtp down")
}
