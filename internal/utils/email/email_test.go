package email

import (
	"io"
	"testing"
	"time"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestReminderEmail(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := NewSender(&config.Config{SenderEmail: "noreply@finance.local"}, log)

	e := s.reminderEmail(InstallmentReminder{
		To:       "ana@example.com",
		Username: "ana",
		LoanName: "Car Loan",
		DueDate:  time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		Amount:   1032.8,
		Balance:  8120.5,
		Currency: "EUR",
	})

	assert.Equal(t, "noreply@finance.local", e.From)
	assert.Equal(t, []string{"ana@example.com"}, e.To)
	assert.Equal(t, "Upcoming installment: Car Loan", e.Subject)
	body := string(e.Text)
	assert.Contains(t, body, "Dear ana")
	assert.Contains(t, body, "1032.80 EUR")
	assert.Contains(t, body, "2024-05-01")
	assert.Contains(t, body, "8120.50 EUR")
}
