package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// InstallmentReminder describes one loan installment falling due
type InstallmentReminder struct {
	To       string
	Username string
	LoanName string
	DueDate  time.Time
	Amount   float64
	Balance  float64
	Currency string
}

func (s *Sender) reminderEmail(r InstallmentReminder) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{r.To}
	e.Subject = fmt.Sprintf("Upcoming installment: %s", r.LoanName)

	body := fmt.Sprintf("Dear %s,\n\n", r.Username)
	body += fmt.Sprintf(
		"This is a reminder that the installment of %.2f %s for %q is due on %s.\n"+
			"Outstanding balance before this payment: %.2f %s.\n",
		r.Amount, r.Currency, r.LoanName, r.DueDate.Format("2006-01-02"), r.Balance, r.Currency,
	)
	body += "\nBest regards,\nFinance Service"
	e.Text = []byte(body)
	return e
}

// SendInstallmentReminder sends a loan installment reminder email
func (s *Sender) SendInstallmentReminder(r InstallmentReminder) error {
	e := s.reminderEmail(r)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", r.To, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", r.To, e.Subject)
	return nil
}
