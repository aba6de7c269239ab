// Package scheduler runs the periodic installment reminder job.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/service"
	"github.com/Dan9191/finance-service/internal/utils/email"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Notifier delivers installment reminders
type Notifier interface {
	SendInstallmentReminder(r email.InstallmentReminder) error
}

// Source lists users and the installments they owe in a month
type Source interface {
	Users(ctx context.Context) ([]models.User, error)
	DueInstallments(ctx context.Context, userID int64, year, month int) ([]service.Reminder, error)
}

// Scheduler emails every user the loan installments due in the current month
type Scheduler struct {
	cron     *cron.Cron
	source   Source
	notifier Notifier
	currency string
	log      *logrus.Logger
	now      func() time.Time
}

// New creates a scheduler; Start registers the job
func New(source Source, notifier Notifier, currency string, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		source:   source,
		notifier: notifier,
		currency: currency,
		log:      log,
		now:      time.Now,
	}
}

// Start schedules the reminder job with a standard five-field cron spec
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		sent, err := s.Run(context.Background())
		if err != nil {
			s.log.Errorf("Reminder run failed: %v", err)
			return
		}
		s.log.Infof("Reminder run finished: %d sent", sent)
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	s.cron.Start()
	s.log.Infof("Reminder job scheduled: %s", spec)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Run sends the reminders for the current month and returns how many went
// out. Failures for one user are logged and do not stop the run.
func (s *Scheduler) Run(ctx context.Context) (int, error) {
	now := s.now()
	year, month := now.Year(), int(now.Month())-1

	users, err := s.source.Users(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, u := range users {
		due, err := s.source.DueInstallments(ctx, u.ID, year, month)
		if err != nil {
			s.log.WithField("user_id", u.ID).Errorf("Failed to evaluate loans: %v", err)
			continue
		}
		for _, r := range due {
			err := s.notifier.SendInstallmentReminder(email.InstallmentReminder{
				To:       u.Email,
				Username: u.Username,
				LoanName: r.Loan.Name,
				DueDate:  r.DueDate.Time,
				Amount:   r.Status.Installment,
				Balance:  r.Status.Balance,
				Currency: s.currency,
			})
			if err != nil {
				s.log.WithFields(logrus.Fields{"user_id": u.ID, "loan_id": r.Loan.ID}).Errorf("Failed to send reminder: %v", err)
				continue
			}
			sent++
		}
	}
	return sent, nil
}
