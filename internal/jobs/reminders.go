package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/parentconnect/appointment-bot/internal/models"
	"github.com/parentconnect/appointment-bot/internal/store"
)

// ReminderSender delivers a day-before reminder for one appointment.
type ReminderSender interface {
	AppointmentReminder(ctx context.Context, req models.AppointmentRequest) error
}

// DayBeforeReminders sweeps the repository for active appointments
// scheduled tomorrow and reminds each chat once. Sent ids are tracked
// in memory only, same lifetime as the repository itself.
func DayBeforeReminders(appointments *store.Appointments, sender ReminderSender, loc *time.Location) Job {
	var mu sync.Mutex
	sent := make(map[string]struct{})

	return func(ctx context.Context) error {
		tomorrow := time.Now().In(loc).AddDate(0, 0, 1)
		var firstErr error
		for _, req := range appointments.ActiveOnDate(tomorrow) {
			mu.Lock()
			_, done := sent[req.ID]
			mu.Unlock()
			if done {
				continue
			}
			// marked only after a successful delivery, so a failed send
			// is retried on the next sweep
			if err := sender.AppointmentReminder(ctx, req); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			mu.Lock()
			sent[req.ID] = struct{}{}
			mu.Unlock()
		}
		return firstErr
	}
}
