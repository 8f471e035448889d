package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cardkeeper/internal/client/models"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
)

// ReminderPresets are the follow-up offsets offered by the reminder screen,
// in days.
var ReminderPresets = []int{1, 3, 7, 14, 30}

// ReminderAfter returns the reminder time days after now.
func ReminderAfter(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, days)
}

// DueSource lists contacts with a due reminder. ContactService satisfies it.
type DueSource interface {
	DueReminders(now time.Time) []models.Contact
}

// ReminderWatcher periodically announces due reminders. Each reminder is
// announced once per process; setting a new reminder time on the same
// contact makes it eligible again.
type ReminderWatcher struct {
	source   DueSource
	interval time.Duration
	notify   func(models.Contact)
	now      func() time.Time
	log      logging.Logger

	announced map[string]struct{}
}

func NewReminderWatcher(source DueSource, interval time.Duration, notify func(models.Contact), log logging.Logger) *ReminderWatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReminderWatcher{
		source:    source,
		interval:  interval,
		notify:    notify,
		now:       time.Now,
		log:       log.With("module", "reminders"),
		announced: make(map[string]struct{}),
	}
}

func reminderKey(c models.Contact) string {
	return fmt.Sprintf("%s@%d", c.ID, c.ReminderAt.UnixMilli())
}

// Check announces every due reminder not announced before and returns how
// many were announced.
func (w *ReminderWatcher) Check(ctx context.Context) int {
	n := 0
	for _, c := range w.source.DueReminders(w.now()) {
		k := reminderKey(c)
		if _, ok := w.announced[k]; ok {
			continue
		}
		w.announced[k] = struct{}{}
		w.log.Debug(ctx, "reminder due", "id", c.ID)
		w.notify(c)
		n++
	}
	return n
}

// Run checks immediately and then on every tick until ctx is done. It
// returns nil on cancellation so it can run under an errgroup.
func (w *ReminderWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}
