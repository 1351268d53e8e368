package services

import (
	"context"
	"log"
	"shiftly/internal/models"
	"time"
)

type ruleSource interface {
	ListEnabled(ctx context.Context) ([]models.ReminderRule, error)
}

// ReminderWorker drives the reminder engine: it wakes once a minute,
// evaluates every enabled rule against the current time in the configured
// calendar zone and dispatches the ones that match. The tick interval must
// not exceed the one-minute granularity of the time match or a scheduled
// slot can be silently skipped; there is deliberately no catch-up for ticks
// the process was not running for.
type ReminderWorker struct {
	rules      ruleSource
	ledger     runLedger
	dispatcher *Dispatcher
	interval   time.Duration
	location   *time.Location
}

func NewReminderWorker(rules ruleSource, ledger runLedger, dispatcher *Dispatcher, location *time.Location) *ReminderWorker {
	return &ReminderWorker{
		rules:      rules,
		ledger:     ledger,
		dispatcher: dispatcher,
		interval:   time.Minute,
		location:   location,
	}
}

// Start runs the worker until the context is cancelled
func (w *ReminderWorker) Start(ctx context.Context) {
	go w.run(ctx)
	log.Println("Reminder worker started")
}

func (w *ReminderWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx, time.Now().In(w.location))
		case <-ctx.Done():
			log.Println("Reminder worker stopped")
			return
		}
	}
}

// tick evaluates all enabled rules against now. A failure in one rule is
// logged and never stops evaluation of the remaining rules; nothing below
// this boundary terminates the loop.
func (w *ReminderWorker) tick(ctx context.Context, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Reminder tick panic: %v", r)
		}
	}()

	rules, err := w.rules.ListEnabled(ctx)
	if err != nil {
		log.Printf("Failed to load reminder rules: %v", err)
		return
	}

	currentTime := now.Format("15:04")
	for _, rule := range rules {
		if ctx.Err() != nil {
			return
		}
		if !rule.DayGroup.Matches(now.Weekday()) || rule.TimeOfDay != currentTime {
			continue
		}

		targetDate := TargetDate(now, rule.DaysBeforeTarget, w.location)

		// Cheap pre-check only; the run record's unique index is what
		// actually prevents duplicate dispatch
		exists, err := w.ledger.Exists(ctx, rule.ID, targetDate, rule.ReminderKind)
		if err != nil {
			log.Printf("Failed to check run ledger for rule %d: %v", rule.ID, err)
			continue
		}
		if exists {
			continue
		}

		if err := w.dispatcher.Dispatch(ctx, rule, targetDate); err != nil {
			log.Printf("Failed to dispatch rule %d (%s %s): %v",
				rule.ID, rule.DayGroup, rule.ReminderKind, err)
		}
	}
}

// TargetDate computes the calendar date a dispatch concerns: today in the
// given zone plus the rule's day offset, at midnight
func TargetDate(now time.Time, daysBefore int, location *time.Location) time.Time {
	local := now.In(location)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location)
	return midnight.AddDate(0, 0, daysBefore)
}
