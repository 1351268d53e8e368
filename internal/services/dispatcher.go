package services

import (
	"context"
	"fmt"
	"log"
	"shiftly/internal/models"
	"shiftly/internal/notify"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Narrow views of the storage collaborators, so tests can substitute fakes

type eligibilitySource interface {
	Select(ctx context.Context, from, to time.Time, kind models.ReminderKind) ([]models.EligibleShift, error)
}

type deliveryLog interface {
	Append(ctx context.Context, record *models.DeliveryRecord) error
}

type runLedger interface {
	Exists(ctx context.Context, ruleID uint, targetDate time.Time, kind models.ReminderKind) (bool, error)
	TryRecord(ctx context.Context, record *models.RunRecord) (bool, error)
}

// Dispatcher runs one rule for one target date: select eligible shifts,
// render and send each message, record each outcome, then record the run
type Dispatcher struct {
	eligibility eligibilitySource
	channel     notify.Channel
	deliveries  deliveryLog
	ledger      runLedger
}

func NewDispatcher(eligibility eligibilitySource, channel notify.Channel, deliveries deliveryLog, ledger runLedger) *Dispatcher {
	return &Dispatcher{
		eligibility: eligibility,
		channel:     channel,
		deliveries:  deliveries,
		ledger:      ledger,
	}
}

// Dispatch processes every eligible (shift, volunteer) pair for the rule and
// target date. A failed send or a failed delivery-record write for one
// volunteer never stops the rest of the batch; failures are counted and the
// aggregate lands in a single run record at the end. When the run record
// insert loses the uniqueness race to a concurrent dispatch, that is an
// expected outcome and not an error.
func (d *Dispatcher) Dispatch(ctx context.Context, rule models.ReminderRule, targetDate time.Time) error {
	from := targetDate
	to := targetDate.AddDate(0, 0, 1)

	eligible, err := d.eligibility.Select(ctx, from, to, rule.ReminderKind)
	if err != nil {
		return fmt.Errorf("selecting eligible shifts: %w", err)
	}

	var sentCount, failedCount int
	var sendErrors []string

	for _, pair := range eligible {
		// Shutdown between volunteers leaves prior rows complete and
		// simply defers the rest to a future run
		if err := ctx.Err(); err != nil {
			return err
		}

		message := RenderMessage(rule.MessageTemplate, RenderContext{
			FirstName:   pair.Volunteer.FirstName,
			LastName:    pair.Volunteer.LastName,
			DisplayName: pair.Volunteer.DisplayName,
			TargetDate:  targetDate,
			ShiftLabel:  pair.Shift.Label,
			Vehicle:     pair.Shift.Vehicle,
		})

		record := models.DeliveryRecord{
			ShiftID:      pair.Shift.ID,
			VolunteerID:  pair.Volunteer.ID,
			ReminderKind: rule.ReminderKind,
			SentAt:       time.Now(),
		}

		if sendErr := d.channel.Send(ctx, pair.Volunteer.Address, message); sendErr != nil {
			failedCount++
			record.Status = models.DeliveryFail
			record.Error = sendErr.Error()
			sendErrors = append(sendErrors, sendErr.Error())
			log.Printf("Failed to send %s reminder to %s (%s): %v",
				rule.ReminderKind, notify.MaskAddress(pair.Volunteer.Address), notify.ReasonOf(sendErr), sendErr)
		} else {
			sentCount++
			record.Status = models.DeliverySuccess
		}

		if err := d.deliveries.Append(ctx, &record); err != nil {
			log.Printf("Failed to record delivery for shift %s: %v", record.ShiftID, err)
		}
	}

	run := &models.RunRecord{
		RuleID:        rule.ID,
		TargetDate:    datatypes.Date(targetDate),
		ReminderKind:  rule.ReminderKind,
		RanAt:         time.Now(),
		TotalEligible: len(eligible),
		SentCount:     sentCount,
		FailedCount:   failedCount,
		Status:        models.DeriveRunStatus(len(eligible), sentCount, failedCount),
		ErrorSummary:  summarizeErrors(sendErrors),
	}

	inserted, err := d.ledger.TryRecord(ctx, run)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	if !inserted {
		log.Printf("Run for rule %d on %s (%s) was already recorded by another instance",
			rule.ID, targetDate.Format("2006-01-02"), rule.ReminderKind)
	}
	return nil
}

// summarizeErrors keeps the run record's error summary bounded
func summarizeErrors(sendErrors []string) string {
	const maxListed = 5
	if len(sendErrors) == 0 {
		return ""
	}
	if len(sendErrors) > maxListed {
		return fmt.Sprintf("%s (and %d more)",
			strings.Join(sendErrors[:maxListed], "; "), len(sendErrors)-maxListed)
	}
	return strings.Join(sendErrors, "; ")
}
