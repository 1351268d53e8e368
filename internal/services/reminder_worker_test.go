package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"shiftly/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuleSource struct {
	rules []models.ReminderRule
	err   error
}

func (f *fakeRuleSource) ListEnabled(ctx context.Context) ([]models.ReminderRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rules, nil
}

func newTestWorker(rules []models.ReminderRule, eligibility *fakeEligibility, ledger *fakeLedger) *ReminderWorker {
	dispatcher := NewDispatcher(eligibility, &fakeChannel{}, &fakeDeliveryLog{}, ledger)
	return NewReminderWorker(&fakeRuleSource{rules: rules}, ledger, dispatcher, time.UTC)
}

// 2024-03-08 was a Friday
func fridayAt(hour, minute int) time.Time {
	return time.Date(2024, 3, 8, hour, minute, 0, 0, time.UTC)
}

func TestTickDayGroupNeverFiresOffGroup(t *testing.T) {
	rule := models.ReminderRule{
		ID: 1, DayGroup: models.DayGroupSunThu, ReminderKind: models.KindSameDay,
		TimeOfDay: "10:00", Enabled: true, MessageTemplate: "x",
	}
	eligibility := &fakeEligibility{}
	ledger := newFakeLedger()
	worker := newTestWorker([]models.ReminderRule{rule}, eligibility, ledger)

	// Friday and Saturday at the matching time must not fire a Sun-Thu rule
	worker.tick(context.Background(), fridayAt(10, 0))
	worker.tick(context.Background(), fridayAt(10, 0).AddDate(0, 0, 1))

	assert.Zero(t, eligibility.calls)
	assert.Empty(t, ledger.all())
}

func TestTickTimeOfDayIsExactMatch(t *testing.T) {
	rule := models.ReminderRule{
		ID: 1, DayGroup: models.DayGroupFri, ReminderKind: models.KindSameDay,
		TimeOfDay: "10:00", Enabled: true, MessageTemplate: "x",
	}
	eligibility := &fakeEligibility{}
	ledger := newFakeLedger()
	worker := newTestWorker([]models.ReminderRule{rule}, eligibility, ledger)

	worker.tick(context.Background(), fridayAt(9, 59))
	worker.tick(context.Background(), fridayAt(10, 1))
	assert.Zero(t, eligibility.calls)

	worker.tick(context.Background(), fridayAt(10, 0))
	assert.Equal(t, 1, eligibility.calls)
	assert.Len(t, ledger.all(), 1)
}

func TestTickSkipsAlreadyRecordedRun(t *testing.T) {
	rule := models.ReminderRule{
		ID: 1, DayGroup: models.DayGroupFri, ReminderKind: models.KindSameDay,
		TimeOfDay: "10:00", Enabled: true, MessageTemplate: "x",
	}
	eligibility := &fakeEligibility{}
	ledger := newFakeLedger()
	worker := newTestWorker([]models.ReminderRule{rule}, eligibility, ledger)

	now := fridayAt(10, 0)
	worker.tick(context.Background(), now)
	worker.tick(context.Background(), now)

	// The second tick pre-checked the ledger and never ran eligibility
	assert.Equal(t, 1, eligibility.calls)
	assert.Len(t, ledger.all(), 1)
}

func TestTickAdvanceRuleTargetsOffsetDate(t *testing.T) {
	rule := models.ReminderRule{
		ID: 2, DayGroup: models.DayGroupFri, ReminderKind: models.KindAdvance,
		TimeOfDay: "18:30", DaysBeforeTarget: 2, Enabled: true, MessageTemplate: "x",
	}
	eligibility := &fakeEligibility{}
	ledger := newFakeLedger()
	worker := newTestWorker([]models.ReminderRule{rule}, eligibility, ledger)

	worker.tick(context.Background(), fridayAt(18, 30))

	runs := ledger.all()
	require.Len(t, runs, 1)
	// Friday 2024-03-08 + 2 days = Sunday 2024-03-10
	assert.Equal(t, "2024-03-10", time.Time(runs[0].TargetDate).Format("2006-01-02"))
	assert.Equal(t, models.KindAdvance, runs[0].ReminderKind)
}

func TestTickRuleFailureDoesNotStopOtherRules(t *testing.T) {
	rules := []models.ReminderRule{
		{ID: 1, DayGroup: models.DayGroupFri, ReminderKind: models.KindSameDay, TimeOfDay: "10:00", Enabled: true, MessageTemplate: "x"},
		{ID: 2, DayGroup: models.DayGroupFri, ReminderKind: models.KindAdvance, TimeOfDay: "10:00", Enabled: true, MessageTemplate: "x"},
	}
	eligibility := &fakeEligibility{err: errors.New("db down")}
	ledger := newFakeLedger()
	worker := newTestWorker(rules, eligibility, ledger)

	worker.tick(context.Background(), fridayAt(10, 0))

	// Both rules were evaluated even though each dispatch failed
	assert.Equal(t, 2, eligibility.calls)
	assert.Empty(t, ledger.all())
}

func TestTickStopsBetweenRulesOnCancel(t *testing.T) {
	rules := []models.ReminderRule{
		{ID: 1, DayGroup: models.DayGroupFri, ReminderKind: models.KindSameDay, TimeOfDay: "10:00", Enabled: true, MessageTemplate: "x"},
	}
	eligibility := &fakeEligibility{}
	ledger := newFakeLedger()
	worker := newTestWorker(rules, eligibility, ledger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	worker.tick(ctx, fridayAt(10, 0))

	assert.Zero(t, eligibility.calls)
	assert.Empty(t, ledger.all())
}

func TestTickEndToEndPartialRun(t *testing.T) {
	rule := models.ReminderRule{
		ID: 1, DayGroup: models.DayGroupFri, ReminderKind: models.KindSameDay,
		TimeOfDay: "10:00", Enabled: true,
		MessageTemplate: "Hi {first-name}, shift {shift-label} on {date}",
	}
	eligibility := &fakeEligibility{pairs: []models.EligibleShift{
		eligiblePair("s1", "a@example.org"),
		eligiblePair("s2", "b@example.org"),
		eligiblePair("s3", "c@example.org"),
	}}
	ledger := newFakeLedger()
	channel := &fakeChannel{failFor: map[string]error{"c@example.org": errors.New("gateway down")}}
	deliveries := &fakeDeliveryLog{}
	dispatcher := NewDispatcher(eligibility, channel, deliveries, ledger)
	worker := NewReminderWorker(&fakeRuleSource{rules: []models.ReminderRule{rule}}, ledger, dispatcher, time.UTC)

	worker.tick(context.Background(), fridayAt(10, 0))

	runs := ledger.all()
	require.Len(t, runs, 1)
	assert.Equal(t, 3, runs[0].TotalEligible)
	assert.Equal(t, 2, runs[0].SentCount)
	assert.Equal(t, 1, runs[0].FailedCount)
	assert.Equal(t, models.RunPartial, runs[0].Status)
	assert.Equal(t, "2024-03-08", time.Time(runs[0].TargetDate).Format("2006-01-02"))
	assert.Len(t, deliveries.records, 3)
}

func TestTargetDate(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 3, 8, 23, 45, 0, 0, loc)

	assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, loc), TargetDate(now, 0, loc))
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, loc), TargetDate(now, 2, loc))

	// Offsets cross month boundaries on the calendar, not by adding hours
	endOfMonth := time.Date(2024, 3, 31, 12, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, loc), TargetDate(endOfMonth, 1, loc))
}
