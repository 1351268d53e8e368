package store

import (
	"context"
	"errors"
	"shiftly/internal/models"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RunLedger is the idempotency gate for dispatch runs. The composite unique
// index on run_record (rule_id, target_date, reminder_kind) is the
// authoritative mutual-exclusion mechanism; Exists is only a cheap pre-check
// to avoid pointless eligibility queries and sends.
type RunLedger struct {
	db *gorm.DB
}

func NewRunLedger(db *gorm.DB) *RunLedger {
	return &RunLedger{db: db}
}

// Exists reports whether a run was already recorded for the triple. Callers
// must not rely on this for correctness: a concurrent dispatch can record the
// run between this check and TryRecord.
func (l *RunLedger) Exists(ctx context.Context, ruleID uint, targetDate time.Time, kind models.ReminderKind) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&models.RunRecord{}).
		Where("rule_id = ? AND target_date = ? AND reminder_kind = ?", ruleID, datatypes.Date(targetDate), kind).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// TryRecord attempts to persist the run record. When the unique constraint
// rejects the insert because another instance already recorded the same
// (rule, target date, kind) triple, it returns (false, nil) rather than an
// error: losing that race is an expected outcome, not a failure.
func (l *RunLedger) TryRecord(ctx context.Context, record *models.RunRecord) (bool, error) {
	if err := l.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
