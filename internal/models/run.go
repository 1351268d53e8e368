package models

import (
	"time"

	"gorm.io/datatypes"
)

// RunStatus represents the aggregate outcome of one dispatch run
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunPartial   RunStatus = "partial"
	RunFailed    RunStatus = "failed"
)

// DeriveRunStatus derives the aggregate status from dispatch counters.
// A run with nothing to send is still a completed run.
func DeriveRunStatus(totalEligible, sentCount, failedCount int) RunStatus {
	switch {
	case totalEligible == 0:
		return RunCompleted
	case failedCount == 0:
		return RunCompleted
	case sentCount == 0:
		return RunFailed
	default:
		return RunPartial
	}
}

// RunRecord is the audit/idempotency row proving a (rule, target date,
// reminder kind) triple has been dispatched. The composite unique index is
// the only cross-instance mutual-exclusion mechanism: when two overlapping
// dispatches race, exactly one insert survives. Rows are created once at the
// end of a dispatch and never updated or deleted.
type RunRecord struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	RuleID        uint           `gorm:"not null;uniqueIndex:ux_run_rule_date_kind,priority:1" json:"rule_id"`
	TargetDate    datatypes.Date `gorm:"not null;uniqueIndex:ux_run_rule_date_kind,priority:2" json:"target_date"`
	ReminderKind  ReminderKind   `gorm:"size:10;not null;uniqueIndex:ux_run_rule_date_kind,priority:3" json:"reminder_kind"`
	RanAt         time.Time      `gorm:"not null" json:"ran_at"`
	TotalEligible int            `gorm:"not null" json:"total_eligible"`
	SentCount     int            `gorm:"not null" json:"sent_count"`
	FailedCount   int            `gorm:"not null" json:"failed_count"`
	Status        RunStatus      `gorm:"size:10;not null" json:"status"`
	ErrorSummary  string         `gorm:"type:text" json:"error_summary,omitempty"`
}

// TableName specifies the table name for the RunRecord model
func (RunRecord) TableName() string {
	return "run_record"
}
