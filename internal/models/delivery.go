package models

import "time"

// DeliveryStatus represents the outcome of a single send attempt
type DeliveryStatus string

const (
	DeliverySuccess DeliveryStatus = "success"
	DeliveryFail    DeliveryStatus = "fail"
)

// DeliveryRecord is the append-only audit row for one volunteer's send
// attempt within a dispatch. A shift with a prior success row for the same
// reminder kind is never selected again by the eligibility query.
type DeliveryRecord struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ShiftID      string         `gorm:"size:36;not null;index:idx_delivery_shift_kind,priority:1" json:"shift_id"`
	VolunteerID  string         `gorm:"size:36;not null;index" json:"volunteer_id"`
	ReminderKind ReminderKind   `gorm:"size:10;not null;index:idx_delivery_shift_kind,priority:2" json:"reminder_kind"`
	Status       DeliveryStatus `gorm:"size:10;not null" json:"status"`
	Error        string         `gorm:"type:text" json:"error,omitempty"`
	SentAt       time.Time      `gorm:"not null" json:"sent_at"`
}

// TableName specifies the table name for the DeliveryRecord model
func (DeliveryRecord) TableName() string {
	return "delivery_record"
}
