package models

import "time"

// DayGroup represents the named set of weekdays a reminder rule applies to
type DayGroup string

const (
	DayGroupSunThu DayGroup = "sun_thu"
	DayGroupFri    DayGroup = "fri"
	DayGroupSat    DayGroup = "sat"
)

// Matches reports whether the given weekday belongs to the day group
func (g DayGroup) Matches(day time.Weekday) bool {
	switch g {
	case DayGroupSunThu:
		return day >= time.Sunday && day <= time.Thursday
	case DayGroupFri:
		return day == time.Friday
	case DayGroupSat:
		return day == time.Saturday
	}
	return false
}

// ReminderKind represents the class of reminder a rule produces
type ReminderKind string

const (
	KindSameDay ReminderKind = "same_day"
	KindAdvance ReminderKind = "advance"
)

// ReminderRule represents a scheduling rule in the system.
// Rules are managed through the admin API; the reminder worker only
// ever reads rows where enabled = true.
type ReminderRule struct {
	ID               uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	DayGroup         DayGroup     `gorm:"size:10;not null;uniqueIndex:ux_rule_group_kind,priority:1" json:"day_group"`
	ReminderKind     ReminderKind `gorm:"size:10;not null;uniqueIndex:ux_rule_group_kind,priority:2" json:"reminder_kind"`
	TimeOfDay        string       `gorm:"size:5;not null" json:"time_of_day"` // "HH:mm", exact match
	DaysBeforeTarget int          `gorm:"not null;default:0" json:"days_before_target"`
	Enabled          bool         `gorm:"not null;default:true" json:"enabled"`
	MessageTemplate  string       `gorm:"type:text;not null" json:"message_template"`
	CreatedAt        time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for the ReminderRule model
func (ReminderRule) TableName() string {
	return "reminder_rule"
}

// CreateRuleRequest represents the data needed to create a new reminder rule
type CreateRuleRequest struct {
	DayGroup         DayGroup     `json:"day_group" binding:"required,oneof=sun_thu fri sat"`
	ReminderKind     ReminderKind `json:"reminder_kind" binding:"required,oneof=same_day advance"`
	TimeOfDay        string       `json:"time_of_day" binding:"required"`
	DaysBeforeTarget *int         `json:"days_before_target" binding:"required,min=0"`
	Enabled          *bool        `json:"enabled"`
	MessageTemplate  string       `json:"message_template" binding:"required"`
}

// UpdateRuleRequest represents the editable fields of an existing rule
type UpdateRuleRequest struct {
	TimeOfDay        string `json:"time_of_day" binding:"required"`
	DaysBeforeTarget *int   `json:"days_before_target" binding:"required,min=0"`
	MessageTemplate  string `json:"message_template" binding:"required"`
}
