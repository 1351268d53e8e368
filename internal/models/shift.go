package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Volunteer represents a person assigned to shifts. Rows are produced by the
// spreadsheet import pipeline and edited through the admin API; the reminder
// engine only ever reads them.
type Volunteer struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	FirstName   string    `gorm:"size:50" json:"first_name"`
	LastName    string    `gorm:"size:50" json:"last_name"`
	DisplayName string    `gorm:"size:100;not null" json:"display_name"`
	Address     string    `gorm:"size:255" json:"address"` // email or phone, depending on the configured channel
	OptIn       bool      `gorm:"not null;default:true" json:"opt_in"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook assigns an ID to imported volunteers
func (v *Volunteer) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the Volunteer model
func (Volunteer) TableName() string {
	return "volunteer"
}

// Shift represents one volunteer's slot on a calendar date
type Shift struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Date        datatypes.Date `gorm:"not null;index" json:"date"`
	Label       string         `gorm:"size:100" json:"label"`
	Vehicle     string         `gorm:"size:50" json:"vehicle"`
	VolunteerID string         `gorm:"size:36;not null;index" json:"volunteer_id"`
	Volunteer   Volunteer      `gorm:"foreignKey:VolunteerID" json:"volunteer"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook assigns an ID to imported shifts
func (s *Shift) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the Shift model
func (Shift) TableName() string {
	return "shift"
}

// EligibleShift pairs a shift with its assigned volunteer for one dispatch
type EligibleShift struct {
	Shift     Shift     `json:"shift"`
	Volunteer Volunteer `json:"volunteer"`
}
