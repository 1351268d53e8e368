package store

import (
	"context"
	"shiftly/internal/models"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EligibilityQuery selects the exact set of (shift, volunteer) pairs due a
// reminder. It is a pure read: calling it repeatedly for the same window and
// kind never changes any state.
type EligibilityQuery struct {
	db *gorm.DB
}

func NewEligibilityQuery(db *gorm.DB) *EligibilityQuery {
	return &EligibilityQuery{db: db}
}

// Select returns every shift whose date falls in the half-open window
// [from, to) and whose volunteer has opted in with a non-empty contact
// address, excluding shifts that already have a successful delivery record
// for the same reminder kind.
func (q *EligibilityQuery) Select(ctx context.Context, from, to time.Time, kind models.ReminderKind) ([]models.EligibleShift, error) {
	var shifts []models.Shift
	err := q.db.WithContext(ctx).
		Joins("Volunteer").
		Where("shift.date >= ? AND shift.date < ?", datatypes.Date(from), datatypes.Date(to)).
		Where(`"Volunteer".opt_in = ? AND "Volunteer".address <> ''`, true).
		Where(`NOT EXISTS (
			SELECT 1 FROM delivery_record d
			WHERE d.shift_id = shift.id AND d.reminder_kind = ? AND d.status = ?
		)`, kind, models.DeliverySuccess).
		Order("shift.date, shift.id").
		Find(&shifts).Error
	if err != nil {
		return nil, err
	}

	eligible := make([]models.EligibleShift, 0, len(shifts))
	for _, shift := range shifts {
		eligible = append(eligible, models.EligibleShift{Shift: shift, Volunteer: shift.Volunteer})
	}
	return eligible, nil
}
