package store

import (
	"context"
	"shiftly/internal/models"

	"gorm.io/gorm"
)

// DeliveryLog is the append-only record of per-volunteer send outcomes.
// Rows are never updated or deleted.
type DeliveryLog struct {
	db *gorm.DB
}

func NewDeliveryLog(db *gorm.DB) *DeliveryLog {
	return &DeliveryLog{db: db}
}

// Append persists one send outcome
func (l *DeliveryLog) Append(ctx context.Context, record *models.DeliveryRecord) error {
	return l.db.WithContext(ctx).Create(record).Error
}
