package store

import (
	"context"
	"shiftly/internal/models"

	"gorm.io/gorm"
)

// RuleStore provides the reminder worker's read-only view of scheduling rules
type RuleStore struct {
	db *gorm.DB
}

func NewRuleStore(db *gorm.DB) *RuleStore {
	return &RuleStore{db: db}
}

// ListEnabled returns all rules with enabled = true
func (s *RuleStore) ListEnabled(ctx context.Context) ([]models.ReminderRule, error) {
	var rules []models.ReminderRule
	if err := s.db.WithContext(ctx).Where("enabled = ?", true).Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}
