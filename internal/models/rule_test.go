package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayGroupMatches(t *testing.T) {
	tests := []struct {
		name  string
		group DayGroup
		day   time.Weekday
		want  bool
	}{
		{"sun-thu includes Sunday", DayGroupSunThu, time.Sunday, true},
		{"sun-thu includes Thursday", DayGroupSunThu, time.Thursday, true},
		{"sun-thu excludes Friday", DayGroupSunThu, time.Friday, false},
		{"sun-thu excludes Saturday", DayGroupSunThu, time.Saturday, false},
		{"fri includes Friday", DayGroupFri, time.Friday, true},
		{"fri excludes Thursday", DayGroupFri, time.Thursday, false},
		{"sat includes Saturday", DayGroupSat, time.Saturday, true},
		{"sat excludes Sunday", DayGroupSat, time.Sunday, false},
		{"unknown group matches nothing", DayGroup("bogus"), time.Monday, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.group.Matches(tt.day))
		})
	}
}

func TestDeriveRunStatus(t *testing.T) {
	tests := []struct {
		name                 string
		total, sent, failed  int
		want                 RunStatus
	}{
		{"no eligible recipients", 0, 0, 0, RunCompleted},
		{"all sent", 3, 3, 0, RunCompleted},
		{"all failed", 3, 0, 3, RunFailed},
		{"some failed", 3, 2, 1, RunPartial},
		{"one of each", 2, 1, 1, RunPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveRunStatus(tt.total, tt.sent, tt.failed))
		})
	}
}
