package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderMessage(t *testing.T) {
	// 2024-03-10 is a Sunday
	targetDate := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("substitutes recognized placeholders", func(t *testing.T) {
		got := RenderMessage("Hi {first-name}, shift {shift-label} on {date}", RenderContext{
			FirstName:  "Dana",
			ShiftLabel: "North-1",
			TargetDate: targetDate,
		})
		assert.Equal(t, "Hi Dana, shift North-1 on 10/03/2024", got)
	})

	t.Run("leaves unrecognized tokens untouched", func(t *testing.T) {
		got := RenderMessage("Hi {first-name}, see {portal-link}", RenderContext{FirstName: "Dana"})
		assert.Equal(t, "Hi Dana, see {portal-link}", got)
	})

	t.Run("substituted values are never substituted again", func(t *testing.T) {
		got := RenderMessage("{first-name} drives {vehicle-tag}", RenderContext{
			FirstName: "{vehicle-tag}",
			Vehicle:   "Ambulance-7",
		})
		assert.Equal(t, "{vehicle-tag} drives Ambulance-7", got)
	})

	t.Run("full name joins first and last", func(t *testing.T) {
		got := RenderMessage("{full-name}", RenderContext{
			FirstName:   "Dana",
			LastName:    "Levi",
			DisplayName: "Dana L.",
		})
		assert.Equal(t, "Dana Levi", got)
	})

	t.Run("full name falls back to display name when last name is missing", func(t *testing.T) {
		got := RenderMessage("{full-name}", RenderContext{
			FirstName:   "Dana",
			DisplayName: "Dana L.",
		})
		assert.Equal(t, "Dana L.", got)
	})

	t.Run("weekday is the localized literal", func(t *testing.T) {
		got := RenderMessage("משמרת ביום {weekday}", RenderContext{TargetDate: targetDate})
		assert.Equal(t, "משמרת ביום ראשון", got)
	})

	t.Run("vehicle and label", func(t *testing.T) {
		got := RenderMessage("{shift-label} / {vehicle-tag}", RenderContext{
			ShiftLabel: "לילה",
			Vehicle:    "צפון-3",
		})
		assert.Equal(t, "לילה / צפון-3", got)
	})
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "ראשון", WeekdayName(time.Sunday))
	assert.Equal(t, "שישי", WeekdayName(time.Friday))
	assert.Equal(t, "שבת", WeekdayName(time.Saturday))
}
