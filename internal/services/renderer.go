package services

import (
	"strings"
	"time"
)

// Hebrew weekday names, indexed by time.Weekday (Sunday = 0)
var weekdayNames = [7]string{"ראשון", "שני", "שלישי", "רביעי", "חמישי", "שישי", "שבת"}

// WeekdayName returns the localized name for a weekday
func WeekdayName(day time.Weekday) string {
	return weekdayNames[int(day)]
}

// RenderContext carries the values substituted into a rule's message template
type RenderContext struct {
	FirstName   string
	LastName    string
	DisplayName string
	TargetDate  time.Time
	ShiftLabel  string
	Vehicle     string
}

// FullName joins first and last name; when either is missing it falls back
// to the display name, which imported rosters always carry
func (rc RenderContext) FullName() string {
	if rc.FirstName == "" || rc.LastName == "" {
		return rc.DisplayName
	}
	return rc.FirstName + " " + rc.LastName
}

// RenderMessage substitutes the recognized placeholders in a single
// left-to-right pass. strings.Replacer never rescans substituted text, so a
// value that happens to look like another placeholder is not substituted
// again. Unrecognized {...} tokens are left untouched so old and new
// templates keep working across deployments.
func RenderMessage(template string, rc RenderContext) string {
	replacer := strings.NewReplacer(
		"{first-name}", rc.FirstName,
		"{full-name}", rc.FullName(),
		"{date}", rc.TargetDate.Format("02/01/2006"),
		"{weekday}", WeekdayName(rc.TargetDate.Weekday()),
		"{shift-label}", rc.ShiftLabel,
		"{vehicle-tag}", rc.Vehicle,
	)
	return replacer.Replace(template)
}
