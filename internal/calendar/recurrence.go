// Package calendar aggregates tasks and reminders into per-day schedule
// views.
package calendar

import (
	"regexp"
	"strings"
	"time"

	"github.com/AbinjithTK/Jums/internal/core"
	"github.com/AbinjithTK/Jums/internal/dates"
)

var isoDayPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseRecurrence derives a structured recurrence descriptor from a
// reminder's free-text schedule. Called once, at create/update time; the
// free text survives only as a display label.
//
// Named weekdays win over generic "every"/"daily" words, so "Every Friday"
// matches Fridays only instead of every day. A bare "weekly" with no day
// named anchors to the weekday the reminder was created on.
func ParseRecurrence(text string, createdAt time.Time) core.Recurrence {
	lower := strings.ToLower(text)

	if date := isoDayPattern.FindString(text); date != "" && dates.Valid(date) {
		return core.Recurrence{Kind: core.RecurOnDate, Date: date}
	}

	var days []time.Weekday
	for name, day := range weekdayNames {
		if strings.Contains(lower, name) {
			days = append(days, day)
		}
	}
	if len(days) > 0 {
		sortWeekdays(days)
		return core.Recurrence{Kind: core.RecurDaysOfWeek, Days: days}
	}

	if strings.Contains(lower, "weekday") {
		return core.Recurrence{Kind: core.RecurWeekdays}
	}

	for _, kw := range []string{"every", "daily", "morning", "evening"} {
		if strings.Contains(lower, kw) {
			return core.Recurrence{Kind: core.RecurEveryDay}
		}
	}

	if strings.Contains(lower, "weekly") {
		return core.Recurrence{
			Kind: core.RecurDaysOfWeek,
			Days: []time.Weekday{createdAt.Weekday()},
		}
	}

	return core.Recurrence{Kind: core.RecurNone}
}

// Matches reports whether a recurrence fires on the given day.
func Matches(rec core.Recurrence, day time.Time) bool {
	switch rec.Kind {
	case core.RecurEveryDay:
		return true
	case core.RecurWeekdays:
		wd := day.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case core.RecurDaysOfWeek:
		for _, d := range rec.Days {
			if d == day.Weekday() {
				return true
			}
		}
		return false
	case core.RecurOnDate:
		return rec.Date == dates.Day(day)
	default:
		return false
	}
}

func sortWeekdays(days []time.Weekday) {
	for i := 1; i < len(days); i++ {
		for j := i; j > 0 && days[j] < days[j-1]; j-- {
			days[j], days[j-1] = days[j-1], days[j]
		}
	}
}
