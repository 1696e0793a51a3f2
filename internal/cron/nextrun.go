package cron

import (
	"strconv"
	"strings"
	"time"

	"github.com/AbinjithTK/Jums/internal/core"
	"github.com/AbinjithTK/Jums/internal/dates"
)

// fallbackDelay is applied when a schedule value cannot be parsed. Next-run
// computation degrades to a safe default instead of erroring.
const fallbackDelay = time.Hour

// ComputeNextRun returns the next fire time for a schedule, or nil for an
// expired one-shot. It never returns an error: any unparseable value yields
// now + 1 hour.
func ComputeNextRun(scheduleType core.ScheduleType, value string, now time.Time) *time.Time {
	now = now.UTC()

	switch scheduleType {
	case core.ScheduleOnce:
		return nextOnce(value, now)
	case core.ScheduleDaily:
		return nextDaily(value, now)
	case core.ScheduleWeekly:
		return nextWeekly(value, now)
	case core.ScheduleInterval:
		return nextInterval(value, now)
	case core.ScheduleCron:
		return nextCron(value, now)
	default:
		return fallback(now)
	}
}

func fallback(now time.Time) *time.Time {
	t := now.Add(fallbackDelay)
	return &t
}

// nextOnce parses an absolute timestamp. A once job in the past has expired:
// nil, not a fallback.
func nextOnce(value string, now time.Time) *time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		d, derr := dates.Parse(value)
		if derr != nil {
			return fallback(now)
		}
		t = d
	}
	t = t.UTC()
	if !t.After(now) {
		return nil
	}
	return &t
}

func nextDaily(value string, now time.Time) *time.Time {
	hour, minute, ok := parseClock(value)
	if !ok {
		return fallback(now)
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return &next
}

// nextWeekly parses "DayName HH:MM" and finds the next such weekday strictly
// after now.
func nextWeekly(value string, now time.Time) *time.Time {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return fallback(now)
	}

	weekday, ok := parseWeekday(parts[0])
	if !ok {
		return fallback(now)
	}
	hour, minute, ok := parseClock(parts[1])
	if !ok {
		return fallback(now)
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	next = next.AddDate(0, 0, int((weekday-now.Weekday()+7)%7))
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return &next
}

func nextInterval(value string, now time.Time) *time.Time {
	minutes, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || minutes <= 0 {
		return fallback(now)
	}
	t := now.Add(time.Duration(minutes) * time.Minute)
	return &t
}

// nextCron evaluates a 5-field cron expression (minute hour day-of-month
// month day-of-week) by walking forward minute by minute from now. The
// standard cron day rule applies: when both day fields are restricted,
// either may match. Search is bounded; expressions that never fire inside
// the window fall back.
func nextCron(value string, now time.Time) *time.Time {
	expr, err := parseCronExpr(value)
	if err != nil {
		return fallback(now)
	}

	// Start at the next whole minute.
	t := now.Truncate(time.Minute).Add(time.Minute)
	limit := t.AddDate(4, 0, 0)
	for t.Before(limit) {
		if expr.matches(t) {
			return &t
		}
		t = t.Add(time.Minute)
	}
	return fallback(now)
}

// parseClock parses "HH:MM" (24-hour).
func parseClock(s string) (hour, minute int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func parseWeekday(s string) (time.Weekday, bool) {
	switch strings.ToLower(s) {
	case "sunday", "sun":
		return time.Sunday, true
	case "monday", "mon":
		return time.Monday, true
	case "tuesday", "tue":
		return time.Tuesday, true
	case "wednesday", "wed":
		return time.Wednesday, true
	case "thursday", "thu":
		return time.Thursday, true
	case "friday", "fri":
		return time.Friday, true
	case "saturday", "sat":
		return time.Saturday, true
	}
	return 0, false
}
