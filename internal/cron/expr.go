package cron

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// cronExpr is a parsed 5-field cron expression. Each field is a set of
// permitted values; a nil set means the field was "*" (unrestricted).
type cronExpr struct {
	minutes  map[int]bool
	hours    map[int]bool
	days     map[int]bool // day of month, 1-31
	months   map[int]bool // 1-12
	weekdays map[int]bool // 0-6, Sunday = 0 (7 accepted as Sunday)
}

type fieldRange struct{ min, max int }

var cronFields = []fieldRange{
	{0, 59}, // minute
	{0, 23}, // hour
	{1, 31}, // day of month
	{1, 12}, // month
	{0, 7},  // day of week
}

func parseCronExpr(value string) (*cronExpr, error) {
	fields := strings.Fields(value)
	if len(fields) != 5 {
		return nil, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}

	sets := make([]map[int]bool, 5)
	for i, f := range fields {
		set, err := parseCronField(f, cronFields[i])
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}
		sets[i] = set
	}

	expr := &cronExpr{
		minutes:  sets[0],
		hours:    sets[1],
		days:     sets[2],
		months:   sets[3],
		weekdays: sets[4],
	}
	// 7 means Sunday too.
	if expr.weekdays != nil && expr.weekdays[7] {
		delete(expr.weekdays, 7)
		expr.weekdays[0] = true
	}
	return expr, nil
}

// parseCronField handles "*", "*/step", lists, ranges, and range-steps.
// A nil result means unrestricted.
func parseCronField(field string, r fieldRange) (map[int]bool, error) {
	if field == "*" {
		return nil, nil
	}

	set := make(map[int]bool)
	for _, part := range strings.Split(field, ",") {
		step := 1
		if idx := strings.Index(part, "/"); idx >= 0 {
			s, err := strconv.Atoi(part[idx+1:])
			if err != nil || s < 1 {
				return nil, fmt.Errorf("bad step %q", part)
			}
			step = s
			part = part[:idx]
		}

		lo, hi := r.min, r.max
		if part != "*" {
			if idx := strings.Index(part, "-"); idx >= 0 {
				a, err1 := strconv.Atoi(part[:idx])
				b, err2 := strconv.Atoi(part[idx+1:])
				if err1 != nil || err2 != nil || a > b {
					return nil, fmt.Errorf("bad range %q", part)
				}
				lo, hi = a, b
			} else {
				n, err := strconv.Atoi(part)
				if err != nil {
					return nil, fmt.Errorf("bad value %q", part)
				}
				lo, hi = n, n
			}
		}

		if lo < r.min || hi > r.max {
			return nil, fmt.Errorf("value out of range in %q", field)
		}
		for v := lo; v <= hi; v += step {
			set[v] = true
		}
	}
	return set, nil
}

// matches reports whether the expression fires at t (minute resolution).
// Per standard cron, when both the day-of-month and day-of-week fields are
// restricted the job fires when either matches.
func (e *cronExpr) matches(t time.Time) bool {
	if e.minutes != nil && !e.minutes[t.Minute()] {
		return false
	}
	if e.hours != nil && !e.hours[t.Hour()] {
		return false
	}
	if e.months != nil && !e.months[int(t.Month())] {
		return false
	}

	domOK := e.days == nil || e.days[t.Day()]
	dowOK := e.weekdays == nil || e.weekdays[int(t.Weekday())]
	if e.days != nil && e.weekdays != nil {
		return domOK || dowOK
	}
	return domOK && dowOK
}
