// Package core defines the fundamental types for Jums.
// These types are the DNA of the entire system.
package core

import (
	"math"
	"time"
)

// -----------------------------------------------------------------------------
// GOAL - A quantified target the user is working toward
// -----------------------------------------------------------------------------

// GoalID is a type-safe identifier for goals
type GoalID string

// Category groups goals by life area
type Category string

const (
	CategoryHealth       Category = "Health"
	CategoryLearning     Category = "Learning"
	CategoryFinance      Category = "Finance"
	CategoryPersonal     Category = "Personal"
	CategoryProfessional Category = "Professional"
	CategoryCreative     Category = "Creative"
)

// Goal represents a quantified target. Progress and Total are denominated
// in the same Unit.
type Goal struct {
	ID      GoalID `json:"id"`
	OwnerID string `json:"owner_id"`

	Title    string   `json:"title"`
	Category Category `json:"category"`
	Progress int      `json:"progress"` // >= 0
	Total    int      `json:"total"`    // > 0, target value
	Unit     string   `json:"unit"`     // km, lessons, $, books, %, ...

	// Insight is the agent's current annotation on this goal. Overwritten
	// by the planner whenever a plan is created or rescheduled.
	Insight string `json:"insight"`

	Completed bool `json:"completed"`

	// ActivePlanner marks which subsystem last touched this goal.
	ActivePlanner string `json:"active_planner"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PercentComplete returns round(progress/total*100), 0 when total <= 0.
// Never negative.
func (g *Goal) PercentComplete() int {
	return Percent(g.Progress, g.Total)
}

// Remaining returns total - progress, floored at 0.
func (g *Goal) Remaining() int {
	if r := g.Total - g.Progress; r > 0 {
		return r
	}
	return 0
}

// Percent computes round(progress/total*100), defined as 0 when total <= 0.
func Percent(progress, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(progress) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	return pct
}

// -----------------------------------------------------------------------------
// TASK - A unit of work, optionally linked to a goal and a calendar day
// -----------------------------------------------------------------------------

// TaskID is a type-safe identifier for tasks
type TaskID string

// TaskType represents the kind of task
type TaskType string

const (
	TaskTypeTask  TaskType = "task"
	TaskTypeHabit TaskType = "habit"
	TaskTypeEvent TaskType = "event"
)

// Priority is a coarse task priority
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ProofStatus tracks proof-of-completion submissions
type ProofStatus string

const (
	ProofPending   ProofStatus = "pending"
	ProofSubmitted ProofStatus = "submitted"
)

// Task represents a unit of work. DueDate is an ISO day (YYYY-MM-DD) with no
// time-of-day; empty means unscheduled. Completed=true implies CompletedAt
// is set.
type Task struct {
	ID      TaskID `json:"id"`
	OwnerID string `json:"owner_id"`
	GoalID  GoalID `json:"goal_id,omitempty"` // empty = unlinked

	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
	Type     TaskType `json:"type"`
	Priority Priority `json:"priority"`
	DueDate  string   `json:"due_date,omitempty"`

	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	RequiresProof bool        `json:"requires_proof"`
	ProofStatus   ProofStatus `json:"proof_status,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// -----------------------------------------------------------------------------
// REMINDER - A recurring or one-off nudge, matched against calendar days
// -----------------------------------------------------------------------------

// ReminderID is a type-safe identifier for reminders
type ReminderID string

// RecurrenceKind classifies a reminder's structured schedule
type RecurrenceKind string

const (
	RecurEveryDay   RecurrenceKind = "every_day"
	RecurWeekdays   RecurrenceKind = "weekdays"
	RecurDaysOfWeek RecurrenceKind = "days_of_week"
	RecurOnDate     RecurrenceKind = "on_date"
	RecurNone       RecurrenceKind = "none"
)

// Recurrence is the structured schedule descriptor for a reminder. It is
// decided once, when the reminder is created or its time text changes; the
// free-text TimeSpec is retained only as a display label.
type Recurrence struct {
	Kind RecurrenceKind `json:"kind"`
	// Days holds the matching weekdays when Kind is days_of_week.
	Days []time.Weekday `json:"days,omitempty"`
	// Date holds the ISO day when Kind is on_date.
	Date string `json:"date,omitempty"`
}

// Reminder represents a nudge with a natural-language schedule. SnoozeCount
// only increments; it is cleared only by an explicit reschedule-plan action.
type Reminder struct {
	ID      ReminderID `json:"id"`
	OwnerID string     `json:"owner_id"`
	GoalID  GoalID     `json:"goal_id,omitempty"`

	Title string `json:"title"`
	// TimeSpec is the free-text schedule description, e.g. "Every morning
	// 8 AM". Display label only; matching uses Recurrence.
	TimeSpec   string     `json:"time"`
	Recurrence Recurrence `json:"recurrence"`

	Active       bool       `json:"active"`
	SnoozeCount  int        `json:"snooze_count"`
	SnoozedUntil *time.Time `json:"snoozed_until,omitempty"`
	// OriginalTime preserves the pre-snooze schedule text.
	OriginalTime string `json:"original_time,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// -----------------------------------------------------------------------------
// INSIGHT - Append-only agent observations
// -----------------------------------------------------------------------------

// InsightID is a type-safe identifier for insights
type InsightID string

// InsightType categorizes insight records
type InsightType string

const (
	InsightMilestone      InsightType = "milestone"
	InsightReschedule     InsightType = "reschedule"
	InsightTaskOverload   InsightType = "task_overload"
	InsightMissingPlan    InsightType = "missing_plan"
	InsightProgressUpdate InsightType = "progress_update"
	InsightBriefing       InsightType = "briefing"
	InsightJournal        InsightType = "journal"
	InsightSuggestion     InsightType = "suggestion"
)

// Insight is an immutable, time-ordered log entry. Never mutated after
// creation.
type Insight struct {
	ID      InsightID `json:"id"`
	OwnerID string    `json:"owner_id"`

	Type    InsightType `json:"type"`
	Title   string      `json:"title"`
	Content string      `json:"content"`

	RelatedGoalID GoalID `json:"related_goal_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// -----------------------------------------------------------------------------
// CRON JOB - User-defined recurring or one-off automated triggers
// -----------------------------------------------------------------------------

// JobID is a type-safe identifier for cron jobs
type JobID string

// ScheduleType represents how a job's schedule value is interpreted
type ScheduleType string

const (
	ScheduleOnce     ScheduleType = "once"     // absolute timestamp
	ScheduleDaily    ScheduleType = "daily"    // HH:MM
	ScheduleWeekly   ScheduleType = "weekly"   // "DayName HH:MM"
	ScheduleInterval ScheduleType = "interval" // minutes
	ScheduleCron     ScheduleType = "cron"     // 5-field cron expression
)

// CronJob is a user-defined trigger. NextRunAt is recomputed on every
// create, update, and run; jobs carry no scheduling goroutine themselves.
// An external poller compares NextRunAt against the clock.
type CronJob struct {
	ID      JobID  `json:"id"`
	OwnerID string `json:"owner_id"`

	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`

	ScheduleType  ScheduleType `json:"schedule_type"`
	ScheduleValue string       `json:"schedule_value"`

	// ActionMessage is the natural-language instruction dispatched to the
	// AI-completion collaborator when the job fires.
	ActionMessage string `json:"action_message"`

	LastRunAt  *time.Time `json:"last_run_at,omitempty"`
	NextRunAt  *time.Time `json:"next_run_at,omitempty"`
	RunCount   int        `json:"run_count"`
	LastStatus string     `json:"last_status,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
