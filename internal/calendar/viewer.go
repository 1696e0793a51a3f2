// Package calendar aggregates tasks and reminders into per-day schedule
// views.
package calendar

import (
	"time"

	"github.com/AbinjithTK/Jums/internal/core"
	"github.com/AbinjithTK/Jums/internal/dates"
	"github.com/AbinjithTK/Jums/internal/storage"
)

// Viewer builds read-only calendar views over the entity store.
type Viewer struct {
	tasks     *storage.TaskStore
	reminders *storage.ReminderStore
	now       func() time.Time
}

// NewViewer creates a schedule viewer
func NewViewer(tasks *storage.TaskStore, reminders *storage.ReminderStore) *Viewer {
	return &Viewer{
		tasks:     tasks,
		reminders: reminders,
		now:       time.Now,
	}
}

// TaskItem is a task entry in a day view
type TaskItem struct {
	ID        core.TaskID   `json:"id"`
	Title     string        `json:"title"`
	Type      core.TaskType `json:"type"`
	Priority  core.Priority `json:"priority"`
	Completed bool          `json:"completed"`
	GoalID    core.GoalID   `json:"goal_id,omitempty"`
}

// ReminderItem is a reminder entry in a day view
type ReminderItem struct {
	ID     core.ReminderID `json:"id"`
	Title  string          `json:"title"`
	Time   string          `json:"time"`
	GoalID core.GoalID     `json:"goal_id,omitempty"`
}

// OverdueTask summarizes an incomplete task due before the viewed range
type OverdueTask struct {
	ID      core.TaskID `json:"id"`
	Title   string      `json:"title"`
	DueDate string      `json:"due_date"`
}

// DayView holds everything scheduled on one calendar day
type DayView struct {
	Date       string         `json:"date"`
	DayName    string         `json:"day_name"`
	Tasks      []TaskItem     `json:"tasks"`
	Habits     []TaskItem     `json:"habits"`
	Reminders  []ReminderItem `json:"reminders"`
	TotalItems int            `json:"total_items"`
}

// ScheduleView is a per-day calendar view over a date range
type ScheduleView struct {
	StartDate           string        `json:"start_date"`
	EndDate             string        `json:"end_date"`
	Days                int           `json:"days"`
	Schedule            []DayView     `json:"schedule"`
	TotalScheduledItems int           `json:"total_scheduled_items"`
	OverdueCount        int           `json:"overdue_count"`
	OverdueTasks        []OverdueTask `json:"overdue_tasks"`
}

// overdueTaskLimit caps the overdue summary list, not the count.
const overdueTaskLimit = 5

// Schedule builds a per-day view for [start, start+numDays). An empty or
// malformed start date falls back to today; numDays is floored at 1.
func (v *Viewer) Schedule(ownerID, startDate string, numDays int) (*ScheduleView, error) {
	start, err := dates.Parse(startDate)
	if err != nil {
		start = v.now().UTC().Truncate(24 * time.Hour)
	}
	if numDays < 1 {
		numDays = 1
	}

	allTasks, err := v.tasks.List(ownerID)
	if err != nil {
		return nil, err
	}
	allReminders, err := v.reminders.ListActive(ownerID)
	if err != nil {
		return nil, err
	}

	startISO := dates.Day(start)
	view := &ScheduleView{
		StartDate: startISO,
		EndDate:   dates.DaysFrom(start, numDays-1),
		Days:      numDays,
	}

	for i := 0; i < numDays; i++ {
		day := start.AddDate(0, 0, i)
		dayISO := dates.Day(day)

		dv := DayView{
			Date:    dayISO,
			DayName: day.Weekday().String(),
		}

		for _, t := range allTasks {
			if t.DueDate != dayISO {
				continue
			}
			item := TaskItem{
				ID:        t.ID,
				Title:     t.Title,
				Type:      t.Type,
				Priority:  t.Priority,
				Completed: t.Completed,
				GoalID:    t.GoalID,
			}
			if t.Type == core.TaskTypeHabit {
				dv.Habits = append(dv.Habits, item)
			} else {
				dv.Tasks = append(dv.Tasks, item)
			}
		}

		for _, r := range allReminders {
			if !Matches(r.Recurrence, day) {
				continue
			}
			dv.Reminders = append(dv.Reminders, ReminderItem{
				ID:     r.ID,
				Title:  r.Title,
				Time:   r.TimeSpec,
				GoalID: r.GoalID,
			})
		}

		dv.TotalItems = len(dv.Tasks) + len(dv.Habits) + len(dv.Reminders)
		view.TotalScheduledItems += dv.TotalItems
		view.Schedule = append(view.Schedule, dv)
	}

	for _, t := range allTasks {
		if t.Completed || t.DueDate == "" || !dates.Before(t.DueDate, startISO) {
			continue
		}
		view.OverdueCount++
		if len(view.OverdueTasks) < overdueTaskLimit {
			view.OverdueTasks = append(view.OverdueTasks, OverdueTask{
				ID:      t.ID,
				Title:   t.Title,
				DueDate: t.DueDate,
			})
		}
	}

	return view, nil
}
