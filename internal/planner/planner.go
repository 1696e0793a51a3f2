// Package planner turns goals into plans and keeps those plans honest.
// It holds the timeline classifier, the plan decomposer, the plan adapter,
// and the three reschedulers. Every operation is a short-lived read-then-write
// sequence over the stores; the planner keeps no state of its own.
package planner

import (
	"time"

	"github.com/google/uuid"

	"github.com/AbinjithTK/Jums/internal/core"
	"github.com/AbinjithTK/Jums/internal/dates"
	"github.com/AbinjithTK/Jums/internal/logging"
	"github.com/AbinjithTK/Jums/internal/storage"
)

// Planner implements goal planning operations over the entity stores.
type Planner struct {
	goals     *storage.GoalStore
	tasks     *storage.TaskStore
	reminders *storage.ReminderStore
	insights  *storage.InsightStore
	log       *logging.Logger

	// now is swappable so date arithmetic is testable.
	now func() time.Time
}

// New creates a planner over the given stores
func New(goals *storage.GoalStore, tasks *storage.TaskStore, reminders *storage.ReminderStore, insights *storage.InsightStore) *Planner {
	return &Planner{
		goals:     goals,
		tasks:     tasks,
		reminders: reminders,
		insights:  insights,
		log:       logging.WithField("component", "planner"),
		now:       time.Now,
	}
}

// today returns the current ISO day.
func (p *Planner) today() string {
	return dates.Day(p.now())
}

func newID() string {
	return uuid.New().String()
}

// splitTasks partitions a task list into completed and pending.
func splitTasks(tasks []*core.Task) (completed, pending []*core.Task) {
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}
	return completed, pending
}

// overdueTasks returns the pending tasks whose due date is before today.
func overdueTasks(pending []*core.Task, today string) []*core.Task {
	var overdue []*core.Task
	for _, t := range pending {
		if dates.Before(t.DueDate, today) {
			overdue = append(overdue, t)
		}
	}
	return overdue
}
