package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/AbinjithTK/Jums/internal/core"
)

// opDeleteGoal removes a goal and cascades to its linked tasks. Reminders
// linked to the goal survive with a dangling goal reference; callers that
// want them gone must remove them explicitly.
func (a *Agent) opDeleteGoal(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	goalID := core.GoalID(p.String("goal_id", ""))

	if _, err := a.goals.Get(ownerID, goalID); err != nil {
		return nil, err
	}

	removed, err := a.tasks.DeleteByGoal(ownerID, goalID)
	if err != nil {
		return nil, err
	}
	if err := a.goals.Delete(ownerID, goalID); err != nil {
		return nil, err
	}

	a.log.WithFields(map[string]interface{}{
		"goal":          goalID,
		"tasks_removed": removed,
	}).Info("goal deleted")

	return map[string]interface{}{
		"success":              true,
		"deleted":              goalID,
		"linked_tasks_removed": removed,
	}, nil
}

const (
	defaultSnoozeMinutes = 30
	maxSnoozeMinutes     = 1440
)

// opSnoozeReminder pushes a reminder forward by N minutes. Three or more
// snoozes earns a warning suggesting the reminder be rescheduled or removed.
func (a *Agent) opSnoozeReminder(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	minutes := p.Int("minutes", defaultSnoozeMinutes)
	if minutes < 1 {
		minutes = defaultSnoozeMinutes
	}
	if minutes > maxSnoozeMinutes {
		minutes = maxSnoozeMinutes
	}

	reminder, err := a.reminders.Snooze(ownerID, core.ReminderID(p.String("reminder_id", "")), minutes)
	if err != nil {
		return nil, err
	}

	result := map[string]interface{}{
		"id":            reminder.ID,
		"title":         reminder.Title,
		"time":          reminder.TimeSpec,
		"snooze_count":  reminder.SnoozeCount,
		"snoozed_until": reminder.SnoozedUntil,
	}
	if reminder.SnoozeCount >= 3 {
		result["warning"] = fmt.Sprintf(
			"This reminder has been snoozed %d times. "+
				"Consider asking the user if they want to reschedule or remove it.",
			reminder.SnoozeCount)
	}
	return result, nil
}

// opSearchData does a case-insensitive keyword search across goals, tasks,
// and reminders.
func (a *Agent) opSearchData(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	query := strings.ToLower(p.String("query", ""))
	if query == "" {
		return nil, core.ErrMissingRequired
	}

	goals, err := a.goals.List(ownerID)
	if err != nil {
		return nil, err
	}
	tasks, err := a.tasks.List(ownerID)
	if err != nil {
		return nil, err
	}
	reminders, err := a.reminders.List(ownerID)
	if err != nil {
		return nil, err
	}

	type goalHit struct {
		ID       core.GoalID   `json:"id"`
		Title    string        `json:"title"`
		Category core.Category `json:"category"`
	}
	type taskHit struct {
		ID        core.TaskID   `json:"id"`
		Title     string        `json:"title"`
		Type      core.TaskType `json:"type"`
		Completed bool          `json:"completed"`
	}
	type reminderHit struct {
		ID    core.ReminderID `json:"id"`
		Title string          `json:"title"`
	}

	var goalHits []goalHit
	for _, g := range goals {
		if strings.Contains(strings.ToLower(g.Title), query) ||
			strings.Contains(strings.ToLower(string(g.Category)), query) {
			goalHits = append(goalHits, goalHit{ID: g.ID, Title: g.Title, Category: g.Category})
		}
	}

	var taskHits []taskHit
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), query) ||
			strings.Contains(strings.ToLower(t.Detail), query) {
			taskHits = append(taskHits, taskHit{
				ID: t.ID, Title: t.Title, Type: t.Type, Completed: t.Completed,
			})
		}
	}

	var reminderHits []reminderHit
	for _, r := range reminders {
		if strings.Contains(strings.ToLower(r.Title), query) {
			reminderHits = append(reminderHits, reminderHit{ID: r.ID, Title: r.Title})
		}
	}

	return map[string]interface{}{
		"goals":     goalHits,
		"tasks":     taskHits,
		"reminders": reminderHits,
	}, nil
}
