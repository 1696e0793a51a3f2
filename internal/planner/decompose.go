package planner

import (
	"encoding/json"
	"fmt"

	"github.com/AbinjithTK/Jums/internal/calendar"
	"github.com/AbinjithTK/Jums/internal/core"
	"github.com/AbinjithTK/Jums/internal/dates"
)

// MilestoneSpec describes one plan milestone
type MilestoneSpec struct {
	Title      string `json:"title"`
	Target     int    `json:"target"`
	TargetDate string `json:"target_date"`
}

// TaskSpec describes one plan task. DueDate wins over DayOffset when both
// are present.
type TaskSpec struct {
	Title     string `json:"title"`
	Detail    string `json:"detail"`
	Type      string `json:"type"`
	Priority  string `json:"priority"`
	DueDate   string `json:"due_date"`
	DayOffset int    `json:"day_offset"`
}

// ReminderSpec describes one plan reminder
type ReminderSpec struct {
	Title string `json:"title"`
	Time  string `json:"time"`
}

// CreatedTask summarizes a task the decomposer created
type CreatedTask struct {
	ID      core.TaskID `json:"id"`
	Title   string      `json:"title"`
	DueDate string      `json:"due_date"`
}

// CreatedReminder summarizes a reminder the decomposer created
type CreatedReminder struct {
	ID    core.ReminderID `json:"id"`
	Title string          `json:"title"`
}

// PlanSummary reports what a decomposition created
type PlanSummary struct {
	GoalID            core.GoalID       `json:"goal_id"`
	GoalTitle         string            `json:"goal_title"`
	MilestonesCreated int               `json:"milestones_created"`
	TasksCreated      int               `json:"tasks_created"`
	RemindersCreated  int               `json:"reminders_created"`
	Tasks             []CreatedTask     `json:"tasks"`
	Reminders         []CreatedReminder `json:"reminders"`
}

// The summary lists are truncated for display; creation itself is uncapped.
const (
	taskSummaryLimit     = 10
	reminderSummaryLimit = 5
)

// Decompose materializes a plan into the stores: milestones become insight
// records, task specs become tasks linked to the goal, reminder specs become
// reminders with a parsed recurrence. Each of the three JSON collections is
// best-effort; malformed input degrades to an empty collection rather than
// failing the whole decomposition.
func (p *Planner) Decompose(ownerID string, goalID core.GoalID, milestonesJSON, tasksJSON, remindersJSON string) (*PlanSummary, error) {
	goal, err := p.goals.Get(ownerID, goalID)
	if err != nil {
		return nil, err
	}

	milestones := parseSpecs[MilestoneSpec](milestonesJSON)
	taskSpecs := parseSpecs[TaskSpec](tasksJSON)
	reminderSpecs := parseSpecs[ReminderSpec](remindersJSON)

	now := p.now().UTC()

	for i, ms := range milestones {
		content, _ := json.Marshal(map[string]interface{}{
			"goal_id":     goalID,
			"target":      ms.Target,
			"target_date": ms.TargetDate,
			"index":       i,
			"status":      "pending",
		})
		insight := &core.Insight{
			ID:            core.InsightID(newID()),
			OwnerID:       ownerID,
			Type:          core.InsightMilestone,
			Title:         fmt.Sprintf("Milestone %d: %s", i+1, ms.Title),
			Content:       string(content),
			RelatedGoalID: goalID,
		}
		if err := p.insights.Create(insight); err != nil {
			return nil, fmt.Errorf("create milestone insight: %w", err)
		}
	}

	var createdTasks []CreatedTask
	for _, spec := range taskSpecs {
		dueDate := spec.DueDate
		if dueDate == "" && spec.DayOffset > 0 {
			dueDate = dates.DaysFrom(now, spec.DayOffset)
		}

		title := spec.Title
		if title == "" {
			title = "Untitled task"
		}

		task := &core.Task{
			ID:       core.TaskID(newID()),
			OwnerID:  ownerID,
			GoalID:   goalID,
			Title:    title,
			Detail:   spec.Detail,
			Type:     core.TaskType(spec.Type),
			Priority: core.Priority(spec.Priority),
			DueDate:  dueDate,
		}
		if err := p.tasks.Create(task); err != nil {
			return nil, fmt.Errorf("create plan task: %w", err)
		}
		createdTasks = append(createdTasks, CreatedTask{
			ID:      task.ID,
			Title:   task.Title,
			DueDate: dueDate,
		})
	}

	var createdReminders []CreatedReminder
	for _, spec := range reminderSpecs {
		reminder := &core.Reminder{
			ID:           core.ReminderID(newID()),
			OwnerID:      ownerID,
			GoalID:       goalID,
			Title:        spec.Title,
			TimeSpec:     spec.Time,
			Recurrence:   calendar.ParseRecurrence(spec.Time, now),
			Active:       true,
			OriginalTime: spec.Time,
		}
		if err := p.reminders.Create(reminder); err != nil {
			return nil, fmt.Errorf("create plan reminder: %w", err)
		}
		createdReminders = append(createdReminders, CreatedReminder{
			ID:    reminder.ID,
			Title: reminder.Title,
		})
	}

	goal.Insight = fmt.Sprintf("Plan active: %d milestones, %d tasks, %d reminders",
		len(milestones), len(createdTasks), len(createdReminders))
	goal.ActivePlanner = "planner"
	if err := p.goals.Update(goal); err != nil {
		return nil, fmt.Errorf("update goal insight: %w", err)
	}

	p.log.WithFields(map[string]interface{}{
		"goal":       goalID,
		"milestones": len(milestones),
		"tasks":      len(createdTasks),
		"reminders":  len(createdReminders),
	}).Info("decomposed goal into plan")

	return &PlanSummary{
		GoalID:            goalID,
		GoalTitle:         goal.Title,
		MilestonesCreated: len(milestones),
		TasksCreated:      len(createdTasks),
		RemindersCreated:  len(createdReminders),
		Tasks:             truncate(createdTasks, taskSummaryLimit),
		Reminders:         truncate(createdReminders, reminderSummaryLimit),
	}, nil
}

// parseSpecs decodes a JSON array, treating malformed or empty input as an
// empty collection.
func parseSpecs[T any](raw string) []T {
	if raw == "" {
		return nil
	}
	var specs []T
	if err := json.Unmarshal([]byte(raw), &specs); err != nil {
		return nil
	}
	return specs
}

func truncate[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
