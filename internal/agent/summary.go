package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/AbinjithTK/Jums/internal/core"
)

// opDailySummary builds the goals/tasks/reminders overview used for daily
// briefings.
func (a *Agent) opDailySummary(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	goals, err := a.goals.List(ownerID)
	if err != nil {
		return nil, err
	}
	tasks, err := a.tasks.List(ownerID)
	if err != nil {
		return nil, err
	}
	reminders, err := a.reminders.ListActive(ownerID)
	if err != nil {
		return nil, err
	}

	var completedTasks, pendingTasks []*core.Task
	for _, t := range tasks {
		if t.Completed {
			completedTasks = append(completedTasks, t)
		} else {
			pendingTasks = append(pendingTasks, t)
		}
	}

	type goalEntry struct {
		ID              core.GoalID   `json:"id"`
		Title           string        `json:"title"`
		Category        core.Category `json:"category"`
		Progress        int           `json:"progress"`
		Total           int           `json:"total"`
		Unit            string        `json:"unit"`
		PercentComplete int           `json:"percent_complete"`
	}

	var activeGoals []goalEntry
	completedGoalCount := 0
	for _, g := range goals {
		if g.Completed {
			completedGoalCount++
			continue
		}
		activeGoals = append(activeGoals, goalEntry{
			ID:              g.ID,
			Title:           g.Title,
			Category:        g.Category,
			Progress:        g.Progress,
			Total:           g.Total,
			Unit:            g.Unit,
			PercentComplete: g.PercentComplete(),
		})
	}

	type taskEntry struct {
		ID       core.TaskID   `json:"id"`
		Title    string        `json:"title"`
		DueDate  string        `json:"due_date,omitempty"`
		Type     core.TaskType `json:"type"`
		Priority core.Priority `json:"priority"`
	}
	var upcoming []taskEntry
	for _, t := range pendingTasks {
		if len(upcoming) == 5 {
			break
		}
		upcoming = append(upcoming, taskEntry{
			ID:       t.ID,
			Title:    t.Title,
			DueDate:  t.DueDate,
			Type:     t.Type,
			Priority: t.Priority,
		})
	}

	type reminderEntry struct {
		ID    core.ReminderID `json:"id"`
		Title string          `json:"title"`
		Time  string          `json:"time"`
	}
	var activeReminders []reminderEntry
	for _, r := range reminders {
		activeReminders = append(activeReminders, reminderEntry{
			ID:    r.ID,
			Title: r.Title,
			Time:  r.TimeSpec,
		})
	}

	return map[string]interface{}{
		"goals": map[string]interface{}{
			"active":          activeGoals,
			"completed_count": completedGoalCount,
		},
		"tasks": map[string]interface{}{
			"completed": len(completedTasks),
			"pending":   len(pendingTasks),
			"total":     len(tasks),
			"upcoming":  upcoming,
		},
		"reminders": map[string]interface{}{
			"active": activeReminders,
		},
		"overall_progress": core.Percent(len(completedTasks), len(tasks)),
	}, nil
}

// GoalAnalysis is one goal's entry in a progress analysis
type GoalAnalysis struct {
	ID              core.GoalID   `json:"id"`
	Title           string        `json:"title"`
	Category        core.Category `json:"category"`
	PercentComplete int           `json:"percent_complete"`
	Status          string        `json:"status"`
	LinkedTasks     int           `json:"linked_tasks"`
	LinkedCompleted int           `json:"linked_completed"`
	TaskVelocity    int           `json:"task_velocity"`
}

// opAnalyzeProgress runs a deep pass over every goal: per-goal status,
// category breakdown, and strategic recommendations.
func (a *Agent) opAnalyzeProgress(ctx context.Context, ownerID string, p Params) (interface{}, error) {
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

	tasksByGoal := make(map[core.GoalID][]*core.Task)
	for _, t := range tasks {
		if t.GoalID != "" {
			tasksByGoal[t.GoalID] = append(tasksByGoal[t.GoalID], t)
		}
	}

	var completedTasks, pendingTasks int
	for _, t := range tasks {
		if t.Completed {
			completedTasks++
		} else {
			pendingTasks++
		}
	}

	activeReminders := 0
	for _, r := range reminders {
		if r.Active {
			activeReminders++
		}
	}

	var analysis, atRisk, almostDone []GoalAnalysis
	activeGoals, completedGoals := 0, 0
	goalsWithoutTasks := 0

	for _, g := range goals {
		if g.Completed {
			completedGoals++
			continue
		}
		activeGoals++

		linked := tasksByGoal[g.ID]
		linkedDone := 0
		for _, t := range linked {
			if t.Completed {
				linkedDone++
			}
		}
		velocity := core.Percent(linkedDone, len(linked))
		pct := g.PercentComplete()

		var status string
		switch {
		case pct < 25 && linkedDone == 0:
			status = "at_risk"
		case pct > 75:
			status = "almost_done"
		case velocity < 30 && len(linked) > 0:
			status = "needs_attention"
		default:
			status = "on_track"
		}

		entry := GoalAnalysis{
			ID:              g.ID,
			Title:           g.Title,
			Category:        g.Category,
			PercentComplete: pct,
			Status:          status,
			LinkedTasks:     len(linked),
			LinkedCompleted: linkedDone,
			TaskVelocity:    velocity,
		}
		analysis = append(analysis, entry)
		if status == "at_risk" || status == "needs_attention" {
			atRisk = append(atRisk, entry)
		}
		if status == "almost_done" {
			almostDone = append(almostDone, entry)
		}
		if len(linked) == 0 {
			goalsWithoutTasks++
		}
	}

	type categoryStats struct {
		Goals     int `json:"goals"`
		Completed int `json:"completed"`
	}
	categories := make(map[core.Category]*categoryStats)
	for _, g := range goals {
		stats, ok := categories[g.Category]
		if !ok {
			stats = &categoryStats{}
			categories[g.Category] = stats
		}
		stats.Goals++
		if g.Completed {
			stats.Completed++
		}
	}

	var recs []string
	if goalsWithoutTasks > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d goal(s) have no tasks. Use decompose_goal_into_plan to create action plans.",
			goalsWithoutTasks))
	}
	if pendingTasks > 10 {
		recs = append(recs, "Task overload detected. Focus on the top 3 highest-priority items.")
	}
	if activeReminders == 0 && pendingTasks > 0 {
		recs = append(recs, "No active reminders. Setting reminders boosts completion rates.")
	}
	if len(atRisk) > 0 {
		var titles []string
		for _, g := range atRisk {
			if len(titles) == 3 {
				break
			}
			titles = append(titles, g.Title)
		}
		recs = append(recs, fmt.Sprintf("%d goal(s) at risk: %s",
			len(atRisk), strings.Join(titles, ", ")))
	}

	return map[string]interface{}{
		"summary": map[string]interface{}{
			"total_goals":             len(goals),
			"active_goals":            activeGoals,
			"completed_goals":         completedGoals,
			"total_tasks":             len(tasks),
			"completed_tasks":         completedTasks,
			"pending_tasks":           pendingTasks,
			"active_reminders":        activeReminders,
			"overall_completion_rate": core.Percent(completedTasks, len(tasks)),
		},
		"goal_analysis":      analysis,
		"at_risk_goals":      atRisk,
		"almost_done_goals":  almostDone,
		"category_breakdown": categories,
		"recommendations":    recs,
	}, nil
}

// Suggestion is one actionable nudge from smart_suggest
type Suggestion struct {
	Type        string `json:"type"`
	Suggestion  string `json:"suggestion"`
	Priority    string `json:"priority"`
	RelatedGoal string `json:"related_goal,omitempty"`
}

const suggestionLimit = 8

// opSmartSuggest scans for actionable patterns: unplanned goals, stale
// goals, near-finished goals, task overload, open habits, missing reminders.
func (a *Agent) opSmartSuggest(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	goals, err := a.goals.List(ownerID)
	if err != nil {
		return nil, err
	}
	tasks, err := a.tasks.List(ownerID)
	if err != nil {
		return nil, err
	}
	reminders, err := a.reminders.ListActive(ownerID)
	if err != nil {
		return nil, err
	}

	tasksByGoal := make(map[core.GoalID][]*core.Task)
	for _, t := range tasks {
		if t.GoalID != "" {
			tasksByGoal[t.GoalID] = append(tasksByGoal[t.GoalID], t)
		}
	}

	var suggestions []Suggestion

	for _, g := range goals {
		if g.Completed {
			continue
		}
		if len(tasksByGoal[g.ID]) == 0 {
			suggestions = append(suggestions, Suggestion{
				Type: "missing_tasks",
				Suggestion: fmt.Sprintf(
					"Goal %q has no tasks. Create a plan to make progress.", g.Title),
				Priority:    "high",
				RelatedGoal: g.Title,
			})
		}
	}

	for _, g := range goals {
		if g.Completed {
			continue
		}
		linked := tasksByGoal[g.ID]
		if len(linked) == 0 {
			continue
		}
		allDone := true
		for _, t := range linked {
			if !t.Completed {
				allDone = false
				break
			}
		}
		if allDone && g.Progress < g.Total {
			suggestions = append(suggestions, Suggestion{
				Type: "stale_goal",
				Suggestion: fmt.Sprintf(
					"All tasks for %q are done but goal is at %d/%d %s. Create new tasks.",
					g.Title, g.Progress, g.Total, g.Unit),
				Priority:    "medium",
				RelatedGoal: g.Title,
			})
		}
	}

	for _, g := range goals {
		if g.Completed || g.Total <= 0 {
			continue
		}
		if float64(g.Progress)/float64(g.Total) > 0.85 {
			suggestions = append(suggestions, Suggestion{
				Type: "near_completion",
				Suggestion: fmt.Sprintf(
					"You're %d%% done with %q! Just %d %s to go.",
					g.PercentComplete(), g.Title, g.Remaining(), g.Unit),
				Priority:    "high",
				RelatedGoal: g.Title,
			})
		}
	}

	var pending, habits []*core.Task
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		pending = append(pending, t)
		if t.Type == core.TaskTypeHabit {
			habits = append(habits, t)
		}
	}

	if len(pending) > 10 {
		suggestions = append(suggestions, Suggestion{
			Type: "task_overload",
			Suggestion: fmt.Sprintf(
				"You have %d pending tasks. Focus on the top 3 highest priority.", len(pending)),
			Priority: "medium",
		})
	}

	if len(habits) > 0 {
		var titles []string
		for _, t := range habits {
			if len(titles) == 3 {
				break
			}
			titles = append(titles, t.Title)
		}
		suggestions = append(suggestions, Suggestion{
			Type: "habit_reminder",
			Suggestion: fmt.Sprintf("You have %d habits to complete: %s",
				len(habits), strings.Join(titles, ", ")),
			Priority: "medium",
		})
	}

	if len(reminders) == 0 && len(pending) > 0 {
		suggestions = append(suggestions, Suggestion{
			Type:       "no_reminders",
			Suggestion: "You have tasks but no reminders. Reminders boost completion by 40%.",
			Priority:   "medium",
		})
	}

	total := len(suggestions)
	if total > suggestionLimit {
		suggestions = suggestions[:suggestionLimit]
	}

	return map[string]interface{}{
		"suggestions":       suggestions,
		"focus_area":        p.String("focus", "all"),
		"total_suggestions": total,
	}, nil
}
