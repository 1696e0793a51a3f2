package planner

import (
	"fmt"
	"sort"

	"github.com/AbinjithTK/Jums/internal/core"
	"github.com/AbinjithTK/Jums/internal/dates"
)

// MovedTask records one task's due-date change
type MovedTask struct {
	ID      core.TaskID `json:"id"`
	Title   string      `json:"title"`
	OldDate string      `json:"old_date"`
	NewDate string      `json:"new_date"`
}

// RescheduleResult summarizes a rescheduling pass. Tasks always carries the
// full old/new pair list so the caller can show exactly what moved.
type RescheduleResult struct {
	GoalID           core.GoalID `json:"goal_id"`
	RescheduledCount int         `json:"rescheduled_count"`
	DaysPushed       int         `json:"days_pushed,omitempty"`
	StartDate        string      `json:"start_date,omitempty"`
	SpreadDays       int         `json:"spread_days,omitempty"`
	ShiftDays        int         `json:"shift_days,omitempty"`
	Tasks            []MovedTask `json:"tasks"`
}

// DefaultDaysForward is the overdue-push window when the caller gives none.
const DefaultDaysForward = 3

// RescheduleFailed pushes every overdue incomplete task on a goal forward to
// today + daysForward. Completed tasks are never touched. An insight is
// recorded when anything actually moved.
func (p *Planner) RescheduleFailed(ownerID string, goalID core.GoalID, daysForward int) (*RescheduleResult, error) {
	if daysForward <= 0 {
		daysForward = DefaultDaysForward
	}

	tasks, err := p.tasks.ListByGoal(ownerID, goalID)
	if err != nil {
		return nil, err
	}

	today := p.today()
	newDate := dates.AddDays(today, daysForward)

	var moved []MovedTask
	for _, t := range tasks {
		if t.Completed || !dates.Before(t.DueDate, today) {
			continue
		}

		oldDate := t.DueDate
		t.DueDate = newDate
		if err := p.tasks.Update(t); err != nil {
			return nil, fmt.Errorf("reschedule task %s: %w", t.ID, err)
		}
		moved = append(moved, MovedTask{
			ID:      t.ID,
			Title:   t.Title,
			OldDate: oldDate,
			NewDate: newDate,
		})
	}

	if len(moved) > 0 {
		insight := &core.Insight{
			ID:      core.InsightID(newID()),
			OwnerID: ownerID,
			Type:    core.InsightReschedule,
			Title:   fmt.Sprintf("Rescheduled %d tasks", len(moved)),
			Content: fmt.Sprintf("Moved %d overdue tasks forward by %d days.",
				len(moved), daysForward),
			RelatedGoalID: goalID,
		}
		if err := p.insights.Create(insight); err != nil {
			return nil, fmt.Errorf("record reschedule insight: %w", err)
		}

		p.log.WithFields(map[string]interface{}{
			"goal":  goalID,
			"moved": len(moved),
			"days":  daysForward,
		}).Info("pushed overdue tasks forward")
	}

	return &RescheduleResult{
		GoalID:           goalID,
		RescheduledCount: len(moved),
		DaysPushed:       daysForward,
		Tasks:            moved,
	}, nil
}

// ReschedulePlan redistributes a goal's incomplete tasks evenly across a
// fresh window of spreadDays starting at startDate (default tomorrow). Task i
// of n lands on start + floor(i*D/n) days, so every offset stays inside
// [0, D-1]. With preserveOrder, tasks keep their relative due-date order
// (undated tasks sort last). Snooze state on the goal's active reminders is
// reset, since the plan is starting over.
func (p *Planner) ReschedulePlan(ownerID string, goalID core.GoalID, startDate string, spreadDays int, preserveOrder bool) (*RescheduleResult, error) {
	goal, err := p.goals.Get(ownerID, goalID)
	if err != nil {
		return nil, err
	}

	if spreadDays <= 0 {
		spreadDays = 7
	}
	if !dates.Valid(startDate) {
		startDate = dates.AddDays(p.today(), 1)
	}

	tasks, err := p.tasks.ListByGoal(ownerID, goalID)
	if err != nil {
		return nil, err
	}
	_, pending := splitTasks(tasks)

	if preserveOrder {
		sort.SliceStable(pending, func(i, j int) bool {
			a, b := pending[i].DueDate, pending[j].DueDate
			if a == "" {
				return false
			}
			if b == "" {
				return true
			}
			return a < b
		})
	}

	n := len(pending)
	var moved []MovedTask
	for i, t := range pending {
		offset := i * spreadDays / n
		newDate := dates.AddDays(startDate, offset)

		oldDate := t.DueDate
		t.DueDate = newDate
		if err := p.tasks.Update(t); err != nil {
			return nil, fmt.Errorf("redistribute task %s: %w", t.ID, err)
		}
		moved = append(moved, MovedTask{
			ID:      t.ID,
			Title:   t.Title,
			OldDate: oldDate,
			NewDate: newDate,
		})
	}

	// Fresh window, fresh snoozes.
	reminders, err := p.reminders.ListByGoal(ownerID, goalID)
	if err != nil {
		return nil, err
	}
	for _, r := range reminders {
		if !r.Active || r.SnoozeCount == 0 {
			continue
		}
		if err := p.reminders.ResetSnooze(ownerID, r.ID); err != nil {
			return nil, fmt.Errorf("reset snooze on reminder %s: %w", r.ID, err)
		}
	}

	goal.Insight = fmt.Sprintf("Plan rescheduled: %d tasks spread over %d days from %s",
		len(moved), spreadDays, startDate)
	if err := p.goals.Update(goal); err != nil {
		return nil, fmt.Errorf("update goal insight: %w", err)
	}

	return &RescheduleResult{
		GoalID:           goalID,
		RescheduledCount: len(moved),
		StartDate:        startDate,
		SpreadDays:       spreadDays,
		Tasks:            moved,
	}, nil
}

// ShiftPlan moves every dated incomplete task on a goal by days (negative
// shifts backward). Undated tasks get anchored to today + max(1, days) so a
// shift never leaves a task floating without a date.
func (p *Planner) ShiftPlan(ownerID string, goalID core.GoalID, days int) (*RescheduleResult, error) {
	goal, err := p.goals.Get(ownerID, goalID)
	if err != nil {
		return nil, err
	}

	tasks, err := p.tasks.ListByGoal(ownerID, goalID)
	if err != nil {
		return nil, err
	}

	anchorDays := days
	if anchorDays < 1 {
		anchorDays = 1
	}
	today := p.today()

	var moved []MovedTask
	for _, t := range tasks {
		if t.Completed {
			continue
		}

		oldDate := t.DueDate
		var newDate string
		if t.DueDate != "" {
			newDate = dates.AddDays(t.DueDate, days)
		} else {
			newDate = dates.AddDays(today, anchorDays)
		}

		t.DueDate = newDate
		if err := p.tasks.Update(t); err != nil {
			return nil, fmt.Errorf("shift task %s: %w", t.ID, err)
		}
		moved = append(moved, MovedTask{
			ID:      t.ID,
			Title:   t.Title,
			OldDate: oldDate,
			NewDate: newDate,
		})
	}

	goal.Insight = fmt.Sprintf("Plan shifted by %+d days (%d tasks)", days, len(moved))
	if err := p.goals.Update(goal); err != nil {
		return nil, fmt.Errorf("update goal insight: %w", err)
	}

	return &RescheduleResult{
		GoalID:           goalID,
		RescheduledCount: len(moved),
		ShiftDays:        days,
		Tasks:            moved,
	}, nil
}
