package planner

import (
	"fmt"
	"math"

	"github.com/AbinjithTK/Jums/internal/core"
)

// Plan statuses produced by Adapt, most decisive first.
const (
	StatusCompleted      = "completed"
	StatusAlmostDone     = "almost_done"
	StatusFallingBehind  = "falling_behind"
	StatusOnTrack        = "on_track"
	StatusNoPlan         = "no_plan"
	StatusNeedsAttention = "needs_attention"
)

// AdaptationReport describes how a plan is going and what to do about it
type AdaptationReport struct {
	GoalID            core.GoalID `json:"goal_id"`
	GoalTitle         string      `json:"goal_title"`
	Status            string      `json:"status"`
	Progress          int         `json:"progress"`
	Total             int         `json:"total"`
	PercentComplete   int         `json:"percent_complete"`
	TaskVelocity      int         `json:"task_velocity"`
	TotalTasks        int         `json:"total_tasks"`
	CompletedTasks    int         `json:"completed_tasks"`
	PendingTasks      int         `json:"pending_tasks"`
	OverdueTasks      int         `json:"overdue_tasks"`
	OverdueTaskTitles []string    `json:"overdue_task_titles"`
	Recommendations   []string    `json:"recommendations"`
}

// Adapt reviews a goal's plan and classifies how it is going. Status is the
// first matching rung of a fixed ladder; recommendations are generated
// independently, so several can apply at once.
func (p *Planner) Adapt(ownerID string, goalID core.GoalID) (*AdaptationReport, error) {
	goal, err := p.goals.Get(ownerID, goalID)
	if err != nil {
		return nil, err
	}

	tasks, err := p.tasks.ListByGoal(ownerID, goalID)
	if err != nil {
		return nil, err
	}
	completed, pending := splitTasks(tasks)
	overdue := overdueTasks(pending, p.today())

	pct := goal.PercentComplete()
	velocity := 0
	if len(tasks) > 0 {
		velocity = int(math.Round(float64(len(completed)) / float64(len(tasks)) * 100))
	}

	var status string
	switch {
	case pct >= 100:
		status = StatusCompleted
	case pct >= 80:
		status = StatusAlmostDone
	case len(overdue) > len(pending)/2 && len(pending) > 0:
		status = StatusFallingBehind
	case velocity >= 60:
		status = StatusOnTrack
	case len(tasks) == 0:
		status = StatusNoPlan
	default:
		status = StatusNeedsAttention
	}

	var recommendations []string
	if status == StatusNoPlan {
		recommendations = append(recommendations,
			"This goal has no tasks. Create a plan with decompose_goal_into_plan.")
	}
	if status == StatusFallingBehind {
		recommendations = append(recommendations, fmt.Sprintf(
			"%d tasks are overdue. Use reschedule_failed_tasks to move them forward.",
			len(overdue)))
	}
	if len(tasks) > 0 && len(completed) == len(tasks) && pct < 100 {
		recommendations = append(recommendations,
			"All tasks done but goal not complete. Create new tasks to close the gap.")
	}
	if status == StatusAlmostDone {
		recommendations = append(recommendations, fmt.Sprintf(
			"Only %d %s to go! Push to finish.", goal.Remaining(), goal.Unit))
	}
	if len(pending) == 0 && status != StatusCompleted && status != StatusNoPlan {
		recommendations = append(recommendations,
			"No pending tasks. Create next-phase tasks to maintain momentum.")
	}

	var overdueTitles []string
	for _, t := range truncate(overdue, 5) {
		overdueTitles = append(overdueTitles, t.Title)
	}

	return &AdaptationReport{
		GoalID:            goalID,
		GoalTitle:         goal.Title,
		Status:            status,
		Progress:          goal.Progress,
		Total:             goal.Total,
		PercentComplete:   pct,
		TaskVelocity:      velocity,
		TotalTasks:        len(tasks),
		CompletedTasks:    len(completed),
		PendingTasks:      len(pending),
		OverdueTasks:      len(overdue),
		OverdueTaskTitles: overdueTitles,
		Recommendations:   recommendations,
	}, nil
}
