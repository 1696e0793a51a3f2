package planner

import (
	"fmt"
	"math"

	"github.com/AbinjithTK/Jums/internal/core"
	"github.com/AbinjithTK/Jums/internal/dates"
)

// Timeline buckets returned by the classifier.
const (
	TimelineShortTerm  = "short_term"
	TimelineMediumTerm = "medium_term"
	TimelineLongTerm   = "long_term"
)

// ProgressSnapshot captures where a goal stands at analysis time
type ProgressSnapshot struct {
	Progress        int     `json:"progress"`
	Total           int     `json:"total"`
	PercentComplete int     `json:"percent_complete"`
	DaysActive      int     `json:"days_active"`
	CompletedTasks  int     `json:"completed_tasks"`
	PendingTasks    int     `json:"pending_tasks"`
	Velocity        float64 `json:"velocity"` // completed tasks per day
}

// TimelineReport classifies a goal's horizon and recommends plan structure
type TimelineReport struct {
	GoalID               core.GoalID      `json:"goal_id"`
	GoalTitle            string           `json:"goal_title"`
	Category             core.Category    `json:"category"`
	Timeline             string           `json:"timeline"`
	EstimatedDays        int              `json:"estimated_days"`
	TargetCompletionDate string           `json:"target_completion_date"`
	TaskFrequency        string           `json:"recommended_task_frequency"`
	MilestoneCount       int              `json:"recommended_milestone_count"`
	CurrentProgress      ProgressSnapshot `json:"current_progress"`
	PlanningAdvice       string           `json:"planning_advice"`
}

// AnalyzeTimeline classifies a goal as short/medium/long term and recommends
// task cadence and milestone structure. Thresholds run on remaining units;
// once the goal has task history, observed velocity overrides the table
// estimate.
func (p *Planner) AnalyzeTimeline(ownerID string, goalID core.GoalID) (*TimelineReport, error) {
	goal, err := p.goals.Get(ownerID, goalID)
	if err != nil {
		return nil, err
	}

	tasks, err := p.tasks.ListByGoal(ownerID, goalID)
	if err != nil {
		return nil, err
	}
	completed, pending := splitTasks(tasks)

	daysActive := int(p.now().UTC().Sub(goal.CreatedAt).Hours() / 24)
	if daysActive < 0 {
		daysActive = 0
	}

	remaining := goal.Remaining()

	var timeline, frequency string
	var estimatedDays, milestones int
	switch {
	case goal.Total <= 10 || remaining <= 3:
		timeline = TimelineShortTerm
		estimatedDays = max(7, remaining*2)
		frequency = "daily"
		milestones = 2
	case goal.Total <= 50 || remaining <= 20:
		timeline = TimelineMediumTerm
		estimatedDays = max(30, remaining*3)
		frequency = "3-4 times per week"
		milestones = 3
	default:
		timeline = TimelineLongTerm
		estimatedDays = max(90, remaining*5)
		frequency = "2-3 times per week"
		milestones = 5
	}

	// Observed velocity beats the table once there is history.
	velocity := 0.0
	if daysActive > 0 && len(completed) > 0 {
		velocity = float64(len(completed)) / float64(daysActive)
		if velocity > 0 {
			estimatedDays = int(float64(len(pending))/velocity) + 1
		}
	}

	return &TimelineReport{
		GoalID:               goal.ID,
		GoalTitle:            goal.Title,
		Category:             goal.Category,
		Timeline:             timeline,
		EstimatedDays:        estimatedDays,
		TargetCompletionDate: dates.DaysFrom(p.now(), estimatedDays),
		TaskFrequency:        frequency,
		MilestoneCount:       milestones,
		CurrentProgress: ProgressSnapshot{
			Progress:        goal.Progress,
			Total:           goal.Total,
			PercentComplete: goal.PercentComplete(),
			DaysActive:      daysActive,
			CompletedTasks:  len(completed),
			PendingTasks:    len(pending),
			Velocity:        math.Round(velocity*100) / 100,
		},
		PlanningAdvice: planningAdvice(timeline, remaining),
	}, nil
}

func planningAdvice(timeline string, remaining int) string {
	switch timeline {
	case TimelineShortTerm:
		return fmt.Sprintf(
			"This is a short-term goal with %d units remaining. "+
				"Create daily tasks with specific deadlines. "+
				"Set 1-2 check-in reminders. Focus on momentum.", remaining)
	case TimelineMediumTerm:
		return fmt.Sprintf(
			"This is a medium-term goal (%d units remaining). "+
				"Break into 3 milestones with weekly task batches. "+
				"Set recurring reminders for consistency. "+
				"Plan a mid-point review.", remaining)
	default:
		return fmt.Sprintf(
			"This is a long-term goal (%d units remaining). "+
				"Create 4-5 milestones spanning months. "+
				"Use weekly task batches with rest days built in. "+
				"Set bi-weekly progress reviews. "+
				"Plan for plateaus and motivation dips.", remaining)
	}
}
