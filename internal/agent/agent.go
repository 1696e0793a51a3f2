package agent

import (
	"context"
	"time"

	"github.com/AbinjithTK/Jums/internal/calendar"
	"github.com/AbinjithTK/Jums/internal/core"
	"github.com/AbinjithTK/Jums/internal/cron"
	"github.com/AbinjithTK/Jums/internal/dates"
	"github.com/AbinjithTK/Jums/internal/logging"
	"github.com/AbinjithTK/Jums/internal/planner"
	"github.com/AbinjithTK/Jums/internal/storage"
)

// Agent wires the planning, calendar, and cron operations into one registry.
type Agent struct {
	goals     *storage.GoalStore
	tasks     *storage.TaskStore
	reminders *storage.ReminderStore
	insights  *storage.InsightStore

	planner *planner.Planner
	viewer  *calendar.Viewer
	engine  *cron.Engine

	registry *Registry
	log      *logging.Logger
	now      func() time.Time
}

// New creates an agent and registers the full operation set
func New(
	goals *storage.GoalStore,
	tasks *storage.TaskStore,
	reminders *storage.ReminderStore,
	insights *storage.InsightStore,
	pl *planner.Planner,
	viewer *calendar.Viewer,
	engine *cron.Engine,
) *Agent {
	a := &Agent{
		goals:     goals,
		tasks:     tasks,
		reminders: reminders,
		insights:  insights,
		planner:   pl,
		viewer:    viewer,
		engine:    engine,
		registry:  NewRegistry(),
		log:       logging.WithField("component", "agent"),
		now:       time.Now,
	}
	a.registerOps()
	return a
}

// Registry returns the agent's operation registry
func (a *Agent) Registry() *Registry {
	return a.registry
}

// Invoke runs a named operation for an owner
func (a *Agent) Invoke(ctx context.Context, name, ownerID string, params Params) (interface{}, error) {
	return a.registry.Invoke(ctx, name, ownerID, params)
}

func (a *Agent) registerOps() {
	r := a.registry

	// Planning
	r.Register("analyze_goal_timeline", a.opAnalyzeTimeline)
	r.Register("decompose_goal_into_plan", a.opDecompose)
	r.Register("adapt_plan", a.opAdapt)
	r.Register("reschedule_failed_tasks", a.opRescheduleFailed)
	r.Register("reschedule_plan", a.opReschedulePlan)
	r.Register("shift_plan", a.opShiftPlan)

	// Calendar
	r.Register("get_schedule", a.opGetSchedule)

	// Cron jobs
	r.Register("add_cron_job", a.opAddCronJob)
	r.Register("update_cron_job", a.opUpdateCronJob)
	r.Register("remove_cron_job", a.opRemoveCronJob)
	r.Register("run_cron_job", a.opRunCronJob)
	r.Register("list_cron_jobs", a.opListCronJobs)

	// Summaries and suggestions
	r.Register("get_daily_summary", a.opDailySummary)
	r.Register("analyze_progress", a.opAnalyzeProgress)
	r.Register("smart_suggest", a.opSmartSuggest)

	// Entity actions
	r.Register("delete_goal", a.opDeleteGoal)
	r.Register("snooze_reminder", a.opSnoozeReminder)
	r.Register("search_data", a.opSearchData)
}

// ----- planning ops -----

func (a *Agent) opAnalyzeTimeline(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	return a.planner.AnalyzeTimeline(ownerID, core.GoalID(p.String("goal_id", "")))
}

func (a *Agent) opDecompose(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	return a.planner.Decompose(ownerID,
		core.GoalID(p.String("goal_id", "")),
		p.String("milestones", ""),
		p.String("tasks", ""),
		p.String("reminders", ""),
	)
}

func (a *Agent) opAdapt(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	return a.planner.Adapt(ownerID, core.GoalID(p.String("goal_id", "")))
}

func (a *Agent) opRescheduleFailed(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	return a.planner.RescheduleFailed(ownerID,
		core.GoalID(p.String("goal_id", "")),
		p.Int("days_forward", planner.DefaultDaysForward),
	)
}

func (a *Agent) opReschedulePlan(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	return a.planner.ReschedulePlan(ownerID,
		core.GoalID(p.String("goal_id", "")),
		p.String("start_date", ""),
		p.Int("spread_days", 7),
		p.Bool("preserve_order", true),
	)
}

func (a *Agent) opShiftPlan(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	return a.planner.ShiftPlan(ownerID,
		core.GoalID(p.String("goal_id", "")),
		p.Int("days", 1),
	)
}

// ----- calendar ops -----

func (a *Agent) opGetSchedule(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	start := p.String("start_date", dates.Day(a.now()))
	return a.viewer.Schedule(ownerID, start, p.Int("num_days", 7))
}

// ----- cron ops -----

func (a *Agent) opAddCronJob(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	name := p.String("name", "")
	if name == "" {
		return nil, core.ErrMissingRequired
	}
	return a.engine.Add(ownerID,
		name,
		p.String("description", ""),
		core.ScheduleType(p.String("schedule_type", string(core.ScheduleDaily))),
		p.String("schedule_value", ""),
		p.String("action_message", ""),
	)
}

func (a *Agent) opUpdateCronJob(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	job, err := a.engine.Get(ownerID, core.JobID(p.String("job_id", "")))
	if err != nil {
		return nil, err
	}

	job.Name = p.String("name", job.Name)
	job.Description = p.String("description", job.Description)
	job.Enabled = p.Bool("enabled", job.Enabled)
	job.ScheduleType = core.ScheduleType(p.String("schedule_type", string(job.ScheduleType)))
	job.ScheduleValue = p.String("schedule_value", job.ScheduleValue)
	job.ActionMessage = p.String("action_message", job.ActionMessage)

	if err := a.engine.Update(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (a *Agent) opRemoveCronJob(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	id := core.JobID(p.String("job_id", ""))
	if err := a.engine.Remove(ownerID, id); err != nil {
		return nil, err
	}
	return map[string]interface{}{"removed": id}, nil
}

func (a *Agent) opRunCronJob(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	return a.engine.Run(ownerID, core.JobID(p.String("job_id", "")))
}

func (a *Agent) opListCronJobs(ctx context.Context, ownerID string, p Params) (interface{}, error) {
	return a.engine.List(ownerID)
}
