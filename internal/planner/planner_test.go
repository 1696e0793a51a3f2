package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/AbinjithTK/Jums/internal/core"
	"github.com/AbinjithTK/Jums/internal/dates"
	"github.com/AbinjithTK/Jums/internal/storage"
)

const testOwner = "user-1"

// fixedNow keeps date arithmetic deterministic: Monday 2026-03-16.
var fixedNow = time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)

type fixture struct {
	planner   *Planner
	goals     *storage.GoalStore
	tasks     *storage.TaskStore
	reminders *storage.ReminderStore
	insights  *storage.InsightStore
}

func testFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := storage.Open(storage.Config{InMemory: true})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	goals := storage.NewGoalStore(db)
	tasks := storage.NewTaskStore(db)
	reminders := storage.NewReminderStore(db)
	insights := storage.NewInsightStore(db)

	p := New(goals, tasks, reminders, insights)
	p.now = func() time.Time { return fixedNow }

	return &fixture{planner: p, goals: goals, tasks: tasks, reminders: reminders, insights: insights}
}

func (f *fixture) makeGoal(t *testing.T, progress, total int) *core.Goal {
	t.Helper()
	goal := &core.Goal{
		ID:       "g1",
		OwnerID:  testOwner,
		Title:    "Read books",
		Category: core.CategoryLearning,
		Progress: progress,
		Total:    total,
		Unit:     "books",
	}
	if err := f.goals.Create(goal); err != nil {
		t.Fatalf("create goal: %v", err)
	}
	return goal
}

func (f *fixture) makeTask(t *testing.T, id string, dueDate string, completed bool) *core.Task {
	t.Helper()
	task := &core.Task{
		ID:        core.TaskID(id),
		OwnerID:   testOwner,
		GoalID:    "g1",
		Title:     "Task " + id,
		DueDate:   dueDate,
		Completed: completed,
	}
	if err := f.tasks.Create(task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

// ----- timeline -----

func TestAnalyzeTimeline_ShortTermTable(t *testing.T) {
	f := testFixture(t)
	f.makeGoal(t, 1, 5)

	report, err := f.planner.AnalyzeTimeline(testOwner, "g1")
	if err != nil {
		t.Fatalf("AnalyzeTimeline() error = %v", err)
	}

	if report.Timeline != TimelineShortTerm {
		t.Errorf("Timeline = %q, want short_term", report.Timeline)
	}
	if report.TaskFrequency != "daily" {
		t.Errorf("TaskFrequency = %q, want daily", report.TaskFrequency)
	}
	if report.MilestoneCount != 2 {
		t.Errorf("MilestoneCount = %d, want 2", report.MilestoneCount)
	}
	// remaining=4, max(7, 4*2) = 8; no task history so the table wins.
	if report.EstimatedDays != 8 {
		t.Errorf("EstimatedDays = %d, want 8", report.EstimatedDays)
	}
	if report.TargetCompletionDate != "2026-03-24" {
		t.Errorf("TargetCompletionDate = %q, want 2026-03-24", report.TargetCompletionDate)
	}
}

func TestAnalyzeTimeline_Buckets(t *testing.T) {
	tests := []struct {
		name       string
		progress   int
		total      int
		timeline   string
		milestones int
	}{
		{"small total", 0, 10, TimelineShortTerm, 2},
		{"nearly done", 97, 100, TimelineShortTerm, 2},
		{"medium total", 5, 50, TimelineMediumTerm, 3},
		{"few remaining", 85, 100, TimelineMediumTerm, 3},
		{"large", 10, 200, TimelineLongTerm, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testFixture(t)
			f.makeGoal(t, tt.progress, tt.total)

			report, err := f.planner.AnalyzeTimeline(testOwner, "g1")
			if err != nil {
				t.Fatalf("AnalyzeTimeline() error = %v", err)
			}
			if report.Timeline != tt.timeline {
				t.Errorf("Timeline = %q, want %q", report.Timeline, tt.timeline)
			}
			if report.MilestoneCount != tt.milestones {
				t.Errorf("MilestoneCount = %d, want %d", report.MilestoneCount, tt.milestones)
			}
		})
	}
}

func TestAnalyzeTimeline_VelocityOverride(t *testing.T) {
	f := testFixture(t)
	f.makeGoal(t, 10, 200)

	// The store stamps CreatedAt with the real clock, so age the goal by
	// moving "now" ten days past creation: 5 completed tasks over 10 days
	// is a velocity of 0.5/day.
	aged := time.Now().UTC().AddDate(0, 0, 10).Add(time.Hour)
	f.planner.now = func() time.Time { return aged }

	for i := 0; i < 5; i++ {
		f.makeTask(t, string(rune('a'+i)), "", true)
	}
	for i := 0; i < 4; i++ {
		f.makeTask(t, string(rune('p'+i)), "", false)
	}

	report, err := f.planner.AnalyzeTimeline(testOwner, "g1")
	if err != nil {
		t.Fatalf("AnalyzeTimeline() error = %v", err)
	}

	// 4 pending / 0.5 per day + 1 = 9, overriding the long-term table
	// estimate of max(90, 190*5).
	if report.EstimatedDays != 9 {
		t.Errorf("EstimatedDays = %d, want velocity-based 9", report.EstimatedDays)
	}
	if report.CurrentProgress.Velocity != 0.5 {
		t.Errorf("Velocity = %v, want 0.5", report.CurrentProgress.Velocity)
	}
}

func TestAnalyzeTimeline_NotFound(t *testing.T) {
	f := testFixture(t)
	_, err := f.planner.AnalyzeTimeline(testOwner, "missing")
	if !errors.Is(err, core.ErrGoalNotFound) {
		t.Errorf("error = %v, want ErrGoalNotFound", err)
	}
}

// ----- decompose -----

func TestDecompose_FullPlan(t *testing.T) {
	f := testFixture(t)
	f.makeGoal(t, 0, 20)

	milestones := `[{"title":"Phase 1","target":5,"target_date":"2026-04-01"},{"title":"Phase 2","target":15}]`
	tasks := `[{"title":"Read chapter 1","due_date":"2026-03-17","priority":"high"},{"title":"Read chapter 2","day_offset":3}]`
	reminders := `[{"title":"Reading time","time":"Every evening 9 PM"}]`

	summary, err := f.planner.Decompose(testOwner, "g1", milestones, tasks, reminders)
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}

	if summary.MilestonesCreated != 2 || summary.TasksCreated != 2 || summary.RemindersCreated != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/2/1",
			summary.MilestonesCreated, summary.TasksCreated, summary.RemindersCreated)
	}

	// day_offset resolves relative to today.
	if summary.Tasks[1].DueDate != "2026-03-19" {
		t.Errorf("offset task due = %q, want 2026-03-19", summary.Tasks[1].DueDate)
	}

	// Milestones land as insight records.
	insights, err := f.insights.ListByGoal(testOwner, "g1", 10)
	if err != nil {
		t.Fatalf("list insights: %v", err)
	}
	if len(insights) != 2 {
		t.Errorf("insights = %d, want 2 milestones", len(insights))
	}

	// Goal annotation is overwritten with the plan summary.
	goal, err := f.goals.Get(testOwner, "g1")
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if goal.Insight != "Plan active: 2 milestones, 2 tasks, 1 reminders" {
		t.Errorf("goal.Insight = %q", goal.Insight)
	}
	if goal.ActivePlanner != "planner" {
		t.Errorf("goal.ActivePlanner = %q, want planner", goal.ActivePlanner)
	}

	// Reminder recurrence parsed at creation.
	created, err := f.reminders.ListByGoal(testOwner, "g1")
	if err != nil {
		t.Fatalf("list reminders: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("reminders = %d, want 1", len(created))
	}
	if created[0].Recurrence.Kind != core.RecurEveryDay {
		t.Errorf("reminder recurrence = %q, want every_day", created[0].Recurrence.Kind)
	}
	if created[0].OriginalTime != "Every evening 9 PM" {
		t.Errorf("OriginalTime = %q, want seeded from time", created[0].OriginalTime)
	}
}

func TestDecompose_MalformedMilestonesDegradeToEmpty(t *testing.T) {
	f := testFixture(t)
	f.makeGoal(t, 0, 20)

	summary, err := f.planner.Decompose(testOwner, "g1", "not json", "[]", "[]")
	if err != nil {
		t.Fatalf("Decompose() with malformed milestones error = %v, want nil", err)
	}
	if summary.MilestonesCreated != 0 {
		t.Errorf("MilestonesCreated = %d, want 0", summary.MilestonesCreated)
	}
}

func TestDecompose_GoalNotFound(t *testing.T) {
	f := testFixture(t)
	_, err := f.planner.Decompose(testOwner, "missing", "[]", "[]", "[]")
	if !errors.Is(err, core.ErrGoalNotFound) {
		t.Errorf("error = %v, want ErrGoalNotFound", err)
	}
}

func TestDecompose_TruncatesSummaries(t *testing.T) {
	f := testFixture(t)
	f.makeGoal(t, 0, 20)

	tasksJSON := "["
	for i := 0; i < 12; i++ {
		if i > 0 {
			tasksJSON += ","
		}
		tasksJSON += `{"title":"T"}`
	}
	tasksJSON += "]"

	summary, err := f.planner.Decompose(testOwner, "g1", "[]", tasksJSON, "[]")
	if err != nil {
		t.Fatalf("Decompose() error = %v", err)
	}

	// All 12 are created; the report lists only the first 10.
	if summary.TasksCreated != 12 {
		t.Errorf("TasksCreated = %d, want 12", summary.TasksCreated)
	}
	if len(summary.Tasks) != 10 {
		t.Errorf("len(Tasks) = %d, want 10", len(summary.Tasks))
	}

	all, err := f.tasks.ListByGoal(testOwner, "g1")
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(all) != 12 {
		t.Errorf("stored tasks = %d, want 12", len(all))
	}
}

// ----- adapt -----

func TestAdapt_OnTrackVelocity(t *testing.T) {
	f := testFixture(t)
	f.makeGoal(t, 30, 100)

	// 10 tasks, 7 completed, 0 overdue: velocity 70.
	for i := 0; i < 7; i++ {
		f.makeTask(t, string(rune('a'+i)), "", true)
	}
	for i := 0; i < 3; i++ {
		f.makeTask(t, string(rune('p'+i)), "2026-03-20", false)
	}

	report, err := f.planner.Adapt(testOwner, "g1")
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}

	if report.TaskVelocity != 70 {
		t.Errorf("TaskVelocity = %d, want 70", report.TaskVelocity)
	}
	if report.Status != StatusOnTrack {
		t.Errorf("Status = %q, want on_track", report.Status)
	}
}

func TestAdapt_CompletedBeatsEverything(t *testing.T) {
	f := testFixture(t)
	f.makeGoal(t, 100, 100)

	report, err := f.planner.Adapt(testOwner, "g1")
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	// No tasks at all, but pct 100 wins the ladder.
	if report.Status != StatusCompleted {
		t.Errorf("Status = %q, want completed", report.Status)
	}
}

func TestAdapt_FallingBehind(t *testing.T) {
	f := testFixture(t)
	f.makeGoal(t, 10, 100)

	// 3 of 4 pending are overdue: 3 > 4/2.
	f.makeTask(t, "o1", "2026-03-10", false)
	f.makeTask(t, "o2", "2026-03-11", false)
	f.makeTask(t, "o3", "2026-03-12", false)
	f.makeTask(t, "p1", "2026-03-20", false)

	report, err := f.planner.Adapt(testOwner, "g1")
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	if report.Status != StatusFallingBehind {
		t.Errorf("Status = %q, want falling_behind", report.Status)
	}
	if report.OverdueTasks != 3 {
		t.Errorf("OverdueTasks = %d, want 3", report.OverdueTasks)
	}
	if len(report.Recommendations) == 0 {
		t.Error("falling_behind should recommend rescheduling")
	}
}

func TestAdapt_NoPlan(t *testing.T) {
	f := testFixture(t)
	f.makeGoal(t, 10, 100)

	report, err := f.planner.Adapt(testOwner, "g1")
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	if report.Status != StatusNoPlan {
		t.Errorf("Status = %q, want no_plan", report.Status)
	}
}

func TestAdapt_IndependentRecommendations(t *testing.T) {
	f := testFixture(t)
	f.makeGoal(t, 85, 100)

	// almost_done by percent, and all tasks finished: both the push
	// encouragement and the new-tasks nudge should appear.
	f.makeTask(t, "a", "", true)
	f.makeTask(t, "b", "", true)

	report, err := f.planner.Adapt(testOwner, "g1")
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	if report.Status != StatusAlmostDone {
		t.Fatalf("Status = %q, want almost_done", report.Status)
	}
	if len(report.Recommendations) < 2 {
		t.Errorf("Recommendations = %v, want multiple independent ones", report.Recommendations)
	}
}

// ----- reschedulers -----

func TestRescheduleFailed_PushesOverdue(t *testing.T) {
	f := testFixture(t)
	f.makeGoal(t, 0, 100)

	f.makeTask(t, "overdue", "2026-03-10", false)
	f.makeTask(t, "future", "2026-03-20", false)
	f.makeTask(t, "done", "2026-03-10", true)

	result, err := f.planner.RescheduleFailed(testOwner, "g1", 0)
	if err != nil {
		t.Fatalf("RescheduleFailed() error = %v", err)
	}

	if result.RescheduledCount != 1 {
		t.Fatalf("RescheduledCount = %d, want 1", result.RescheduledCount)
	}
	if result.DaysPushed != DefaultDaysForward {
		t.Errorf("DaysPushed = %d, want default %d", result.DaysPushed, DefaultDaysForward)
	}
	if result.Tasks[0].NewDate != "2026-03-19" {
		t.Errorf("NewDate = %q, want today+3 = 2026-03-19", result.Tasks[0].NewDate)
	}

	// Completed and future tasks untouched.
	done, _ := f.tasks.Get(testOwner, "done")
	if done.DueDate != "2026-03-10" {
		t.Errorf("completed task moved to %q", done.DueDate)
	}
	future, _ := f.tasks.Get(testOwner, "future")
	if future.DueDate != "2026-03-20" {
		t.Errorf("future task moved to %q", future.DueDate)
	}

	insights, _ := f.insights.ListByGoal(testOwner, "g1", 10)
	if len(insights) != 1 || insights[0].Type != core.InsightReschedule {
		t.Errorf("expected one reschedule insight, got %v", insights)
	}
}

func TestRescheduleFailed_NothingOverdueNoInsight(t *testing.T) {
	f := testFixture(t)
	f.makeGoal(t, 0, 100)
	f.makeTask(t, "future", "2026-03-20", false)

	result, err := f.planner.RescheduleFailed(testOwner, "g1", 3)
	if err != nil {
		t.Fatalf("RescheduleFailed() error = %v", err)
	}
	if result.RescheduledCount != 0 {
		t.Errorf("RescheduledCount = %d, want 0", result.RescheduledCount)
	}

	insights, _ := f.insights.ListByGoal(testOwner, "g1", 10)
	if len(insights) != 0 {
		t.Errorf("no-op reschedule should not record an insight, got %d", len(insights))
	}
}

func TestReschedulePlan_OffsetsWithinWindow(t *testing.T) {
	f := testFixture(t)
	f.makeGoal(t, 0, 100)

	for i := 0; i < 5; i++ {
		f.makeTask(t, string(rune('a'+i)), dates.AddDays("2026-03-01", i), false)
	}

	start := "2026-03-17"
	spread := 7
	result, err := f.planner.ReschedulePlan(testOwner, "g1", start, spread, true)
	if err != nil {
		t.Fatalf("ReschedulePlan() error = %v", err)
	}
	if result.RescheduledCount != 5 {
		t.Fatalf("RescheduledCount = %d, want 5", result.RescheduledCount)
	}

	prev := ""
	for _, moved := range result.Tasks {
		if dates.Before(moved.NewDate, start) {
			t.Errorf("task %s landed before the window: %s", moved.ID, moved.NewDate)
		}
		lastDay := dates.AddDays(start, spread-1)
		if dates.Before(lastDay, moved.NewDate) {
			t.Errorf("task %s landed past the window: %s", moved.ID, moved.NewDate)
		}
		if prev != "" && dates.Before(moved.NewDate, prev) {
			t.Errorf("order not preserved: %s before %s", moved.NewDate, prev)
		}
		prev = moved.NewDate
	}
}

func TestReschedulePlan_ResetsSnoozes(t *testing.T) {
	f := testFixture(t)
	goal := f.makeGoal(t, 0, 100)
	f.makeTask(t, "a", "2026-03-10", false)

	reminder := &core.Reminder{
		ID: "r1", OwnerID: testOwner, GoalID: "g1",
		Title: "Keep going", TimeSpec: "daily", Active: true,
	}
	if err := f.reminders.Create(reminder); err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	if _, err := f.reminders.Snooze(testOwner, "r1", 60); err != nil {
		t.Fatalf("snooze: %v", err)
	}

	if _, err := f.planner.ReschedulePlan(testOwner, goal.ID, "2026-03-17", 7, false); err != nil {
		t.Fatalf("ReschedulePlan() error = %v", err)
	}

	got, _ := f.reminders.Get(testOwner, "r1")
	if got.SnoozeCount != 0 || got.SnoozedUntil != nil {
		t.Errorf("snooze state not reset: count=%d until=%v", got.SnoozeCount, got.SnoozedUntil)
	}
}

func TestShiftPlan_RoundTrip(t *testing.T) {
	f := testFixture(t)
	f.makeGoal(t, 0, 100)

	f.makeTask(t, "dated", "2026-03-20", false)
	f.makeTask(t, "undated", "", false)

	if _, err := f.planner.ShiftPlan(testOwner, "g1", 5); err != nil {
		t.Fatalf("ShiftPlan(+5) error = %v", err)
	}

	dated, _ := f.tasks.Get(testOwner, "dated")
	if dated.DueDate != "2026-03-25" {
		t.Errorf("dated task after +5 = %q, want 2026-03-25", dated.DueDate)
	}
	// Undated anchors to today + max(1, 5).
	undated, _ := f.tasks.Get(testOwner, "undated")
	if undated.DueDate != "2026-03-21" {
		t.Errorf("undated task anchored to %q, want 2026-03-21", undated.DueDate)
	}

	if _, err := f.planner.ShiftPlan(testOwner, "g1", -5); err != nil {
		t.Fatalf("ShiftPlan(-5) error = %v", err)
	}

	dated, _ = f.tasks.Get(testOwner, "dated")
	if dated.DueDate != "2026-03-20" {
		t.Errorf("dated task after round trip = %q, want original 2026-03-20", dated.DueDate)
	}
}

func TestShiftPlan_NegativeShiftAnchorsUndatedForward(t *testing.T) {
	f := testFixture(t)
	f.makeGoal(t, 0, 100)
	f.makeTask(t, "undated", "", false)

	if _, err := f.planner.ShiftPlan(testOwner, "g1", -3); err != nil {
		t.Fatalf("ShiftPlan(-3) error = %v", err)
	}

	// max(1, -3) = 1: never anchored into the past.
	got, _ := f.tasks.Get(testOwner, "undated")
	if got.DueDate != "2026-03-17" {
		t.Errorf("undated task anchored to %q, want 2026-03-17", got.DueDate)
	}
}
