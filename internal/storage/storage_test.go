package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/AbinjithTK/Jums/internal/core"
)

// testDB creates an in-memory database for testing
func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Config{InMemory: true})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

const testOwner = "user-1"

func makeGoal(t *testing.T, store *GoalStore, title string) *core.Goal {
	t.Helper()
	goal := &core.Goal{
		ID:       core.GoalID("goal-" + title),
		OwnerID:  testOwner,
		Title:    title,
		Category: core.CategoryHealth,
		Progress: 0,
		Total:    100,
		Unit:     "km",
	}
	if err := store.Create(goal); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return goal
}

// =============================================================================
// GoalStore Tests
// =============================================================================

func TestGoalStore_CreateAndGet(t *testing.T) {
	db := testDB(t)
	store := NewGoalStore(db)

	goal := makeGoal(t, store, "Run 100km")

	got, err := store.Get(testOwner, goal.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Run 100km" {
		t.Errorf("Title = %q, want %q", got.Title, "Run 100km")
	}
	if got.Category != core.CategoryHealth {
		t.Errorf("Category = %q, want %q", got.Category, core.CategoryHealth)
	}
}

func TestGoalStore_Get_NotFound(t *testing.T) {
	db := testDB(t)
	store := NewGoalStore(db)

	_, err := store.Get(testOwner, "missing")
	if !errors.Is(err, core.ErrGoalNotFound) {
		t.Errorf("Get() error = %v, want ErrGoalNotFound", err)
	}
}

func TestGoalStore_Get_WrongOwner(t *testing.T) {
	db := testDB(t)
	store := NewGoalStore(db)

	goal := makeGoal(t, store, "Private")

	_, err := store.Get("someone-else", goal.ID)
	if !errors.Is(err, core.ErrGoalNotFound) {
		t.Errorf("Get() with wrong owner error = %v, want ErrGoalNotFound", err)
	}
}

func TestGoalStore_ListActive(t *testing.T) {
	db := testDB(t)
	store := NewGoalStore(db)

	active := makeGoal(t, store, "Active")
	done := makeGoal(t, store, "Done")
	done.Completed = true
	if err := store.Update(done); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	goals, err := store.ListActive(testOwner)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("ListActive() returned %d goals, want 1", len(goals))
	}
	if goals[0].ID != active.ID {
		t.Errorf("ListActive()[0].ID = %v, want %v", goals[0].ID, active.ID)
	}
}

func TestGoalStore_Update_NotFound(t *testing.T) {
	db := testDB(t)
	store := NewGoalStore(db)

	goal := &core.Goal{ID: "ghost", OwnerID: testOwner, Title: "Ghost"}
	if err := store.Update(goal); !errors.Is(err, core.ErrGoalNotFound) {
		t.Errorf("Update() error = %v, want ErrGoalNotFound", err)
	}
}

func TestGoalStore_Delete(t *testing.T) {
	db := testDB(t)
	store := NewGoalStore(db)

	goal := makeGoal(t, store, "Delete me")
	if err := store.Delete(testOwner, goal.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(testOwner, goal.ID); !errors.Is(err, core.ErrGoalNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrGoalNotFound", err)
	}
}

// =============================================================================
// TaskStore Tests
// =============================================================================

func TestTaskStore_CreateDefaults(t *testing.T) {
	db := testDB(t)
	store := NewTaskStore(db)

	task := &core.Task{
		ID:      "task-1",
		OwnerID: testOwner,
		Title:   "Do the thing",
	}
	if err := store.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.Get(testOwner, task.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Type != core.TaskTypeTask {
		t.Errorf("Type = %q, want default %q", got.Type, core.TaskTypeTask)
	}
	if got.Priority != core.PriorityMedium {
		t.Errorf("Priority = %q, want default %q", got.Priority, core.PriorityMedium)
	}
}

func TestTaskStore_ListByGoal(t *testing.T) {
	db := testDB(t)
	store := NewTaskStore(db)

	for i, goalID := range []core.GoalID{"g1", "g1", "g2"} {
		task := &core.Task{
			ID:      core.TaskID(string(rune('a' + i))),
			OwnerID: testOwner,
			GoalID:  goalID,
			Title:   "Task",
		}
		if err := store.Create(task); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tasks, err := store.ListByGoal(testOwner, "g1")
	if err != nil {
		t.Fatalf("ListByGoal() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("ListByGoal(g1) returned %d tasks, want 2", len(tasks))
	}
}

func TestTaskStore_DeleteByGoal(t *testing.T) {
	db := testDB(t)
	store := NewTaskStore(db)

	for _, id := range []core.TaskID{"t1", "t2", "t3"} {
		goalID := core.GoalID("g1")
		if id == "t3" {
			goalID = "g2"
		}
		task := &core.Task{ID: id, OwnerID: testOwner, GoalID: goalID, Title: "T"}
		if err := store.Create(task); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	removed, err := store.DeleteByGoal(testOwner, "g1")
	if err != nil {
		t.Fatalf("DeleteByGoal() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("DeleteByGoal() removed %d, want 2", removed)
	}

	remaining, err := store.List(testOwner)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != "t3" {
		t.Errorf("after cascade, remaining = %v, want only t3", remaining)
	}
}

// =============================================================================
// ReminderStore Tests
// =============================================================================

func TestReminderStore_Snooze(t *testing.T) {
	db := testDB(t)
	store := NewReminderStore(db)

	reminder := &core.Reminder{
		ID:       "r1",
		OwnerID:  testOwner,
		Title:    "Stretch",
		TimeSpec: "Every morning 8 AM",
		Active:   true,
	}
	if err := store.Create(reminder); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	before := time.Now().UTC()
	snoozed, err := store.Snooze(testOwner, "r1", 30)
	if err != nil {
		t.Fatalf("Snooze() error = %v", err)
	}

	if snoozed.SnoozeCount != 1 {
		t.Errorf("SnoozeCount = %d, want 1", snoozed.SnoozeCount)
	}
	if snoozed.OriginalTime != "Every morning 8 AM" {
		t.Errorf("OriginalTime = %q, want original time spec", snoozed.OriginalTime)
	}
	if snoozed.SnoozedUntil == nil {
		t.Fatal("SnoozedUntil should be set")
	}
	if snoozed.SnoozedUntil.Before(before.Add(29 * time.Minute)) {
		t.Errorf("SnoozedUntil = %v, want ~30m in the future", snoozed.SnoozedUntil)
	}

	// Second snooze keeps counting.
	snoozed, err = store.Snooze(testOwner, "r1", 30)
	if err != nil {
		t.Fatalf("Snooze() error = %v", err)
	}
	if snoozed.SnoozeCount != 2 {
		t.Errorf("SnoozeCount after second snooze = %d, want 2", snoozed.SnoozeCount)
	}
}

func TestReminderStore_ResetSnooze(t *testing.T) {
	db := testDB(t)
	store := NewReminderStore(db)

	reminder := &core.Reminder{ID: "r1", OwnerID: testOwner, Title: "Stretch", Active: true}
	if err := store.Create(reminder); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Snooze(testOwner, "r1", 15); err != nil {
		t.Fatalf("Snooze() error = %v", err)
	}

	if err := store.ResetSnooze(testOwner, "r1"); err != nil {
		t.Fatalf("ResetSnooze() error = %v", err)
	}

	got, err := store.Get(testOwner, "r1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.SnoozeCount != 0 {
		t.Errorf("SnoozeCount = %d, want 0", got.SnoozeCount)
	}
	if got.SnoozedUntil != nil {
		t.Errorf("SnoozedUntil = %v, want nil", got.SnoozedUntil)
	}
}

func TestReminderStore_RecurrenceRoundTrip(t *testing.T) {
	db := testDB(t)
	store := NewReminderStore(db)

	reminder := &core.Reminder{
		ID:       "r1",
		OwnerID:  testOwner,
		Title:    "Gym",
		TimeSpec: "Every Friday 6 PM",
		Recurrence: core.Recurrence{
			Kind: core.RecurDaysOfWeek,
			Days: []time.Weekday{time.Friday},
		},
		Active: true,
	}
	if err := store.Create(reminder); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.Get(testOwner, "r1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Recurrence.Kind != core.RecurDaysOfWeek {
		t.Errorf("Recurrence.Kind = %q, want days_of_week", got.Recurrence.Kind)
	}
	if len(got.Recurrence.Days) != 1 || got.Recurrence.Days[0] != time.Friday {
		t.Errorf("Recurrence.Days = %v, want [Friday]", got.Recurrence.Days)
	}
}

// =============================================================================
// InsightStore Tests
// =============================================================================

func TestInsightStore_ListNewestFirst(t *testing.T) {
	db := testDB(t)
	store := NewInsightStore(db)

	for _, id := range []core.InsightID{"i1", "i2", "i3"} {
		insight := &core.Insight{
			ID:      id,
			OwnerID: testOwner,
			Type:    core.InsightMilestone,
			Title:   string(id),
		}
		if err := store.Create(insight); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	insights, err := store.List(testOwner, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(insights) != 2 {
		t.Fatalf("List() returned %d, want 2 (limit)", len(insights))
	}
	if insights[0].ID != "i3" {
		t.Errorf("List()[0].ID = %v, want newest (i3)", insights[0].ID)
	}
}

func TestInsightStore_ListByGoal(t *testing.T) {
	db := testDB(t)
	store := NewInsightStore(db)

	a := &core.Insight{ID: "i1", OwnerID: testOwner, Type: core.InsightMilestone, Title: "a", RelatedGoalID: "g1"}
	b := &core.Insight{ID: "i2", OwnerID: testOwner, Type: core.InsightReschedule, Title: "b", RelatedGoalID: "g2"}
	for _, in := range []*core.Insight{a, b} {
		if err := store.Create(in); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	insights, err := store.ListByGoal(testOwner, "g1", 10)
	if err != nil {
		t.Fatalf("ListByGoal() error = %v", err)
	}
	if len(insights) != 1 || insights[0].ID != "i1" {
		t.Errorf("ListByGoal(g1) = %v, want only i1", insights)
	}
}

// =============================================================================
// CronJobStore Tests
// =============================================================================

func TestCronJobStore_ListDue(t *testing.T) {
	db := testDB(t)
	store := NewCronJobStore(db)

	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	jobs := []*core.CronJob{
		{ID: "due", OwnerID: testOwner, Name: "due", Enabled: true,
			ScheduleType: core.ScheduleDaily, NextRunAt: &past},
		{ID: "later", OwnerID: testOwner, Name: "later", Enabled: true,
			ScheduleType: core.ScheduleDaily, NextRunAt: &future},
		{ID: "disabled", OwnerID: testOwner, Name: "disabled", Enabled: false,
			ScheduleType: core.ScheduleDaily, NextRunAt: &past},
		{ID: "other-owner", OwnerID: "user-2", Name: "other", Enabled: true,
			ScheduleType: core.ScheduleDaily, NextRunAt: &past},
	}
	for _, job := range jobs {
		if err := store.Create(job); err != nil {
			t.Fatalf("Create(%s) error = %v", job.ID, err)
		}
	}

	due, err := store.ListDue(now)
	if err != nil {
		t.Fatalf("ListDue() error = %v", err)
	}

	// Due jobs cross owner partitions; the poller serves everyone.
	if len(due) != 2 {
		t.Fatalf("ListDue() returned %d jobs, want 2", len(due))
	}
	ids := map[core.JobID]bool{}
	for _, j := range due {
		ids[j.ID] = true
	}
	if !ids["due"] || !ids["other-owner"] {
		t.Errorf("ListDue() = %v, want due and other-owner", ids)
	}
}

func TestCronJobStore_UpdateRunState(t *testing.T) {
	db := testDB(t)
	store := NewCronJobStore(db)

	job := &core.CronJob{
		ID: "j1", OwnerID: testOwner, Name: "check", Enabled: true,
		ScheduleType: core.ScheduleInterval, ScheduleValue: "30",
	}
	if err := store.Create(job); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	now := time.Now().UTC()
	job.LastRunAt = &now
	job.RunCount = 1
	job.LastStatus = "ok"
	if err := store.Update(job); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := store.Get(testOwner, "j1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.RunCount != 1 || got.LastStatus != "ok" || got.LastRunAt == nil {
		t.Errorf("run state not persisted: %+v", got)
	}
}
