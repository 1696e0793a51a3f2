package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AbinjithTK/Jums/internal/calendar"
	"github.com/AbinjithTK/Jums/internal/core"
)

// ----- goals -----

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	var (
		goals []*core.Goal
		err   error
	)
	if r.URL.Query().Get("active") == "true" {
		goals, err = s.goals.ListActive(owner(r))
	} else {
		goals, err = s.goals.List(owner(r))
	}
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var goal core.Goal
	if err := decodeBody(r, &goal); err != nil {
		s.respondStoreError(w, err)
		return
	}
	if goal.Title == "" {
		s.respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	goal.ID = core.GoalID(uuid.New().String())
	goal.OwnerID = owner(r)
	if err := s.goals.Create(&goal); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, goal)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.goals.Get(owner(r), core.GoalID(chi.URLParam(r, "goalID")))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, goal)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.goals.Get(owner(r), core.GoalID(chi.URLParam(r, "goalID")))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	if err := decodeBody(r, goal); err != nil {
		s.respondStoreError(w, err)
		return
	}
	if err := s.goals.Update(goal); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, goal)
}

// handleDeleteGoal delegates to the delete_goal operation so the task
// cascade happens in exactly one place.
func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	result, err := s.agent.Invoke(r.Context(), "delete_goal", owner(r), map[string]interface{}{
		"goal_id": chi.URLParam(r, "goalID"),
	})
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// ----- tasks -----

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	if goalID := r.URL.Query().Get("goal_id"); goalID != "" {
		tasks, err := s.tasks.ListByGoal(owner(r), core.GoalID(goalID))
		if err != nil {
			s.respondStoreError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, tasks)
		return
	}

	tasks, err := s.tasks.List(owner(r))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var task core.Task
	if err := decodeBody(r, &task); err != nil {
		s.respondStoreError(w, err)
		return
	}
	if task.Title == "" {
		s.respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	task.ID = core.TaskID(uuid.New().String())
	task.OwnerID = owner(r)
	if err := s.tasks.Create(&task); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, task)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(owner(r), core.TaskID(chi.URLParam(r, "taskID")))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(owner(r), core.TaskID(chi.URLParam(r, "taskID")))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	wasCompleted := task.Completed
	if err := decodeBody(r, task); err != nil {
		s.respondStoreError(w, err)
		return
	}

	// Completing a task stamps CompletedAt; reopening clears it.
	if task.Completed && !wasCompleted {
		now := time.Now().UTC()
		task.CompletedAt = &now
	} else if !task.Completed {
		task.CompletedAt = nil
	}

	if err := s.tasks.Update(task); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := core.TaskID(chi.URLParam(r, "taskID"))
	if err := s.tasks.Delete(owner(r), id); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

// ----- reminders -----

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	var (
		reminders []*core.Reminder
		err       error
	)
	if r.URL.Query().Get("active") == "true" {
		reminders, err = s.reminders.ListActive(owner(r))
	} else {
		reminders, err = s.reminders.List(owner(r))
	}
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, reminders)
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var reminder core.Reminder
	if err := decodeBody(r, &reminder); err != nil {
		s.respondStoreError(w, err)
		return
	}
	if reminder.Title == "" {
		s.respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	reminder.ID = core.ReminderID(uuid.New().String())
	reminder.OwnerID = owner(r)
	reminder.Active = true
	reminder.Recurrence = calendar.ParseRecurrence(reminder.TimeSpec, time.Now())
	if reminder.OriginalTime == "" {
		reminder.OriginalTime = reminder.TimeSpec
	}

	if err := s.reminders.Create(&reminder); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, reminder)
}

func (s *Server) handleGetReminder(w http.ResponseWriter, r *http.Request) {
	reminder, err := s.reminders.Get(owner(r), core.ReminderID(chi.URLParam(r, "reminderID")))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, reminder)
}

func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	reminder, err := s.reminders.Get(owner(r), core.ReminderID(chi.URLParam(r, "reminderID")))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	oldTimeSpec := reminder.TimeSpec
	if err := decodeBody(r, reminder); err != nil {
		s.respondStoreError(w, err)
		return
	}

	// Schedule text changed, so the recurrence is re-derived.
	if reminder.TimeSpec != oldTimeSpec {
		reminder.Recurrence = calendar.ParseRecurrence(reminder.TimeSpec, time.Now())
	}

	if err := s.reminders.Update(reminder); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, reminder)
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	id := core.ReminderID(chi.URLParam(r, "reminderID"))
	if err := s.reminders.Delete(owner(r), id); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

func (s *Server) handleSnoozeReminder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Minutes int `json:"minutes"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.respondStoreError(w, err)
		return
	}

	result, err := s.agent.Invoke(r.Context(), "snooze_reminder", owner(r), map[string]interface{}{
		"reminder_id": chi.URLParam(r, "reminderID"),
		"minutes":     body.Minutes,
	})
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// ----- insights -----

func (s *Server) handleListInsights(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if goalID := r.URL.Query().Get("goal_id"); goalID != "" {
		insights, err := s.insights.ListByGoal(owner(r), core.GoalID(goalID), limit)
		if err != nil {
			s.respondStoreError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, insights)
		return
	}

	insights, err := s.insights.List(owner(r), limit)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, insights)
}
