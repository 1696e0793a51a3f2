package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AbinjithTK/Jums/internal/core"
	"github.com/AbinjithTK/Jums/internal/dates"
	"github.com/AbinjithTK/Jums/internal/planner"
)

func goalParam(r *http.Request) core.GoalID {
	return core.GoalID(chi.URLParam(r, "goalID"))
}

func (s *Server) handleAnalyzeTimeline(w http.ResponseWriter, r *http.Request) {
	report, err := s.planner.AnalyzeTimeline(owner(r), goalParam(r))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleDecompose(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Milestones string `json:"milestones"`
		Tasks      string `json:"tasks"`
		Reminders  string `json:"reminders"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.respondStoreError(w, err)
		return
	}

	summary, err := s.planner.Decompose(owner(r), goalParam(r),
		body.Milestones, body.Tasks, body.Reminders)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAdapt(w http.ResponseWriter, r *http.Request) {
	report, err := s.planner.Adapt(owner(r), goalParam(r))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

// handleReschedule covers both reschedule policies. mode=push (default)
// moves overdue tasks forward; mode=redistribute spreads the whole plan
// over a fresh window.
func (s *Server) handleReschedule(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mode          string `json:"mode"`
		DaysForward   int    `json:"days_forward"`
		StartDate     string `json:"start_date"`
		SpreadDays    int    `json:"spread_days"`
		PreserveOrder *bool  `json:"preserve_order"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.respondStoreError(w, err)
		return
	}

	var (
		result *planner.RescheduleResult
		err    error
	)
	if body.Mode == "redistribute" {
		preserve := true
		if body.PreserveOrder != nil {
			preserve = *body.PreserveOrder
		}
		result, err = s.planner.ReschedulePlan(owner(r), goalParam(r),
			body.StartDate, body.SpreadDays, preserve)
	} else {
		result, err = s.planner.RescheduleFailed(owner(r), goalParam(r), body.DaysForward)
	}
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleShift(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Days int `json:"days"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.respondStoreError(w, err)
		return
	}
	if body.Days == 0 {
		s.respondError(w, http.StatusBadRequest, "days must be nonzero")
		return
	}

	result, err := s.planner.ShiftPlan(owner(r), goalParam(r), body.Days)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start_date")
	if start == "" {
		start = dates.Day(time.Now())
	}

	numDays := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		numDays = n
	}

	view, err := s.viewer.Schedule(owner(r), start, numDays)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, view)
}
