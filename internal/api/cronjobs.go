package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AbinjithTK/Jums/internal/core"
)

func jobParam(r *http.Request) core.JobID {
	return core.JobID(chi.URLParam(r, "jobID"))
}

func (s *Server) handleListCronJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.engine.List(owner(r))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleCreateCronJob(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name          string `json:"name"`
		Description   string `json:"description"`
		ScheduleType  string `json:"schedule_type"`
		ScheduleValue string `json:"schedule_value"`
		ActionMessage string `json:"action_message"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.respondStoreError(w, err)
		return
	}
	if body.Name == "" || body.ScheduleType == "" {
		s.respondError(w, http.StatusBadRequest, "name and schedule_type are required")
		return
	}

	job, err := s.engine.Add(owner(r), body.Name, body.Description,
		core.ScheduleType(body.ScheduleType), body.ScheduleValue, body.ActionMessage)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, job)
}

func (s *Server) handleGetCronJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.engine.Get(owner(r), jobParam(r))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, job)
}

func (s *Server) handleUpdateCronJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.engine.Get(owner(r), jobParam(r))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	if err := decodeBody(r, job); err != nil {
		s.respondStoreError(w, err)
		return
	}
	if err := s.engine.Update(job); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, job)
}

func (s *Server) handleDeleteCronJob(w http.ResponseWriter, r *http.Request) {
	id := jobParam(r)
	if err := s.engine.Remove(owner(r), id); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

func (s *Server) handleRunCronJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.engine.Run(owner(r), jobParam(r))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, job)
}
