// Package api provides the HTTP API server for Jums. The surface is thin:
// authentication lives in front of this service, and the owner id arrives on
// the X-User-ID header.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/AbinjithTK/Jums/internal/agent"
	"github.com/AbinjithTK/Jums/internal/calendar"
	"github.com/AbinjithTK/Jums/internal/core"
	"github.com/AbinjithTK/Jums/internal/cron"
	"github.com/AbinjithTK/Jums/internal/planner"
	"github.com/AbinjithTK/Jums/internal/storage"
)

// ownerHeader carries the authenticated user's id, set by the gateway.
const ownerHeader = "X-User-ID"

// Server is the HTTP API server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server

	agent   *agent.Agent
	planner *planner.Planner
	viewer  *calendar.Viewer
	engine  *cron.Engine

	goals     *storage.GoalStore
	tasks     *storage.TaskStore
	reminders *storage.ReminderStore
	insights  *storage.InsightStore
}

// Config for the server
type Config struct {
	Port      int
	Agent     *agent.Agent
	Planner   *planner.Planner
	Viewer    *calendar.Viewer
	Engine    *cron.Engine
	Goals     *storage.GoalStore
	Tasks     *storage.TaskStore
	Reminders *storage.ReminderStore
	Insights  *storage.InsightStore
}

// New creates a new API server
func New(cfg Config) *Server {
	s := &Server{
		agent:     cfg.Agent,
		planner:   cfg.Planner,
		viewer:    cfg.Viewer,
		engine:    cfg.Engine,
		goals:     cfg.Goals,
		tasks:     cfg.Tasks,
		reminders: cfg.Reminders,
		insights:  cfg.Insights,
	}

	s.setupRouter()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins serving
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router, for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", ownerHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireOwner)

		// Goals
		r.Get("/goals", s.handleListGoals)
		r.Post("/goals", s.handleCreateGoal)
		r.Get("/goals/{goalID}", s.handleGetGoal)
		r.Put("/goals/{goalID}", s.handleUpdateGoal)
		r.Delete("/goals/{goalID}", s.handleDeleteGoal)

		// Planning actions on a goal
		r.Get("/goals/{goalID}/timeline", s.handleAnalyzeTimeline)
		r.Post("/goals/{goalID}/decompose", s.handleDecompose)
		r.Post("/goals/{goalID}/adapt", s.handleAdapt)
		r.Post("/goals/{goalID}/reschedule", s.handleReschedule)
		r.Post("/goals/{goalID}/shift", s.handleShift)

		// Tasks
		r.Get("/tasks", s.handleListTasks)
		r.Post("/tasks", s.handleCreateTask)
		r.Get("/tasks/{taskID}", s.handleGetTask)
		r.Put("/tasks/{taskID}", s.handleUpdateTask)
		r.Delete("/tasks/{taskID}", s.handleDeleteTask)

		// Reminders
		r.Get("/reminders", s.handleListReminders)
		r.Post("/reminders", s.handleCreateReminder)
		r.Get("/reminders/{reminderID}", s.handleGetReminder)
		r.Put("/reminders/{reminderID}", s.handleUpdateReminder)
		r.Delete("/reminders/{reminderID}", s.handleDeleteReminder)
		r.Post("/reminders/{reminderID}/snooze", s.handleSnoozeReminder)

		// Insights
		r.Get("/insights", s.handleListInsights)

		// Schedule
		r.Get("/schedule", s.handleGetSchedule)

		// Cron jobs
		r.Get("/cron", s.handleListCronJobs)
		r.Post("/cron", s.handleCreateCronJob)
		r.Get("/cron/{jobID}", s.handleGetCronJob)
		r.Put("/cron/{jobID}", s.handleUpdateCronJob)
		r.Delete("/cron/{jobID}", s.handleDeleteCronJob)
		r.Post("/cron/{jobID}/run", s.handleRunCronJob)

		// Generic operation invocation
		r.Get("/ops", s.handleListOps)
		r.Post("/ops/{name}", s.handleInvokeOp)
	})

	s.router = r
}

// requireOwner rejects requests without an owner id.
func (s *Server) requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(ownerHeader) == "" {
			s.respondError(w, http.StatusUnauthorized, "missing "+ownerHeader+" header")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func owner(r *http.Request) string {
	return r.Header.Get(ownerHeader)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondStoreError maps sentinel errors onto HTTP statuses.
func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrGoalNotFound),
		errors.Is(err, core.ErrTaskNotFound),
		errors.Is(err, core.ErrReminderNotFound),
		errors.Is(err, core.ErrInsightNotFound),
		errors.Is(err, core.ErrJobNotFound),
		errors.Is(err, core.ErrOperationNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInvalidInput),
		errors.Is(err, core.ErrMissingRequired):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeBody decodes a JSON request body. An empty body is fine; action
// endpoints accept all-default invocations.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%w: %s", core.ErrInvalidInput, err.Error())
	}
	return nil
}
