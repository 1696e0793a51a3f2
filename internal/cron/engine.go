// Package cron schedules user-defined jobs. Jobs are durable rows, not
// goroutines: the engine recomputes each job's next-run timestamp on every
// mutation, and a trigger poller compares those timestamps against the clock.
package cron

import (
	"time"

	"github.com/google/uuid"

	"github.com/AbinjithTK/Jums/internal/core"
	"github.com/AbinjithTK/Jums/internal/logging"
	"github.com/AbinjithTK/Jums/internal/storage"
)

// Engine manages cron jobs over the persistent store.
type Engine struct {
	jobs *storage.CronJobStore
	log  *logging.Logger
	now  func() time.Time
}

// NewEngine creates a cron engine
func NewEngine(jobs *storage.CronJobStore) *Engine {
	return &Engine{
		jobs: jobs,
		log:  logging.WithField("component", "cron"),
		now:  time.Now,
	}
}

// Add creates a job and computes its first run time. Jobs default to
// enabled.
func (e *Engine) Add(ownerID, name, description string, scheduleType core.ScheduleType, scheduleValue, actionMessage string) (*core.CronJob, error) {
	job := &core.CronJob{
		ID:            core.JobID(uuid.New().String()),
		OwnerID:       ownerID,
		Name:          name,
		Description:   description,
		Enabled:       true,
		ScheduleType:  scheduleType,
		ScheduleValue: scheduleValue,
		ActionMessage: actionMessage,
		NextRunAt:     ComputeNextRun(scheduleType, scheduleValue, e.now()),
	}

	if err := e.jobs.Create(job); err != nil {
		return nil, err
	}

	e.log.WithFields(map[string]interface{}{
		"job":      job.ID,
		"name":     name,
		"schedule": string(scheduleType),
	}).Info("cron job added")

	return job, nil
}

// Update persists job changes and recomputes the next run from the possibly
// changed schedule.
func (e *Engine) Update(job *core.CronJob) error {
	job.NextRunAt = ComputeNextRun(job.ScheduleType, job.ScheduleValue, e.now())
	return e.jobs.Update(job)
}

// Remove deletes a job
func (e *Engine) Remove(ownerID string, id core.JobID) error {
	return e.jobs.Delete(ownerID, id)
}

// Get returns a job
func (e *Engine) Get(ownerID string, id core.JobID) (*core.CronJob, error) {
	return e.jobs.Get(ownerID, id)
}

// List returns an owner's jobs
func (e *Engine) List(ownerID string) ([]*core.CronJob, error) {
	return e.jobs.List(ownerID)
}

// Run fires a job: stamps the run, bumps the counter, and schedules the next
// occurrence. A once job that has fired ends up with a nil next run and never
// fires again.
func (e *Engine) Run(ownerID string, id core.JobID) (*core.CronJob, error) {
	job, err := e.jobs.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	now := e.now().UTC()
	job.LastRunAt = &now
	job.RunCount++
	job.LastStatus = "ok"
	job.NextRunAt = ComputeNextRun(job.ScheduleType, job.ScheduleValue, now)

	if err := e.jobs.Update(job); err != nil {
		return nil, err
	}

	e.log.WithFields(map[string]interface{}{
		"job":  job.ID,
		"name": job.Name,
		"runs": job.RunCount,
	}).Debug("cron job fired")

	return job, nil
}

// Due returns every enabled job, across owners, whose next run is at or
// before now.
func (e *Engine) Due() ([]*core.CronJob, error) {
	return e.jobs.ListDue(e.now())
}
