// Package storage provides persistence for Jums entities.
package storage

import (
	"database/sql"
	"time"

	"github.com/AbinjithTK/Jums/internal/core"
)

// CronJobStore persists cron jobs per owner, the same shape as every other
// entity kind. Jobs are durable: no process-lifetime global list.
type CronJobStore struct {
	db *DB
}

// NewCronJobStore creates a new cron job store
func NewCronJobStore(db *DB) *CronJobStore {
	return &CronJobStore{db: db}
}

// Create creates a new cron job
func (s *CronJobStore) Create(job *core.CronJob) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := s.db.conn.Exec(`
		INSERT INTO cron_jobs (
		    id, owner_id, name, description, enabled, schedule_type,
		    schedule_value, action_message, last_run_at, next_run_at,
		    run_count, last_status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		job.ID, job.OwnerID, job.Name, job.Description, job.Enabled,
		job.ScheduleType, job.ScheduleValue, job.ActionMessage,
		job.LastRunAt, job.NextRunAt, job.RunCount,
		nullString(job.LastStatus), job.CreatedAt, job.UpdatedAt,
	)

	return err
}

// Get returns a job by id within an owner partition
func (s *CronJobStore) Get(ownerID string, id core.JobID) (*core.CronJob, error) {
	row := s.db.conn.QueryRow(`
		SELECT id, owner_id, name, description, enabled, schedule_type,
		       schedule_value, action_message, last_run_at, next_run_at,
		       run_count, last_status, created_at, updated_at
		FROM cron_jobs WHERE owner_id = ? AND id = ?
	`, ownerID, id)

	job, err := scanCronJob(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// List returns all jobs for an owner
func (s *CronJobStore) List(ownerID string) ([]*core.CronJob, error) {
	return s.list(`
		SELECT id, owner_id, name, description, enabled, schedule_type,
		       schedule_value, action_message, last_run_at, next_run_at,
		       run_count, last_status, created_at, updated_at
		FROM cron_jobs
		WHERE owner_id = ?
		ORDER BY created_at ASC
	`, ownerID)
}

// ListDue returns enabled jobs across all owners whose next run is at or
// before now. The trigger poller drives off this.
func (s *CronJobStore) ListDue(now time.Time) ([]*core.CronJob, error) {
	return s.list(`
		SELECT id, owner_id, name, description, enabled, schedule_type,
		       schedule_value, action_message, last_run_at, next_run_at,
		       run_count, last_status, created_at, updated_at
		FROM cron_jobs
		WHERE enabled = 1 AND next_run_at IS NOT NULL AND next_run_at <= ?
		ORDER BY next_run_at ASC
	`, now.UTC())
}

func (s *CronJobStore) list(query string, args ...interface{}) ([]*core.CronJob, error) {
	rows, err := s.db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*core.CronJob
	for rows.Next() {
		job, err := scanCronJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// Update updates a cron job
func (s *CronJobStore) Update(job *core.CronJob) error {
	job.UpdatedAt = time.Now().UTC()

	res, err := s.db.conn.Exec(`
		UPDATE cron_jobs SET
		    name = ?, description = ?, enabled = ?, schedule_type = ?,
		    schedule_value = ?, action_message = ?, last_run_at = ?,
		    next_run_at = ?, run_count = ?, last_status = ?, updated_at = ?
		WHERE owner_id = ? AND id = ?
	`,
		job.Name, job.Description, job.Enabled, job.ScheduleType,
		job.ScheduleValue, job.ActionMessage, job.LastRunAt, job.NextRunAt,
		job.RunCount, nullString(job.LastStatus), job.UpdatedAt,
		job.OwnerID, job.ID,
	)
	if err != nil {
		return err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrJobNotFound
	}
	return nil
}

// Delete removes a cron job
func (s *CronJobStore) Delete(ownerID string, id core.JobID) error {
	res, err := s.db.conn.Exec(
		"DELETE FROM cron_jobs WHERE owner_id = ? AND id = ?", ownerID, id)
	if err != nil {
		return err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrJobNotFound
	}
	return nil
}

func scanCronJob(row rowScanner) (*core.CronJob, error) {
	job := &core.CronJob{}
	var lastRun, nextRun sql.NullTime
	var lastStatus sql.NullString

	err := row.Scan(
		&job.ID, &job.OwnerID, &job.Name, &job.Description, &job.Enabled,
		&job.ScheduleType, &job.ScheduleValue, &job.ActionMessage,
		&lastRun, &nextRun, &job.RunCount, &lastStatus,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastRun.Valid {
		t := lastRun.Time
		job.LastRunAt = &t
	}
	if nextRun.Valid {
		t := nextRun.Time
		job.NextRunAt = &t
	}
	job.LastStatus = lastStatus.String

	return job, nil
}
