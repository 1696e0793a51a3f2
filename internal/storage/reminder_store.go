// Package storage provides persistence for Jums entities.
package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/AbinjithTK/Jums/internal/core"
)

// ReminderStore handles reminder persistence
type ReminderStore struct {
	db *DB
}

// NewReminderStore creates a new reminder store
func NewReminderStore(db *DB) *ReminderStore {
	return &ReminderStore{db: db}
}

// Create creates a new reminder
func (s *ReminderStore) Create(reminder *core.Reminder) error {
	now := time.Now().UTC()
	reminder.CreatedAt = now
	reminder.UpdatedAt = now

	recurrence, _ := json.Marshal(reminder.Recurrence)

	_, err := s.db.conn.Exec(`
		INSERT INTO reminders (
		    id, owner_id, goal_id, title, time_spec, recurrence, active,
		    snooze_count, snoozed_until, original_time, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		reminder.ID, reminder.OwnerID, nullString(string(reminder.GoalID)),
		reminder.Title, reminder.TimeSpec, string(recurrence), reminder.Active,
		reminder.SnoozeCount, reminder.SnoozedUntil, reminder.OriginalTime,
		reminder.CreatedAt, reminder.UpdatedAt,
	)

	return err
}

// Get returns a reminder by id within an owner partition
func (s *ReminderStore) Get(ownerID string, id core.ReminderID) (*core.Reminder, error) {
	row := s.db.conn.QueryRow(`
		SELECT id, owner_id, goal_id, title, time_spec, recurrence, active,
		       snooze_count, snoozed_until, original_time, created_at, updated_at
		FROM reminders WHERE owner_id = ? AND id = ?
	`, ownerID, id)

	reminder, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrReminderNotFound
	}
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

// List returns all reminders for an owner
func (s *ReminderStore) List(ownerID string) ([]*core.Reminder, error) {
	return s.list(`
		SELECT id, owner_id, goal_id, title, time_spec, recurrence, active,
		       snooze_count, snoozed_until, original_time, created_at, updated_at
		FROM reminders
		WHERE owner_id = ?
		ORDER BY created_at ASC
	`, ownerID)
}

// ListActive returns the owner's active reminders
func (s *ReminderStore) ListActive(ownerID string) ([]*core.Reminder, error) {
	return s.list(`
		SELECT id, owner_id, goal_id, title, time_spec, recurrence, active,
		       snooze_count, snoozed_until, original_time, created_at, updated_at
		FROM reminders
		WHERE owner_id = ? AND active = 1
		ORDER BY created_at ASC
	`, ownerID)
}

// ListByGoal returns the owner's reminders linked to a goal
func (s *ReminderStore) ListByGoal(ownerID string, goalID core.GoalID) ([]*core.Reminder, error) {
	return s.list(`
		SELECT id, owner_id, goal_id, title, time_spec, recurrence, active,
		       snooze_count, snoozed_until, original_time, created_at, updated_at
		FROM reminders
		WHERE owner_id = ? AND goal_id = ?
		ORDER BY created_at ASC
	`, ownerID, goalID)
}

func (s *ReminderStore) list(query string, args ...interface{}) ([]*core.Reminder, error) {
	rows, err := s.db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []*core.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}

	return reminders, rows.Err()
}

// Update updates a reminder
func (s *ReminderStore) Update(reminder *core.Reminder) error {
	reminder.UpdatedAt = time.Now().UTC()

	recurrence, _ := json.Marshal(reminder.Recurrence)

	res, err := s.db.conn.Exec(`
		UPDATE reminders SET
		    goal_id = ?, title = ?, time_spec = ?, recurrence = ?, active = ?,
		    snooze_count = ?, snoozed_until = ?, original_time = ?, updated_at = ?
		WHERE owner_id = ? AND id = ?
	`,
		nullString(string(reminder.GoalID)), reminder.Title, reminder.TimeSpec,
		string(recurrence), reminder.Active, reminder.SnoozeCount,
		reminder.SnoozedUntil, reminder.OriginalTime, reminder.UpdatedAt,
		reminder.OwnerID, reminder.ID,
	)
	if err != nil {
		return err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrReminderNotFound
	}
	return nil
}

// Delete removes a reminder
func (s *ReminderStore) Delete(ownerID string, id core.ReminderID) error {
	res, err := s.db.conn.Exec(
		"DELETE FROM reminders WHERE owner_id = ? AND id = ?", ownerID, id)
	if err != nil {
		return err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrReminderNotFound
	}
	return nil
}

// Snooze pushes a reminder forward by minutes and increments its snooze
// count. SnoozeCount never resets here; only ResetSnooze clears it.
func (s *ReminderStore) Snooze(ownerID string, id core.ReminderID, minutes int) (*core.Reminder, error) {
	reminder, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	until := time.Now().UTC().Add(time.Duration(minutes) * time.Minute)
	if reminder.OriginalTime == "" {
		reminder.OriginalTime = reminder.TimeSpec
	}
	reminder.SnoozeCount++
	reminder.SnoozedUntil = &until

	if err := s.Update(reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// ResetSnooze clears snooze state on a reminder. Used by the
// full-redistribute rescheduler when a plan gets a fresh window.
func (s *ReminderStore) ResetSnooze(ownerID string, id core.ReminderID) error {
	reminder, err := s.Get(ownerID, id)
	if err != nil {
		return err
	}

	reminder.SnoozeCount = 0
	reminder.SnoozedUntil = nil
	return s.Update(reminder)
}

func scanReminder(row rowScanner) (*core.Reminder, error) {
	reminder := &core.Reminder{}
	var goalID sql.NullString
	var recurrence string
	var snoozedUntil sql.NullTime

	err := row.Scan(
		&reminder.ID, &reminder.OwnerID, &goalID, &reminder.Title,
		&reminder.TimeSpec, &recurrence, &reminder.Active,
		&reminder.SnoozeCount, &snoozedUntil, &reminder.OriginalTime,
		&reminder.CreatedAt, &reminder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	reminder.GoalID = core.GoalID(goalID.String)
	if snoozedUntil.Valid {
		t := snoozedUntil.Time
		reminder.SnoozedUntil = &t
	}
	json.Unmarshal([]byte(recurrence), &reminder.Recurrence)

	return reminder, nil
}
