// Package storage provides persistence for Jums entities.
package storage

import (
	"database/sql"
	"time"

	"github.com/AbinjithTK/Jums/internal/core"
)

// TaskStore handles task persistence
type TaskStore struct {
	db *DB
}

// NewTaskStore creates a new task store
func NewTaskStore(db *DB) *TaskStore {
	return &TaskStore{db: db}
}

// Create creates a new task
func (s *TaskStore) Create(task *core.Task) error {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Type == "" {
		task.Type = core.TaskTypeTask
	}
	if task.Priority == "" {
		task.Priority = core.PriorityMedium
	}

	_, err := s.db.conn.Exec(`
		INSERT INTO tasks (
		    id, owner_id, goal_id, title, detail, type, priority, due_date,
		    completed, completed_at, requires_proof, proof_status,
		    created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		task.ID, task.OwnerID, nullString(string(task.GoalID)), task.Title,
		task.Detail, task.Type, task.Priority, nullString(task.DueDate),
		task.Completed, task.CompletedAt, task.RequiresProof,
		nullString(string(task.ProofStatus)), task.CreatedAt, task.UpdatedAt,
	)

	return err
}

// Get returns a task by id within an owner partition
func (s *TaskStore) Get(ownerID string, id core.TaskID) (*core.Task, error) {
	row := s.db.conn.QueryRow(`
		SELECT id, owner_id, goal_id, title, detail, type, priority, due_date,
		       completed, completed_at, requires_proof, proof_status,
		       created_at, updated_at
		FROM tasks WHERE owner_id = ? AND id = ?
	`, ownerID, id)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// List returns all tasks for an owner, oldest first
func (s *TaskStore) List(ownerID string) ([]*core.Task, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, owner_id, goal_id, title, detail, type, priority, due_date,
		       completed, completed_at, requires_proof, proof_status,
		       created_at, updated_at
		FROM tasks
		WHERE owner_id = ?
		ORDER BY created_at ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

// ListByGoal returns the owner's tasks linked to a goal
func (s *TaskStore) ListByGoal(ownerID string, goalID core.GoalID) ([]*core.Task, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, owner_id, goal_id, title, detail, type, priority, due_date,
		       completed, completed_at, requires_proof, proof_status,
		       created_at, updated_at
		FROM tasks
		WHERE owner_id = ? AND goal_id = ?
		ORDER BY created_at ASC
	`, ownerID, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

// Update updates a task
func (s *TaskStore) Update(task *core.Task) error {
	task.UpdatedAt = time.Now().UTC()

	res, err := s.db.conn.Exec(`
		UPDATE tasks SET
		    goal_id = ?, title = ?, detail = ?, type = ?, priority = ?,
		    due_date = ?, completed = ?, completed_at = ?,
		    requires_proof = ?, proof_status = ?, updated_at = ?
		WHERE owner_id = ? AND id = ?
	`,
		nullString(string(task.GoalID)), task.Title, task.Detail, task.Type,
		task.Priority, nullString(task.DueDate), task.Completed,
		task.CompletedAt, task.RequiresProof,
		nullString(string(task.ProofStatus)), task.UpdatedAt,
		task.OwnerID, task.ID,
	)
	if err != nil {
		return err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrTaskNotFound
	}
	return nil
}

// Delete removes a task
func (s *TaskStore) Delete(ownerID string, id core.TaskID) error {
	res, err := s.db.conn.Exec(
		"DELETE FROM tasks WHERE owner_id = ? AND id = ?", ownerID, id)
	if err != nil {
		return err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrTaskNotFound
	}
	return nil
}

// DeleteByGoal removes all tasks linked to a goal and returns how many
// were removed
func (s *TaskStore) DeleteByGoal(ownerID string, goalID core.GoalID) (int, error) {
	res, err := s.db.conn.Exec(
		"DELETE FROM tasks WHERE owner_id = ? AND goal_id = ?", ownerID, goalID)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	return int(n), err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*core.Task, error) {
	task := &core.Task{}
	var goalID, dueDate, proofStatus sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&task.ID, &task.OwnerID, &goalID, &task.Title, &task.Detail,
		&task.Type, &task.Priority, &dueDate, &task.Completed, &completedAt,
		&task.RequiresProof, &proofStatus, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.GoalID = core.GoalID(goalID.String)
	task.DueDate = dueDate.String
	task.ProofStatus = core.ProofStatus(proofStatus.String)
	if completedAt.Valid {
		t := completedAt.Time
		task.CompletedAt = &t
	}

	return task, nil
}

func scanTasks(rows *sql.Rows) ([]*core.Task, error) {
	var tasks []*core.Task

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// nullString maps "" to NULL so optional columns stay queryable as NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
