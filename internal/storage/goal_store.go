// Package storage provides persistence for Jums entities.
package storage

import (
	"database/sql"
	"time"

	"github.com/AbinjithTK/Jums/internal/core"
)

// GoalStore handles goal persistence
type GoalStore struct {
	db *DB
}

// NewGoalStore creates a new goal store
func NewGoalStore(db *DB) *GoalStore {
	return &GoalStore{db: db}
}

// Create creates a new goal
func (s *GoalStore) Create(goal *core.Goal) error {
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	_, err := s.db.conn.Exec(`
		INSERT INTO goals (
		    id, owner_id, title, category, progress, total, unit,
		    insight, completed, active_planner, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		goal.ID, goal.OwnerID, goal.Title, goal.Category, goal.Progress,
		goal.Total, goal.Unit, goal.Insight, goal.Completed,
		goal.ActivePlanner, goal.CreatedAt, goal.UpdatedAt,
	)

	return err
}

// Get returns a goal by id within an owner partition
func (s *GoalStore) Get(ownerID string, id core.GoalID) (*core.Goal, error) {
	goal := &core.Goal{}

	err := s.db.conn.QueryRow(`
		SELECT id, owner_id, title, category, progress, total, unit,
		       insight, completed, active_planner, created_at, updated_at
		FROM goals WHERE owner_id = ? AND id = ?
	`, ownerID, id).Scan(
		&goal.ID, &goal.OwnerID, &goal.Title, &goal.Category, &goal.Progress,
		&goal.Total, &goal.Unit, &goal.Insight, &goal.Completed,
		&goal.ActivePlanner, &goal.CreatedAt, &goal.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, core.ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// List returns all goals for an owner, newest first
func (s *GoalStore) List(ownerID string) ([]*core.Goal, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, owner_id, title, category, progress, total, unit,
		       insight, completed, active_planner, created_at, updated_at
		FROM goals
		WHERE owner_id = ?
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.scanGoals(rows)
}

// ListActive returns the owner's goals that are not completed
func (s *GoalStore) ListActive(ownerID string) ([]*core.Goal, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, owner_id, title, category, progress, total, unit,
		       insight, completed, active_planner, created_at, updated_at
		FROM goals
		WHERE owner_id = ? AND completed = 0
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.scanGoals(rows)
}

// Update updates a goal
func (s *GoalStore) Update(goal *core.Goal) error {
	goal.UpdatedAt = time.Now().UTC()

	res, err := s.db.conn.Exec(`
		UPDATE goals SET
		    title = ?, category = ?, progress = ?, total = ?, unit = ?,
		    insight = ?, completed = ?, active_planner = ?, updated_at = ?
		WHERE owner_id = ? AND id = ?
	`,
		goal.Title, goal.Category, goal.Progress, goal.Total, goal.Unit,
		goal.Insight, goal.Completed, goal.ActivePlanner, goal.UpdatedAt,
		goal.OwnerID, goal.ID,
	)
	if err != nil {
		return err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrGoalNotFound
	}
	return nil
}

// Delete removes a goal. Linked tasks are not touched here; cascade
// behavior lives in the delete_goal operation.
func (s *GoalStore) Delete(ownerID string, id core.GoalID) error {
	res, err := s.db.conn.Exec(
		"DELETE FROM goals WHERE owner_id = ? AND id = ?", ownerID, id)
	if err != nil {
		return err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrGoalNotFound
	}
	return nil
}

func (s *GoalStore) scanGoals(rows *sql.Rows) ([]*core.Goal, error) {
	var goals []*core.Goal

	for rows.Next() {
		goal := &core.Goal{}
		err := rows.Scan(
			&goal.ID, &goal.OwnerID, &goal.Title, &goal.Category,
			&goal.Progress, &goal.Total, &goal.Unit, &goal.Insight,
			&goal.Completed, &goal.ActivePlanner, &goal.CreatedAt,
			&goal.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}

	return goals, rows.Err()
}

// Count returns the goal count for an owner
func (s *GoalStore) Count(ownerID string) (int, error) {
	var count int
	err := s.db.conn.QueryRow(
		"SELECT COUNT(*) FROM goals WHERE owner_id = ?", ownerID).Scan(&count)
	return count, err
}
