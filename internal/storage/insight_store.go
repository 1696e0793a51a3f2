// Package storage provides persistence for Jums entities.
package storage

import (
	"database/sql"
	"time"

	"github.com/AbinjithTK/Jums/internal/core"
)

// InsightStore handles insight persistence. Insights are an append-only,
// time-ordered log: there is no update or delete.
type InsightStore struct {
	db *DB
}

// NewInsightStore creates a new insight store
func NewInsightStore(db *DB) *InsightStore {
	return &InsightStore{db: db}
}

// Create appends a new insight
func (s *InsightStore) Create(insight *core.Insight) error {
	insight.CreatedAt = time.Now().UTC()

	_, err := s.db.conn.Exec(`
		INSERT INTO insights (
		    id, owner_id, type, title, content, related_goal_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		insight.ID, insight.OwnerID, insight.Type, insight.Title,
		insight.Content, nullString(string(insight.RelatedGoalID)),
		insight.CreatedAt,
	)

	return err
}

// List returns the owner's insights, newest first
func (s *InsightStore) List(ownerID string, limit int) ([]*core.Insight, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, owner_id, type, title, content, related_goal_id, created_at
		FROM insights
		WHERE owner_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanInsights(rows)
}

// ListByGoal returns insights referencing a goal, newest first
func (s *InsightStore) ListByGoal(ownerID string, goalID core.GoalID, limit int) ([]*core.Insight, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, owner_id, type, title, content, related_goal_id, created_at
		FROM insights
		WHERE owner_id = ? AND related_goal_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, ownerID, goalID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanInsights(rows)
}

func scanInsights(rows *sql.Rows) ([]*core.Insight, error) {
	var insights []*core.Insight

	for rows.Next() {
		insight := &core.Insight{}
		var relatedGoalID sql.NullString

		err := rows.Scan(
			&insight.ID, &insight.OwnerID, &insight.Type, &insight.Title,
			&insight.Content, &relatedGoalID, &insight.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		insight.RelatedGoalID = core.GoalID(relatedGoalID.String)
		insights = append(insights, insight)
	}

	return insights, rows.Err()
}
