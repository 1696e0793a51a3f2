// Package core defines the fundamental types and errors for Jums.
package core

import "errors"

// Core errors that can occur across the system
var (
	// Storage errors
	ErrDatabaseNotFound = errors.New("database not found")
	ErrDatabaseLocked   = errors.New("database is locked")
	ErrMigrationFailed  = errors.New("migration failed")

	// Entity errors
	ErrGoalNotFound     = errors.New("goal not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrReminderNotFound = errors.New("reminder not found")
	ErrInsightNotFound  = errors.New("insight not found")
	ErrJobNotFound      = errors.New("cron job not found")

	// Agent errors
	ErrOperationNotFound = errors.New("operation not found")
	ErrLLMUnavailable    = errors.New("LLM service unavailable")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
)
