// Package proactive drives scheduled agent behavior: briefings, journals,
// reminder checks, plan reviews, and suggestion runs. The dispatcher is
// invoked per fire (by the cron trigger or an explicit call); it fetches the
// user's data through the operation registry, hands the AI-completion
// collaborator an instruction, and persists whatever comes back as an
// insight.
package proactive

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AbinjithTK/Jums/internal/agent"
	"github.com/AbinjithTK/Jums/internal/core"
	"github.com/AbinjithTK/Jums/internal/llm"
	"github.com/AbinjithTK/Jums/internal/logging"
	"github.com/AbinjithTK/Jums/internal/planner"
	"github.com/AbinjithTK/Jums/internal/storage"
)

// JobKind names one proactive behavior
type JobKind string

const (
	JobMorningBriefing  JobKind = "morning_briefing"
	JobEveningJournal   JobKind = "evening_journal"
	JobReminderCheck    JobKind = "reminder_check"
	JobPlanReview       JobKind = "plan_review"
	JobSmartSuggestions JobKind = "smart_suggestions"
)

// silentMarker lets the collaborator decline to produce output. A response
// containing it is dropped, not persisted.
const silentMarker = "__SILENT__"

// Dispatcher runs proactive jobs for users.
type Dispatcher struct {
	agent     *agent.Agent
	goals     *storage.GoalStore
	insights  *storage.InsightStore
	completer llm.Completer
	log       *logging.Logger
	now       func() time.Time
}

// NewDispatcher creates a proactive dispatcher
func NewDispatcher(ag *agent.Agent, goals *storage.GoalStore, insights *storage.InsightStore, completer llm.Completer) *Dispatcher {
	return &Dispatcher{
		agent:     ag,
		goals:     goals,
		insights:  insights,
		completer: completer,
		log:       logging.WithField("component", "proactive"),
		now:       time.Now,
	}
}

// RunResult reports a dispatch sweep across users
type RunResult struct {
	Kind      JobKind `json:"kind"`
	Processed int     `json:"processed"`
	Delivered int     `json:"delivered"`
	Errors    int     `json:"errors"`
}

// RunForUsers fires one job kind for each user independently. A failure for
// one user is counted and logged, never fatal to the sweep.
func (d *Dispatcher) RunForUsers(ctx context.Context, kind JobKind, ownerIDs []string) RunResult {
	result := RunResult{Kind: kind}

	for _, ownerID := range ownerIDs {
		result.Processed++
		delivered, err := d.Dispatch(ctx, ownerID, kind)
		if err != nil {
			result.Errors++
			d.log.WithFields(map[string]interface{}{
				"kind":  string(kind),
				"owner": ownerID,
				"error": err.Error(),
			}).Error("proactive dispatch failed")
			continue
		}
		if delivered {
			result.Delivered++
		}
	}

	d.log.WithFields(map[string]interface{}{
		"kind":      string(kind),
		"processed": result.Processed,
		"delivered": result.Delivered,
		"errors":    result.Errors,
	}).Info("proactive sweep complete")

	return result
}

// Dispatch fires one job kind for one user. Returns whether an insight was
// delivered.
func (d *Dispatcher) Dispatch(ctx context.Context, ownerID string, kind JobKind) (bool, error) {
	switch kind {
	case JobMorningBriefing:
		return d.briefing(ctx, ownerID)
	case JobEveningJournal:
		return d.journal(ctx, ownerID)
	case JobReminderCheck:
		return d.reminderCheck(ctx, ownerID)
	case JobPlanReview:
		return d.planReview(ctx, ownerID)
	case JobSmartSuggestions:
		return d.smartSuggestions(ctx, ownerID)
	default:
		return false, fmt.Errorf("unknown proactive job kind %q", kind)
	}
}

func (d *Dispatcher) briefing(ctx context.Context, ownerID string) (bool, error) {
	summary, err := d.agent.Invoke(ctx, "get_daily_summary", ownerID, nil)
	if err != nil {
		return false, err
	}

	instruction := "Generate a short morning briefing from this overview of the " +
		"user's goals, tasks, and reminders. Lead with today's most important " +
		"item. If nothing is meaningful, respond with " + silentMarker + "." +
		"\n\n" + mustJSON(summary)

	return d.complete(ctx, ownerID, core.InsightBriefing, "Morning briefing", instruction, "")
}

func (d *Dispatcher) journal(ctx context.Context, ownerID string) (bool, error) {
	summary, err := d.agent.Invoke(ctx, "get_daily_summary", ownerID, nil)
	if err != nil {
		return false, err
	}

	instruction := "Generate an evening journal prompt from this overview of the " +
		"user's day: a few reflection questions plus any accomplishments worth " +
		"noting. If nothing is meaningful, respond with " + silentMarker + "." +
		"\n\n" + mustJSON(summary)

	return d.complete(ctx, ownerID, core.InsightJournal, "Evening journal", instruction, "")
}

func (d *Dispatcher) reminderCheck(ctx context.Context, ownerID string) (bool, error) {
	schedule, err := d.agent.Invoke(ctx, "get_schedule", ownerID, agent.Params{"num_days": 1})
	if err != nil {
		return false, err
	}

	instruction := "Check today's schedule for reminders due now and write a " +
		"short nudge for each. If none are due, respond with " + silentMarker + "." +
		"\n\n" + mustJSON(schedule)

	return d.complete(ctx, ownerID, core.InsightSuggestion, "Reminder check", instruction, "")
}

// planReview adapts every active goal and reschedules overdue tasks where a
// goal is falling behind, then asks the collaborator to summarize.
func (d *Dispatcher) planReview(ctx context.Context, ownerID string) (bool, error) {
	goals, err := d.goals.ListActive(ownerID)
	if err != nil {
		return false, err
	}
	if len(goals) == 0 {
		return false, nil
	}

	var reports []interface{}
	for _, g := range goals {
		report, err := d.agent.Invoke(ctx, "adapt_plan", ownerID, agent.Params{
			"goal_id": string(g.ID),
		})
		if err != nil {
			return false, fmt.Errorf("adapt goal %s: %w", g.ID, err)
		}
		reports = append(reports, report)

		adaptation, ok := report.(*planner.AdaptationReport)
		if !ok || adaptation.Status != planner.StatusFallingBehind {
			continue
		}
		if _, err := d.agent.Invoke(ctx, "reschedule_failed_tasks", ownerID, agent.Params{
			"goal_id": string(g.ID),
		}); err != nil {
			return false, fmt.Errorf("reschedule goal %s: %w", g.ID, err)
		}
	}

	instruction := "Summarize these plan reviews into a short progress report " +
		"for the user: overall standing, which goals need attention, and what " +
		"was rescheduled. If nothing is worth reporting, respond with " +
		silentMarker + ".\n\n" + mustJSON(reports)

	return d.complete(ctx, ownerID, core.InsightProgressUpdate, "Plan review", instruction, "")
}

func (d *Dispatcher) smartSuggestions(ctx context.Context, ownerID string) (bool, error) {
	suggestions, err := d.agent.Invoke(ctx, "smart_suggest", ownerID, agent.Params{"focus": "all"})
	if err != nil {
		return false, err
	}

	instruction := "Present the top suggestions from this list as brief, " +
		"encouraging next steps. If there are no suggestions, respond with " +
		silentMarker + ".\n\n" + mustJSON(suggestions)

	return d.complete(ctx, ownerID, core.InsightSuggestion, "Suggestions", instruction, "")
}

const systemPrompt = "You are Jums, a proactive personal assistant. Write " +
	"concise, warm, actionable messages for the user based on the data you " +
	"are given. Plain text only."

// complete calls the collaborator and persists the result as an insight.
// A silent or empty response delivers nothing, successfully.
func (d *Dispatcher) complete(ctx context.Context, ownerID string, insightType core.InsightType, title, instruction string, relatedGoal core.GoalID) (bool, error) {
	text, err := d.completer.Complete(ctx, systemPrompt, nil, instruction)
	if err != nil {
		return false, fmt.Errorf("completion: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" || strings.Contains(text, silentMarker) {
		return false, nil
	}

	insight := &core.Insight{
		ID:            core.InsightID(uuid.New().String()),
		OwnerID:       ownerID,
		Type:          insightType,
		Title:         title,
		Content:       text,
		RelatedGoalID: relatedGoal,
	}
	if err := d.insights.Create(insight); err != nil {
		return false, fmt.Errorf("persist insight: %w", err)
	}
	return true, nil
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
