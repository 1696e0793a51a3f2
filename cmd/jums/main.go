// Jums daemon - planning and proactive scheduling backend
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/AbinjithTK/Jums/internal/agent"
	"github.com/AbinjithTK/Jums/internal/api"
	"github.com/AbinjithTK/Jums/internal/calendar"
	"github.com/AbinjithTK/Jums/internal/config"
	"github.com/AbinjithTK/Jums/internal/core"
	"github.com/AbinjithTK/Jums/internal/cron"
	"github.com/AbinjithTK/Jums/internal/llm"
	"github.com/AbinjithTK/Jums/internal/logging"
	"github.com/AbinjithTK/Jums/internal/planner"
	"github.com/AbinjithTK/Jums/internal/proactive"
	"github.com/AbinjithTK/Jums/internal/storage"
)

var (
	dataDir         string
	port            int
	enableProactive bool
)

func main() {
	// .env is optional; real env always wins.
	godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "jums",
		Short: "Jums Daemon - autonomous planning and proactive scheduling",
		RunE:  runDaemon,
	}

	defaults := config.Default()

	rootCmd.Flags().StringVar(&dataDir, "data-dir", defaults.DataDir, "Data directory")
	rootCmd.Flags().IntVar(&port, "port", defaults.Server.Port, "HTTP server port")
	rootCmd.Flags().BoolVar(&enableProactive, "proactive", defaults.Proactive.Enabled, "Enable the proactive cron trigger")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	log := logging.WithField("component", "main")

	cfg, err := config.Load(filepath.Join(dataDir, "config.json"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.DataDir = dataDir
	cfg.Server.Port = port
	cfg.Proactive.Enabled = enableProactive

	// Open database
	dbPath := filepath.Join(dataDir, "jums.db")
	db, err := storage.Open(storage.Config{Path: dbPath})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Stores
	goals := storage.NewGoalStore(db)
	tasks := storage.NewTaskStore(db)
	reminders := storage.NewReminderStore(db)
	insights := storage.NewInsightStore(db)
	cronJobs := storage.NewCronJobStore(db)

	// Core services
	pl := planner.New(goals, tasks, reminders, insights)
	viewer := calendar.NewViewer(tasks, reminders)
	engine := cron.NewEngine(cronJobs)
	ag := agent.New(goals, tasks, reminders, insights, pl, viewer, engine)

	// LLM collaborator
	llmClient := llm.NewClient(llm.Config{
		APIKey: cfg.Claude.APIKey,
		Model:  cfg.Claude.Model,
	})
	if !llmClient.IsConfigured() {
		log.Warn("ANTHROPIC_API_KEY not set, proactive messages will be skipped")
	}

	dispatcher := proactive.NewDispatcher(ag, goals, insights, llmClient)

	// Cron trigger: fired jobs route through the dispatcher when their
	// action message names a proactive job kind, otherwise straight to the
	// collaborator.
	var trigger *cron.Trigger
	if cfg.Proactive.Enabled {
		trigger = cron.NewTrigger(engine, func(ctx context.Context, job *core.CronJob) error {
			if kind, ok := proactiveKind(job.ActionMessage); ok {
				_, err := dispatcher.Dispatch(ctx, job.OwnerID, kind)
				return err
			}
			_, err := llmClient.Complete(ctx,
				"You are Jums, a proactive personal assistant.", nil, job.ActionMessage)
			return err
		}, time.Duration(cfg.Proactive.TriggerIntervalSecs)*time.Second)

		trigger.Start()
		defer trigger.Stop()
	}

	// API server
	server := api.New(api.Config{
		Port:      cfg.Server.Port,
		Agent:     ag,
		Planner:   pl,
		Viewer:    viewer,
		Engine:    engine,
		Goals:     goals,
		Tasks:     tasks,
		Reminders: reminders,
		Insights:  insights,
	})

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		log.Info("shutting down")
		if trigger != nil {
			trigger.Stop()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.WithField("port", fmt.Sprintf("%d", cfg.Server.Port)).Info("jums daemon listening")
	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// proactiveKind maps a job's action message onto a built-in proactive job
// kind when it names one exactly.
func proactiveKind(actionMessage string) (proactive.JobKind, bool) {
	switch proactive.JobKind(actionMessage) {
	case proactive.JobMorningBriefing,
		proactive.JobEveningJournal,
		proactive.JobReminderCheck,
		proactive.JobPlanReview,
		proactive.JobSmartSuggestions:
		return proactive.JobKind(actionMessage), true
	}
	return "", false
}
