package cron

import (
	"context"
	"time"

	"github.com/AbinjithTK/Jums/internal/core"
	"github.com/AbinjithTK/Jums/internal/logging"
)

// DispatchFunc receives a fired job's action message for handling, usually
// by handing it to the AI-completion collaborator.
type DispatchFunc func(ctx context.Context, job *core.CronJob) error

// Trigger polls for due jobs and fires them. It is the only clock in the
// cron subsystem; jobs themselves are inert rows.
type Trigger struct {
	engine   *Engine
	dispatch DispatchFunc
	interval time.Duration
	log      *logging.Logger

	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
}

// NewTrigger creates a trigger poller. A zero interval defaults to one
// minute, matching the resolution of next-run computation.
func NewTrigger(engine *Engine, dispatch DispatchFunc, interval time.Duration) *Trigger {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Trigger{
		engine:   engine,
		dispatch: dispatch,
		interval: interval,
		log:      logging.WithField("component", "cron-trigger"),
	}
}

// Start begins polling in the background
func (t *Trigger) Start() {
	if t.started {
		return
	}
	t.started = true
	t.stopCh = make(chan struct{})
	t.doneCh = make(chan struct{})

	go t.loop()
	t.log.Info("cron trigger started")
}

// Stop halts polling and waits for the loop to exit
func (t *Trigger) Stop() {
	if !t.started {
		return
	}
	close(t.stopCh)
	<-t.doneCh
	t.started = false
	t.log.Info("cron trigger stopped")
}

func (t *Trigger) loop() {
	defer close(t.doneCh)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			t.tick()
		}
	}
}

// tick fires every due job. A failing dispatch marks the job but never stops
// the sweep.
func (t *Trigger) tick() {
	due, err := t.engine.Due()
	if err != nil {
		t.log.WithField("error", err.Error()).Error("listing due jobs failed")
		return
	}

	for _, job := range due {
		fired, err := t.engine.Run(job.OwnerID, job.ID)
		if err != nil {
			t.log.WithFields(map[string]interface{}{
				"job":   job.ID,
				"error": err.Error(),
			}).Error("running cron job failed")
			continue
		}

		if t.dispatch == nil || fired.ActionMessage == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := t.dispatch(ctx, fired); err != nil {
			t.log.WithFields(map[string]interface{}{
				"job":   fired.ID,
				"error": err.Error(),
			}).Error("dispatching cron job failed")

			fired.LastStatus = "dispatch_error"
			if uerr := t.engine.jobs.Update(fired); uerr != nil {
				t.log.WithField("job", fired.ID).Error("recording dispatch failure failed")
			}
		}
		cancel()
	}
}
