package services

import (
	"context"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/pkg/logger"

	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"
)

// Job is one periodic task of the worker.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// SyncWorker runs its jobs on a fixed interval until stopped. A failing job is
// logged and retried on the next tick.
type SyncWorker struct {
	tomb.Tomb

	interval time.Duration
	jobs     []Job
	log      zerolog.Logger
	started  bool
}

func NewSyncWorker(interval time.Duration, log zerolog.Logger, jobs ...Job) *SyncWorker {
	return &SyncWorker{interval: interval, jobs: jobs, log: log}
}

// PendingSyncJob drains the gateway's pending queue.
func PendingSyncJob(g *TransactionGateway) Job {
	return Job{Name: "pending_sync", Run: func(ctx context.Context) error {
		_, err := g.SyncPending(ctx)
		return err
	}}
}

// Start launches the loop. Call once.
func (w *SyncWorker) Start() {
	w.started = true
	w.Go(w.loop)
}

func (w *SyncWorker) loop() error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	ctx := w.Context(context.Background())
	for {
		select {
		case <-w.Dying():
			return nil
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce runs every job in order.
func (w *SyncWorker) RunOnce(ctx context.Context) {
	for _, j := range w.jobs {
		if ctx.Err() != nil {
			return
		}
		if err := j.Run(ctx); err != nil {
			w.log.Error().Err(err).
				Str(logger.ACTION, j.Name).
				Msg("periodic job failed")
		}
	}
}

// Stop kills the loop and waits for the current tick to finish.
func (w *SyncWorker) Stop() error {
	if !w.started {
		return nil
	}
	w.Kill(nil)
	return w.Wait()
}
