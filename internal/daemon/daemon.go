package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"github.com/tejash-9/spacedrive/internal/config"
	"github.com/tejash-9/spacedrive/internal/identifier"
	"github.com/tejash-9/spacedrive/internal/job"
	"github.com/tejash-9/spacedrive/internal/library"
	"github.com/tejash-9/spacedrive/internal/logging"
)

// ErrAlreadyRunning indicates another daemon instance holds the lock.
var ErrAlreadyRunning = errors.New("another spacedrived instance is already running")

// Daemon polls the job queue and executes claimed jobs sequentially.
type Daemon struct {
	cfg    *config.Config
	store  *library.Store
	logger *slog.Logger
	runner *job.Runner

	lockPath     string
	lock         *flock.Flock
	pollInterval time.Duration

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *library.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	pollInterval := time.Duration(cfg.Daemon.JobPollInterval) * time.Second
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:          cfg,
		store:        store,
		logger:       logger,
		runner:       job.NewRunner(store, logger),
		lockPath:     lockPath,
		lock:         flock.New(lockPath),
		pollInterval: pollInterval,
	}, nil
}

// LockPath returns the path of the single-instance lock file.
func (d *Daemon) LockPath() string { return d.lockPath }

// Start acquires the instance lock and launches the poll loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", d.lockPath, err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running.Store(true)

	go func() {
		defer close(d.done)
		d.poll(ctx)
	}()

	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.Duration("poll_interval", d.pollInterval))
	return nil
}

// Stop cancels the poll loop, waits for the in-flight job to land its
// terminal record, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.cancel()
	<-d.done
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release lock failed", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Running reports whether the poll loop is active.
func (d *Daemon) Running() bool { return d.running.Load() }

// Wait blocks until the poll loop exits.
func (d *Daemon) Wait() {
	if d.done != nil {
		<-d.done
	}
}

func (d *Daemon) poll(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		d.drainQueue(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunPending claims and runs queued jobs until the queue is empty or the
// context ends. The CLI uses it to process the queue without a daemon;
// claims are atomic, so racing a running daemon is safe.
func (d *Daemon) RunPending(ctx context.Context) {
	d.drainQueue(ctx)
}

// drainQueue claims and runs queued jobs until the queue is empty or the
// context ends.
func (d *Daemon) drainQueue(ctx context.Context) {
	for ctx.Err() == nil {
		rec, err := d.store.NextQueuedJob(ctx)
		if err != nil {
			d.logger.Error("claim queued job failed", logging.Error(err))
			return
		}
		if rec == nil {
			return
		}
		d.runJob(ctx, rec)
	}
}

func (d *Daemon) runJob(ctx context.Context, rec *library.JobRecord) {
	j, err := d.buildJob(ctx, rec)
	if err != nil {
		d.logger.Error("build job failed",
			logging.String(logging.FieldJobName, rec.Name),
			logging.Error(err))
		if finishErr := d.store.FinishJob(context.WithoutCancel(ctx), rec.ID, library.JobFailed, "", err.Error()); finishErr != nil {
			d.logger.Error("persist job failure failed", logging.Error(finishErr))
		}
		return
	}
	d.runner.Run(ctx, rec, j)
}

func (d *Daemon) buildJob(ctx context.Context, rec *library.JobRecord) (job.Stateful, error) {
	switch rec.Name {
	case identifier.JobName:
		return identifier.NewFromPayload(ctx, d.store, rec.PayloadJSON, d.cfg.Identifier.Workers)
	default:
		return nil, fmt.Errorf("unknown job name %q", rec.Name)
	}
}
