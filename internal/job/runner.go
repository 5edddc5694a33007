package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tejash-9/spacedrive/internal/library"
	"github.com/tejash-9/spacedrive/internal/logging"
)

// Outcome is the terminal result of a run, always carrying the best-effort
// state accumulated up to the point the run ended.
type Outcome struct {
	Status library.JobStatus
	Reason string
	Err    error
	State  json.RawMessage
}

// Runner drives a Stateful job sequentially and persists its checkpoint to
// the job record after every merged step. One runner invocation owns one
// job; steps never overlap because each step's fetch depends on the cursor
// the previous step produced.
type Runner struct {
	store  *library.Store
	logger *slog.Logger
}

// NewRunner builds a runner. A nil logger is replaced with a no-op one.
func NewRunner(store *library.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{store: store, logger: logger}
}

// Run executes the job against rec. The record must already be in the
// running state. Cancellation is checkpoint granular: a step that has
// started runs to completion, and the last persisted state is the resume
// point.
func (r *Runner) Run(ctx context.Context, rec *library.JobRecord, j Stateful) Outcome {
	ctx = logging.WithJob(ctx, rec.ID, j.Name())
	logger := logging.WithContext(ctx, r.logger)

	env := &Env{
		Logger: logger,
		Progress: func(message string, percent float64) {
			if err := r.store.UpdateJobProgress(ctx, rec.ID, "", message, percent); err != nil {
				logger.Warn("persist progress failed", logging.Error(err))
			}
		},
	}

	initOut, err := j.Init(ctx, env)
	if err != nil {
		return r.fail(ctx, logger, rec, nil, fmt.Errorf("init: %w", err))
	}
	if initOut.EarlyFinish {
		return r.earlyFinish(ctx, logger, rec, initOut.Metadata, initOut.EarlyFinishReason)
	}
	if initOut.Metadata == nil {
		return r.fail(ctx, logger, rec, nil, fmt.Errorf("job %s: init returned no metadata", j.Name()))
	}
	if initOut.Steps <= 0 {
		return r.fail(ctx, logger, rec, initOut.Metadata, fmt.Errorf("job %s: init planned %d steps", j.Name(), initOut.Steps))
	}

	running := initOut.Metadata
	if err := r.checkpoint(ctx, rec, running, 0, initOut.Steps); err != nil {
		return r.fail(ctx, logger, rec, running, err)
	}

	logger.Info("job initiated", logging.Int("steps", initOut.Steps))

	for n := 1; n <= initOut.Steps; n++ {
		select {
		case <-ctx.Done():
			return r.fail(ctx, logger, rec, running, fmt.Errorf("run interrupted before step %d: %w", n, ctx.Err()))
		default:
		}

		out, err := j.ExecuteStep(ctx, env, CurrentStep{Number: n, Total: initOut.Steps}, running)
		if err != nil {
			return r.fail(ctx, logger, rec, running, fmt.Errorf("step %d: %w", n, err))
		}
		if out.EarlyFinish {
			return r.earlyFinish(ctx, logger, rec, running, out.EarlyFinishReason)
		}
		if out.Metadata == nil {
			return r.fail(ctx, logger, rec, running, fmt.Errorf("step %d returned no metadata", n))
		}

		running.Merge(out.Metadata)
		if err := r.checkpoint(ctx, rec, running, n, initOut.Steps); err != nil {
			return r.fail(ctx, logger, rec, running, err)
		}
	}

	if err := j.Finalize(ctx, env, running); err != nil {
		return r.fail(ctx, logger, rec, running, fmt.Errorf("finalize: %w", err))
	}

	state := marshalMetadata(logger, running)
	if err := r.store.FinishJob(ctx, rec.ID, library.JobCompleted, string(state), ""); err != nil {
		logger.Error("persist job completion failed", logging.Error(err))
	}
	logger.Info("job completed")
	return Outcome{Status: library.JobCompleted, State: state}
}

// checkpoint persists the merged running metadata after a completed step.
// This is the atomic aggregation boundary: a step either lands here in full
// or contributes nothing.
func (r *Runner) checkpoint(ctx context.Context, rec *library.JobRecord, running RunMetadata, step, total int) error {
	state, err := json.Marshal(running)
	if err != nil {
		return fmt.Errorf("marshal run state: %w", err)
	}
	percent := float64(step) / float64(total) * 100
	if err := r.store.UpdateJobProgress(ctx, rec.ID, string(state), "", percent); err != nil {
		return fmt.Errorf("persist checkpoint: %w", err)
	}
	return nil
}

func (r *Runner) earlyFinish(ctx context.Context, logger *slog.Logger, rec *library.JobRecord, running RunMetadata, reason string) Outcome {
	state := marshalMetadata(logger, running)
	if err := r.store.FinishJob(context.WithoutCancel(ctx), rec.ID, library.JobEarlyFinished, string(state), reason); err != nil {
		logger.Error("persist early finish failed", logging.Error(err))
	}
	logger.Info("job finished early", logging.String("reason", reason))
	return Outcome{Status: library.JobEarlyFinished, Reason: reason, State: state}
}

func (r *Runner) fail(ctx context.Context, logger *slog.Logger, rec *library.JobRecord, running RunMetadata, cause error) Outcome {
	state := marshalMetadata(logger, running)
	// A cancelled run must still land its terminal record; the checkpoint in
	// it is the resume point for a later run.
	if err := r.store.FinishJob(context.WithoutCancel(ctx), rec.ID, library.JobFailed, string(state), cause.Error()); err != nil {
		logger.Error("persist job failure failed", logging.Error(err))
	}
	logger.Error("job failed", logging.Error(cause))
	return Outcome{Status: library.JobFailed, Err: cause, State: state}
}

func marshalMetadata(logger *slog.Logger, running RunMetadata) json.RawMessage {
	if running == nil {
		return nil
	}
	state, err := json.Marshal(running)
	if err != nil {
		logger.Warn("marshal run state failed", logging.Error(err))
		return nil
	}
	return state
}
