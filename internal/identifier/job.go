package identifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tejash-9/spacedrive/internal/casid"
	"github.com/tejash-9/spacedrive/internal/job"
	"github.com/tejash-9/spacedrive/internal/library"
	"github.com/tejash-9/spacedrive/internal/logging"
	"github.com/tejash-9/spacedrive/internal/subpath"
)

// JobName is the queue name file identifier runs are enqueued under.
const JobName = "file_identifier"

// Payload is the serialized request stored on the job record.
type Payload struct {
	LocationID int64  `json:"location_id"`
	SubPath    string `json:"sub_path,omitempty"`
}

// Options tune a Job beyond its payload.
type Options struct {
	// SubPath restricts the run to a directory inside the location. Empty
	// means the whole location.
	SubPath string
	// Workers bounds the per-step worker pool. Values below one fall back
	// to a single worker.
	Workers int
	// Generate overrides the content identifier function. Nil uses
	// casid.Compute.
	Generate casid.Generator
}

// Job identifies the orphan file paths of one location.
type Job struct {
	store    *library.Store
	location *library.Location
	subPath  string
	workers  int
	generate casid.Generator

	// scopePrefix is resolved during Init; empty when unscoped.
	scopePrefix string
}

// New builds a file identifier job for location.
func New(store *library.Store, location *library.Location, opts Options) *Job {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	generate := opts.Generate
	if generate == nil {
		generate = casid.Compute
	}
	return &Job{
		store:    store,
		location: location,
		subPath:  opts.SubPath,
		workers:  workers,
		generate: generate,
	}
}

// NewFromPayload rebuilds a job from a claimed job record's payload.
func NewFromPayload(ctx context.Context, store *library.Store, payloadJSON string, workers int) (*Job, error) {
	var payload Payload
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", JobName, err)
	}
	location, err := store.LocationByID(ctx, payload.LocationID)
	if err != nil {
		return nil, fmt.Errorf("load location %d: %w", payload.LocationID, err)
	}
	return New(store, location, Options{SubPath: payload.SubPath, Workers: workers}), nil
}

func (j *Job) Name() string { return JobName }

// Init resolves the scope, counts the orphan set, and plans the run. A scope
// that does not exist on disk or was never indexed is a fatal error; an
// empty orphan set finishes the run early without error.
func (j *Job) Init(ctx context.Context, env *job.Env) (job.InitOutput, error) {
	if j.subPath != "" {
		resolved, err := subpath.Resolve(j.location.Path, j.subPath)
		if err != nil {
			return job.InitOutput{}, err
		}
		indexed, err := j.store.DirectoryExists(ctx, j.location.ID, resolved.MaterializedPath(), resolved.Name())
		if err != nil {
			return job.InitOutput{}, fmt.Errorf("look up scope directory: %w", err)
		}
		if !indexed {
			return job.InitOutput{}, fmt.Errorf("%w: %q is not indexed", subpath.ErrSubPathNotFound, j.subPath)
		}
		j.scopePrefix = resolved.ChildPrefix()
	}

	total, err := j.store.CountOrphanFilePaths(ctx, j.location.ID, j.scopePrefix)
	if err != nil {
		return job.InitOutput{}, fmt.Errorf("count orphan file paths: %w", err)
	}
	if total == 0 {
		return job.InitOutput{EarlyFinish: true, EarlyFinishReason: "no orphan file paths to process"}, nil
	}

	first, err := j.store.FirstOrphanFilePathID(ctx, j.location.ID, j.scopePrefix)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			return job.InitOutput{EarlyFinish: true, EarlyFinishReason: "no orphan file paths to process"}, nil
		}
		return job.InitOutput{}, fmt.Errorf("find first orphan file path: %w", err)
	}

	env.Logger.Info("orphan file paths counted",
		logging.Int64("total", total),
		logging.String("scope", j.scopePrefix))

	return job.InitOutput{
		Metadata: &State{Report: Report{TotalOrphanPaths: total}, Cursor: first},
		Steps:    stepCount(total),
	}, nil
}

// ExecuteStep fetches the next chunk at the running cursor, identifies it
// with the worker pool, and returns the step's counter deltas plus the
// advanced cursor. An empty fetch means the rows this step was planned for
// are gone, which ends the run early.
func (j *Job) ExecuteStep(ctx context.Context, env *job.Env, step job.CurrentStep, running job.RunMetadata) (job.StepOutput, error) {
	state := running.(*State)

	batch, err := j.store.OrphanFilePathBatch(ctx, j.location.ID, state.Cursor, j.scopePrefix, ChunkSize)
	if err != nil {
		return job.StepOutput{}, fmt.Errorf("fetch orphan batch: %w", err)
	}
	if len(batch) == 0 {
		return job.EarlyFinish("orphan file paths expected for this step are missing"), nil
	}

	partial, err := j.processBatch(ctx, env, batch)
	if err != nil {
		return job.StepOutput{}, err
	}

	processed := int64(step.Number) * ChunkSize
	if processed > state.Report.TotalOrphanPaths {
		processed = state.Report.TotalOrphanPaths
	}
	env.Progress(
		fmt.Sprintf("identified %d of %d orphan file paths", processed, state.Report.TotalOrphanPaths),
		float64(step.Number)/float64(step.Total)*100,
	)

	return job.Continue(partial), nil
}

// Finalize logs the run's totals. All durable effects already landed in the
// per-step checkpoints.
func (j *Job) Finalize(ctx context.Context, env *job.Env, running job.RunMetadata) error {
	state := running.(*State)
	env.Logger.Info("file identification finished",
		logging.Int64("total", state.Report.TotalOrphanPaths),
		logging.Int64("created", state.Report.ObjectsCreated),
		logging.Int64("linked", state.Report.ObjectsLinked),
		logging.Int64("ignored", state.Report.ObjectsIgnored))
	return nil
}
