package identifier

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/tejash-9/spacedrive/internal/job"
	"github.com/tejash-9/spacedrive/internal/library"
	"github.com/tejash-9/spacedrive/internal/logging"
	"github.com/tejash-9/spacedrive/internal/subpath"
)

// processBatch identifies one chunk with a bounded worker pool. Per-entry
// identification failures count as ignored and never abort the batch;
// storage failures abort it. The returned partial state carries this step's
// counter deltas and the cursor advanced past the batch.
func (j *Job) processBatch(ctx context.Context, env *job.Env, batch []library.FilePath) (*State, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	entries := make(chan *library.FilePath)
	var created, linked, ignored atomic.Int64
	var fatalOnce sync.Once
	var fatal error

	abort := func(err error) {
		fatalOnce.Do(func() {
			fatal = err
			cancel()
		})
	}

	var wg sync.WaitGroup
	for range j.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range entries {
				switch outcome, err := j.identify(ctx, env, entry); {
				case err != nil:
					abort(err)
					return
				case outcome == outcomeCreated:
					created.Add(1)
				case outcome == outcomeLinked:
					linked.Add(1)
				default:
					ignored.Add(1)
				}
			}
		}()
	}

	var cursor int64
feed:
	for i := range batch {
		if batch[i].ID >= cursor {
			cursor = batch[i].ID + 1
		}
		select {
		case entries <- &batch[i]:
		case <-ctx.Done():
			break feed
		}
	}
	close(entries)
	wg.Wait()

	if fatal != nil {
		return nil, fatal
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch interrupted: %w", err)
	}

	return &State{
		Report: Report{
			ObjectsCreated: created.Load(),
			ObjectsLinked:  linked.Load(),
			ObjectsIgnored: ignored.Load(),
		},
		Cursor: cursor,
	}, nil
}

type identifyOutcome int

const (
	outcomeIgnored identifyOutcome = iota
	outcomeCreated
	outcomeLinked
)

// identify processes a single orphan entry: content id, object upsert, link.
func (j *Job) identify(ctx context.Context, env *job.Env, entry *library.FilePath) (identifyOutcome, error) {
	rel := subpath.EntryPath(entry.MaterializedPath, entry.Name, entry.Extension)
	full := filepath.Join(j.location.Path, filepath.FromSlash(rel))

	casID, meta, err := j.generate(ctx, full)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		env.Logger.Warn("identify file path failed",
			logging.String("path", rel),
			logging.Error(err))
		return outcomeIgnored, nil
	}

	object, objectCreated, err := j.store.CreateOrGetObject(ctx, casID, meta.Kind, meta.SizeBytes, &meta.ModTime)
	if err != nil {
		return 0, fmt.Errorf("create object for %q: %w", rel, err)
	}

	if err := j.store.LinkFilePath(ctx, entry.ID, object.ID); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			// The row left the index between fetch and link.
			env.Logger.Warn("file path vanished before linking",
				logging.String("path", rel))
			return outcomeIgnored, nil
		}
		return 0, fmt.Errorf("link file path %d: %w", entry.ID, err)
	}

	if objectCreated {
		return outcomeCreated, nil
	}
	return outcomeLinked, nil
}
