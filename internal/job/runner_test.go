package job_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/tejash-9/spacedrive/internal/job"
	"github.com/tejash-9/spacedrive/internal/library"
	"github.com/tejash-9/spacedrive/internal/testsupport"
)

type countMetadata struct {
	Processed int   `json:"processed"`
	Cursor    int64 `json:"cursor"`
}

func (m *countMetadata) Merge(next job.RunMetadata) {
	n := next.(*countMetadata)
	m.Processed += n.Processed
	m.Cursor = n.Cursor
}

type scriptedJob struct {
	steps        int
	perStep      int
	initEarly    string
	earlyAtStep  int
	failAtStep   int
	cancelAfter  int
	cancel       context.CancelFunc
	executedTo   int
	finalized    bool
}

func (j *scriptedJob) Name() string { return "scripted" }

func (j *scriptedJob) Init(ctx context.Context, env *job.Env) (job.InitOutput, error) {
	if j.initEarly != "" {
		return job.InitOutput{EarlyFinish: true, EarlyFinishReason: j.initEarly}, nil
	}
	return job.InitOutput{Metadata: &countMetadata{Cursor: 1}, Steps: j.steps}, nil
}

func (j *scriptedJob) ExecuteStep(ctx context.Context, env *job.Env, step job.CurrentStep, running job.RunMetadata) (job.StepOutput, error) {
	j.executedTo = step.Number
	if j.failAtStep == step.Number {
		return job.StepOutput{}, errors.New("storage exploded")
	}
	if j.earlyAtStep == step.Number {
		return job.EarlyFinish("expected rows missing"), nil
	}
	if j.cancelAfter == step.Number && j.cancel != nil {
		j.cancel()
	}
	cursor := running.(*countMetadata).Cursor + int64(j.perStep)
	env.Progress("step done", float64(step.Number)/float64(step.Total)*100)
	return job.Continue(&countMetadata{Processed: j.perStep, Cursor: cursor}), nil
}

func (j *scriptedJob) Finalize(ctx context.Context, env *job.Env, running job.RunMetadata) error {
	j.finalized = true
	return nil
}

func runningRecord(t *testing.T, store *library.Store) *library.JobRecord {
	t.Helper()
	if _, err := store.EnqueueJob(context.Background(), "scripted", nil); err != nil {
		t.Fatalf("EnqueueJob failed: %v", err)
	}
	rec, err := store.NextQueuedJob(context.Background())
	if err != nil || rec == nil {
		t.Fatalf("claim job: %v (%+v)", err, rec)
	}
	return rec
}

func TestRunnerCompletesAllSteps(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	rec := runningRecord(t, store)

	j := &scriptedJob{steps: 3, perStep: 5}
	outcome := job.NewRunner(store, nil).Run(context.Background(), rec, j)

	if outcome.Status != library.JobCompleted {
		t.Fatalf("expected completed, got %s (%v)", outcome.Status, outcome.Err)
	}
	if !j.finalized {
		t.Fatal("expected finalize to run")
	}

	var state countMetadata
	if err := json.Unmarshal(outcome.State, &state); err != nil {
		t.Fatalf("parse state: %v", err)
	}
	if state.Processed != 15 {
		t.Fatalf("expected 15 processed, got %d", state.Processed)
	}
	if state.Cursor != 16 {
		t.Fatalf("expected cursor 16, got %d", state.Cursor)
	}

	stored, err := store.JobByID(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("JobByID failed: %v", err)
	}
	if stored.Status != library.JobCompleted {
		t.Fatalf("expected persisted completion, got %s", stored.Status)
	}
	if stored.StateJSON == "" {
		t.Fatal("expected persisted state payload")
	}
}

func TestRunnerEarlyFinishAtInit(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	rec := runningRecord(t, store)

	j := &scriptedJob{initEarly: "no orphan file paths to process"}
	outcome := job.NewRunner(store, nil).Run(context.Background(), rec, j)

	if outcome.Status != library.JobEarlyFinished {
		t.Fatalf("expected early finish, got %s", outcome.Status)
	}
	if outcome.Reason != "no orphan file paths to process" {
		t.Fatalf("unexpected reason %q", outcome.Reason)
	}
	if j.executedTo != 0 {
		t.Fatalf("expected zero executed steps, got %d", j.executedTo)
	}
}

func TestRunnerEarlyFinishMidRunKeepsMetadata(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	rec := runningRecord(t, store)

	j := &scriptedJob{steps: 4, perStep: 5, earlyAtStep: 3}
	outcome := job.NewRunner(store, nil).Run(context.Background(), rec, j)

	if outcome.Status != library.JobEarlyFinished {
		t.Fatalf("expected early finish, got %s", outcome.Status)
	}

	var state countMetadata
	if err := json.Unmarshal(outcome.State, &state); err != nil {
		t.Fatalf("parse state: %v", err)
	}
	if state.Processed != 10 {
		t.Fatalf("expected prior steps preserved (10), got %d", state.Processed)
	}
	if j.finalized {
		t.Fatal("finalize must not run after early finish")
	}
}

func TestRunnerFatalStepKeepsPartialState(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	rec := runningRecord(t, store)

	j := &scriptedJob{steps: 3, perStep: 5, failAtStep: 2}
	outcome := job.NewRunner(store, nil).Run(context.Background(), rec, j)

	if outcome.Status != library.JobFailed {
		t.Fatalf("expected failed, got %s", outcome.Status)
	}
	if outcome.Err == nil {
		t.Fatal("expected error")
	}

	var state countMetadata
	if err := json.Unmarshal(outcome.State, &state); err != nil {
		t.Fatalf("parse state: %v", err)
	}
	if state.Processed != 5 {
		t.Fatalf("expected only step 1 merged, got %d", state.Processed)
	}

	stored, err := store.JobByID(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("JobByID failed: %v", err)
	}
	if stored.ErrorMessage == "" {
		t.Fatal("expected persisted error message")
	}
}

func TestRunnerStopsBetweenStepsOnCancel(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	rec := runningRecord(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	j := &scriptedJob{steps: 5, perStep: 2, cancelAfter: 2, cancel: cancel}
	outcome := job.NewRunner(store, nil).Run(ctx, rec, j)

	if outcome.Status != library.JobFailed {
		t.Fatalf("expected interrupted run to fail, got %s", outcome.Status)
	}
	if j.executedTo != 2 {
		t.Fatalf("expected execution to stop after step 2, got %d", j.executedTo)
	}

	// The cancelled step completed; its metadata is the durable resume point.
	var state countMetadata
	if err := json.Unmarshal(outcome.State, &state); err != nil {
		t.Fatalf("parse state: %v", err)
	}
	if state.Processed != 4 {
		t.Fatalf("expected both completed steps merged, got %d", state.Processed)
	}

	stored, err := store.JobByID(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("JobByID failed: %v", err)
	}
	if stored.Status != library.JobFailed {
		t.Fatalf("expected interruption persisted despite cancelled context, got %s", stored.Status)
	}
}
