package job

import (
	"context"
	"log/slog"
)

// RunMetadata accumulates a job's durable progress. Merge folds a completed
// step's partial metadata into the running value: counters sum, cursors
// replace. It is applied exactly once per completed step, in step order.
type RunMetadata interface {
	Merge(next RunMetadata)
}

// CurrentStep identifies one step of a planned run.
type CurrentStep struct {
	// Number is 1-based.
	Number int
	Total  int
}

// InitOutput is the result of planning a run.
type InitOutput struct {
	// Metadata seeds the running checkpoint. Required unless EarlyFinish.
	Metadata RunMetadata
	// Steps is the fixed number of steps the runner will execute.
	Steps int
	// EarlyFinish terminates the run before any step executes, without error.
	EarlyFinish       bool
	EarlyFinishReason string
}

// StepOutput is a tagged step outcome: either Continue with partial metadata
// to merge, or EarlyFinish with a reason. Fatal failure is an error return.
type StepOutput struct {
	Metadata          RunMetadata
	EarlyFinish       bool
	EarlyFinishReason string
}

// Continue wraps partial metadata in a continuing step output.
func Continue(metadata RunMetadata) StepOutput {
	return StepOutput{Metadata: metadata}
}

// EarlyFinish builds a terminating step output. Metadata merged by prior
// steps is preserved by the runner.
func EarlyFinish(reason string) StepOutput {
	return StepOutput{EarlyFinish: true, EarlyFinishReason: reason}
}

// Env carries the runner-provided facilities a job may use while executing.
type Env struct {
	Logger *slog.Logger
	// Progress emits a side-channel progress message with a 0-100 percent
	// estimate. Safe to call from any step.
	Progress func(message string, percent float64)
}

// Stateful is a resumable chunked job. The runner calls Init once,
// ExecuteStep once per planned step with the running metadata accumulated so
// far, and Finalize once after the last step.
type Stateful interface {
	Name() string
	Init(ctx context.Context, env *Env) (InitOutput, error)
	ExecuteStep(ctx context.Context, env *Env, step CurrentStep, running RunMetadata) (StepOutput, error)
	Finalize(ctx context.Context, env *Env, running RunMetadata) error
}
