package identifier

import "github.com/tejash-9/spacedrive/internal/job"

// ChunkSize is the number of orphan file paths processed per step.
const ChunkSize = 100

// Report accumulates the run's counters. TotalOrphanPaths is fixed at init;
// the remaining counters sum across steps and, for every processed entry,
// exactly one of them moves.
type Report struct {
	TotalOrphanPaths int64 `json:"total_orphan_paths"`
	ObjectsCreated   int64 `json:"total_objects_created"`
	ObjectsLinked    int64 `json:"total_objects_linked"`
	ObjectsIgnored   int64 `json:"total_objects_ignored"`
}

// State is the job's durable checkpoint: the report so far plus the cursor
// the next step fetches from.
type State struct {
	Report Report `json:"report"`
	Cursor int64  `json:"cursor"`
}

// Merge folds a step's partial state into the running one. Counters sum and
// the cursor replaces, so replaying the merge sequence from any persisted
// checkpoint reproduces the same state.
func (s *State) Merge(next job.RunMetadata) {
	n := next.(*State)
	s.Report.TotalOrphanPaths += n.Report.TotalOrphanPaths
	s.Report.ObjectsCreated += n.Report.ObjectsCreated
	s.Report.ObjectsLinked += n.Report.ObjectsLinked
	s.Report.ObjectsIgnored += n.Report.ObjectsIgnored
	s.Cursor = n.Cursor
}

// stepCount plans the fixed number of steps for total orphans.
func stepCount(total int64) int {
	return int((total + ChunkSize - 1) / ChunkSize)
}
