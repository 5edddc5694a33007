package library

import "time"

// Location is a scanned root directory.
type Location struct {
	ID        int64
	Name      string
	Path      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FilePath is a filesystem node discovered under a location. ObjectID is nil
// while the entry is an orphan awaiting identification.
type FilePath struct {
	ID               int64
	LocationID       int64
	MaterializedPath string
	Name             string
	Extension        string
	IsDir            bool
	SizeBytes        int64
	ModTime          *time.Time
	ObjectID         *int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Object is the dedup unit for unique content, keyed by cas id.
type Object struct {
	ID        int64
	CasID     string
	Kind      string
	SizeBytes int64
	ModTime   *time.Time
	CreatedAt time.Time
}

// JobStatus represents the lifecycle of a job record.
type JobStatus string

const (
	JobQueued        JobStatus = "queued"
	JobRunning       JobStatus = "running"
	JobCompleted     JobStatus = "completed"
	JobEarlyFinished JobStatus = "early_finished"
	JobFailed        JobStatus = "failed"
)

// Terminal reports whether the status is a final one.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobCompleted, JobEarlyFinished, JobFailed:
		return true
	}
	return false
}

// JobRecord is a persisted job run. StateJSON carries the serialized run
// checkpoint and doubles as the durable result payload once the job ends.
type JobRecord struct {
	ID              string
	Name            string
	Status          JobStatus
	PayloadJSON     string
	StateJSON       string
	ErrorMessage    string
	ProgressMessage string
	ProgressPercent float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}
