package secondary

import "context"

// RunRepository defines the secondary port for generation history persistence.
type RunRepository interface {
	// Create persists a run and its outcomes atomically.
	Create(ctx context.Context, run *RunRecord) error

	// List retrieves the newest runs without outcomes.
	List(ctx context.Context, limit int) ([]*RunRecord, error)

	// GetByID retrieves a run with outcomes. A unique ID prefix is accepted.
	GetByID(ctx context.Context, id string) (*RunRecord, error)

	// Prune deletes all but the newest keep runs and returns how many were deleted.
	Prune(ctx context.Context, keep int) (int, error)
}

// RunRecord represents a generation run as stored in persistence.
type RunRecord struct {
	ID         string
	StartedAt  string
	FinishedAt string
	Entities   int
	Written    int
	Skipped    int
	Failed     int
	Outcomes   []*OutcomeRecord
}

// OutcomeRecord represents one artifact outcome as stored in persistence.
type OutcomeRecord struct {
	RunID  string
	Seq    int
	App    string
	Entity string
	Kind   string
	Path   string
	State  string
	Reason string
	Error  string
}
