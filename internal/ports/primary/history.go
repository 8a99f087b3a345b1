package primary

import "context"

// HistoryService defines the primary port for the generation history.
type HistoryService interface {
	// ListRuns lists the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// GetRun retrieves a run with its outcomes. A unique ID prefix is accepted.
	GetRun(ctx context.Context, runID string) (*Run, error)

	// PruneRuns deletes all but the newest keep runs.
	PruneRuns(ctx context.Context, keep int) (int, error)
}

// Run represents a recorded generation run at the port boundary.
type Run struct {
	ID         string
	StartedAt  string
	FinishedAt string
	Entities   int
	Written    int
	Skipped    int
	Failed     int
	Outcomes   []*ArtifactOutcome
}
