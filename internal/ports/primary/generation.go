// Package primary defines the primary ports (driving side) of the application.
package primary

import (
	"context"
	"time"

	"github.com/Senhordim/boilerplate/internal/scaffold"
)

// GenerationService defines the primary port for generating and merging artifacts.
type GenerationService interface {
	// Generate renders, probes and merges every selected artifact of every entity.
	// Per-artifact failures are reported in the outcomes; the error is reserved
	// for invalid requests and cancellation.
	Generate(ctx context.Context, req GenerateRequest) (*GenerationReport, error)

	// Status probes the targets of every selected artifact without rendering.
	Status(ctx context.Context, req StatusRequest) ([]*ArtifactStatus, error)

	// Lock adds the lock sentinel to each file.
	Lock(ctx context.Context, paths []string) ([]*LockResult, error)
}

// GenerateRequest contains parameters for a generation run.
type GenerateRequest struct {
	Entities  []scaffold.Entity
	Artifacts []string // kinds or groups, empty means all
	DryRun    bool     // merge against an in-memory overlay, write nothing
}

// GenerationReport is the outcome of a generation run.
type GenerationReport struct {
	RunID      string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Entities   int
	Outcomes   []*ArtifactOutcome
}

// Counts returns the number of written, skipped and failed artifacts.
func (r *GenerationReport) Counts() (written, skipped, failed int) {
	for _, o := range r.Outcomes {
		switch o.State {
		case "written":
			written++
		case "skipped":
			skipped++
		case "failed":
			failed++
		}
	}
	return written, skipped, failed
}

// ArtifactOutcome is the result of one artifact of one entity.
type ArtifactOutcome struct {
	App      string
	Entity   string
	Kind     string
	Path     string
	State    string // written, skipped, failed
	Reason   string // created, appended, already_present, locked, error
	Error    string
	Warnings []string
	Content  string // resulting text, set on dry runs
}

// StatusRequest selects the targets to probe.
type StatusRequest struct {
	Entities  []scaffold.Entity
	Artifacts []string
}

// ArtifactStatus is the probed state of one target.
type ArtifactStatus struct {
	App     string
	Entity  string
	Kind    string
	Path    string
	Exists  bool
	Locked  bool
	Present bool // the artifact's marker is already in the file
	Error   string
}

// LockResult is the outcome of locking one file.
type LockResult struct {
	Path          string
	AlreadyLocked bool
}
