package app

import (
	"context"
	"fmt"

	"github.com/Senhordim/boilerplate/internal/core/generation"
	"github.com/Senhordim/boilerplate/internal/ports/primary"
	"github.com/Senhordim/boilerplate/internal/ports/secondary"
)

// HistoryServiceImpl implements the HistoryService interface.
type HistoryServiceImpl struct {
	runRepo secondary.RunRepository
}

// NewHistoryService creates a new HistoryService with injected dependencies.
func NewHistoryService(runRepo secondary.RunRepository) *HistoryServiceImpl {
	return &HistoryServiceImpl{runRepo: runRepo}
}

// ListRuns lists the most recent runs, newest first.
func (s *HistoryServiceImpl) ListRuns(ctx context.Context, limit int) ([]*primary.Run, error) {
	records, err := s.runRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*primary.Run, len(records))
	for i, r := range records {
		runs[i] = s.recordToRun(r)
	}
	return runs, nil
}

// GetRun retrieves a run with its outcomes.
func (s *HistoryServiceImpl) GetRun(ctx context.Context, runID string) (*primary.Run, error) {
	record, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	return s.recordToRun(record), nil
}

// PruneRuns deletes all but the newest keep runs.
func (s *HistoryServiceImpl) PruneRuns(ctx context.Context, keep int) (int, error) {
	if err := generation.CanPruneHistory(generation.PruneContext{Keep: keep}).Error(); err != nil {
		return 0, err
	}
	deleted, err := s.runRepo.Prune(ctx, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return deleted, nil
}

// Helper methods

func (s *HistoryServiceImpl) recordToRun(r *secondary.RunRecord) *primary.Run {
	run := &primary.Run{
		ID:         r.ID,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Entities:   r.Entities,
		Written:    r.Written,
		Skipped:    r.Skipped,
		Failed:     r.Failed,
	}
	for _, o := range r.Outcomes {
		run.Outcomes = append(run.Outcomes, &primary.ArtifactOutcome{
			App:    o.App,
			Entity: o.Entity,
			Kind:   o.Kind,
			Path:   o.Path,
			State:  o.State,
			Reason: o.Reason,
			Error:  o.Error,
		})
	}
	return run
}

var _ primary.HistoryService = (*HistoryServiceImpl)(nil)
