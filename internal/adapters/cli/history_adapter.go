package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Senhordim/boilerplate/internal/ports/primary"
)

// HistoryAdapter is a thin adapter that translates CLI operations to HistoryService calls.
type HistoryAdapter struct {
	service primary.HistoryService
	out     io.Writer
}

// NewHistoryAdapter creates a new HistoryAdapter with the given service.
func NewHistoryAdapter(service primary.HistoryService, out io.Writer) *HistoryAdapter {
	return &HistoryAdapter{
		service: service,
		out:     out,
	}
}

// List lists the most recent runs.
func (a *HistoryAdapter) List(ctx context.Context, limit int) ([]*primary.Run, error) {
	runs, err := a.service.ListRuns(ctx, limit)
	if err != nil {
		return nil, err
	}

	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No generation runs recorded.")
		return runs, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tENTITIES\tWRITTEN\tSKIPPED\tFAILED")
	fmt.Fprintln(w, "---\t-------\t--------\t-------\t-------\t------")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n", shortID(r.ID), r.StartedAt, r.Entities, r.Written, r.Skipped, r.Failed)
	}
	w.Flush()

	return runs, nil
}

// Show displays a run and its outcomes.
func (a *HistoryAdapter) Show(ctx context.Context, runID string) (*primary.Run, error) {
	run, err := a.service.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	fmt.Fprintf(a.out, "\nRun: %s\n", run.ID)
	fmt.Fprintf(a.out, "Started:  %s\n", run.StartedAt)
	fmt.Fprintf(a.out, "Finished: %s\n", run.FinishedAt)
	fmt.Fprintf(a.out, "Entities: %d\n", run.Entities)
	fmt.Fprintf(a.out, "Result:   %d written, %d skipped, %d failed\n", run.Written, run.Skipped, run.Failed)
	fmt.Fprintln(a.out)

	printOutcomes(a.out, run.Outcomes)
	return run, nil
}

// Prune deletes old runs.
func (a *HistoryAdapter) Prune(ctx context.Context, keep int) (int, error) {
	deleted, err := a.service.PruneRuns(ctx, keep)
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(a.out, "✓ Pruned %d run(s), kept the newest %d\n", deleted, keep)
	return deleted, nil
}
