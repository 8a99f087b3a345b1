// Package cli contains thin adapters that translate CLI operations to service
// calls and render the results.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/Senhordim/boilerplate/internal/ports/primary"
)

// GenerationAdapter is a thin adapter that translates CLI operations to GenerationService calls.
// It depends only on the GenerationService interface, enabling easy testing with mocks.
type GenerationAdapter struct {
	service primary.GenerationService
	out     io.Writer
}

// NewGenerationAdapter creates a new GenerationAdapter with the given service.
func NewGenerationAdapter(service primary.GenerationService, out io.Writer) *GenerationAdapter {
	return &GenerationAdapter{
		service: service,
		out:     out,
	}
}

// Generate runs generation and prints the outcome table. With showContent,
// dry runs also print the resulting content of every file they would write.
func (a *GenerationAdapter) Generate(ctx context.Context, req primary.GenerateRequest, showContent bool) (*primary.GenerationReport, error) {
	report, err := a.service.Generate(ctx, req)
	if report == nil {
		return nil, err
	}

	printOutcomes(a.out, report.Outcomes)

	written, skipped, failed := report.Counts()
	fmt.Fprintln(a.out)
	if report.DryRun {
		fmt.Fprintf(a.out, "Dry run: %d would be written, %d skipped, %d failed. Nothing was written.\n", written, skipped, failed)
	} else {
		fmt.Fprintf(a.out, "%s %d written, %d skipped, %d failed (run %s)\n",
			summaryIcon(failed), written, skipped, failed, shortID(report.RunID))
	}

	if report.DryRun && showContent {
		for _, o := range report.Outcomes {
			if o.Content == "" {
				continue
			}
			fmt.Fprintf(a.out, "\n--- %s (%s)\n", o.Path, o.Kind)
			fmt.Fprint(a.out, o.Content)
			if !strings.HasSuffix(o.Content, "\n") {
				fmt.Fprintln(a.out)
			}
		}
	}

	return report, err
}

// Status prints the probed state of every target.
func (a *GenerationAdapter) Status(ctx context.Context, req primary.StatusRequest) ([]*primary.ArtifactStatus, error) {
	statuses, err := a.service.Status(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to probe artifacts: %w", err)
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "STATUS\tKIND\tENTITY\tPATH")
	fmt.Fprintln(w, "------\t----\t------\t----")
	for _, s := range statuses {
		fmt.Fprintf(w, "%s\t%s\t%s.%s\t%s\n", statusLabel(s), s.Kind, s.App, s.Entity, s.Path)
	}
	w.Flush()

	for _, s := range statuses {
		if s.Error != "" {
			fmt.Fprintf(a.out, "  %s %s: %s\n", color.New(color.FgRed).Sprint("✗"), s.Path, s.Error)
		}
	}

	return statuses, nil
}

// Lock locks files and prints one line per file.
func (a *GenerationAdapter) Lock(ctx context.Context, paths []string) ([]*primary.LockResult, error) {
	results, err := a.service.Lock(ctx, paths)
	for _, r := range results {
		if r.AlreadyLocked {
			fmt.Fprintf(a.out, "- %s already locked\n", r.Path)
		} else {
			fmt.Fprintf(a.out, "✓ Locked %s\n", r.Path)
		}
	}
	if err != nil {
		return results, fmt.Errorf("failed to lock: %w", err)
	}
	return results, nil
}

func printOutcomes(out io.Writer, outcomes []*primary.ArtifactOutcome) {
	if len(outcomes) == 0 {
		fmt.Fprintln(out, "No artifacts processed.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "STATE\tREASON\tKIND\tENTITY\tPATH")
	fmt.Fprintln(w, "-----\t------\t----\t------\t----")
	for _, o := range outcomes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s.%s\t%s\n", stateLabel(o.State), o.Reason, o.Kind, o.App, o.Entity, o.Path)
	}
	w.Flush()

	for _, o := range outcomes {
		if o.Error != "" {
			fmt.Fprintf(out, "  %s %s %s.%s: %s\n", color.New(color.FgRed).Sprint("✗"), o.Kind, o.App, o.Entity, o.Error)
		}
		for _, warning := range o.Warnings {
			fmt.Fprintf(out, "  %s %s %s.%s: %s\n", color.New(color.FgYellow).Sprint("!"), o.Kind, o.App, o.Entity, warning)
		}
	}
}

// stateLabel pads before coloring so tabwriter sees equal widths.
func stateLabel(state string) string {
	padded := fmt.Sprintf("%-7s", state)
	switch state {
	case "written":
		return color.New(color.FgGreen).Sprint(padded)
	case "skipped":
		return color.New(color.FgBlue).Sprint(padded)
	case "failed":
		return color.New(color.FgRed).Sprint(padded)
	default:
		return padded
	}
}

func statusLabel(s *primary.ArtifactStatus) string {
	switch {
	case s.Error != "":
		return color.New(color.FgRed).Sprint("ERROR  ")
	case s.Locked:
		return color.New(color.FgYellow).Sprint("LOCKED ")
	case s.Present:
		return color.New(color.FgBlue).Sprint("PRESENT")
	case s.Exists:
		return color.New(color.FgGreen).Sprint("APPEND ")
	default:
		return color.New(color.FgGreen).Sprint("CREATE ")
	}
}

func summaryIcon(failed int) string {
	if failed > 0 {
		return color.New(color.FgYellow).Sprint("!")
	}
	return color.New(color.FgGreen).Sprint("✓")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
