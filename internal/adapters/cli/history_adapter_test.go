package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Senhordim/boilerplate/internal/ports/primary"
)

// mockHistoryService implements primary.HistoryService for testing
type mockHistoryService struct {
	listRunsFn  func(ctx context.Context, limit int) ([]*primary.Run, error)
	getRunFn    func(ctx context.Context, runID string) (*primary.Run, error)
	pruneRunsFn func(ctx context.Context, keep int) (int, error)

	lastLimit int
	lastKeep  int
}

func (m *mockHistoryService) ListRuns(ctx context.Context, limit int) ([]*primary.Run, error) {
	m.lastLimit = limit
	if m.listRunsFn != nil {
		return m.listRunsFn(ctx, limit)
	}
	return []*primary.Run{}, nil
}

func (m *mockHistoryService) GetRun(ctx context.Context, runID string) (*primary.Run, error) {
	if m.getRunFn != nil {
		return m.getRunFn(ctx, runID)
	}
	return &primary.Run{ID: runID}, nil
}

func (m *mockHistoryService) PruneRuns(ctx context.Context, keep int) (int, error) {
	m.lastKeep = keep
	if m.pruneRunsFn != nil {
		return m.pruneRunsFn(ctx, keep)
	}
	return 0, nil
}

func TestHistoryAdapter_List_WithResults(t *testing.T) {
	mock := &mockHistoryService{
		listRunsFn: func(ctx context.Context, limit int) ([]*primary.Run, error) {
			return []*primary.Run{
				{ID: "aaaaaaaa-0000", StartedAt: "2026-10-18T10:00:00Z", Entities: 2, Written: 5, Skipped: 1},
				{ID: "bbbbbbbb-0000", StartedAt: "2026-10-17T09:00:00Z", Entities: 1, Failed: 1},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewHistoryAdapter(mock, &buf)

	runs, err := adapter.List(context.Background(), 10)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if mock.lastLimit != 10 {
		t.Errorf("expected limit 10, got %d", mock.lastLimit)
	}
	output := buf.String()
	for _, want := range []string{"RUN", "aaaaaaaa", "bbbbbbbb", "2026-10-18T10:00:00Z"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "aaaaaaaa-0000") {
		t.Errorf("expected run ids to be shortened, got:\n%s", output)
	}
}

func TestHistoryAdapter_List_Empty(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewHistoryAdapter(&mockHistoryService{}, &buf)

	if _, err := adapter.List(context.Background(), 0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "No generation runs recorded.") {
		t.Errorf("expected empty message, got '%s'", buf.String())
	}
}

func TestHistoryAdapter_Show(t *testing.T) {
	mock := &mockHistoryService{
		getRunFn: func(ctx context.Context, runID string) (*primary.Run, error) {
			return &primary.Run{
				ID:         "aaaaaaaa-0000",
				StartedAt:  "2026-10-18T10:00:00Z",
				FinishedAt: "2026-10-18T10:00:01Z",
				Entities:   1,
				Written:    1,
				Outcomes: []*primary.ArtifactOutcome{
					{App: "billing", Entity: "Invoice", Kind: "form", Path: "billing/forms.py", State: "written", Reason: "created"},
				},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewHistoryAdapter(mock, &buf)

	run, err := adapter.Show(context.Background(), "aaaa")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if run.ID != "aaaaaaaa-0000" {
		t.Errorf("expected full run id, got %s", run.ID)
	}
	output := buf.String()
	for _, want := range []string{"Run: aaaaaaaa-0000", "1 written, 0 skipped, 0 failed", "billing/forms.py", "created"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestHistoryAdapter_Show_NotFound(t *testing.T) {
	mock := &mockHistoryService{
		getRunFn: func(ctx context.Context, runID string) (*primary.Run, error) {
			return nil, errors.New("run zzz not found")
		},
	}
	adapter := NewHistoryAdapter(mock, &bytes.Buffer{})

	_, err := adapter.Show(context.Background(), "zzz")

	if err == nil || !strings.Contains(err.Error(), "failed to get run: run zzz not found") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestHistoryAdapter_Prune(t *testing.T) {
	mock := &mockHistoryService{
		pruneRunsFn: func(ctx context.Context, keep int) (int, error) {
			return 3, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewHistoryAdapter(mock, &buf)

	deleted, err := adapter.Prune(context.Background(), 5)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deleted != 3 || mock.lastKeep != 5 {
		t.Errorf("expected 3 deleted with keep 5, got %d with keep %d", deleted, mock.lastKeep)
	}
	if !strings.Contains(buf.String(), "Pruned 3 run(s), kept the newest 5") {
		t.Errorf("expected prune summary, got '%s'", buf.String())
	}
}
