package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Senhordim/boilerplate/internal/ports/primary"
)

// mockGenerationService implements primary.GenerationService for testing
type mockGenerationService struct {
	generateFn func(ctx context.Context, req primary.GenerateRequest) (*primary.GenerationReport, error)
	statusFn   func(ctx context.Context, req primary.StatusRequest) ([]*primary.ArtifactStatus, error)
	lockFn     func(ctx context.Context, paths []string) ([]*primary.LockResult, error)

	lastGenerateReq primary.GenerateRequest
}

func (m *mockGenerationService) Generate(ctx context.Context, req primary.GenerateRequest) (*primary.GenerationReport, error) {
	m.lastGenerateReq = req
	if m.generateFn != nil {
		return m.generateFn(ctx, req)
	}
	return &primary.GenerationReport{RunID: "0f3c9a2e-1111-2222-3333-444455556666"}, nil
}

func (m *mockGenerationService) Status(ctx context.Context, req primary.StatusRequest) ([]*primary.ArtifactStatus, error) {
	if m.statusFn != nil {
		return m.statusFn(ctx, req)
	}
	return nil, nil
}

func (m *mockGenerationService) Lock(ctx context.Context, paths []string) ([]*primary.LockResult, error) {
	if m.lockFn != nil {
		return m.lockFn(ctx, paths)
	}
	results := make([]*primary.LockResult, 0, len(paths))
	for _, p := range paths {
		results = append(results, &primary.LockResult{Path: p})
	}
	return results, nil
}

func sampleReport() *primary.GenerationReport {
	return &primary.GenerationReport{
		RunID:    "0f3c9a2e-1111-2222-3333-444455556666",
		Entities: 1,
		Outcomes: []*primary.ArtifactOutcome{
			{App: "billing", Entity: "Invoice", Kind: "form", Path: "billing/forms.py", State: "written", Reason: "created"},
			{App: "billing", Entity: "Invoice", Kind: "views", Path: "billing/views.py", State: "skipped", Reason: "locked"},
			{App: "billing", Entity: "Invoice", Kind: "serializer", Path: "billing/serializers.py", State: "failed", Reason: "error",
				Error: "AMBIGUOUS_IMPORT_BLOCK: merge_imports: two candidate lines"},
			{App: "billing", Entity: "Invoice", Kind: "urls", Path: "billing/urls.py", State: "written", Reason: "appended",
				Warnings: []string{"unbound placeholder $api_prefix$"}},
		},
	}
}

func TestGenerationAdapter_Generate_PrintsOutcomes(t *testing.T) {
	mock := &mockGenerationService{
		generateFn: func(ctx context.Context, req primary.GenerateRequest) (*primary.GenerationReport, error) {
			return sampleReport(), nil
		},
	}
	var buf bytes.Buffer
	adapter := NewGenerationAdapter(mock, &buf)

	req := primary.GenerateRequest{Artifacts: []string{"django"}}
	report, err := adapter.Generate(context.Background(), req, false)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report == nil || len(report.Outcomes) != 4 {
		t.Fatalf("expected the report to be returned, got %+v", report)
	}
	if len(mock.lastGenerateReq.Artifacts) != 1 || mock.lastGenerateReq.Artifacts[0] != "django" {
		t.Errorf("expected request to be forwarded, got %+v", mock.lastGenerateReq)
	}

	output := buf.String()
	for _, want := range []string{
		"STATE", "billing/forms.py", "locked", "billing.Invoice",
		"AMBIGUOUS_IMPORT_BLOCK", "unbound placeholder $api_prefix$",
		"2 written, 1 skipped, 1 failed (run 0f3c9a2e)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestGenerationAdapter_Generate_DryRunShowsContent(t *testing.T) {
	mock := &mockGenerationService{
		generateFn: func(ctx context.Context, req primary.GenerateRequest) (*primary.GenerationReport, error) {
			return &primary.GenerationReport{
				DryRun: true,
				Outcomes: []*primary.ArtifactOutcome{
					{App: "billing", Entity: "Invoice", Kind: "form", Path: "billing/forms.py", State: "written", Reason: "created",
						Content: "class InvoiceForm(forms.ModelForm):\n    pass"},
				},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewGenerationAdapter(mock, &buf)

	_, err := adapter.Generate(context.Background(), primary.GenerateRequest{DryRun: true}, true)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Dry run: 1 would be written, 0 skipped, 0 failed. Nothing was written.") {
		t.Errorf("expected dry run summary, got:\n%s", output)
	}
	if !strings.Contains(output, "--- billing/forms.py (form)\nclass InvoiceForm(forms.ModelForm):\n    pass\n") {
		t.Errorf("expected file content, got:\n%s", output)
	}
}

func TestGenerationAdapter_Generate_DryRunHidesContentByDefault(t *testing.T) {
	mock := &mockGenerationService{
		generateFn: func(ctx context.Context, req primary.GenerateRequest) (*primary.GenerationReport, error) {
			return &primary.GenerationReport{
				DryRun: true,
				Outcomes: []*primary.ArtifactOutcome{
					{Kind: "form", Path: "billing/forms.py", State: "written", Reason: "created", Content: "class InvoiceForm:\n"},
				},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewGenerationAdapter(mock, &buf)

	if _, err := adapter.Generate(context.Background(), primary.GenerateRequest{DryRun: true}, false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Contains(buf.String(), "class InvoiceForm") {
		t.Errorf("expected content to be hidden, got:\n%s", buf.String())
	}
}

func TestGenerationAdapter_Generate_InvalidRequest(t *testing.T) {
	mock := &mockGenerationService{
		generateFn: func(ctx context.Context, req primary.GenerateRequest) (*primary.GenerationReport, error) {
			return nil, errors.New("INVALID_ARGUMENT: generate: no entities given")
		},
	}
	var buf bytes.Buffer
	adapter := NewGenerationAdapter(mock, &buf)

	report, err := adapter.Generate(context.Background(), primary.GenerateRequest{}, false)

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if report != nil {
		t.Errorf("expected nil report, got %+v", report)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestGenerationAdapter_Generate_CanceledPrintsPartialReport(t *testing.T) {
	mock := &mockGenerationService{
		generateFn: func(ctx context.Context, req primary.GenerateRequest) (*primary.GenerationReport, error) {
			report := sampleReport()
			report.Outcomes = report.Outcomes[:1]
			return report, context.Canceled
		},
	}
	var buf bytes.Buffer
	adapter := NewGenerationAdapter(mock, &buf)

	report, err := adapter.Generate(context.Background(), primary.GenerateRequest{}, false)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if report == nil {
		t.Fatal("expected partial report")
	}
	if !strings.Contains(buf.String(), "billing/forms.py") {
		t.Errorf("expected partial outcomes in output, got:\n%s", buf.String())
	}
}

func TestGenerationAdapter_Status(t *testing.T) {
	mock := &mockGenerationService{
		statusFn: func(ctx context.Context, req primary.StatusRequest) ([]*primary.ArtifactStatus, error) {
			return []*primary.ArtifactStatus{
				{App: "billing", Entity: "Invoice", Kind: "form", Path: "billing/forms.py"},
				{App: "billing", Entity: "Invoice", Kind: "views", Path: "billing/views.py", Exists: true},
				{App: "billing", Entity: "Invoice", Kind: "api_views", Path: "billing/views.py", Exists: true, Present: true},
				{App: "billing", Entity: "Invoice", Kind: "urls", Path: "billing/urls.py", Exists: true, Locked: true},
				{App: "billing", Entity: "Invoice", Kind: "dart_model", Path: "lib/apps/billing/invoice/model.dart", Error: "permission denied"},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewGenerationAdapter(mock, &buf)

	statuses, err := adapter.Status(context.Background(), primary.StatusRequest{})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(statuses) != 5 {
		t.Fatalf("expected 5 statuses, got %d", len(statuses))
	}
	output := buf.String()
	for _, want := range []string{"CREATE", "APPEND", "PRESENT", "LOCKED", "ERROR", "model.dart: permission denied"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestGenerationAdapter_Status_ServiceError(t *testing.T) {
	mock := &mockGenerationService{
		statusFn: func(ctx context.Context, req primary.StatusRequest) ([]*primary.ArtifactStatus, error) {
			return nil, errors.New("no entities given")
		},
	}
	adapter := NewGenerationAdapter(mock, &bytes.Buffer{})

	_, err := adapter.Status(context.Background(), primary.StatusRequest{})

	if err == nil || !strings.Contains(err.Error(), "failed to probe artifacts") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestGenerationAdapter_Lock(t *testing.T) {
	mock := &mockGenerationService{
		lockFn: func(ctx context.Context, paths []string) ([]*primary.LockResult, error) {
			return []*primary.LockResult{
				{Path: "billing/forms.py"},
				{Path: "billing/views.py", AlreadyLocked: true},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewGenerationAdapter(mock, &buf)

	results, err := adapter.Lock(context.Background(), []string{"billing/forms.py", "billing/views.py"})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	output := buf.String()
	if !strings.Contains(output, "✓ Locked billing/forms.py") {
		t.Errorf("expected lock confirmation, got:\n%s", output)
	}
	if !strings.Contains(output, "- billing/views.py already locked") {
		t.Errorf("expected already locked line, got:\n%s", output)
	}
}

func TestGenerationAdapter_Lock_Error(t *testing.T) {
	mock := &mockGenerationService{
		lockFn: func(ctx context.Context, paths []string) ([]*primary.LockResult, error) {
			return []*primary.LockResult{{Path: "a.py"}}, errors.New("b.py does not exist")
		},
	}
	var buf bytes.Buffer
	adapter := NewGenerationAdapter(mock, &buf)

	_, err := adapter.Lock(context.Background(), []string{"a.py", "b.py"})

	if err == nil || !strings.Contains(err.Error(), "failed to lock: b.py does not exist") {
		t.Errorf("expected wrapped error, got %v", err)
	}
	if !strings.Contains(buf.String(), "Locked a.py") {
		t.Errorf("expected files locked before the failure to be reported, got:\n%s", buf.String())
	}
}
