package app

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Senhordim/boilerplate/internal/core/merge"
	"github.com/Senhordim/boilerplate/internal/ports/secondary"
	"github.com/Senhordim/boilerplate/internal/scaffold"
)

// ============================================================================
// Mock ArtifactStore
// ============================================================================

var _ secondary.ArtifactStore = (*mockArtifactStore)(nil)

// mockArtifactStore implements secondary.ArtifactStore in memory.
type mockArtifactStore struct {
	mu       sync.Mutex
	files    map[string]string
	readErr  map[string]error
	writeErr error
	writes   []string
}

func newMockArtifactStore() *mockArtifactStore {
	return &mockArtifactStore{
		files:   make(map[string]string),
		readErr: make(map[string]error),
	}
}

func (m *mockArtifactStore) Exists(ctx context.Context, path string) (bool, error) {
	_, exists, err := m.Read(ctx, path)
	return exists, err
}

func (m *mockArtifactStore) IsLocked(ctx context.Context, path string) (bool, error) {
	content, exists, err := m.Read(ctx, path)
	if err != nil || !exists {
		return false, err
	}
	return merge.IsLocked(content), nil
}

func (m *mockArtifactStore) Contains(ctx context.Context, path, marker string) (bool, error) {
	content, exists, err := m.Read(ctx, path)
	if err != nil || !exists {
		return false, err
	}
	return strings.Contains(content, marker), nil
}

func (m *mockArtifactStore) Read(ctx context.Context, path string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.readErr[path]; err != nil {
		return "", false, err
	}
	content, ok := m.files[path]
	return content, ok, nil
}

func (m *mockArtifactStore) Write(ctx context.Context, path string, content []byte, mode uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.files[path] = string(content)
	m.writes = append(m.writes, path)
	return nil
}

func (m *mockArtifactStore) file(path string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[path]
}

func (m *mockArtifactStore) setFile(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = content
}

func (m *mockArtifactStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

// ============================================================================
// Mock RunRepository
// ============================================================================

var _ secondary.RunRepository = (*mockRunRepository)(nil)

// mockRunRepository implements secondary.RunRepository for testing.
type mockRunRepository struct {
	runs      []*secondary.RunRecord
	createErr error
	listFn    func(limit int) ([]*secondary.RunRecord, error)
	getFn     func(id string) (*secondary.RunRecord, error)
	pruneFn   func(keep int) (int, error)
}

func newMockRunRepository() *mockRunRepository {
	return &mockRunRepository{}
}

func (m *mockRunRepository) Create(ctx context.Context, run *secondary.RunRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockRunRepository) List(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	if m.listFn != nil {
		return m.listFn(limit)
	}
	return m.runs, nil
}

func (m *mockRunRepository) GetByID(ctx context.Context, id string) (*secondary.RunRecord, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	for _, r := range m.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, errors.New("run " + id + " not found")
}

func (m *mockRunRepository) Prune(ctx context.Context, keep int) (int, error) {
	if m.pruneFn != nil {
		return m.pruneFn(keep)
	}
	return 0, nil
}

// ============================================================================
// Mock TemplateStore
// ============================================================================

var _ secondary.TemplateStore = (*mockTemplateStore)(nil)

// mockTemplateStore wraps another store and hides some ids.
type mockTemplateStore struct {
	base    secondary.TemplateStore
	missing map[string]bool
}

func (m *mockTemplateStore) Load(id string) (scaffold.Template, error) {
	if m.missing[id] {
		return scaffold.Template{}, scaffold.NewError(scaffold.CodeTemplateNotFound, "load_template", "template %q not found", id)
	}
	return m.base.Load(id)
}
