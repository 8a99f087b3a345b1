package app

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Senhordim/boilerplate/internal/core/merge"
	"github.com/Senhordim/boilerplate/internal/ports/secondary"
)

// OverlayStore is an ArtifactStore that reads through to a base store and
// keeps writes in memory. Dry runs merge against it so artifacts sharing a
// file see each other without touching disk.
type OverlayStore struct {
	base secondary.ArtifactStore

	mu    sync.RWMutex
	files map[string]string
}

// NewOverlayStore creates an overlay over base.
func NewOverlayStore(base secondary.ArtifactStore) *OverlayStore {
	return &OverlayStore{base: base, files: make(map[string]string)}
}

// Exists checks the overlay, then the base store.
func (o *OverlayStore) Exists(ctx context.Context, path string) (bool, error) {
	_, exists, err := o.Read(ctx, path)
	return exists, err
}

// IsLocked reports whether the overlaid content carries the lock sentinel.
func (o *OverlayStore) IsLocked(ctx context.Context, path string) (bool, error) {
	content, exists, err := o.Read(ctx, path)
	if err != nil || !exists {
		return false, err
	}
	return merge.IsLocked(content), nil
}

// Contains reports whether the overlaid content contains marker.
func (o *OverlayStore) Contains(ctx context.Context, path, marker string) (bool, error) {
	content, exists, err := o.Read(ctx, path)
	if err != nil || !exists {
		return false, err
	}
	return strings.Contains(content, marker), nil
}

// Read returns the overlaid content of path.
func (o *OverlayStore) Read(ctx context.Context, path string) (string, bool, error) {
	o.mu.RLock()
	content, ok := o.files[path]
	o.mu.RUnlock()
	if ok {
		return content, true, nil
	}
	return o.base.Read(ctx, path)
}

// Write records content in memory only.
func (o *OverlayStore) Write(ctx context.Context, path string, content []byte, mode uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	o.files[path] = string(content)
	o.mu.Unlock()
	return nil
}

// Written returns the paths written to the overlay, sorted.
func (o *OverlayStore) Written() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]string, 0, len(o.files))
	for p := range o.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

var _ secondary.ArtifactStore = (*OverlayStore)(nil)
