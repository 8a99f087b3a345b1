// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Senhordim/boilerplate/internal/core/merge"
	"github.com/Senhordim/boilerplate/internal/scaffold"
)

// ArtifactAdapter implements secondary.ArtifactStore on the local filesystem.
// Relative paths are resolved against the output root.
type ArtifactAdapter struct {
	root string
}

// NewArtifactAdapter creates an adapter rooted at root. An empty root means
// the current directory.
func NewArtifactAdapter(root string) *ArtifactAdapter {
	if root == "" {
		root = "."
	}
	return &ArtifactAdapter{root: root}
}

// Root returns the output root.
func (a *ArtifactAdapter) Root() string {
	return a.root
}

func (a *ArtifactAdapter) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.root, filepath.FromSlash(path))
}

// Exists checks if a regular file exists at path.
func (a *ArtifactAdapter) Exists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(a.resolve(path))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, scaffold.WrapError(scaffold.CodeIOFailure, "stat", err, "failed to check %s", path)
	}
	if info.IsDir() {
		return false, scaffold.NewError(scaffold.CodeIOFailure, "stat", "%s is a directory", path)
	}
	return true, nil
}

// Read returns the content of path and whether it exists.
func (a *ArtifactAdapter) Read(ctx context.Context, path string) (string, bool, error) {
	data, err := os.ReadFile(a.resolve(path))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, scaffold.WrapError(scaffold.CodeIOFailure, "read", err, "failed to read %s", path)
	}
	return string(data), true, nil
}

// IsLocked reports whether path exists and carries the lock sentinel.
func (a *ArtifactAdapter) IsLocked(ctx context.Context, path string) (bool, error) {
	content, exists, err := a.Read(ctx, path)
	if err != nil || !exists {
		return false, err
	}
	return merge.IsLocked(content), nil
}

// Contains reports whether path exists and contains marker.
func (a *ArtifactAdapter) Contains(ctx context.Context, path, marker string) (bool, error) {
	content, exists, err := a.Read(ctx, path)
	if err != nil || !exists {
		return false, err
	}
	return strings.Contains(content, marker), nil
}

// Write replaces path with content. The content goes to a temporary file in
// the same directory first so a failed write never truncates the target.
func (a *ArtifactAdapter) Write(ctx context.Context, path string, content []byte, mode uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if mode == 0 {
		mode = 0644
	}

	target := a.resolve(path)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return scaffold.WrapError(scaffold.CodeIOFailure, "write", err, "failed to create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return scaffold.WrapError(scaffold.CodeIOFailure, "write", err, "failed to create temp file for %s", path)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		cleanup()
		return scaffold.WrapError(scaffold.CodeIOFailure, "write", err, "failed to write %s", path)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return scaffold.WrapError(scaffold.CodeIOFailure, "write", err, "failed to write %s", path)
	}
	if err := os.Chmod(tmpName, fs.FileMode(mode)); err != nil {
		cleanup()
		return scaffold.WrapError(scaffold.CodeIOFailure, "write", err, "failed to set mode of %s", path)
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return scaffold.WrapError(scaffold.CodeIOFailure, "write", err, "failed to replace %s", path)
	}
	return nil
}

// String implements fmt.Stringer for log fields.
func (a *ArtifactAdapter) String() string {
	return fmt.Sprintf("filesystem(%s)", a.root)
}
