// Package secondary defines the secondary ports (driven adapters) for the application.
package secondary

import (
	"context"

	"github.com/Senhordim/boilerplate/internal/scaffold"
)

// ArtifactStore defines the secondary port for probing and writing target files.
// I/O failures other than "does not exist" are returned as errors, never as
// absence.
type ArtifactStore interface {
	Exists(ctx context.Context, path string) (bool, error)
	IsLocked(ctx context.Context, path string) (bool, error)
	Contains(ctx context.Context, path, marker string) (bool, error)

	// Read returns the file content and whether the file exists.
	Read(ctx context.Context, path string) (content string, exists bool, err error)

	// Write replaces the file content, creating parent directories.
	Write(ctx context.Context, path string, content []byte, mode uint32) error
}

// TemplateStore defines the secondary port for loading templates by id.
type TemplateStore interface {
	Load(id string) (scaffold.Template, error)
}

// EntitySource loads entity descriptions from a file.
type EntitySource interface {
	Load(ctx context.Context, path string) ([]scaffold.Entity, error)
}
