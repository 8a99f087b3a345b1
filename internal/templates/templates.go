// Package templates provides the template store used for code generation.
// Templates are embedded in the binary and may be overridden per project by a
// directory with the same layout.
package templates

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/Senhordim/boilerplate/internal/scaffold"
)

//go:embed scaffold
var embedded embed.FS

const ext = ".tmpl"

// Source names where a template came from.
const (
	SourceOverride = "override"
	SourceEmbedded = "embedded"
)

// Info describes an available template.
type Info struct {
	ID     string
	Source string
}

// Layer is a named template source.
type Layer struct {
	Name string
	FS   fs.FS
}

// Store loads templates by id and caches them for the life of the process.
type Store struct {
	layers []Layer

	mu    sync.RWMutex
	cache map[string]scaffold.Template
}

// NewStore creates a store over the embedded templates. A non-empty
// overrideDir is consulted first.
func NewStore(overrideDir string) *Store {
	var layers []Layer
	if overrideDir != "" {
		layers = append(layers, Layer{Name: SourceOverride, FS: os.DirFS(overrideDir)})
	}
	layers = append(layers, Layer{Name: SourceEmbedded, FS: Embedded()})
	return NewStoreFS(layers...)
}

// NewStoreFS creates a store over explicit layers, searched in order.
func NewStoreFS(layers ...Layer) *Store {
	return &Store{layers: layers, cache: make(map[string]scaffold.Template)}
}

// Embedded returns the default template set.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "scaffold")
	if err != nil {
		panic(err) // the directory is embedded at build time
	}
	return sub
}

// Load returns the template with the given id, e.g. "django/form".
func (s *Store) Load(id string) (scaffold.Template, error) {
	s.mu.RLock()
	tmpl, ok := s.cache[id]
	s.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	name := id + ext
	if !fs.ValidPath(name) {
		return scaffold.Template{}, scaffold.NewError(scaffold.CodeTemplateNotFound, "load_template",
			"invalid template id %q", id)
	}

	for _, l := range s.layers {
		data, err := fs.ReadFile(l.FS, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return scaffold.Template{}, scaffold.WrapError(scaffold.CodeIOFailure, "load_template", err,
				"failed to read template %q from %s templates", id, l.Name)
		}

		tmpl = scaffold.Template{ID: id, Body: string(data)}
		s.mu.Lock()
		s.cache[id] = tmpl
		s.mu.Unlock()
		return tmpl, nil
	}

	return scaffold.Template{}, scaffold.NewError(scaffold.CodeTemplateNotFound, "load_template",
		"template %q not found", id)
}

// List returns every available template id with the layer that serves it.
func (s *Store) List() ([]Info, error) {
	served := make(map[string]string)
	for _, l := range s.layers {
		err := fs.WalkDir(l.FS, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ext) {
				return nil
			}
			id := strings.TrimSuffix(path, ext)
			if _, ok := served[id]; !ok {
				served[id] = l.Name
			}
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, scaffold.WrapError(scaffold.CodeIOFailure, "list_templates", err,
				"failed to list %s templates", l.Name)
		}
	}

	out := make([]Info, 0, len(served))
	for id, src := range served {
		out = append(out, Info{ID: id, Source: src})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
