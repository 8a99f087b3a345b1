// Package entityfile loads entity descriptions from YAML or CUE files.
//
// Both formats share one document shape:
//
//	app: billing
//	entities:
//	  - name: Invoice
//	    fields:
//	      - {name: total, type: float}
//	      - issued_on:date?          # YAML only: field DSL shorthand
//	  - name: Customer
//	    app: crm                     # overrides the document app
package entityfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/Senhordim/boilerplate/internal/ports/secondary"
	"github.com/Senhordim/boilerplate/internal/scaffold"
)

// Loader implements secondary.EntitySource. The format is chosen by file
// extension: .cue is CUE, anything else is YAML.
type Loader struct {
	// DefaultApp applies when neither the document nor the entity names an app.
	DefaultApp string
}

// NewLoader creates a loader.
func NewLoader(defaultApp string) *Loader {
	return &Loader{DefaultApp: defaultApp}
}

// document is the decoded description file.
type document struct {
	App      string          `yaml:"app" json:"app,omitempty"`
	Entities []entityElement `yaml:"entities" json:"entities"`
}

type entityElement struct {
	App    string         `yaml:"app" json:"app,omitempty"`
	Name   string         `yaml:"name" json:"name"`
	Fields []fieldElement `yaml:"fields" json:"fields,omitempty"`
}

// fieldElement accepts either a mapping or a "name:type[?]" scalar in YAML.
type fieldElement struct {
	scaffold.FieldDescriptor `yaml:",inline"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *fieldElement) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		fields, err := scaffold.ParseFields(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		if len(fields) != 1 {
			return fmt.Errorf("line %d: expected one field, got %q", node.Line, node.Value)
		}
		f.FieldDescriptor = fields[0]
		return nil
	}

	var fd scaffold.FieldDescriptor
	if err := node.Decode(&fd); err != nil {
		return err
	}
	f.FieldDescriptor = fd
	return nil
}

// Load reads and normalizes every entity in the file at path.
func (l *Loader) Load(ctx context.Context, path string) ([]scaffold.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, scaffold.WrapError(scaffold.CodeIOFailure, "load entities", err, "failed to read %s", path)
	}

	var doc *document
	if strings.EqualFold(filepath.Ext(path), ".cue") {
		doc, err = decodeCUE(path, data)
	} else {
		doc, err = decodeYAML(data)
	}
	if err != nil {
		return nil, scaffold.WrapError(scaffold.CodeInvalidArgument, "load entities", err, "invalid entity description %s", path)
	}

	entities, err := doc.entities(l.DefaultApp)
	if err != nil {
		return nil, scaffold.WrapError(scaffold.CodeInvalidArgument, "load entities", err, "invalid entity description %s", path)
	}
	return entities, nil
}

func decodeYAML(data []byte) (*document, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// cueDocument mirrors document for CUE, where fields are always structs.
type cueDocument struct {
	App      string `json:"app,omitempty"`
	Entities []struct {
		App    string                     `json:"app,omitempty"`
		Name   string                     `json:"name"`
		Fields []scaffold.FieldDescriptor `json:"fields,omitempty"`
	} `json:"entities"`
}

// decodeCUE compiles, validates and decodes a CUE description. Definitions and
// constraints are allowed as long as the result is concrete.
func decodeCUE(filename string, data []byte) (*document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, err
	}

	var raw cueDocument
	if err := v.Decode(&raw); err != nil {
		return nil, err
	}

	doc := &document{App: raw.App}
	for _, e := range raw.Entities {
		el := entityElement{App: e.App, Name: e.Name}
		for _, f := range e.Fields {
			el.Fields = append(el.Fields, fieldElement{FieldDescriptor: f})
		}
		doc.Entities = append(doc.Entities, el)
	}
	return doc, nil
}

func (d *document) entities(defaultApp string) ([]scaffold.Entity, error) {
	if len(d.Entities) == 0 {
		return nil, fmt.Errorf("no entities defined")
	}

	app := d.App
	if app == "" {
		app = defaultApp
	}

	seen := make(map[string]bool)
	out := make([]scaffold.Entity, 0, len(d.Entities))
	for i, el := range d.Entities {
		entity := scaffold.Entity{App: el.App, Name: el.Name}
		if entity.App == "" {
			entity.App = app
		}
		for _, f := range el.Fields {
			entity.Fields = append(entity.Fields, f.FieldDescriptor)
		}
		if err := entity.Normalize(); err != nil {
			return nil, fmt.Errorf("entity %d: %w", i+1, err)
		}

		key := entity.App + "." + entity.Name
		if seen[key] {
			return nil, fmt.Errorf("duplicate entity %s", key)
		}
		seen[key] = true
		out = append(out, entity)
	}
	return out, nil
}

var _ secondary.EntitySource = (*Loader)(nil)
