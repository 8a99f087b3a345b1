package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Senhordim/boilerplate/internal/scaffold"
	"github.com/Senhordim/boilerplate/internal/templates"
)

// TemplateCatalog lists and loads templates.
type TemplateCatalog interface {
	List() ([]templates.Info, error)
	Load(id string) (scaffold.Template, error)
}

// TemplatesAdapter renders the template catalog.
type TemplatesAdapter struct {
	catalog TemplateCatalog
	out     io.Writer
}

// NewTemplatesAdapter creates a new TemplatesAdapter.
func NewTemplatesAdapter(catalog TemplateCatalog, out io.Writer) *TemplatesAdapter {
	return &TemplatesAdapter{catalog: catalog, out: out}
}

// List prints every template id with its source and the artifact kinds using it.
func (a *TemplatesAdapter) List() ([]templates.Info, error) {
	infos, err := a.catalog.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	usedBy := make(map[string][]string)
	for _, spec := range scaffold.Catalog {
		if spec.Header != "" {
			usedBy[spec.Header] = append(usedBy[spec.Header], string(spec.Kind)+" (header)")
		}
		usedBy[spec.Section] = append(usedBy[spec.Section], string(spec.Kind))
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tUSED BY")
	fmt.Fprintln(w, "--\t------\t-------")
	for _, info := range infos {
		used := strings.Join(usedBy[info.ID], ", ")
		if used == "" {
			used = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.ID, info.Source, used)
	}
	w.Flush()

	return infos, nil
}

// Show prints one template body.
func (a *TemplatesAdapter) Show(id string) (scaffold.Template, error) {
	tmpl, err := a.catalog.Load(id)
	if err != nil {
		return scaffold.Template{}, err
	}
	fmt.Fprint(a.out, tmpl.Body)
	if !strings.HasSuffix(tmpl.Body, "\n") {
		fmt.Fprintln(a.out)
	}
	return tmpl, nil
}
