package scaffold

import (
	"fmt"
	"strings"
)

// TemplateLoader resolves template ids to templates.
type TemplateLoader interface {
	Load(id string) (Template, error)
}

// RenderedArtifact is one artifact rendered for one entity, ready to merge.
type RenderedArtifact struct {
	ResolvedArtifact
	HeaderText  string
	SectionText string
	Leftovers   []string // placeholders no value was bound for
}

// Generator renders catalog artifacts for entities.
type Generator struct {
	loader  TemplateLoader
	project string
}

// NewGenerator creates a Generator reading templates from loader.
func NewGenerator(loader TemplateLoader, project string) *Generator {
	return &Generator{loader: loader, project: project}
}

// Render maps the entity's fields, binds the entity placeholders and renders
// the header and section templates of spec.
func (g *Generator) Render(spec ArtifactSpec, entity Entity) (*RenderedArtifact, error) {
	frags, err := MapFields(entity.Fields, entity.Name)
	if err != nil {
		return nil, err
	}

	values := EntityValues(g.project, entity, frags)
	resolved := spec.Resolve(values)

	out := &RenderedArtifact{ResolvedArtifact: resolved}

	if spec.Header != "" {
		tmpl, err := g.loader.Load(spec.Header)
		if err != nil {
			return nil, err
		}
		out.HeaderText = Render(tmpl.Body, values)
	}

	tmpl, err := g.loader.Load(spec.Section)
	if err != nil {
		return nil, err
	}
	out.SectionText = Render(tmpl.Body, values)

	out.Leftovers = Leftovers(out.HeaderText + out.SectionText)
	return out, nil
}

// EntityValues builds the substitution map shared by every artifact of an entity.
func EntityValues(project string, entity Entity, frags []FieldFragments) SubstitutionMap {
	model := ToPascalCase(entity.Name)
	modelName := strings.ToLower(model)

	values := SubstitutionMap{}
	values.Set("project", project)
	values.Set("App", entity.App)
	values.Set("app_name", strings.ToLower(ToSnakeCase(entity.App)))
	values.Set("ModelClass", model)
	values.Set("model_name", modelName)
	values.Set("model_plural", Pluralize(modelName))
	values.Set("ModelClassCamelCase", ToCamelCase(entity.Name))
	values.Set("title", ToLabel(entity.Name))

	var (
		declarations, toMap, fromMap, columns, inputs []string
		heads, cells, rows, names, params             []string
	)
	for _, f := range frags {
		declarations = append(declarations, f.Declaration)
		toMap = append(toMap, f.ToStorage)
		fromMap = append(fromMap, f.FromStorage)
		columns = append(columns, ",\n"+f.Column)
		inputs = append(inputs, f.FormInput)
		heads = append(heads, fmt.Sprintf("          <th>%s</th>", f.Label))
		cells = append(cells, fmt.Sprintf("          <td>%s</td>", f.Accessor))
		rows = append(rows, fmt.Sprintf("      <dt>%s</dt>\n      <dd>%s</dd>", f.Label, f.Accessor))
		names = append(names, fmt.Sprintf("'%s'", f.StorageKey))
		if f.Nullable {
			params = append(params, fmt.Sprintf("    this.%s,", f.Identifier))
		} else {
			params = append(params, fmt.Sprintf("    required this.%s,", f.Identifier))
		}
	}

	values.Set("Declarations", strings.Join(declarations, "\n"))
	values.Set("ToMap", strings.Join(toMap, "\n"))
	values.Set("FromMap", strings.Join(fromMap, "\n"))
	values.Set("Columns", strings.Join(columns, ""))
	values.Set("FormInputs", strings.Join(inputs, "\n"))
	values.Set("TableHead", strings.Join(heads, "\n"))
	values.Set("TableCells", strings.Join(cells, "\n"))
	values.Set("DetailRows", strings.Join(rows, "\n"))
	values.Set("FieldNames", strings.Join(names, ", "))
	values.Set("ConstructorParams", strings.Join(params, "\n"))

	return values
}
