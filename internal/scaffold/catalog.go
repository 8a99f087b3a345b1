package scaffold

import (
	"sort"
	"strings"
)

// ArtifactKind identifies one generated artifact per entity.
type ArtifactKind string

const (
	KindForm           ArtifactKind = "form"
	KindSerializer     ArtifactKind = "serializer"
	KindViews          ArtifactKind = "views"
	KindAPIViews       ArtifactKind = "api_views"
	KindURLs           ArtifactKind = "urls"
	KindAPIURLs        ArtifactKind = "api_urls"
	KindListTemplate   ArtifactKind = "list_template"
	KindDetailTemplate ArtifactKind = "detail_template"
	KindCreateTemplate ArtifactKind = "create_template"
	KindUpdateTemplate ArtifactKind = "update_template"
	KindDeleteTemplate ArtifactKind = "delete_template"
	KindDartModel      ArtifactKind = "dart_model"
	KindDartData       ArtifactKind = "dart_data"
	KindDartService    ArtifactKind = "dart_service"
	KindDartController ArtifactKind = "dart_controller"
)

// ArtifactSpec describes how one artifact kind is rendered and merged. Every
// string field may contain placeholders resolved per entity.
type ArtifactSpec struct {
	Kind    ArtifactKind
	Group   string
	Path    string
	Header  string // template id used when the file is created, "" for none
	Section string // template id of the per-entity section
	Marker  string
	Imports []Import
	Anchor  string
}

const (
	appDir      = "$app_name$"
	htmlDir     = "$app_name$/templates/$app_name$/$model_name$"
	flutterDir  = "lib/apps/$app_name$/$model_name$"
	modelImport = "$ModelClass$"
)

// Catalog is the ordered list of artifact kinds. Kinds sharing a file appear in
// the order their sections should be merged.
var Catalog = []ArtifactSpec{
	{
		Kind:    KindForm,
		Group:   "forms",
		Path:    appDir + "/forms.py",
		Header:  "django/forms_header",
		Section: "django/form",
		Marker:  "class $ModelClass$Form(",
		Imports: []Import{{Module: "models", Name: modelImport}},
	},
	{
		Kind:    KindSerializer,
		Group:   "api",
		Path:    appDir + "/serializers.py",
		Header:  "django/serializers_header",
		Section: "django/serializer",
		Marker:  "class $ModelClass$Serializer(",
		Imports: []Import{{Module: "models", Name: modelImport}},
	},
	{
		Kind:    KindViews,
		Group:   "views",
		Path:    appDir + "/views.py",
		Header:  "django/views_header",
		Section: "django/views",
		Marker:  "class $ModelClass$ListView(",
		Imports: []Import{
			{Module: "models", Name: modelImport},
			{Module: "forms", Name: "$ModelClass$Form"},
		},
	},
	{
		Kind:    KindAPIViews,
		Group:   "api",
		Path:    appDir + "/views.py",
		Header:  "django/views_header",
		Section: "django/api_views",
		Marker:  "class $ModelClass$ViewAPI(",
		Imports: []Import{
			{Module: "models", Name: modelImport},
			{Module: "serializers", Name: "$ModelClass$Serializer"},
		},
	},
	{
		Kind:    KindURLs,
		Group:   "urls",
		Path:    appDir + "/urls.py",
		Header:  "django/urls_header",
		Section: "django/urls",
		Marker:  "name='$model_name$-list'",
		Imports: []Import{
			{Module: "views", Name: "$ModelClass$ListView"},
			{Module: "views", Name: "$ModelClass$CreateView"},
			{Module: "views", Name: "$ModelClass$DetailView"},
			{Module: "views", Name: "$ModelClass$UpdateView"},
			{Module: "views", Name: "$ModelClass$DeleteView"},
		},
		Anchor: "urlpatterns = [",
	},
	{
		Kind:    KindAPIURLs,
		Group:   "api",
		Path:    appDir + "/api_urls.py",
		Header:  "django/api_urls_header",
		Section: "django/api_urls",
		Marker:  "register(r'$model_name$'",
		Imports: []Import{{Module: "views", Name: "$ModelClass$ViewAPI"}},
		Anchor:  "router = routers.DefaultRouter()",
	},
	{
		Kind:    KindListTemplate,
		Group:   "templates",
		Path:    htmlDir + "_list.html",
		Section: "html/list",
		Marker:  "<!-- $app_name$.$ModelClass$ list -->",
	},
	{
		Kind:    KindDetailTemplate,
		Group:   "templates",
		Path:    htmlDir + "_detail.html",
		Section: "html/detail",
		Marker:  "<!-- $app_name$.$ModelClass$ detail -->",
	},
	{
		Kind:    KindCreateTemplate,
		Group:   "templates",
		Path:    htmlDir + "_create.html",
		Section: "html/create",
		Marker:  "<!-- $app_name$.$ModelClass$ create -->",
	},
	{
		Kind:    KindUpdateTemplate,
		Group:   "templates",
		Path:    htmlDir + "_update.html",
		Section: "html/update",
		Marker:  "<!-- $app_name$.$ModelClass$ update -->",
	},
	{
		Kind:    KindDeleteTemplate,
		Group:   "templates",
		Path:    htmlDir + "_delete.html",
		Section: "html/delete",
		Marker:  "<!-- $app_name$.$ModelClass$ delete -->",
	},
	{
		Kind:    KindDartModel,
		Group:   "flutter",
		Path:    flutterDir + "/model.dart",
		Section: "flutter/model",
		Marker:  "class $ModelClass$Model",
	},
	{
		Kind:    KindDartData,
		Group:   "flutter",
		Path:    flutterDir + "/data.dart",
		Header:  "flutter/data_header",
		Section: "flutter/data",
		Marker:  "class $ModelClass$Data",
	},
	{
		Kind:    KindDartService,
		Group:   "flutter",
		Path:    flutterDir + "/service.dart",
		Header:  "flutter/service_header",
		Section: "flutter/service",
		Marker:  "class $ModelClass$Service",
	},
	{
		Kind:    KindDartController,
		Group:   "flutter",
		Path:    flutterDir + "/controller.dart",
		Header:  "flutter/controller_header",
		Section: "flutter/controller",
		Marker:  "class $ModelClass$Controller",
	},
}

// GroupAll selects every artifact kind.
const GroupAll = "all"

// Stack groups select every kind of one target framework.
const (
	StackDjango  = "django"
	StackFlutter = "flutter"
)

// Stack returns the framework the artifact belongs to.
func (s ArtifactSpec) Stack() string {
	if s.Group == StackFlutter {
		return StackFlutter
	}
	return StackDjango
}

// LookupArtifact returns the catalog entry for a kind.
func LookupArtifact(kind ArtifactKind) (ArtifactSpec, bool) {
	for _, spec := range Catalog {
		if spec.Kind == kind {
			return spec, true
		}
	}
	return ArtifactSpec{}, false
}

// Groups returns the selectable group names, sorted.
func Groups() []string {
	seen := map[string]bool{GroupAll: true}
	for _, spec := range Catalog {
		seen[spec.Group] = true
		seen[spec.Stack()] = true
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// IsSelector reports whether s names a group or an artifact kind.
func IsSelector(s string) bool {
	_, err := SelectArtifacts([]string{s})
	return err == nil
}

// SelectArtifacts resolves group and kind names to catalog entries, keeping
// catalog order. An empty selection means all.
func SelectArtifacts(selectors []string) ([]ArtifactSpec, error) {
	if len(selectors) == 0 {
		return Catalog, nil
	}

	wanted := make(map[ArtifactKind]bool)
	for _, raw := range selectors {
		sel := strings.TrimSpace(strings.ToLower(raw))
		if sel == "" {
			continue
		}
		if sel == GroupAll {
			return Catalog, nil
		}

		matched := false
		for _, spec := range Catalog {
			if spec.Group == sel || spec.Stack() == sel || string(spec.Kind) == sel {
				wanted[spec.Kind] = true
				matched = true
			}
		}
		if !matched {
			return nil, NewError(CodeInvalidArgument, "select_artifacts",
				"unknown artifact selector %q (groups: %s)", raw, strings.Join(Groups(), ", "))
		}
	}

	var out []ArtifactSpec
	for _, spec := range Catalog {
		if wanted[spec.Kind] {
			out = append(out, spec)
		}
	}
	if len(out) == 0 {
		return nil, NewError(CodeInvalidArgument, "select_artifacts", "no artifacts selected")
	}
	return out, nil
}

// ResolvedArtifact is an ArtifactSpec with its placeholders bound for one entity.
type ResolvedArtifact struct {
	Kind    ArtifactKind
	Path    string
	Header  string
	Section string
	Marker  string
	Imports []Import
	Anchor  string
}

// Resolve binds the placeholders of the spec's path, marker, imports and anchor.
func (s ArtifactSpec) Resolve(values SubstitutionMap) ResolvedArtifact {
	imports := make([]Import, len(s.Imports))
	for i, imp := range s.Imports {
		imports[i] = Import{Module: Render(imp.Module, values), Name: Render(imp.Name, values)}
	}
	return ResolvedArtifact{
		Kind:    s.Kind,
		Path:    Render(s.Path, values),
		Header:  s.Header,
		Section: s.Section,
		Marker:  Render(s.Marker, values),
		Imports: imports,
		Anchor:  Render(s.Anchor, values),
	}
}

// ResolveFor binds the spec for an entity without mapping its fields. Path,
// marker and imports depend only on the entity and app names.
func (s ArtifactSpec) ResolveFor(project string, entity Entity) ResolvedArtifact {
	return s.Resolve(EntityValues(project, entity, nil))
}

// TemplateIDs returns every template id referenced by the catalog, sorted.
func TemplateIDs() []string {
	seen := make(map[string]bool)
	for _, spec := range Catalog {
		if spec.Header != "" {
			seen[spec.Header] = true
		}
		seen[spec.Section] = true
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
