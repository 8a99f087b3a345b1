package scaffold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectArtifacts(t *testing.T) {
	tests := []struct {
		name      string
		selectors []string
		want      []ArtifactKind
		wantErr   bool
	}{
		{"empty means all", nil, nil, false},
		{"all", []string{"all"}, nil, false},
		{"group", []string{"flutter"}, []ArtifactKind{KindDartModel, KindDartData, KindDartService, KindDartController}, false},
		{"kind and group keep catalog order", []string{"urls", "form"}, []ArtifactKind{KindForm, KindURLs}, false},
		{"api group", []string{"API"}, []ArtifactKind{KindSerializer, KindAPIViews, KindAPIURLs}, false},
		{"django stack", []string{"django"}, []ArtifactKind{
			KindForm, KindSerializer, KindViews, KindAPIViews, KindURLs, KindAPIURLs,
			KindListTemplate, KindDetailTemplate, KindCreateTemplate, KindUpdateTemplate, KindDeleteTemplate,
		}, false},
		{"unknown", []string{"graphql"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs, err := SelectArtifacts(tt.selectors)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, CodeInvalidArgument, CodeOf(err))
				return
			}
			require.NoError(t, err)

			if tt.want == nil {
				assert.Len(t, specs, len(Catalog))
				return
			}
			got := make([]ArtifactKind, len(specs))
			for i, s := range specs {
				got[i] = s.Kind
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog_SharedFilesMergeInOrder(t *testing.T) {
	views, ok := LookupArtifact(KindViews)
	require.True(t, ok)
	api, ok := LookupArtifact(KindAPIViews)
	require.True(t, ok)
	assert.Equal(t, views.Path, api.Path)
	assert.Equal(t, views.Header, api.Header)
}

func TestCatalog_KindsAreUnique(t *testing.T) {
	seen := map[ArtifactKind]bool{}
	for _, spec := range Catalog {
		assert.False(t, seen[spec.Kind], "duplicate kind %s", spec.Kind)
		seen[spec.Kind] = true
		assert.NotEmpty(t, spec.Marker, "kind %s has no marker", spec.Kind)
		assert.NotEmpty(t, spec.Section, "kind %s has no section", spec.Kind)
	}
}

func TestArtifactSpec_Resolve(t *testing.T) {
	values := SubstitutionMap{}.
		Set("app_name", "billing").
		Set("model_name", "invoice").
		Set("ModelClass", "Invoice")

	spec, _ := LookupArtifact(KindURLs)
	resolved := spec.Resolve(values)

	assert.Equal(t, "billing/urls.py", resolved.Path)
	assert.Equal(t, "name='invoice-list'", resolved.Marker)
	assert.Equal(t, "urlpatterns = [", resolved.Anchor)
	require.Len(t, resolved.Imports, 5)
	assert.Equal(t, Import{Module: "views", Name: "InvoiceListView"}, resolved.Imports[0])

	tmpl, _ := LookupArtifact(KindListTemplate)
	assert.Equal(t, "billing/templates/billing/invoice_list.html", tmpl.Resolve(values).Path)
}

func TestGroupsAndSelectors(t *testing.T) {
	assert.Equal(t, []string{"all", "api", "django", "flutter", "forms", "templates", "urls", "views"}, Groups())
	assert.True(t, IsSelector("dart_model"))
	assert.True(t, IsSelector("templates"))
	assert.True(t, IsSelector("django"))
	assert.False(t, IsSelector("nope"))
}
