package wire

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Senhordim/boilerplate/internal/config"
	"github.com/Senhordim/boilerplate/internal/ports/primary"
	"github.com/Senhordim/boilerplate/internal/scaffold"
)

func TestServices_GenerateAndHistory(t *testing.T) {
	t.Cleanup(reset)
	dir := t.TempDir()

	cfg := config.Default(dir)
	cfg.Database = filepath.Join(dir, "history.db")
	cfg.Artifacts = []string{"form"}
	require.NoError(t, config.SaveConfig(dir, cfg))

	Configure(Options{Dir: dir})

	var out bytes.Buffer
	gen, err := GenerationAdapterWithOutput(&out)
	require.NoError(t, err)

	entity := scaffold.Entity{App: "billing", Name: "Invoice", Fields: []scaffold.FieldDescriptor{{Name: "number", Type: "string"}}}
	report, err := gen.Generate(context.Background(), primary.GenerateRequest{Entities: []scaffold.Entity{entity}}, false)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, "written", report.Outcomes[0].State)

	data, err := os.ReadFile(filepath.Join(dir, "billing", "forms.py"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "class InvoiceForm(")

	out.Reset()
	history, err := HistoryAdapterWithOutput(&out)
	require.NoError(t, err)
	runs, err := history.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, report.RunID, runs[0].ID)
}

func TestHistoryService_Disabled(t *testing.T) {
	t.Cleanup(reset)
	dir := t.TempDir()

	disabled := false
	cfg := config.Default(dir)
	cfg.History = &disabled
	require.NoError(t, config.SaveConfig(dir, cfg))

	Configure(Options{Dir: dir})

	_, err := HistoryService()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "history is disabled"))

	_, err = GenerationService()
	assert.NoError(t, err)
}

func TestServices_InvalidConfig(t *testing.T) {
	t.Cleanup(reset)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, config.Dir), 0755))
	require.NoError(t, os.WriteFile(config.Path(dir), []byte("parallelism: 0\n"), 0644))

	Configure(Options{Dir: dir})

	_, err := GenerationAdapterWithOutput(&bytes.Buffer{})
	assert.Error(t, err)
	_, err = TemplatesAdapterWithOutput(&bytes.Buffer{})
	assert.Error(t, err)
}
