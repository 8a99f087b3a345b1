// Package wire provides dependency injection for the boilerplate application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/Senhordim/boilerplate/internal/adapters/cli"
	"github.com/Senhordim/boilerplate/internal/adapters/filesystem"
	"github.com/Senhordim/boilerplate/internal/adapters/sqlite"
	"github.com/Senhordim/boilerplate/internal/app"
	"github.com/Senhordim/boilerplate/internal/config"
	"github.com/Senhordim/boilerplate/internal/db"
	"github.com/Senhordim/boilerplate/internal/ports/primary"
	"github.com/Senhordim/boilerplate/internal/templates"
)

// Options configure service construction. They must be set with Configure
// before the first service is requested.
type Options struct {
	Dir        string // project directory holding .boilerplate/config.yaml
	OutputRoot string // overrides the configured output root when set
	Logger     *zap.Logger
}

var (
	opts Options

	cfg               *config.Config
	database          *sql.DB
	templateStore     *templates.Store
	generationService primary.GenerationService
	historyService    primary.HistoryService
	initErr           error
	once              sync.Once
)

// Configure sets the options used to build the services.
func Configure(o Options) {
	opts = o
}

// ProjectDir returns the project directory holding the configuration.
func ProjectDir() string {
	if opts.Dir == "" {
		return "."
	}
	return opts.Dir
}

// Config returns the loaded project configuration.
func Config() (*config.Config, error) {
	once.Do(initServices)
	return cfg, initErr
}

// Logger returns the configured logger, or a no-op logger.
func Logger() *zap.Logger {
	if opts.Logger == nil {
		return zap.NewNop()
	}
	return opts.Logger
}

// GenerationService returns the singleton GenerationService instance.
func GenerationService() (primary.GenerationService, error) {
	once.Do(initServices)
	return generationService, initErr
}

// HistoryService returns the singleton HistoryService instance. It fails when
// history is disabled in the configuration.
func HistoryService() (primary.HistoryService, error) {
	once.Do(initServices)
	if initErr != nil {
		return nil, initErr
	}
	if historyService == nil {
		return nil, fmt.Errorf("generation history is disabled in %s", config.Path(opts.Dir))
	}
	return historyService, nil
}

// Close releases the history database, if it was opened.
func Close() error {
	if database == nil {
		return nil
	}
	return database.Close()
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	logger := Logger()

	loaded, err := config.LoadConfig(opts.Dir)
	if err != nil {
		initErr = err
		return
	}
	// Paths in the config file are relative to the project directory.
	loaded.OutputRoot = resolve(opts.Dir, loaded.OutputRoot)
	if loaded.TemplatesDir != "" {
		loaded.TemplatesDir = resolve(opts.Dir, loaded.TemplatesDir)
	}
	if opts.OutputRoot != "" {
		loaded.OutputRoot = opts.OutputRoot
	}
	cfg = loaded

	// Create secondary adapters
	store := filesystem.NewArtifactAdapter(cfg.OutputRoot)
	templateStore = templates.NewStore(cfg.TemplatesDir)

	var runRepo *sqlite.RunRepository
	if cfg.HistoryEnabled() {
		database, err = db.Open(cfg.Database)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize database: %w", err)
			return
		}
		runRepo = sqlite.NewRunRepository(database)
		historyService = app.NewHistoryService(runRepo)
	}

	genOpts := app.GenerationOptions{
		Project:          cfg.Project,
		Parallelism:      cfg.Parallelism,
		DefaultArtifacts: cfg.Artifacts,
	}
	if runRepo != nil {
		generationService = app.NewGenerationService(store, templateStore, runRepo, logger, genOpts)
	} else {
		// A nil *RunRepository inside the interface would not compare equal to nil.
		generationService = app.NewGenerationService(store, templateStore, nil, logger, genOpts)
	}

	logger.Debug("services initialized",
		zap.String("project", cfg.Project),
		zap.String("output_root", cfg.OutputRoot),
		zap.Bool("history", cfg.HistoryEnabled()))
}

func resolve(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// GenerationAdapter returns a new GenerationAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func GenerationAdapter() (*cliadapter.GenerationAdapter, error) {
	return GenerationAdapterWithOutput(os.Stdout)
}

// GenerationAdapterWithOutput returns a new GenerationAdapter writing to the given output.
func GenerationAdapterWithOutput(out io.Writer) (*cliadapter.GenerationAdapter, error) {
	service, err := GenerationService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewGenerationAdapter(service, out), nil
}

// HistoryAdapter returns a new HistoryAdapter writing to stdout.
func HistoryAdapter() (*cliadapter.HistoryAdapter, error) {
	return HistoryAdapterWithOutput(os.Stdout)
}

// HistoryAdapterWithOutput returns a new HistoryAdapter writing to the given output.
func HistoryAdapterWithOutput(out io.Writer) (*cliadapter.HistoryAdapter, error) {
	service, err := HistoryService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewHistoryAdapter(service, out), nil
}

// TemplatesAdapter returns a new TemplatesAdapter writing to stdout.
func TemplatesAdapter() (*cliadapter.TemplatesAdapter, error) {
	return TemplatesAdapterWithOutput(os.Stdout)
}

// TemplatesAdapterWithOutput returns a new TemplatesAdapter writing to the given output.
func TemplatesAdapterWithOutput(out io.Writer) (*cliadapter.TemplatesAdapter, error) {
	once.Do(initServices)
	if initErr != nil {
		return nil, initErr
	}
	return cliadapter.NewTemplatesAdapter(templateStore, out), nil
}

// reset clears the singletons so tests can rebuild them with new options.
func reset() {
	if database != nil {
		database.Close()
	}
	opts = Options{}
	cfg, database, templateStore = nil, nil, nil
	generationService, historyService = nil, nil
	initErr = nil
	once = sync.Once{}
}
