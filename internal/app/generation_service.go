package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Senhordim/boilerplate/internal/core/effects"
	"github.com/Senhordim/boilerplate/internal/core/generation"
	"github.com/Senhordim/boilerplate/internal/core/merge"
	"github.com/Senhordim/boilerplate/internal/ports/primary"
	"github.com/Senhordim/boilerplate/internal/ports/secondary"
	"github.com/Senhordim/boilerplate/internal/scaffold"
)

// GenerationOptions configures a GenerationServiceImpl.
type GenerationOptions struct {
	Project          string
	Parallelism      int      // apps processed concurrently, at least 1
	DefaultArtifacts []string // selection used when a request names none
}

// GenerationServiceImpl implements the GenerationService interface. It is the
// orchestrator: render, probe, merge and write every selected artifact.
type GenerationServiceImpl struct {
	store     secondary.ArtifactStore
	templates secondary.TemplateStore
	runRepo   secondary.RunRepository // nil disables history
	logger    *zap.Logger
	opts      GenerationOptions
	now       func() time.Time
	newID     func() string
}

// NewGenerationService creates a new GenerationService with injected dependencies.
func NewGenerationService(
	store secondary.ArtifactStore,
	templates secondary.TemplateStore,
	runRepo secondary.RunRepository,
	logger *zap.Logger,
	opts GenerationOptions,
) *GenerationServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	return &GenerationServiceImpl{
		store:     store,
		templates: templates,
		runRepo:   runRepo,
		logger:    logger,
		opts:      opts,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// appBatch is the work of one app: its entities in request order.
type appBatch struct {
	app      string
	entities []scaffold.Entity
}

// Generate renders, probes and merges every selected artifact of every entity.
func (s *GenerationServiceImpl) Generate(ctx context.Context, req primary.GenerateRequest) (*primary.GenerationReport, error) {
	specs, batches, err := s.prepare(req.Entities, req.Artifacts)
	if err != nil {
		return nil, err
	}

	report := &primary.GenerationReport{
		RunID:     s.newID(),
		DryRun:    req.DryRun,
		StartedAt: s.now(),
		Entities:  len(req.Entities),
	}

	store := s.store
	if req.DryRun {
		store = NewOverlayStore(s.store)
	}
	executor := NewEffectExecutor(store, nil, s.logger)
	generator := scaffold.NewGenerator(s.templates, s.opts.Project)

	s.logger.Debug("generation started",
		zap.String("run_id", report.RunID),
		zap.Int("entities", len(req.Entities)),
		zap.Int("artifacts", len(specs)),
		zap.Bool("dry_run", req.DryRun))

	// Apps write disjoint directories and run concurrently; everything
	// within one app is sequential.
	results := make([][]*primary.ArtifactOutcome, len(batches))
	g := new(errgroup.Group)
	g.SetLimit(s.opts.Parallelism)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			results[i] = s.generateApp(ctx, generator, store, executor, batch, specs, req.DryRun)
			return nil
		})
	}
	_ = g.Wait()

	for _, outcomes := range results {
		report.Outcomes = append(report.Outcomes, outcomes...)
	}
	report.FinishedAt = s.now()

	if !req.DryRun {
		s.recordRun(ctx, report)
	}

	written, skipped, failed := report.Counts()
	s.logger.Debug("generation finished",
		zap.String("run_id", report.RunID),
		zap.Int("written", written),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// prepare validates the request and groups entities by app, keeping the
// order in which apps first appear.
func (s *GenerationServiceImpl) prepare(entities []scaffold.Entity, selectors []string) ([]scaffold.ArtifactSpec, []appBatch, error) {
	if guard := generation.CanStartRun(generation.RunContext{EntityCount: len(entities)}); !guard.Allowed {
		return nil, nil, scaffold.NewError(scaffold.CodeInvalidArgument, "generate", "%s", guard.Reason)
	}
	if len(selectors) == 0 {
		selectors = s.opts.DefaultArtifacts
	}
	specs, err := scaffold.SelectArtifacts(selectors)
	if err != nil {
		return nil, nil, err
	}

	index := make(map[string]int)
	var batches []appBatch
	for _, e := range entities {
		entity := e
		entity.Fields = append([]scaffold.FieldDescriptor(nil), e.Fields...)
		if err := entity.Normalize(); err != nil {
			return nil, nil, scaffold.WrapError(scaffold.CodeInvalidArgument, "generate", err, "invalid entity")
		}

		key := strings.ToLower(scaffold.ToSnakeCase(entity.App))
		i, ok := index[key]
		if !ok {
			i = len(batches)
			index[key] = i
			batches = append(batches, appBatch{app: key})
		}
		batches[i].entities = append(batches[i].entities, entity)
	}
	return specs, batches, nil
}

func (s *GenerationServiceImpl) generateApp(
	ctx context.Context,
	generator *scaffold.Generator,
	store secondary.ArtifactStore,
	executor EffectExecutor,
	batch appBatch,
	specs []scaffold.ArtifactSpec,
	dryRun bool,
) []*primary.ArtifactOutcome {
	var outcomes []*primary.ArtifactOutcome
	for _, entity := range batch.entities {
		for _, spec := range specs {
			// Cancellation is honored between artifacts only.
			if ctx.Err() != nil {
				return outcomes
			}
			outcomes = append(outcomes, s.generateArtifact(ctx, generator, store, executor, entity, spec, dryRun))
		}
	}
	return outcomes
}

// generateArtifact takes one artifact through Rendering, Probing and
// Creating/Merging/Skipping. Failures are confined to the returned outcome.
func (s *GenerationServiceImpl) generateArtifact(
	ctx context.Context,
	generator *scaffold.Generator,
	store secondary.ArtifactStore,
	executor EffectExecutor,
	entity scaffold.Entity,
	spec scaffold.ArtifactSpec,
	dryRun bool,
) *primary.ArtifactOutcome {
	resolved := spec.ResolveFor(s.opts.Project, entity)
	outcome := &primary.ArtifactOutcome{
		App:    entity.App,
		Entity: entity.Name,
		Kind:   string(spec.Kind),
		Path:   resolved.Path,
	}
	log := s.logger.With(
		zap.String("entity", entity.App+"."+entity.Name),
		zap.String("kind", string(spec.Kind)),
		zap.String("path", resolved.Path))

	log.Debug("rendering")
	rendered, err := generator.Render(spec, entity)
	if err != nil {
		return s.fail(log, outcome, err)
	}
	for _, token := range rendered.Leftovers {
		warning := fmt.Sprintf("unbound placeholder %s", token)
		outcome.Warnings = append(outcome.Warnings, warning)
		log.Warn("unbound placeholder", zap.String("placeholder", token))
	}

	log.Debug("probing")
	content, exists, err := store.Read(ctx, rendered.Path)
	if err != nil {
		return s.fail(log, outcome, err)
	}
	file := scaffold.ArtifactFile{Path: rendered.Path}
	if exists {
		file.Content = &content
	}

	plan := generation.GenerateArtifactPlan(generation.ArtifactPlanInput{
		Entity:   entity.App + "." + entity.Name,
		Rendered: rendered,
		File:     file,
	})
	outcome.State = string(plan.State)
	outcome.Reason = string(plan.Result.Reason)
	if plan.Err != nil {
		outcome.Error = plan.Err.Error()
	}

	if err := executor.Execute(ctx, plan.Effects()); err != nil {
		return s.fail(log, outcome, err)
	}
	if dryRun && plan.State == generation.StateWritten {
		outcome.Content = plan.Result.Text
	}
	return outcome
}

func (s *GenerationServiceImpl) fail(log *zap.Logger, outcome *primary.ArtifactOutcome, err error) *primary.ArtifactOutcome {
	outcome.State = string(generation.StateFailed)
	outcome.Reason = string(scaffold.ReasonError)
	outcome.Error = err.Error()
	log.Warn("artifact failed", zap.Error(err))
	return outcome
}

// recordRun writes the run to history. A history failure never fails the
// generation; the files are already written.
func (s *GenerationServiceImpl) recordRun(ctx context.Context, report *primary.GenerationReport) {
	if s.runRepo == nil {
		return
	}

	written, skipped, failed := report.Counts()
	record := &secondary.RunRecord{
		ID:         report.RunID,
		StartedAt:  report.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt: report.FinishedAt.UTC().Format(time.RFC3339),
		Entities:   report.Entities,
		Written:    written,
		Skipped:    skipped,
		Failed:     failed,
	}
	for _, o := range report.Outcomes {
		record.Outcomes = append(record.Outcomes, &secondary.OutcomeRecord{
			RunID:  report.RunID,
			App:    o.App,
			Entity: o.Entity,
			Kind:   o.Kind,
			Path:   o.Path,
			State:  o.State,
			Reason: o.Reason,
			Error:  o.Error,
		})
	}

	executor := NewEffectExecutor(s.store, s.runRepo, s.logger)
	persist := effects.PersistEffect{Entity: "generation_run", Operation: "create", Data: record}
	// A canceled run is still recorded: its completed writes are real.
	if err := executor.Execute(context.WithoutCancel(ctx), []effects.Effect{persist}); err != nil {
		s.logger.Warn("failed to record generation run", zap.String("run_id", report.RunID), zap.Error(err))
	}
}

// Status probes the target of every selected artifact without rendering.
func (s *GenerationServiceImpl) Status(ctx context.Context, req primary.StatusRequest) ([]*primary.ArtifactStatus, error) {
	specs, batches, err := s.prepare(req.Entities, req.Artifacts)
	if err != nil {
		return nil, err
	}

	var statuses []*primary.ArtifactStatus
	for _, batch := range batches {
		for _, entity := range batch.entities {
			for _, spec := range specs {
				if err := ctx.Err(); err != nil {
					return statuses, err
				}
				resolved := spec.ResolveFor(s.opts.Project, entity)
				status := &primary.ArtifactStatus{
					App:    entity.App,
					Entity: entity.Name,
					Kind:   string(spec.Kind),
					Path:   resolved.Path,
				}
				content, exists, err := s.store.Read(ctx, resolved.Path)
				if err != nil {
					status.Error = err.Error()
				} else if exists {
					status.Exists = true
					status.Locked = merge.IsLocked(content)
					status.Present = strings.Contains(content, resolved.Marker)
				}
				statuses = append(statuses, status)
			}
		}
	}
	return statuses, nil
}

// Lock adds the lock sentinel to each existing file. Files already locked are
// left unchanged.
func (s *GenerationServiceImpl) Lock(ctx context.Context, paths []string) ([]*primary.LockResult, error) {
	if len(paths) == 0 {
		return nil, scaffold.NewError(scaffold.CodeInvalidArgument, "lock", "no files given")
	}

	executor := NewEffectExecutor(s.store, nil, s.logger)
	var results []*primary.LockResult
	for _, path := range paths {
		content, exists, err := s.store.Read(ctx, path)
		if err != nil {
			return results, err
		}
		if guard := generation.CanLockFile(generation.LockContext{Path: path, Exists: exists}); !guard.Allowed {
			return results, scaffold.NewError(scaffold.CodeInvalidArgument, "lock", "%s", guard.Reason)
		}

		locked, changed := merge.Lock(path, content)
		if changed {
			write := effects.FileEffect{Operation: "write", Path: path, Content: []byte(locked), Mode: 0644}
			if err := executor.Execute(ctx, []effects.Effect{write}); err != nil {
				return results, err
			}
			s.logger.Info("file locked", zap.String("path", path))
		}
		results = append(results, &primary.LockResult{Path: path, AlreadyLocked: !changed})
	}
	return results, nil
}

var _ primary.GenerationService = (*GenerationServiceImpl)(nil)
