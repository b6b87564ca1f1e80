// Package pipeline orchestrates the content run: discovery, per-document
// transform, index construction with reference resolution, and aggregation.
//
// Phases are strictly ordered. Index construction is a hard barrier: it must
// not start until the entire transform phase has completed, because an early
// document may reference a document encountered later in enumeration order.
package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/docs"
	"git.home.luguber.info/inful/docsite/internal/document"
	dserrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/events"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/nav"
	"git.home.luguber.info/inful/docsite/internal/refs"
	"git.home.luguber.info/inful/docsite/internal/render"
	"git.home.luguber.info/inful/docsite/internal/state"
)

// Orchestrator sequences a pipeline run. Collaborators (enumerator, renderer)
// and hooks (recorder, publisher, report store) are injectable; defaults are
// a filesystem enumerator, the goldmark renderer and no-op hooks.
type Orchestrator struct {
	cfg       config.Config
	enum      docs.Enumerator
	renderer  render.Renderer
	resolver  *refs.Resolver
	recorder  metrics.Recorder
	publisher events.Publisher
	store     *state.ReportStore
}

// Result bundles the outputs of one run.
type Result struct {
	RunID           string
	StartedAt       time.Time
	Duration        time.Duration
	Documents       []*document.Document
	CrossReferences []document.CrossReference
	Navigation      []nav.Item
	Warnings        []string // broken references, source-missing, degraded hooks
	Errors          []string // per-document transform failures
	Fatal           []string // phase-level failures (empty result)
	Stats           refs.Stats
	Timings         map[StageName]time.Duration
}

// runState carries mutable state across stages within a single run.
type runState struct {
	files  []string
	docs   []*document.Document
	index  *document.Index
	result *Result
	halt   bool
	mu     sync.Mutex
}

// New constructs an orchestrator with default collaborators.
func New(cfg config.Config) *Orchestrator {
	cfg.Normalize()
	return &Orchestrator{
		cfg:      cfg,
		enum:     &docs.FSEnumerator{Extension: cfg.Extension},
		renderer: render.NewGoldmarkRenderer(),
		resolver: refs.NewResolver(refs.Config{
			SourceRoot: cfg.SourceRoot,
			Scheme:     cfg.Scheme,
			Extension:  cfg.Extension,
			BasePath:   cfg.BasePath,
		}),
		recorder:  metrics.NoopRecorder{},
		publisher: events.NoopPublisher{},
	}
}

// FromConfig constructs an orchestrator with the optional hooks wired from
// configuration: a NATS event publisher when events are enabled and a SQLite
// report store when reports are enabled. The caller owns the orchestrator and
// must Close it to release these hooks.
func FromConfig(cfg config.Config) (*Orchestrator, error) {
	cfg.Normalize()
	o := New(cfg)

	if cfg.Events.Enabled {
		pub, err := events.NewNATSPublisher(cfg.Events.URL, cfg.Events.Subject)
		if err != nil {
			return nil, fmt.Errorf("configure event publisher: %w", err)
		}
		o.publisher = pub
	}

	if cfg.Reports.Enabled {
		store, err := state.Open(cfg.Reports.Path)
		if err != nil {
			_ = o.publisher.Close()
			return nil, fmt.Errorf("open report store: %w", err)
		}
		o.store = store
	}

	return o, nil
}

// Close releases the hooks held by the orchestrator (event publisher, report
// store). Safe with the default no-op hooks.
func (o *Orchestrator) Close() error {
	err := o.publisher.Close()
	if o.store != nil {
		if serr := o.store.Close(); err == nil {
			err = serr
		}
	}
	return err
}

// WithEnumerator injects a custom source enumerator.
func (o *Orchestrator) WithEnumerator(e docs.Enumerator) *Orchestrator {
	if e != nil {
		o.enum = e
	}
	return o
}

// WithRenderer injects a custom body renderer.
func (o *Orchestrator) WithRenderer(r render.Renderer) *Orchestrator {
	if r != nil {
		o.renderer = r
	}
	return o
}

// WithRecorder injects a metrics recorder.
func (o *Orchestrator) WithRecorder(r metrics.Recorder) *Orchestrator {
	if r != nil {
		o.recorder = r
	}
	return o
}

// WithPublisher injects a broken-reference event publisher.
func (o *Orchestrator) WithPublisher(p events.Publisher) *Orchestrator {
	if p != nil {
		o.publisher = p
	}
	return o
}

// WithReportStore enables run-report persistence.
func (o *Orchestrator) WithReportStore(s *state.ReportStore) *Orchestrator {
	o.store = s
	return o
}

// Run executes the four phases in order. Per-document failures are isolated;
// a phase-level failure aborts with an empty result and a recorded fatal
// error. The returned error is non-nil only for phase-level failures.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Timings:   make(map[StageName]time.Duration),
	}
	st := &runState{result: res}

	stages := []StageDef{
		{Name: StageDiscover, Fn: o.stageDiscover},
		{Name: StageTransform, Fn: o.stageTransform},
		{Name: StageResolve, Fn: o.stageResolve},
		{Name: StageAggregate, Fn: o.stageAggregate},
	}

	err := o.runStages(ctx, st, stages)
	res.Duration = time.Since(res.StartedAt)
	o.recorder.ObservePipelineDuration(res.Duration)

	if err != nil {
		res.Documents = nil
		res.CrossReferences = nil
		res.Navigation = nil
		res.Stats = refs.Stats{}
		res.Fatal = append(res.Fatal, err.Error())
		o.recorder.IncPipelineOutcome("failed")
		slog.Error("pipeline run failed", logfields.RunID(res.RunID), logfields.Error(err))
		return res, err
	}

	if st.halt {
		// Source root missing: empty result, the warning is already recorded.
		res.Stats = refs.ComputeStats(nil)
	}

	outcome := "success"
	if len(res.Warnings) > 0 || len(res.Errors) > 0 {
		outcome = "warning"
	}
	o.recorder.IncPipelineOutcome(outcome)
	return res, nil
}

// runStages executes stages in order, recording timings, stopping on the
// first fatal or canceled error and continuing past warnings.
func (o *Orchestrator) runStages(ctx context.Context, st *runState, stages []StageDef) error {
	for _, sd := range stages {
		select {
		case <-ctx.Done():
			return newCanceledStageError(sd.Name, ctx.Err())
		default:
		}

		t0 := time.Now()
		err := o.runStage(ctx, sd, st)
		dur := time.Since(t0)
		st.result.Timings[sd.Name] = dur
		o.recorder.ObserveStageDuration(string(sd.Name), dur)

		if err != nil {
			var se *StageError
			if !stderrors.As(err, &se) {
				se = newFatalStageError(sd.Name, err)
			}
			if se.Kind == StageErrorWarning {
				st.result.Warnings = append(st.result.Warnings, se.Err.Error())
				if st.halt {
					return nil
				}
				continue
			}
			return se
		}
		if st.halt {
			return nil
		}
	}
	return nil
}

// runStage invokes one stage, converting panics into fatal stage errors so an
// unexpected failure outside the per-document boundary aborts the run instead
// of crashing the host.
func (o *Orchestrator) runStage(ctx context.Context, sd StageDef, st *runState) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newFatalStageError(sd.Name, dserrors.New(
				dserrors.CategoryPipeline, dserrors.SeverityFatal,
				fmt.Sprintf("panic: %v", r)))
		}
	}()
	slog.Debug("stage starting",
		logfields.RunID(st.result.RunID), logfields.Stage(string(sd.Name)))
	return sd.Fn(ctx, st)
}

// stageDiscover delegates enumeration to the configured collaborator. A
// missing source root terminates the run with an empty result and a single
// warning (non-fatal); enumeration failures are fatal.
func (o *Orchestrator) stageDiscover(ctx context.Context, st *runState) error {
	if _, err := os.Stat(o.cfg.SourceRoot); os.IsNotExist(err) {
		st.halt = true
		return newWarnStageError(StageDiscover,
			fmt.Errorf("source root %q does not exist", o.cfg.SourceRoot))
	}

	files, err := o.enum.Enumerate(ctx, o.cfg.SourceRoot)
	if err != nil {
		return newFatalStageError(StageDiscover,
			dserrors.Wrap(err, dserrors.CategoryFileSystem, dserrors.SeverityFatal, "enumerate source files"))
	}
	st.files = files

	slog.Info("source files discovered",
		logfields.RunID(st.result.RunID), logfields.Count(len(files)))
	return nil
}

// stageTransform runs the per-document transform with a bounded worker pool.
// Each document is independent: a failure is recorded as an error string and
// the document is omitted while the batch continues.
func (o *Orchestrator) stageTransform(ctx context.Context, st *runState) error {
	workers := o.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, rel := range st.files {
		select {
		case <-ctx.Done():
			wg.Wait()
			return newCanceledStageError(StageTransform, ctx.Err())
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(rel string) {
			defer wg.Done()
			defer func() { <-sem }()

			doc, err := o.transformOne(ctx, rel)

			st.mu.Lock()
			defer st.mu.Unlock()
			if err != nil {
				st.result.Errors = append(st.result.Errors, fmt.Sprintf("%s: %v", rel, err))
				return
			}
			st.docs = append(st.docs, doc)
		}(rel)
	}
	wg.Wait()

	o.recorder.AddDocumentsProcessed(len(st.docs))
	o.recorder.AddTransformFailures(len(st.result.Errors))
	return nil
}

// stageResolve builds the document index from the surviving documents and
// resolves references against it. This must not start before the transform
// phase has fully completed.
func (o *Orchestrator) stageResolve(ctx context.Context, st *runState) error {
	st.index = document.NewIndex(st.docs)

	for _, d := range st.docs {
		body, crs := o.resolver.Resolve(d.Body, st.index)
		d.Body = body
		st.result.CrossReferences = append(st.result.CrossReferences, crs...)

		diags := o.resolver.Diagnostics(crs, d.ID, st.index)
		st.result.Warnings = append(st.result.Warnings, diags...)

		o.publishBroken(ctx, st, d.ID, crs)
	}
	return nil
}

// publishBroken emits one event per invalid reference. Publishing is best
// effort: failures degrade to warnings.
func (o *Orchestrator) publishBroken(ctx context.Context, st *runState, sourceID string, crs []document.CrossReference) {
	for _, cr := range crs {
		if cr.IsValid {
			continue
		}
		event := &events.BrokenReferenceEvent{
			RunID:       st.result.RunID,
			SourceID:    sourceID,
			Reference:   cr.Reference,
			Resolved:    cr.Resolved,
			Suggestions: o.resolver.Suggest(cr.Reference, st.index),
			Timestamp:   time.Now(),
		}
		if err := o.publisher.PublishBrokenReference(ctx, event); err != nil {
			st.result.Warnings = append(st.result.Warnings,
				fmt.Sprintf("publish broken reference event: %v", err))
		}
	}
}

// stageAggregate computes statistics, derives the navigation tree and
// persists the run report when a store is configured.
func (o *Orchestrator) stageAggregate(ctx context.Context, st *runState) error {
	res := st.result
	res.Documents = st.docs
	res.Stats = refs.ComputeStats(res.CrossReferences)
	res.Navigation = nav.Build(st.docs)

	o.recorder.AddReferences(true, res.Stats.Valid)
	o.recorder.AddReferences(false, res.Stats.Broken)

	if o.store != nil {
		report := &state.Report{
			RunID:       res.RunID,
			StartedAt:   res.StartedAt,
			Documents:   len(res.Documents),
			Errors:      len(res.Errors),
			TotalRefs:   res.Stats.Total,
			ValidRefs:   res.Stats.Valid,
			BrokenRefs:  res.Stats.Broken,
			SuccessRate: res.Stats.SuccessRate,
			DurationMS:  time.Since(res.StartedAt).Milliseconds(),
		}
		if err := o.store.Save(ctx, report); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("persist run report: %v", err))
		}
	}

	slog.Info("pipeline run complete",
		logfields.RunID(res.RunID),
		logfields.Count(len(res.Documents)),
		slog.Int("broken_refs", res.Stats.Broken),
		logfields.DurationMS(float64(time.Since(res.StartedAt).Milliseconds())))
	return nil
}
