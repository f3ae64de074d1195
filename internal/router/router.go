package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/citykit/mcrbatch/internal/admission"
	"github.com/citykit/mcrbatch/internal/manifest"
	"github.com/citykit/mcrbatch/internal/progress"
	"github.com/citykit/mcrbatch/internal/routing"
	"github.com/citykit/mcrbatch/internal/sysmem"
	"github.com/citykit/mcrbatch/internal/worker"
)

const (
	// defaultPollInterval is how long the supervisor sleeps between
	// admission and liveness checks.
	defaultPollInterval = time.Second

	// defaultChannelCapacity bounds the error channel. Reaching capacity
	// aborts the batch: an unreadable failure stream is worse than a dead
	// batch.
	defaultChannelCapacity = 1024
)

// Fatal batch errors.
var (
	// ErrOutputDirNotEmpty is returned before any task starts when the
	// output directory already contains files. Pre-existing output is a
	// configuration error, not something to retry around.
	ErrOutputDirNotEmpty = errors.New("output directory exists and is not empty")

	// ErrChannelFull is returned when the error channel reaches capacity,
	// meaning failures may be going unobserved.
	ErrChannelFull = errors.New("error channel is full")
)

// Option configures a Router.
type Option func(*Router)

// WithSpawner replaces the execution-context spawner.
func WithSpawner(s worker.Spawner) Option {
	return func(r *Router) { r.spawner = s }
}

// WithAdmission sets the admission controller.
func WithAdmission(c *admission.Controller) Option {
	return func(r *Router) { r.admitter = c }
}

// WithPollInterval sets the supervisor's polling interval. Values of zero
// or below are ignored.
func WithPollInterval(d time.Duration) Option {
	return func(r *Router) {
		if d > 0 {
			r.pollInterval = d
		}
	}
}

// WithChannelCapacity bounds the error channel. Values below 1 are ignored.
func WithChannelCapacity(n int) Option {
	return func(r *Router) {
		if n >= 1 {
			r.channelCap = n
		}
	}
}

// WithReporter enables progress reporting.
func WithReporter(rep progress.Reporter) Option {
	return func(r *Router) { r.reporter = rep }
}

// WithLogger sets the supervisor's logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Router) { r.log = log }
}

// WithMemorySampler replaces the sampler used for progress snapshots.
func WithMemorySampler(s sysmem.Sampler) Option {
	return func(r *Router) { r.sample = s }
}

// Router supervises one batch: it owns the submission loop, the spawned
// task handles, the error channel, and the final manifest. A Router is
// reusable across batches but a single Run must not be called concurrently
// with another on the same Router.
type Router struct {
	runner       routing.Runner
	spawner      worker.Spawner
	admitter     *admission.Controller
	pollInterval time.Duration
	channelCap   int
	reporter     progress.Reporter
	sample       sysmem.Sampler
	log          *slog.Logger
}

// New creates a Router driving the given route-search collaborator.
func New(runner routing.Runner, opts ...Option) *Router {
	r := &Router{
		runner:       runner,
		spawner:      worker.GoSpawner{},
		admitter:     admission.NewController(),
		pollInterval: defaultPollInterval,
		channelCap:   defaultChannelCapacity,
		sample:       sysmem.AvailableMemory,
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one batch. Every mapping ends up as exactly one of: an
// artifact in outputDir, or one error record in the returned list and the
// persisted manifest. Run blocks until the batch reaches its final state
// or a fatal error occurs.
func (r *Router) Run(
	ctx context.Context,
	mappings []routing.LocationMapping,
	cfg *routing.Config,
	outputDir string,
) ([]manifest.ErrorRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := routing.ValidateMappings(mappings); err != nil {
		return nil, err
	}
	if err := prepareOutputDir(outputDir); err != nil {
		return nil, err
	}

	// While the batch lives, admitted tasks run to natural completion: the
	// supervisor never cancels them and taskCtx is detached from the
	// caller's deadline. Only when Run returns, on success or fatal abort,
	// does the deferred cancel fire, reclaiming any worker still stuck
	// sending a record.
	taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	records := make(chan manifest.ErrorRecord, r.channelCap)
	handles := make([]worker.Handle, 0, len(mappings))
	var collected []manifest.ErrorRecord

	r.log.Info("batch starting",
		"mappings", len(mappings),
		"max_workers", r.admitter.MaxWorkers(),
		"output_dir", outputDir,
	)

	// Submitting: FIFO over input order.
	for _, m := range mappings {
		for {
			if err := r.drainTick(records, &collected); err != nil {
				return nil, err
			}
			running := countAlive(handles)
			d := r.admitter.Decide(running)
			if d.Admit {
				break
			}
			r.log.Debug("admission blocked", "cell_id", m.CellID, "reason", d.Reason)
			r.report(len(handles), len(mappings), running)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.pollInterval):
			}
		}

		t := &worker.Task{
			Mapping:    m,
			Config:     cfg,
			OutputPath: routing.ArtifactPath(outputDir, m.CellID),
			Runner:     r.runner,
			Records:    records,
		}
		handles = append(handles, r.spawner.Spawn(taskCtx, t))
	}

	// Draining: no admission decisions, only liveness checks.
	for {
		if err := r.drainTick(records, &collected); err != nil {
			return nil, err
		}
		running := countAlive(handles)
		r.report(len(handles), len(mappings), running)
		if running == 0 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.pollInterval):
		}
	}

	// Completed: reclaim every context, flush, reconcile, persist.
	for _, h := range handles {
		h.Join()
	}
	collected = append(collected, flush(records)...)
	collected = r.reconcile(mappings, cfg, outputDir, collected)

	r.log.Info("all workers finished", "total", len(mappings))
	if len(collected) > 0 {
		r.log.Warn("batch completed with errors", "errors", len(collected))
	}

	if r.reporter != nil {
		r.reporter.Done()
	}

	if err := manifest.New(collected).Save(outputDir); err != nil {
		return collected, fmt.Errorf("persist batch manifest: %w", err)
	}
	return collected, nil
}

// drainTick empties the error channel into acc. The capacity check happens
// before draining: a full channel at tick start means producers may have
// been blocked between ticks, so the failure stream is no longer reliable.
func (r *Router) drainTick(records chan manifest.ErrorRecord, acc *[]manifest.ErrorRecord) error {
	if len(records) == cap(records) {
		return fmt.Errorf("%w (capacity %d)", ErrChannelFull, cap(records))
	}
	*acc = append(*acc, flush(records)...)
	return nil
}

// flush performs a non-blocking drain of all buffered records.
func flush(records chan manifest.ErrorRecord) []manifest.ErrorRecord {
	var out []manifest.ErrorRecord
	for {
		select {
		case rec := <-records:
			out = append(out, rec)
		default:
			return out
		}
	}
}

// reconcile accounts for silent task death: a mapping with neither an
// artifact on disk nor an error record gets a synthesized record, so the
// caller sees the loss instead of a silent gap.
func (r *Router) reconcile(
	mappings []routing.LocationMapping,
	cfg *routing.Config,
	outputDir string,
	recs []manifest.ErrorRecord,
) []manifest.ErrorRecord {
	reported := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		reported[rec.CellID] = struct{}{}
	}

	for _, m := range mappings {
		if _, ok := reported[m.CellID]; ok {
			continue
		}
		path := routing.ArtifactPath(outputDir, m.CellID)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		r.log.Warn("worker left no artifact and no error record", "cell_id", m.CellID)
		recs = append(recs, manifest.ErrorRecord{
			CellID:       m.CellID,
			NodeID:       m.NodeID,
			StartTime:    cfg.StartTime,
			MaxTransfers: cfg.MaxTransfers,
			OutputPath:   path,
			Error:        "worker terminated without writing an artifact or reporting an error",
		})
	}
	return recs
}

func (r *Router) report(started, total, running int) {
	if r.reporter == nil {
		return
	}
	available, err := r.sample()
	if err != nil {
		available = 0
	}
	r.reporter.Report(progress.Snapshot{
		Started:         started,
		Finished:        started - running,
		Running:         running,
		Total:           total,
		AvailableMemory: available,
	})
}

func countAlive(handles []worker.Handle) int {
	n := 0
	for _, h := range handles {
		if h.IsAlive() {
			n++
		}
	}
	return n
}

func prepareOutputDir(dir string) error {
	entries, err := os.ReadDir(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return os.MkdirAll(dir, 0755)
	case err != nil:
		return fmt.Errorf("inspect output directory: %w", err)
	case len(entries) > 0:
		return fmt.Errorf("%w: %s", ErrOutputDirNotEmpty, dir)
	}
	return nil
}
