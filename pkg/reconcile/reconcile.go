package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/licensetower/pkg/deps"
	"github.com/matzehuels/licensetower/pkg/download"
	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/license"
	"github.com/matzehuels/licensetower/pkg/observability"
	"github.com/matzehuels/licensetower/pkg/summary"
)

// DefaultConcurrency is the number of dependencies resolved in parallel.
const DefaultConcurrency = 4

// Reporter receives warnings and debug messages of a run.
// *log.Logger from charmbracelet/log satisfies it.
type Reporter interface {
	Warnf(format string, args ...any)
	Debugf(format string, args ...any)
}

// Fetcher resolves the declared licenses of a dependency.
type Fetcher interface {
	ResolveLicenses(ctx context.Context, id license.Identity, version string) (license.Project, error)
}

// Options configures a run. Field names follow the configuration keys.
type Options struct {
	SummaryFile       string // licensesSummaryFile: operator-curated overrides (optional)
	OutputDirectory   string // licensesOutputDirectory: downloaded license texts
	SummaryOutputFile string // licensesSummaryOutputFile: summary written by the run, read by the next
	Quiet             bool   // quiet: suppress missing and invalid license warnings
	IncludeTransitive bool   // includeTransitiveDependencies
	Concurrency       int    // parallel dependency resolution (default: 4)
	RunID             string // run identifier reported to hooks (default: random UUID per run)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return opts
}

// Result describes a completed run.
type Result struct {
	RunID    string
	Projects []license.Project // as written to the summary
	Duration time.Duration

	CacheHits  int // dependencies reused from the loaded summary
	Fetched    int // dependencies resolved from their descriptor
	Dropped    int // dependencies left out after a descriptor failure
	Downloaded int // license files transferred
	Existing   int // license files already present
	Failed     int // license records skipped after an error
}

// Reconciler runs the license reconciliation. A Reconciler may be reused
// for several runs but not concurrently.
type Reconciler struct {
	source     deps.Source
	fetcher    Fetcher
	downloader download.Downloader
	reporter   Reporter
	opts       Options

	// per run
	runID  string
	claims claims
	mu     sync.Mutex
	res    *Result
}

// New creates a Reconciler from its collaborators.
func New(source deps.Source, fetcher Fetcher, downloader download.Downloader, reporter Reporter, opts Options) *Reconciler {
	return &Reconciler{
		source:     source,
		fetcher:    fetcher,
		downloader: downloader,
		reporter:   reporter,
		opts:       opts.WithDefaults(),
	}
}

// Run performs one reconciliation. The returned error is non-nil only for
// fatal failures: unreadable or malformed summaries, an unwritable output,
// a failing dependency source, or cancellation.
func (r *Reconciler) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	r.runID = r.opts.RunID
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	r.claims = claims{names: make(map[string]bool)}
	r.res = &Result{RunID: r.runID}

	hooks := observability.Run()
	hooks.OnRunStart(ctx, r.runID)

	err := r.run(ctx)
	r.res.Duration = time.Since(start)
	hooks.OnRunComplete(ctx, r.runID, len(r.res.Projects), r.res.Duration, err)
	if err != nil {
		return nil, err
	}
	return r.res, nil
}

func (r *Reconciler) run(ctx context.Context) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	known, err := r.loadKnown(ctx)
	if err != nil {
		return err
	}

	artifacts, err := r.source.Dependencies(ctx, r.opts.IncludeTransitive)
	if err != nil {
		return err
	}
	r.reporter.Debugf("%d dependencies to reconcile, %d known", len(artifacts), len(known))

	projects, err := r.reconcile(ctx, artifacts, known)
	if err != nil {
		return err
	}

	if err := summary.Write(projects, r.opts.SummaryOutputFile); err != nil {
		return err
	}
	r.res.Projects = projects
	return nil
}

func (r *Reconciler) bootstrap() error {
	dirs := []string{r.opts.OutputDirectory, filepath.Dir(r.opts.SummaryOutputFile)}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeWriteSummary, err, "create directory %s", dir)
		}
	}
	return nil
}

// loadKnown builds the reconciliation map from the prior summary, or from
// the override file when no summary exists yet.
func (r *Reconciler) loadKnown(ctx context.Context) (map[string]license.Project, error) {
	if fileExists(r.opts.SummaryOutputFile) {
		projects, err := summary.ReadFile(r.opts.SummaryOutputFile)
		if err != nil {
			return nil, err
		}
		r.reporter.Debugf("loaded %d entries from %s", len(projects), r.opts.SummaryOutputFile)
		return summary.Index(projects), nil
	}

	if r.opts.SummaryFile == "" || !fileExists(r.opts.SummaryFile) {
		return map[string]license.Project{}, nil
	}
	projects, err := summary.ReadFile(r.opts.SummaryFile)
	if err != nil {
		return nil, err
	}
	r.reporter.Debugf("seeding %d entries from %s", len(projects), r.opts.SummaryFile)
	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.downloadLicenses(ctx, p)
		observability.Run().OnDependency(ctx, p.Key(), observability.OutcomeOverride)
	}
	return summary.Index(projects), nil
}

// reconcile resolves every artifact to a project. Output order follows
// the enumeration order; repeated identities collapse onto the first
// position with the last value.
func (r *Reconciler) reconcile(ctx context.Context, artifacts []deps.Artifact, known map[string]license.Project) ([]license.Project, error) {
	hooks := observability.Run()
	slots := make([]*license.Project, len(artifacts))
	var misses []int

	for i, a := range artifacts {
		cached, ok := known[a.Key()]
		if !ok {
			misses = append(misses, i)
			continue
		}
		p := cached.WithVersion(a.Version)
		slots[i] = &p
		r.res.CacheHits++
		hooks.OnDependency(ctx, a.Key(), observability.OutcomeCached)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for _, i := range misses {
		i := i
		a := artifacts[i]
		g.Go(func() error {
			p, ok, err := r.resolve(gctx, a)
			if err != nil || !ok {
				return err
			}
			r.downloadLicenses(gctx, p)
			slots[i] = &p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	projects := make([]license.Project, 0, len(artifacts))
	pos := make(map[string]int, len(artifacts))
	for _, p := range slots {
		if p == nil {
			continue
		}
		if i, ok := pos[p.Key()]; ok {
			projects[i] = *p
			continue
		}
		pos[p.Key()] = len(projects)
		projects = append(projects, *p)
	}
	return projects, nil
}

// resolve fetches a fresh project for a. ok is false when the dependency
// is dropped; err is only set on cancellation.
func (r *Reconciler) resolve(ctx context.Context, a deps.Artifact) (license.Project, bool, error) {
	p, err := r.fetcher.ResolveLicenses(ctx, a.Identity(), a.Version)
	if err != nil {
		if ctx.Err() != nil {
			return license.Project{}, false, ctx.Err()
		}
		r.count(func(res *Result) { res.Dropped++ })
		observability.Run().OnDependency(ctx, a.Key(), observability.OutcomeDropped)
		r.warnUnlessQuiet("unable to build project for %s: %s", a, errors.UserMessage(err))
		return license.Project{}, false, nil
	}
	p.Identity = a.Identity()
	if p.Version == "" {
		p.Version = a.Version
	}
	r.count(func(res *Result) { res.Fetched++ })
	observability.Run().OnDependency(ctx, a.Key(), observability.OutcomeFetched)
	return p, true, nil
}

func (r *Reconciler) count(fn func(*Result)) {
	r.mu.Lock()
	fn(r.res)
	r.mu.Unlock()
}

func (r *Reconciler) warnUnlessQuiet(format string, args ...any) {
	if r.opts.Quiet {
		r.reporter.Debugf(format, args...)
		return
	}
	r.reporter.Warnf(format, args...)
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
