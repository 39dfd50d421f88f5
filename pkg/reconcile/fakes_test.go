package reconcile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/licensetower/pkg/deps"
	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/license"
	"github.com/matzehuels/licensetower/pkg/summary"
)

type fakeSource struct {
	artifacts  []deps.Artifact
	err        error
	transitive []bool
}

func (s *fakeSource) Dependencies(_ context.Context, transitive bool) ([]deps.Artifact, error) {
	s.transitive = append(s.transitive, transitive)
	return s.artifacts, s.err
}

// artifact builds a direct dependency from "group:artifact:version".
func artifact(gav string) deps.Artifact {
	p := strings.Split(gav, ":")
	return deps.Artifact{Group: p[0], Artifact: p[1], Version: p[2], Scope: "compile", Depth: 1}
}

type fakeFetcher struct {
	mu       sync.Mutex
	licenses map[string][]license.License // by key
	fail     map[string]bool
	calls    map[string]int
	block    bool
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		licenses: make(map[string][]license.License),
		fail:     make(map[string]bool),
		calls:    make(map[string]int),
	}
}

func (f *fakeFetcher) ResolveLicenses(ctx context.Context, id license.Identity, version string) (license.Project, error) {
	f.mu.Lock()
	f.calls[id.Key()]++
	fail, block := f.fail[id.Key()], f.block
	licenses := f.licenses[id.Key()]
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return license.Project{}, errors.Wrap(errors.ErrCodeDescriptor, ctx.Err(), "build project for %s", id)
	}
	if fail {
		return license.Project{}, errors.New(errors.ErrCodeDescriptor, "build project for %s:%s: not found", id, version)
	}
	return license.Project{Identity: id, Version: version, Licenses: licenses}, nil
}

func (f *fakeFetcher) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

type fakeDownloader struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error // by URL
}

func newFakeDownloader() *fakeDownloader {
	return &fakeDownloader{fail: make(map[string]error)}
}

func (d *fakeDownloader) Download(_ context.Context, url, dest string) error {
	d.mu.Lock()
	d.calls = append(d.calls, url)
	err := d.fail[url]
	d.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(dest, []byte(url), 0o644)
}

func (d *fakeDownloader) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

type recorder struct {
	mu       sync.Mutex
	warnings []string
	debugs   []string
}

func (r *recorder) Warnf(format string, args ...any) {
	r.mu.Lock()
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

func (r *recorder) Debugf(format string, args ...any) {
	r.mu.Lock()
	r.debugs = append(r.debugs, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

// fixture wires a Reconciler to fakes inside a temporary project.
type fixture struct {
	dir        string
	opts       Options
	source     *fakeSource
	fetcher    *fakeFetcher
	downloader *fakeDownloader
	reporter   *recorder
}

func newFixture(t *testing.T, artifacts ...string) *fixture {
	t.Helper()
	dir := t.TempDir()
	src := &fakeSource{}
	for _, a := range artifacts {
		src.artifacts = append(src.artifacts, artifact(a))
	}
	return &fixture{
		dir: dir,
		opts: Options{
			SummaryFile:       filepath.Join(dir, "src", "licenses.xml"),
			OutputDirectory:   filepath.Join(dir, "target", "licenses"),
			SummaryOutputFile: filepath.Join(dir, "target", "licenses.xml"),
			IncludeTransitive: true,
		},
		source:     src,
		fetcher:    newFakeFetcher(),
		downloader: newFakeDownloader(),
		reporter:   &recorder{},
	}
}

func (f *fixture) reconciler() *Reconciler {
	return New(f.source, f.fetcher, f.downloader, f.reporter, f.opts)
}

func (f *fixture) run(t *testing.T) *Result {
	t.Helper()
	res, err := f.reconciler().Run(context.Background())
	require.NoError(t, err)
	return res
}

func (f *fixture) writeSummary(t *testing.T, path string, projects ...license.Project) {
	t.Helper()
	require.NoError(t, summary.Write(projects, path))
}

func (f *fixture) readOutput(t *testing.T) []license.Project {
	t.Helper()
	projects, err := summary.ReadFile(f.opts.SummaryOutputFile)
	require.NoError(t, err)
	return projects
}

func project(key, version string, licenses ...license.License) license.Project {
	id, _ := license.ParseKey(key)
	return license.Project{Identity: id, Version: version, Licenses: licenses}
}
