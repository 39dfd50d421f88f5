package reconcile

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/license"
	"github.com/matzehuels/licensetower/pkg/observability"
)

// claims guards derived file names so each is transferred at most once
// per run.
type claims struct {
	mu    sync.Mutex
	names map[string]bool
}

// claim reserves name. It reports false if name is already reserved.
func (c *claims) claim(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.names[name] {
		return false
	}
	c.names[name] = true
	return true
}

// release frees name after a failed transfer.
func (c *claims) release(name string) {
	c.mu.Lock()
	delete(c.names, name)
	c.mu.Unlock()
}

// downloadLicenses stores the license texts of p in the output directory.
// Every record is handled on its own; failures are reported, never
// returned.
func (r *Reconciler) downloadLicenses(ctx context.Context, p license.Project) {
	if !p.HasLicenses() {
		if !r.opts.Quiet {
			r.reporter.Warnf("no license information available for: %s", p)
		}
		return
	}
	for _, l := range p.Licenses {
		r.downloadLicense(ctx, p, l)
	}
}

func (r *Reconciler) downloadLicense(ctx context.Context, p license.Project, l license.License) {
	hooks := observability.Run()

	name, err := license.FileName(l)
	if err != nil {
		r.count(func(res *Result) { res.Failed++ })
		hooks.OnDownload(ctx, l.URL, observability.OutcomeFailed, err)
		r.warnUnlessQuiet("invalid license URL %q for %s: %s", l.URL, p, errors.UserMessage(err))
		return
	}

	dest := filepath.Join(r.opts.OutputDirectory, name)
	if fileExists(dest) || !r.claims.claim(name) {
		r.count(func(res *Result) { res.Existing++ })
		hooks.OnDownload(ctx, name, observability.OutcomeExists, nil)
		r.reporter.Debugf("license file %q already present, skipping", name)
		return
	}

	r.reporter.Debugf("downloading %s to %q", l.URL, name)
	if err := r.downloader.Download(ctx, l.URL, dest); err != nil {
		r.claims.release(name)
		r.count(func(res *Result) { res.Failed++ })
		hooks.OnDownload(ctx, name, observability.OutcomeFailed, err)

		switch errors.GetCode(err) {
		case errors.ErrCodeNotFound:
			r.warnUnlessQuiet("license not found at %s for %s", l.URL, p)
		case errors.ErrCodeInvalidURL:
			r.warnUnlessQuiet("invalid license URL %q for %s: %s", l.URL, p, errors.UserMessage(err))
		default:
			r.reporter.Warnf("unable to download license for %s from %s: %s", p, l.URL, errors.UserMessage(err))
		}
		return
	}
	r.count(func(res *Result) { res.Downloaded++ })
	hooks.OnDownload(ctx, name, observability.OutcomeDownloaded, nil)
}
