// Package download transfers license texts to local files.
//
// [HTTP] fetches http and https URLs and copies file URLs from the local
// filesystem. Every transfer streams into a temporary file next to the
// destination and renames it into place, so a failed transfer never
// leaves a partial file under the destination name.
//
// Errors carry a code from [errors]:
//
//   - NOT_FOUND: 404/410, or a missing local file
//   - INVALID_URL: unparsable URL or unsupported scheme
//   - TRANSFER_FAILED: anything else
//
// [errors]: github.com/matzehuels/licensetower/pkg/errors
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/licensetower/pkg/buildinfo"
	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/observability"
)

// DefaultTimeout bounds a single transfer.
const DefaultTimeout = time.Minute

// UserAgent is sent with every HTTP request.
var UserAgent = buildinfo.UserAgent()

// Downloader copies the resource at url to the file dest.
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

// HTTP is the default [Downloader]. It makes exactly one attempt per call.
type HTTP struct {
	client *http.Client
}

// NewHTTP creates a downloader whose requests time out after timeout.
// A zero timeout uses [DefaultTimeout].
func NewHTTP(timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTP{client: &http.Client{Timeout: timeout}}
}

// SetHTTPClient replaces the underlying HTTP client.
func (d *HTTP) SetHTTPClient(c *http.Client) {
	if c != nil {
		d.client = c
	}
}

// Download fetches rawURL into dest.
func (d *HTTP) Download(ctx context.Context, rawURL, dest string) error {
	u, err := errors.ValidateURL(rawURL)
	if err != nil {
		return err
	}

	var body io.ReadCloser
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		body, err = d.get(ctx, u.String())
	case "file":
		body, err = openLocal(u.Path)
	default:
		return errors.New(errors.ErrCodeInvalidURL, "unsupported URL scheme %q in %s", u.Scheme, rawURL)
	}
	if err != nil {
		return err
	}
	defer body.Close()

	if err := writeFile(dest, body); err != nil {
		return errors.Wrap(errors.ErrCodeTransfer, err, "download %s", rawURL)
	}
	return nil
}

func (d *HTTP) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidURL, err, "invalid URL %s", url)
	}
	req.Header.Set("User-Agent", UserAgent)

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := d.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, errors.Wrap(errors.ErrCodeTransfer, err, "download %s", url)
	}
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		resp.Body.Close()
		return nil, errors.New(errors.ErrCodeNotFound, "%s: %s", url, resp.Status)
	case resp.StatusCode >= 400:
		resp.Body.Close()
		return nil, errors.New(errors.ErrCodeTransfer, "%s: %s", url, resp.Status)
	}
	return resp.Body, nil
}

func openLocal(path string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.FromSlash(path))
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransfer, err, "file %s", path)
	}
	if fi, err := f.Stat(); err != nil || fi.IsDir() {
		f.Close()
		return nil, errors.New(errors.ErrCodeTransfer, "file %s is not a regular file", path)
	}
	return f, nil
}

// writeFile streams r into a temporary file in dest's directory and
// renames it to dest once complete.
func writeFile(dest string, r io.Reader) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
