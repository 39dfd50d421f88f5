package maven

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/licensetower/pkg/cache"
	lterrors "github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/integrations"
)

// DefaultRepository is Maven Central.
const DefaultRepository = "https://repo1.maven.org/maven2"

// Client fetches POM descriptors from one or more Maven repositories.
//
// Raw POM documents are cached; effective descriptors are rebuilt from the
// cached documents on every call. All methods are safe for concurrent use.
type Client struct {
	*integrations.Client
	repositories []string
}

// NewClient creates a client backed by c. Repositories are searched in
// order; with none given, [DefaultRepository] is used.
func NewClient(c cache.Cache, cacheTTL time.Duration, repositories ...string) *Client {
	repos := make([]string, 0, len(repositories))
	for _, r := range repositories {
		if r = strings.TrimRight(strings.TrimSpace(r), "/"); r != "" {
			repos = append(repos, r)
		}
	}
	if len(repos) == 0 {
		repos = []string{DefaultRepository}
	}
	return &Client{
		Client:       integrations.NewClient(c, "maven:pom:", cacheTTL, nil),
		repositories: repos,
	}
}

// Repositories returns the repository base URLs in search order.
func (c *Client) Repositories() []string {
	return append([]string(nil), c.repositories...)
}

// FetchPOM returns the raw POM document of group:artifact:version.
//
// Repositories are tried in order and the first hit wins. If every
// repository answers 404 the error wraps [integrations.ErrNotFound];
// otherwise the last transport error is returned.
func (c *Client) FetchPOM(ctx context.Context, group, artifact, version string, refresh bool) ([]byte, error) {
	if err := validateGAV(group, artifact, version); err != nil {
		return nil, err
	}
	key := group + ":" + artifact + ":" + version
	return c.CachedBytes(ctx, key, refresh, func() ([]byte, error) {
		var lastErr error
		for _, repo := range c.repositories {
			data, err := c.GetBytes(ctx, pomURL(repo, group, artifact, version))
			if err == nil {
				return data, nil
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !errors.Is(err, integrations.ErrNotFound) {
				lastErr = err
			}
		}
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, fmt.Errorf("%w: maven pom %s", integrations.ErrNotFound, key)
	})
}

func pomURL(repo, group, artifact, version string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s-%s.pom",
		repo, strings.ReplaceAll(group, ".", "/"), artifact, version, artifact, version)
}

func validateGAV(group, artifact, version string) error {
	if err := lterrors.ValidateCoordinate(group, artifact); err != nil {
		return err
	}
	if version == "" {
		return lterrors.New(lterrors.ErrCodeInvalidCoordinate, "%s:%s has no version", group, artifact)
	}
	if unresolved(version) || strings.ContainsAny(version, "/\\ ") || strings.Contains(version, "..") {
		return lterrors.New(lterrors.ErrCodeInvalidCoordinate, "invalid version %q for %s:%s", version, group, artifact)
	}
	return nil
}
