package maven

import (
	"context"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/license"
)

// LicenseFetcher resolves the declared licenses of a dependency from its
// effective descriptor.
type LicenseFetcher struct {
	client  *Client
	refresh bool
}

// NewLicenseFetcher wraps client. With refresh set, cached POM documents
// are ignored and fetched again.
func NewLicenseFetcher(client *Client, refresh bool) *LicenseFetcher {
	return &LicenseFetcher{client: client, refresh: refresh}
}

// ResolveLicenses builds the descriptor of id at version and returns it as
// a project. Every failure is reported as an [errors.ErrCodeDescriptor]
// error.
func (f *LicenseFetcher) ResolveLicenses(ctx context.Context, id license.Identity, version string) (license.Project, error) {
	d, err := f.client.Describe(ctx, id.Group, id.Artifact, version, f.refresh)
	if err != nil {
		return license.Project{}, errors.Wrap(errors.ErrCodeDescriptor, err, "build project for %s:%s", id, version)
	}
	return license.Project{
		Identity: id,
		Version:  version,
		Licenses: d.Licenses,
	}, nil
}
