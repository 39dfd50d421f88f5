package license

import (
	"slices"
	"strings"
)

// Identity identifies a dependency independently of its version.
type Identity struct {
	Group    string // Maven groupId (e.g., "org.apache.commons")
	Artifact string // Maven artifactId (e.g., "commons-lang3")
}

// Key returns the lookup key "group:artifact".
func (id Identity) Key() string {
	return id.Group + ":" + id.Artifact
}

// String implements fmt.Stringer.
func (id Identity) String() string { return id.Key() }

// ParseKey splits a "group:artifact" key. Extra segments (version, type)
// are ignored. ok is false when either part is missing.
func ParseKey(key string) (id Identity, ok bool) {
	parts := strings.Split(key, ":")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Identity{}, false
	}
	return Identity{Group: parts[0], Artifact: parts[1]}, true
}

// License is a single declared license of a dependency.
// An empty Name means the descriptor gave no human-readable name.
type License struct {
	Name string
	URL  string
}

// Project is a dependency together with its resolved version and licenses.
//
// Projects are treated as values: reconciliation never mutates a Project
// held by somebody else, it derives a new one with [Project.WithVersion].
type Project struct {
	Identity
	Version  string
	Licenses []License
}

// WithVersion returns a copy of p with the version replaced.
// The license slice is cloned so the copy shares no memory with p.
func (p Project) WithVersion(version string) Project {
	p.Version = version
	p.Licenses = slices.Clone(p.Licenses)
	return p
}

// HasLicenses reports whether at least one license is declared.
func (p Project) HasLicenses() bool { return len(p.Licenses) > 0 }

// String renders "group:artifact:version".
func (p Project) String() string {
	if p.Version == "" {
		return p.Key()
	}
	return p.Key() + ":" + p.Version
}

// Equal reports whether p and o have the same identity, version and
// ordered license list.
func (p Project) Equal(o Project) bool {
	return p.Identity == o.Identity &&
		p.Version == o.Version &&
		slices.Equal(p.Licenses, o.Licenses)
}
