package maven

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/licensetower/pkg/license"
)

const (
	maxParentDepth = 16
	maxImportDepth = 8
)

// Dependency is a dependency declaration of an effective descriptor.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Version    string // empty if neither declared nor managed
	Type       string // "jar" unless declared
	Classifier string
	Scope      string // "compile" unless declared or managed
	Optional   bool

	// Exclusions are "groupId:artifactId" patterns; either part may be "*".
	Exclusions []string
}

// Key returns "groupId:artifactId".
func (d Dependency) Key() string { return d.GroupID + ":" + d.ArtifactID }

// Excludes reports whether key ("groupId:artifactId") matches one of the
// dependency's exclusions.
func (d Dependency) Excludes(key string) bool {
	group, artifact, _ := strings.Cut(key, ":")
	for _, ex := range d.Exclusions {
		g, a, _ := strings.Cut(ex, ":")
		if (g == "*" || g == group) && (a == "*" || a == artifact) {
			return true
		}
	}
	return false
}

// Resolved reports whether all coordinates are free of property references.
func (d Dependency) Resolved() bool {
	return d.GroupID != "" && d.ArtifactID != "" && d.Version != "" &&
		!unresolved(d.GroupID) && !unresolved(d.ArtifactID) && !unresolved(d.Version)
}

// Descriptor is the effective model of a project: its own POM merged with
// every ancestor, with properties interpolated.
type Descriptor struct {
	GroupID    string
	ArtifactID string
	Version    string
	Packaging  string
	Name       string

	// Licenses are the project's own licenses, or those of the nearest
	// ancestor that declares any.
	Licenses []license.License

	Properties   map[string]string
	Managed      map[string]Dependency // dependencyManagement by Key, imports expanded
	Dependencies []Dependency          // declaration order, inherited first
}

// Identity returns the version-independent identity of the project.
func (d *Descriptor) Identity() license.Identity {
	return license.Identity{Group: d.GroupID, Artifact: d.ArtifactID}
}

// Describe builds the effective descriptor of group:artifact:version.
func (c *Client) Describe(ctx context.Context, group, artifact, version string, refresh bool) (*Descriptor, error) {
	return c.describe(ctx, group, artifact, version, refresh, 0)
}

func (c *Client) describe(ctx context.Context, group, artifact, version string, refresh bool, depth int) (*Descriptor, error) {
	pom, err := c.loadPOM(ctx, group, artifact, version, refresh)
	if err != nil {
		return nil, err
	}
	return c.effective(ctx, pom, "", refresh, depth)
}

// DescribeFile builds the effective descriptor of a POM on disk. Parents
// are looked up through their relativePath first and then in the
// repositories.
func (c *Client) DescribeFile(ctx context.Context, path string, refresh bool) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pom, err := parsePOM(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c.effective(ctx, pom, filepath.Dir(path), refresh, 0)
}

func (c *Client) loadPOM(ctx context.Context, group, artifact, version string, refresh bool) (*pomProject, error) {
	data, err := c.FetchPOM(ctx, group, artifact, version, refresh)
	if err != nil {
		return nil, err
	}
	pom, err := parsePOM(data)
	if err != nil {
		return nil, fmt.Errorf("%s:%s:%s: %w", group, artifact, version, err)
	}
	return pom, nil
}

// lineage returns pom followed by its ancestors, nearest first.
func (c *Client) lineage(ctx context.Context, pom *pomProject, dir string, refresh bool) ([]*pomProject, error) {
	chain := []*pomProject{pom}
	seen := make(map[string]bool)
	for cur := pom; cur.Parent != nil; {
		p := cur.Parent
		if len(chain) > maxParentDepth {
			return nil, fmt.Errorf("parent chain exceeds %d levels at %s", maxParentDepth, p)
		}
		if seen[p.String()] {
			return nil, fmt.Errorf("cyclic parent %s", p)
		}
		seen[p.String()] = true

		parent, parentDir := c.loadLocalParent(p, dir)
		if parent == nil {
			var err error
			if parent, err = c.loadPOM(ctx, p.GroupID, p.ArtifactID, p.Version, refresh); err != nil {
				return nil, fmt.Errorf("parent %s: %w", p, err)
			}
		}
		chain = append(chain, parent)
		cur, dir = parent, parentDir
	}
	return chain, nil
}

// loadLocalParent reads the parent from disk when dir is set and the file
// at relativePath carries the expected coordinates.
func (c *Client) loadLocalParent(p *pomParent, dir string) (*pomProject, string) {
	if dir == "" {
		return nil, ""
	}
	rel := "../pom.xml"
	if p.RelativePath != nil {
		rel = *p.RelativePath
	}
	if rel == "" {
		return nil, ""
	}
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, "pom.xml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ""
	}
	pom, err := parsePOM(data)
	if err != nil {
		return nil, ""
	}
	if pom.groupID() != p.GroupID || pom.ArtifactID != p.ArtifactID || pom.version() != p.Version {
		return nil, ""
	}
	return pom, filepath.Dir(path)
}

func (c *Client) effective(ctx context.Context, pom *pomProject, dir string, refresh bool, depth int) (*Descriptor, error) {
	chain, err := c.lineage(ctx, pom, dir, refresh)
	if err != nil {
		return nil, err
	}

	props := make(map[string]string)
	var licenses []pomLicense
	var managed, deps []pomDependency
	for i := len(chain) - 1; i >= 0; i-- {
		p := chain[i]
		maps.Copy(props, p.Properties)
		if len(p.Licenses) > 0 {
			licenses = p.Licenses
		}
		managed = mergeDependencies(managed, p.Managed)
		deps = mergeDependencies(deps, p.Dependencies)
	}

	d := &Descriptor{
		GroupID:    pom.groupID(),
		ArtifactID: pom.ArtifactID,
		Version:    pom.version(),
		Packaging:  pom.Packaging,
		Name:       pom.Name,
		Properties: props,
		Managed:    make(map[string]Dependency),
	}
	if d.Packaging == "" {
		d.Packaging = "jar"
	}
	maps.Copy(props, modelProperties(d.GroupID, d.ArtifactID, d.Version, pom.Parent))
	d.Version = interpolate(d.Version, props)
	d.Name = interpolate(d.Name, props)

	for _, l := range licenses {
		d.Licenses = append(d.Licenses, license.License{
			Name: interpolate(l.Name, props),
			URL:  interpolate(l.URL, props),
		})
	}

	var imports []Dependency
	for _, m := range managed {
		dep := toDependency(m, props)
		if dep.Scope == "import" && dep.Type == "pom" {
			imports = append(imports, dep)
			continue
		}
		d.Managed[dep.Key()] = dep
	}
	if err := c.importBOMs(ctx, d, imports, refresh, depth); err != nil {
		return nil, err
	}

	for _, raw := range deps {
		dep := toDependency(raw, props)
		if m, ok := d.Managed[dep.Key()]; ok {
			if dep.Version == "" {
				dep.Version = m.Version
			}
			if raw.Scope == "" && m.Scope != "" {
				dep.Scope = m.Scope
			}
			if len(raw.Exclusions) == 0 {
				dep.Exclusions = m.Exclusions
			}
		}
		if dep.Scope == "" {
			dep.Scope = "compile"
		}
		d.Dependencies = append(d.Dependencies, dep)
	}
	return d, nil
}

// importBOMs merges the dependencyManagement of import-scoped POMs.
// Entries declared directly, or by an earlier import, take precedence.
func (c *Client) importBOMs(ctx context.Context, d *Descriptor, imports []Dependency, refresh bool, depth int) error {
	if len(imports) == 0 {
		return nil
	}
	if depth >= maxImportDepth {
		return fmt.Errorf("bom imports of %s:%s exceed %d levels", d.GroupID, d.ArtifactID, maxImportDepth)
	}
	for _, imp := range imports {
		if !imp.Resolved() {
			return fmt.Errorf("unresolved bom import %s:%s:%s", imp.GroupID, imp.ArtifactID, imp.Version)
		}
		bom, err := c.describe(ctx, imp.GroupID, imp.ArtifactID, imp.Version, refresh, depth+1)
		if err != nil {
			return fmt.Errorf("bom %s:%s: %w", imp.Key(), imp.Version, err)
		}
		for k, m := range bom.Managed {
			if _, ok := d.Managed[k]; !ok {
				d.Managed[k] = m
			}
		}
	}
	return nil
}

// mergeDependencies overlays child declarations on inherited ones.
// A child entry with the same key replaces the inherited entry in place.
func mergeDependencies(inherited, child []pomDependency) []pomDependency {
	if len(child) == 0 {
		return inherited
	}
	out := append([]pomDependency(nil), inherited...)
	index := make(map[string]int, len(out))
	for i, d := range out {
		index[depKey(d)] = i
	}
	for _, d := range child {
		if i, ok := index[depKey(d)]; ok {
			out[i] = d
			continue
		}
		index[depKey(d)] = len(out)
		out = append(out, d)
	}
	return out
}

func depKey(d pomDependency) string {
	return d.GroupID + ":" + d.ArtifactID + ":" + d.Type + ":" + d.Classifier
}

func toDependency(d pomDependency, props map[string]string) Dependency {
	dep := Dependency{
		GroupID:    interpolate(d.GroupID, props),
		ArtifactID: interpolate(d.ArtifactID, props),
		Version:    interpolate(d.Version, props),
		Type:       d.Type,
		Classifier: interpolate(d.Classifier, props),
		Scope:      d.Scope,
		Optional:   interpolate(d.Optional, props) == "true",
	}
	if dep.Type == "" {
		dep.Type = "jar"
	}
	for _, ex := range d.Exclusions {
		dep.Exclusions = append(dep.Exclusions,
			interpolate(ex.GroupID, props)+":"+interpolate(ex.ArtifactID, props))
	}
	return dep
}
