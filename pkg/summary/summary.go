package summary

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/licensetower/pkg/errors"
	"github.com/matzehuels/licensetower/pkg/license"
)

// Format selects the document encoding.
type Format int

const (
	FormatXML Format = iota
	FormatJSON
)

// FormatFor picks the format from a file extension. Anything that is not
// ".json" is treated as XML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatXML
}

type document struct {
	XMLName      xml.Name     `xml:"licenseSummary" json:"-"`
	Dependencies []dependency `xml:"dependencies>dependency" json:"dependencies"`
}

type dependency struct {
	GroupID    string        `xml:"groupId" json:"groupId"`
	ArtifactID string        `xml:"artifactId" json:"artifactId"`
	Version    string        `xml:"version,omitempty" json:"version,omitempty"`
	Licenses   []licenseNode `xml:"licenses>license" json:"licenses"`
}

type licenseNode struct {
	Name string `xml:"name,omitempty" json:"name,omitempty"`
	URL  string `xml:"url" json:"url"`
}

// Parse decodes an XML summary document.
func Parse(r io.Reader) ([]license.Project, error) {
	return Decode(r, FormatXML)
}

// ParseJSON decodes a JSON summary document.
func ParseJSON(r io.Reader) ([]license.Project, error) {
	return Decode(r, FormatJSON)
}

// Decode decodes a summary document in the given format.
// Structural problems are reported with [errors.ErrCodeMalformedSummary].
func Decode(r io.Reader, f Format) ([]license.Project, error) {
	var doc document
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	default:
		err = xml.NewDecoder(r).Decode(&doc)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedSummary, err, "decode license summary")
	}
	return doc.projects()
}

// ReadFile parses the summary document at path, choosing the format from
// the file extension.
func ReadFile(path string) ([]license.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedSummary, err, "open license summary %s", path)
	}
	defer f.Close()

	projects, err := Decode(f, FormatFor(path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedSummary, err, "parse %s", path)
	}
	return projects, nil
}

func (d *document) projects() ([]license.Project, error) {
	out := make([]license.Project, 0, len(d.Dependencies))
	for i, dep := range d.Dependencies {
		groupID := strings.TrimSpace(dep.GroupID)
		artifactID := strings.TrimSpace(dep.ArtifactID)
		if groupID == "" || artifactID == "" {
			return nil, errors.New(errors.ErrCodeMalformedSummary, "dependency %d: groupId and artifactId are required", i+1)
		}
		p := license.Project{
			Identity: license.Identity{Group: groupID, Artifact: artifactID},
			Version:  strings.TrimSpace(dep.Version),
		}
		for j, l := range dep.Licenses {
			if strings.TrimSpace(l.URL) == "" {
				return nil, errors.New(errors.ErrCodeMalformedSummary, "dependency %s: license %d has no url", p.Key(), j+1)
			}
			// Names and URLs are kept verbatim so that a written summary reads back unchanged.
			p.Licenses = append(p.Licenses, license.License{Name: l.Name, URL: l.URL})
		}
		out = append(out, p)
	}
	return out, nil
}

func newDocument(projects []license.Project) document {
	doc := document{Dependencies: make([]dependency, 0, len(projects))}
	for _, p := range projects {
		dep := dependency{
			GroupID:    p.Group,
			ArtifactID: p.Artifact,
			Version:    p.Version,
			Licenses:   make([]licenseNode, 0, len(p.Licenses)),
		}
		for _, l := range p.Licenses {
			dep.Licenses = append(dep.Licenses, licenseNode{Name: l.Name, URL: l.URL})
		}
		doc.Dependencies = append(doc.Dependencies, dep)
	}
	return doc
}

// Encode writes projects to w in the given format.
func Encode(w io.Writer, projects []license.Project, f Format) error {
	doc := newDocument(projects)
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		if _, err := io.WriteString(w, xml.Header); err != nil {
			return err
		}
		enc := xml.NewEncoder(w)
		enc.Indent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}
}

// Write serializes projects to path, creating parent directories as needed.
// The document is written to a temporary file and renamed into place, so a
// failed write never truncates an existing summary.
// Failures are reported with [errors.ErrCodeWriteSummary].
func Write(projects []license.Project, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeWriteSummary, err, "create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteSummary, err, "write %s", path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Encode(tmp, projects, FormatFor(path)); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeWriteSummary, err, "encode %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteSummary, err, "write %s", path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeWriteSummary, err, "write %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(errors.ErrCodeWriteSummary, err, "write %s", path)
	}
	return nil
}

// Index builds the reconciliation map keyed by "group:artifact".
// Later entries replace earlier ones with the same key.
func Index(projects []license.Project) map[string]license.Project {
	m := make(map[string]license.Project, len(projects))
	for _, p := range projects {
		m[p.Key()] = p
	}
	return m
}
