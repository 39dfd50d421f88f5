package maven

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// pomProject is the subset of the Maven POM model licensetower reads.
type pomProject struct {
	XMLName      xml.Name        `xml:"project"`
	Parent       *pomParent      `xml:"parent"`
	GroupID      string          `xml:"groupId"`
	ArtifactID   string          `xml:"artifactId"`
	Version      string          `xml:"version"`
	Packaging    string          `xml:"packaging"`
	Name         string          `xml:"name"`
	Licenses     []pomLicense    `xml:"licenses>license"`
	Properties   pomProperties   `xml:"properties"`
	Managed      []pomDependency `xml:"dependencyManagement>dependencies>dependency"`
	Dependencies []pomDependency `xml:"dependencies>dependency"`
}

type pomParent struct {
	GroupID      string  `xml:"groupId"`
	ArtifactID   string  `xml:"artifactId"`
	Version      string  `xml:"version"`
	RelativePath *string `xml:"relativePath"` // nil: default "../pom.xml"; "": no local lookup
}

func (p *pomParent) String() string {
	return p.GroupID + ":" + p.ArtifactID + ":" + p.Version
}

type pomLicense struct {
	Name string `xml:"name"`
	URL  string `xml:"url"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Type       string `xml:"type"`
	Classifier string `xml:"classifier"`
	Scope      string `xml:"scope"`
	Optional   string `xml:"optional"`

	Exclusions []pomExclusion `xml:"exclusions>exclusion"`
}

type pomExclusion struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

// pomProperties decodes the free-form <properties> element.
type pomProperties map[string]string

func (p *pomProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	props := make(pomProperties)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var v string
			if err := d.DecodeElement(&v, &t); err != nil {
				return err
			}
			props[t.Name.Local] = strings.TrimSpace(v)
		case xml.EndElement:
			*p = props
			return nil
		}
	}
}

// parsePOM decodes a POM document. Non-UTF-8 documents are transcoded
// according to their XML declaration.
func parsePOM(data []byte) (*pomProject, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader
	dec.Strict = false

	var pom pomProject
	if err := dec.Decode(&pom); err != nil {
		return nil, fmt.Errorf("parse pom: %w", err)
	}
	pom.trim()
	return &pom, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return input, nil
	}
	return enc.NewDecoder().Reader(input), nil
}

func (p *pomProject) trim() {
	p.GroupID = strings.TrimSpace(p.GroupID)
	p.ArtifactID = strings.TrimSpace(p.ArtifactID)
	p.Version = strings.TrimSpace(p.Version)
	if p.Parent != nil {
		p.Parent.GroupID = strings.TrimSpace(p.Parent.GroupID)
		p.Parent.ArtifactID = strings.TrimSpace(p.Parent.ArtifactID)
		p.Parent.Version = strings.TrimSpace(p.Parent.Version)
	}
	for i := range p.Licenses {
		// Names are often wrapped over several lines.
		p.Licenses[i].Name = strings.Join(strings.Fields(p.Licenses[i].Name), " ")
		p.Licenses[i].URL = strings.TrimSpace(p.Licenses[i].URL)
	}
	for _, deps := range [][]pomDependency{p.Managed, p.Dependencies} {
		for i := range deps {
			d := &deps[i]
			d.GroupID = strings.TrimSpace(d.GroupID)
			d.ArtifactID = strings.TrimSpace(d.ArtifactID)
			d.Version = strings.TrimSpace(d.Version)
			d.Type = strings.TrimSpace(d.Type)
			d.Classifier = strings.TrimSpace(d.Classifier)
			d.Scope = strings.TrimSpace(d.Scope)
			d.Optional = strings.TrimSpace(d.Optional)
			for j := range d.Exclusions {
				d.Exclusions[j].GroupID = strings.TrimSpace(d.Exclusions[j].GroupID)
				d.Exclusions[j].ArtifactID = strings.TrimSpace(d.Exclusions[j].ArtifactID)
			}
		}
	}
}

// groupID returns the declared groupId, inherited from the parent when absent.
func (p *pomProject) groupID() string {
	if p.GroupID == "" && p.Parent != nil {
		return p.Parent.GroupID
	}
	return p.GroupID
}

// version returns the declared version, inherited from the parent when absent.
func (p *pomProject) version() string {
	if p.Version == "" && p.Parent != nil {
		return p.Parent.Version
	}
	return p.Version
}
