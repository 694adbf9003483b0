// Package pom reads the dependency list of a Maven POM file.
//
// Only what a library itself brings along at runtime counts: dependencies
// in compile or runtime scope (or with no scope) that are not optional.
// Property references (${name}) are substituted from <properties>, from the
// project's own coordinates (${project.version}, ${project.groupId}) and from
// the parent's. A version that still references an unknown property is
// dropped and the dependency is kept as a version-less coordinate; a group or
// artifact id that cannot be resolved drops the dependency.
package pom

import (
	"bytes"
	"encoding/xml"
	"os"
	"strings"

	"github.com/matzehuels/depsync/pkg/coord"
	"github.com/matzehuels/depsync/pkg/errors"
)

// Project is the subset of a POM that describes dependencies.
type Project struct {
	GroupID              string       `xml:"groupId"`
	ArtifactID           string       `xml:"artifactId"`
	Version              string       `xml:"version"`
	Packaging            string       `xml:"packaging"`
	Name                 string       `xml:"name"`
	Description          string       `xml:"description"`
	URL                  string       `xml:"url"`
	Parent               *Parent      `xml:"parent"`
	Properties           Properties   `xml:"properties"`
	DependencyList       []Dependency `xml:"dependencies>dependency"`
	DependencyManagement []Dependency `xml:"dependencyManagement>dependencies>dependency"`
}

// Parent is the <parent> reference.
type Parent struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

// Dependency is one <dependency> entry.
type Dependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Classifier string `xml:"classifier"`
	Type       string `xml:"type"`
	Scope      string `xml:"scope"`
	Optional   string `xml:"optional"`
}

// Properties holds the free-form <properties> block.
type Properties map[string]string

// UnmarshalXML collects every child element as name -> text.
func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var raw struct {
		Entries []struct {
			XMLName xml.Name
			Value   string `xml:",chardata"`
		} `xml:",any"`
	}
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	props := make(Properties, len(raw.Entries))
	for _, e := range raw.Entries {
		props[e.XMLName.Local] = strings.TrimSpace(e.Value)
	}
	*p = props
	return nil
}

// Parse decodes POM XML.
func Parse(data []byte) (*Project, error) {
	var p Project
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse pom")
	}
	return &p, nil
}

// ParseFile reads and decodes a POM file.
func ParseFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "pom %s", path)
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Coordinate returns the project's own coordinate, inheriting group and
// version from the parent when absent.
func (p *Project) Coordinate() coord.Coordinate {
	c := coord.Coordinate{Group: p.GroupID, Name: p.ArtifactID, Version: p.Version}
	if p.Parent != nil {
		if c.Group == "" {
			c.Group = p.Parent.GroupID
		}
		if c.Version == "" {
			c.Version = p.Parent.Version
		}
	}
	return c
}

// Dependencies returns the runtime dependencies as coordinates, in
// declaration order and without duplicates.
func (p *Project) Dependencies() []coord.Coordinate {
	managed := make(map[string]string, len(p.DependencyManagement))
	for _, d := range p.DependencyManagement {
		g, a := p.expand(d.GroupID), p.expand(d.ArtifactID)
		if v := p.expand(d.Version); resolved(g) && resolved(a) && resolved(v) {
			managed[g+":"+a] = v
		}
	}

	var out []coord.Coordinate
	seen := make(map[string]bool)
	for _, d := range p.DependencyList {
		if !runtimeScope(d.Scope) || strings.TrimSpace(d.Optional) == "true" {
			continue
		}
		g, a := p.expand(d.GroupID), p.expand(d.ArtifactID)
		if !resolved(g) || !resolved(a) || g == "" || a == "" {
			continue
		}
		v := p.expand(d.Version)
		if !resolved(v) {
			v = ""
		}
		if v == "" {
			v = managed[g+":"+a]
		}
		c := coord.Coordinate{Group: g, Name: a, Version: v, Classifier: strings.TrimSpace(d.Classifier)}
		if key := c.Full(); !seen[key] {
			seen[key] = true
			out = append(out, c)
		}
	}
	return out
}

func runtimeScope(scope string) bool {
	switch strings.TrimSpace(scope) {
	case "", "compile", "runtime":
		return true
	default:
		return false
	}
}

func resolved(s string) bool { return !strings.Contains(s, "${") }

// expand substitutes ${...} references. Unknown references are left in
// place so callers can detect them.
func (p *Project) expand(s string) string {
	s = strings.TrimSpace(s)
	for range 8 {
		i := strings.Index(s, "${")
		if i < 0 {
			return s
		}
		j := strings.IndexByte(s[i:], '}')
		if j < 0 {
			return s
		}
		name := s[i+2 : i+j]
		val, ok := p.property(name)
		if !ok {
			return s
		}
		s = s[:i] + val + s[i+j+1:]
	}
	return s
}

func (p *Project) property(name string) (string, bool) {
	if v, ok := p.Properties[name]; ok {
		return v, true
	}
	self := p.Coordinate()
	switch name {
	case "project.version", "pom.version", "version":
		return self.Version, self.Version != ""
	case "project.groupId", "pom.groupId", "groupId":
		return self.Group, self.Group != ""
	case "project.artifactId", "pom.artifactId", "artifactId":
		return self.Name, self.Name != ""
	}
	if p.Parent != nil {
		switch name {
		case "project.parent.version", "parent.version":
			return p.Parent.Version, p.Parent.Version != ""
		case "project.parent.groupId", "parent.groupId":
			return p.Parent.GroupID, p.Parent.GroupID != ""
		}
	}
	return "", false
}
