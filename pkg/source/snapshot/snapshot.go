// Package snapshot loads a project model from a single TOML, YAML or JSON
// document and serves it to the reconciliation engine.
//
// A snapshot captures what a build tool knows after sync: the modules, their
// variants and artifacts, what the resolver produced per artifact, and the
// dependency statements of each build file. [Snapshot] implements every
// collaborator the engine consumes: project.ResolvedGraph,
// project.DeclaredIndex, project.ModuleDirectory and, through its
// [[metadata]] entries, project.MetadataReader.
//
//	[[modules]]
//	path = ":app"
//
//	  [[modules.variants]]
//	  name = "debug"
//
//	    [[modules.variants.artifacts]]
//	    name = "main"
//	    libraries = ["com.example:util:3.2.1"]
//	    modules = [{ path = ":lib", variant = "debug" }]
//
//	  [[modules.declarations]]
//	  configuration = "implementation"
//	  coordinate = "com.example:util:3.+"
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/depsync/pkg/cache"
	"github.com/matzehuels/depsync/pkg/coord"
	"github.com/matzehuels/depsync/pkg/errors"
	"github.com/matzehuels/depsync/pkg/project"
	"github.com/matzehuels/depsync/pkg/source/catalog"
)

// Format names a snapshot encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension; unknown extensions are
// read as TOML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatTOML
	}
}

// Snapshot is a loaded, validated project model.
type Snapshot struct {
	doc     Document
	hash    string
	catalog *catalog.Catalog

	modules  []*Module
	byPath   map[string]*Module
	metadata map[string][]coord.Coordinate
}

// Load reads and validates a snapshot file. A catalog_file is resolved
// relative to the snapshot's directory.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "snapshot %s", path)
	}
	if err != nil {
		return nil, err
	}
	return parse(data, FormatOf(path), filepath.Dir(path))
}

// Parse decodes and validates a snapshot. Relative catalog files are
// resolved against the working directory.
func Parse(data []byte, format Format) (*Snapshot, error) {
	return parse(data, format, ".")
}

func parse(data []byte, format Format, dir string) (*Snapshot, error) {
	var doc Document
	if err := decode(data, format, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "decode %s snapshot", format)
	}

	s := &Snapshot{doc: doc, hash: cache.Hash(data)}
	if err := s.loadCatalog(dir); err != nil {
		return nil, err
	}
	if err := s.index(); err != nil {
		return nil, err
	}
	return s, nil
}

func decode(data []byte, format Format, doc *Document) error {
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil && err != io.EOF {
			return err
		}
		return nil
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(doc)
	default:
		md, err := toml.Decode(string(data), doc)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.New(errors.ErrCodeInvalidSnapshot, "unknown key %s", undecoded[0])
		}
		return nil
	}
}

func (s *Snapshot) loadCatalog(dir string) error {
	switch {
	case s.doc.Catalog != nil && s.doc.CatalogFile != "":
		return errors.New(errors.ErrCodeInvalidSnapshot, "catalog and catalog_file are mutually exclusive")
	case s.doc.Catalog != nil:
		c, err := catalog.FromRaw(*s.doc.Catalog)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "inline catalog")
		}
		s.catalog = c
	case s.doc.CatalogFile != "":
		path := s.doc.CatalogFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		c, err := catalog.Load(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "catalog_file")
		}
		s.catalog = c
	}
	return nil
}

func (s *Snapshot) index() error {
	s.byPath = make(map[string]*Module, len(s.doc.Modules))
	for i := range s.doc.Modules {
		spec := &s.doc.Modules[i]
		if err := errors.ValidateModulePath(spec.Path); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "modules[%d]", i)
		}
		if _, dup := s.byPath[spec.Path]; dup {
			return errors.New(errors.ErrCodeInvalidSnapshot, "duplicate module %s", spec.Path)
		}
		m, err := newModule(spec)
		if err != nil {
			return err
		}
		for j, d := range spec.Declarations {
			decls, err := s.declarations(d)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "%s declarations[%d]", spec.Path, j)
			}
			m.declarations = append(m.declarations, decls...)
		}
		s.modules = append(s.modules, m)
		s.byPath[spec.Path] = m
	}

	s.metadata = make(map[string][]coord.Coordinate, len(s.doc.Metadata))
	for i, md := range s.doc.Metadata {
		c, err := coord.Parse(md.Coordinate)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "metadata[%d]", i)
		}
		var specs []coord.Coordinate
		for _, dep := range md.Dependencies {
			spec, err := coord.ParseQuery(dep)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "metadata[%d] %s", i, md.Coordinate)
			}
			specs = append(specs, spec)
		}
		s.metadata[c.String()] = specs
	}
	return nil
}

// declarations expands a spec into statements; catalog bundles yield one per
// member.
func (s *Snapshot) declarations(d DeclarationSpec) ([]*Declaration, error) {
	set := 0
	for _, v := range []string{d.Coordinate, d.Module, d.Catalog} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, errors.New(errors.ErrCodeInvalidSnapshot, "exactly one of coordinate, module or catalog is required")
	}
	if d.Configuration == "" {
		return nil, errors.New(errors.ErrCodeInvalidSnapshot, "configuration is required")
	}

	switch {
	case d.Module != "":
		if err := errors.ValidateModulePath(d.Module); err != nil {
			return nil, err
		}
		return []*Declaration{{configuration: d.Configuration, module: d.Module}}, nil
	case d.Catalog != "":
		if s.catalog == nil {
			return nil, errors.New(errors.ErrCodeInvalidSnapshot, "%s used without a version catalog", d.Catalog)
		}
		coords, err := s.catalog.Resolve(d.Catalog)
		if err != nil {
			return nil, err
		}
		out := make([]*Declaration, len(coords))
		for i, c := range coords {
			out[i] = newLibraryDeclaration(d.Configuration, c, d.Catalog)
		}
		return out, nil
	default:
		if _, err := coord.ParseQuery(d.Coordinate); err != nil {
			return nil, err
		}
		return []*Declaration{newLibraryDeclaration(d.Configuration, d.Coordinate, "")}, nil
	}
}

// Hash returns the SHA-256 of the snapshot source.
func (s *Snapshot) Hash() string { return s.hash }

// Document returns the decoded document including added declarations.
func (s *Snapshot) Document() Document { return s.doc }

// Modules returns the modules in document order.
func (s *Snapshot) Modules() []*Module { return s.modules }

// Module returns the module at path.
func (s *Snapshot) Module(path string) (*Module, bool) {
	m, ok := s.byPath[path]
	return m, ok
}

// Catalog returns the version catalog, or nil.
func (s *Snapshot) Catalog() *catalog.Catalog { return s.catalog }

// ResolveModuleByPath implements project.ModuleDirectory.
func (s *Snapshot) ResolveModuleByPath(path string) project.TargetRef {
	if m, ok := s.byPath[path]; ok {
		return m
	}
	return nil
}

// Resolve implements project.ResolvedGraph.
func (s *Snapshot) Resolve(_ context.Context, pm project.Module, c project.Container) (project.Resolved, error) {
	m, ok := s.byPath[pm.Path()]
	if !ok {
		return project.Resolved{}, errors.New(errors.ErrCodeModuleNotFound, "module %s is not in the snapshot", pm.Path())
	}
	a, ok := m.artifact(c)
	if !ok {
		return project.Resolved{}, nil
	}
	out := project.Resolved{Libraries: a.Libraries}
	for _, ref := range a.Modules {
		out.Modules = append(out.Modules, project.ModuleDependency{Path: ref.Path, Variant: ref.Variant})
	}
	return out, nil
}

// ReadTransitiveSpecs implements project.MetadataReader from the snapshot's
// metadata entries.
func (s *Snapshot) ReadTransitiveSpecs(_ context.Context, c coord.Coordinate) ([]coord.Coordinate, error) {
	return s.metadata[c.String()], nil
}

// HasMetadata reports whether the snapshot carries any metadata entries.
func (s *Snapshot) HasMetadata() bool { return len(s.metadata) > 0 }

// FindLibraryMatches implements project.DeclaredIndex.
func (s *Snapshot) FindLibraryMatches(pm project.Module, family string, applies project.ContainerPredicate) []project.DeclaredDependency {
	m, ok := s.byPath[pm.Path()]
	if !ok {
		return nil
	}
	var out []project.DeclaredDependency
	for _, d := range m.declarations {
		if d.module == "" && d.family == family && applies(d.configuration) {
			out = append(out, d)
		}
	}
	return out
}

// FindModuleMatch implements project.DeclaredIndex.
func (s *Snapshot) FindModuleMatch(pm project.Module, path string, applies project.ContainerPredicate) project.DeclaredDependency {
	m, ok := s.byPath[pm.Path()]
	if !ok {
		return nil
	}
	for _, d := range m.declarations {
		if d.module == path && applies(d.configuration) {
			return d
		}
	}
	return nil
}

// Declarations implements project.DeclaredIndex.
func (s *Snapshot) Declarations(pm project.Module) []project.DeclaredDependency {
	m, ok := s.byPath[pm.Path()]
	if !ok {
		return nil
	}
	out := make([]project.DeclaredDependency, len(m.declarations))
	for i, d := range m.declarations {
		out[i] = d
	}
	return out
}

// AddDeclaration appends a statement to a module, as an edit of its build
// file would. text is a coordinate, a module path (":lib") or a catalog
// accessor. The new statements are returned; bundles yield several.
func (s *Snapshot) AddDeclaration(modulePath, configuration, text string) ([]*Declaration, error) {
	m, ok := s.byPath[modulePath]
	if !ok {
		return nil, errors.New(errors.ErrCodeModuleNotFound, "module %s is not in the snapshot", modulePath)
	}

	spec := DeclarationSpec{Configuration: configuration}
	switch {
	case strings.HasPrefix(text, ":"):
		spec.Module = text
	case catalog.IsReference(text):
		spec.Catalog = text
	default:
		spec.Coordinate = text
	}
	decls, err := s.declarations(spec)
	if err != nil {
		return nil, err
	}

	m.declarations = append(m.declarations, decls...)
	for i := range s.doc.Modules {
		if s.doc.Modules[i].Path == modulePath {
			s.doc.Modules[i].Declarations = append(s.doc.Modules[i].Declarations, spec)
		}
	}
	return decls, nil
}

// ContainersFor returns the containers of m that configuration applies to.
func ContainersFor(m project.Module, configuration string, cfg project.Configurations) []project.Container {
	var out []project.Container
	for _, v := range m.Variants() {
		for _, a := range m.Artifacts(v) {
			c := project.Container{Variant: v, Artifact: a}
			if cfg.AppliesTo(configuration, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// Encode writes the document in the given format.
func (s *Snapshot) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s.doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s.doc)
	default:
		return toml.NewEncoder(w).Encode(s.doc)
	}
}

// Save writes the document back to path in the format its extension names.
func (s *Snapshot) Save(path string) error {
	var buf bytes.Buffer
	if err := s.Encode(&buf, FormatOf(path)); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
