package snapshot

import (
	"strings"

	"github.com/matzehuels/depsync/pkg/errors"
	"github.com/matzehuels/depsync/pkg/project"
)

// Module is a snapshot module. It implements project.Module and is the
// project.TargetRef the snapshot hands out for module dependencies.
type Module struct {
	spec         *ModuleSpec
	variants     []project.VariantRef
	artifacts    map[project.VariantRef][]project.ArtifactRef
	byContainer  map[project.Container]*ArtifactSpec
	declarations []*Declaration
}

func newModule(spec *ModuleSpec) (*Module, error) {
	m := &Module{
		spec:        spec,
		artifacts:   make(map[project.VariantRef][]project.ArtifactRef),
		byContainer: make(map[project.Container]*ArtifactSpec),
	}
	for i := range spec.Variants {
		v := &spec.Variants[i]
		ref := project.VariantRef(v.Name)
		if v.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidSnapshot, "%s variants[%d] has no name", spec.Path, i)
		}
		if _, dup := m.artifacts[ref]; dup {
			return nil, errors.New(errors.ErrCodeInvalidSnapshot, "%s has duplicate variant %s", spec.Path, v.Name)
		}
		m.variants = append(m.variants, ref)
		m.artifacts[ref] = []project.ArtifactRef{}
		for j := range v.Artifacts {
			a := &v.Artifacts[j]
			c := project.Container{Variant: ref, Artifact: project.ArtifactRef(a.Name)}
			if a.Name == "" {
				return nil, errors.New(errors.ErrCodeInvalidSnapshot, "%s %s artifacts[%d] has no name", spec.Path, v.Name, j)
			}
			if _, dup := m.byContainer[c]; dup {
				return nil, errors.New(errors.ErrCodeInvalidSnapshot, "%s has duplicate artifact %s", spec.Path, c)
			}
			m.artifacts[ref] = append(m.artifacts[ref], c.Artifact)
			m.byContainer[c] = a
		}
	}
	return m, nil
}

// Path implements project.Module.
func (m *Module) Path() string { return m.spec.Path }

// Variants implements project.Module.
func (m *Module) Variants() []project.VariantRef { return m.variants }

// Artifacts implements project.Module.
func (m *Module) Artifacts(v project.VariantRef) []project.ArtifactRef { return m.artifacts[v] }

// Containers returns every (variant, artifact) pair.
func (m *Module) Containers() []project.Container {
	var out []project.Container
	for _, v := range m.variants {
		for _, a := range m.artifacts[v] {
			out = append(out, project.Container{Variant: v, Artifact: a})
		}
	}
	return out
}

// String returns the module path.
func (m *Module) String() string { return m.spec.Path }

func (m *Module) artifact(c project.Container) (*ArtifactSpec, bool) {
	a, ok := m.byContainer[c]
	return a, ok
}

// Declaration is a build-script statement. Handles are compared by pointer.
type Declaration struct {
	configuration string
	coordinate    string
	module        string
	family        string
	version       string
	alias         string
}

func newLibraryDeclaration(configuration, text, alias string) *Declaration {
	d := &Declaration{configuration: configuration, coordinate: text, alias: alias}
	body, _, _ := strings.Cut(text, "@")
	parts := strings.Split(body, ":")
	if len(parts) >= 2 {
		d.family = parts[0] + ":" + parts[1]
	}
	if len(parts) >= 3 {
		d.version = parts[2]
	}
	return d
}

// CoordinateText implements project.DeclaredDependency.
func (d *Declaration) CoordinateText() string { return d.coordinate }

// ModulePath implements project.DeclaredDependency.
func (d *Declaration) ModulePath() string { return d.module }

// Configuration implements project.DeclaredDependency.
func (d *Declaration) Configuration() string { return d.configuration }

// VersionText implements project.DeclaredDependency.
func (d *Declaration) VersionText() (string, bool) { return d.version, d.version != "" }

// Alias returns the catalog accessor the statement came from, if any.
func (d *Declaration) Alias() string { return d.alias }

// String renders the statement the way a Gradle build file would.
func (d *Declaration) String() string {
	switch {
	case d.module != "":
		return d.configuration + "(project(\"" + d.module + "\"))"
	case d.alias != "":
		return d.configuration + "(" + d.alias + ")"
	default:
		return d.configuration + "(\"" + d.coordinate + "\")"
	}
}
