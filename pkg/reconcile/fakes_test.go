package reconcile

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/depsync/pkg/coord"
	"github.com/matzehuels/depsync/pkg/project"
)

type fakeModule struct {
	path      string
	variants  []project.VariantRef
	artifacts []project.ArtifactRef
}

func newModule(path string, variants ...project.VariantRef) *fakeModule {
	return &fakeModule{path: path, variants: variants, artifacts: []project.ArtifactRef{project.ArtifactMain}}
}

func (m *fakeModule) Path() string { return m.path }

func (m *fakeModule) Variants() []project.VariantRef { return m.variants }

func (m *fakeModule) Artifacts(project.VariantRef) []project.ArtifactRef { return m.artifacts }

func mainOf(v project.VariantRef) project.Container {
	return project.Container{Variant: v, Artifact: project.ArtifactMain}
}

type fakeGraph struct {
	resolved map[project.Container]project.Resolved
	err      error
	calls    int
}

func (g *fakeGraph) Resolve(_ context.Context, _ project.Module, c project.Container) (project.Resolved, error) {
	g.calls++
	if g.err != nil {
		return project.Resolved{}, g.err
	}
	return g.resolved[c], nil
}

func (g *fakeGraph) libs(c project.Container, libs ...string) *fakeGraph {
	r := g.resolved[c]
	r.Libraries = append(r.Libraries, libs...)
	g.resolved[c] = r
	return g
}

func (g *fakeGraph) mods(c project.Container, mods ...project.ModuleDependency) *fakeGraph {
	r := g.resolved[c]
	r.Modules = append(r.Modules, mods...)
	g.resolved[c] = r
	return g
}

func newGraph() *fakeGraph {
	return &fakeGraph{resolved: make(map[project.Container]project.Resolved)}
}

type decl struct {
	coordinate    string
	path          string
	configuration string
}

func libDecl(configuration, coordinate string) *decl {
	return &decl{coordinate: coordinate, configuration: configuration}
}

func modDecl(configuration, path string) *decl {
	return &decl{path: path, configuration: configuration}
}

func (d *decl) CoordinateText() string { return d.coordinate }
func (d *decl) ModulePath() string     { return d.path }
func (d *decl) Configuration() string  { return d.configuration }

func (d *decl) VersionText() (string, bool) {
	parts := strings.Split(d.coordinate, ":")
	if len(parts) < 3 {
		return "", false
	}
	return parts[2], true
}

func (d *decl) family() string {
	parts := strings.Split(d.coordinate, ":")
	if len(parts) < 2 {
		return ""
	}
	return parts[0] + ":" + parts[1]
}

type fakeIndex []*decl

func (idx fakeIndex) FindLibraryMatches(_ project.Module, family string, applies project.ContainerPredicate) []project.DeclaredDependency {
	var out []project.DeclaredDependency
	for _, d := range idx {
		if d.coordinate != "" && d.family() == family && applies(d.configuration) {
			out = append(out, d)
		}
	}
	return out
}

func (idx fakeIndex) FindModuleMatch(_ project.Module, path string, applies project.ContainerPredicate) project.DeclaredDependency {
	for _, d := range idx {
		if d.path == path && applies(d.configuration) {
			return d
		}
	}
	return nil
}

func (idx fakeIndex) Declarations(project.Module) []project.DeclaredDependency {
	out := make([]project.DeclaredDependency, len(idx))
	for i, d := range idx {
		out[i] = d
	}
	return out
}

type fakeDir map[string]string

func (d fakeDir) ResolveModuleByPath(path string) project.TargetRef {
	if t, ok := d[path]; ok {
		return t
	}
	return nil
}

func specs(texts ...string) []coord.Coordinate {
	out := make([]coord.Coordinate, len(texts))
	for i, t := range texts {
		out[i] = coord.MustParse(t)
	}
	return out
}

func newEngine(t *testing.T, cfg Config, opts Options) *Engine {
	t.Helper()
	e, err := New(cfg, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}
