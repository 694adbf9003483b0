package snapshot

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/depsync/pkg/coord"
	"github.com/matzehuels/depsync/pkg/errors"
	"github.com/matzehuels/depsync/pkg/project"
)

const appToml = `
[[modules]]
path = ":app"

  [[modules.variants]]
  name = "debug"

    [[modules.variants.artifacts]]
    name = "main"
    libraries = ["com.example:util:3.2.1", "com.squareup.okhttp3:okhttp:4.12.0"]
    modules = [{ path = ":lib", variant = "debug" }]

    [[modules.variants.artifacts]]
    name = "unit-test"
    libraries = ["junit:junit:4.13.2"]

  [[modules.declarations]]
  configuration = "implementation"
  coordinate = "com.example:util:3.+"

  [[modules.declarations]]
  configuration = "implementation"
  module = ":lib"

  [[modules.declarations]]
  configuration = "testImplementation"
  catalog = "libs.junit"

  [[modules.declarations]]
  configuration = "implementation"
  catalog = "libs.bundles.network"

[[modules]]
path = ":lib"

  [[modules.variants]]
  name = "debug"

    [[modules.variants.artifacts]]
    name = "main"

[[metadata]]
coordinate = "com.example:util:3.2.1"
dependencies = ["com.example:core:1.0"]

[catalog.versions]
okhttp = "4.12.0"

[catalog.libraries]
junit = "junit:junit:4.13.2"
okhttp = { module = "com.squareup.okhttp3:okhttp", version.ref = "okhttp" }
okhttp-logging = { module = "com.squareup.okhttp3:logging-interceptor", version.ref = "okhttp" }

[catalog.bundles]
network = ["okhttp", "okhttp-logging"]
`

func mustParse(t *testing.T) *Snapshot {
	t.Helper()
	s, err := Parse([]byte(appToml), FormatTOML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func TestParseTOML(t *testing.T) {
	s := mustParse(t)

	if got := len(s.Modules()); got != 2 {
		t.Fatalf("len(Modules) = %d, want 2", got)
	}
	app, ok := s.Module(":app")
	if !ok {
		t.Fatal("Module(:app) not found")
	}
	if got := app.Containers(); len(got) != 2 {
		t.Errorf("Containers = %v, want 2", got)
	}
	// bundle expands to two statements
	if got := len(s.Declarations(app)); got != 5 {
		t.Errorf("len(Declarations) = %d, want 5", got)
	}
	if s.Hash() == "" {
		t.Error("Hash should not be empty")
	}
	if s.Catalog() == nil {
		t.Error("inline catalog not loaded")
	}
}

func TestResolve(t *testing.T) {
	s := mustParse(t)
	app, _ := s.Module(":app")

	r, err := s.Resolve(context.Background(), app, project.Container{Variant: "debug", Artifact: project.ArtifactMain})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(r.Libraries) != 2 || len(r.Modules) != 1 {
		t.Fatalf("Resolve = %+v", r)
	}
	if r.Modules[0].Path != ":lib" || r.Modules[0].Variant != "debug" {
		t.Errorf("module dependency = %+v", r.Modules[0])
	}

	r, err = s.Resolve(context.Background(), app, project.Container{Variant: "release", Artifact: project.ArtifactMain})
	if err != nil || len(r.Libraries) != 0 {
		t.Errorf("unknown container = %+v, %v", r, err)
	}
}

func TestDeclaredIndex(t *testing.T) {
	s := mustParse(t)
	app, _ := s.Module(":app")
	cfg := project.GradleConfigurations{}
	main := project.PredicateFor(cfg, project.Container{Variant: "debug", Artifact: project.ArtifactMain})
	unit := project.PredicateFor(cfg, project.Container{Variant: "debug", Artifact: project.ArtifactUnitTest})

	matches := s.FindLibraryMatches(app, "com.example:util", main)
	if len(matches) != 1 {
		t.Fatalf("FindLibraryMatches = %d, want 1", len(matches))
	}
	if v, ok := matches[0].VersionText(); !ok || v != "3.+" {
		t.Errorf("VersionText = %q, %v", v, ok)
	}
	if got := s.FindLibraryMatches(app, "junit:junit", main); len(got) != 0 {
		t.Errorf("testImplementation should not apply to main, got %d", len(got))
	}
	if got := s.FindLibraryMatches(app, "junit:junit", unit); len(got) != 1 {
		t.Errorf("testImplementation should apply to unit-test, got %d", len(got))
	}
	if d := s.FindModuleMatch(app, ":lib", main); d == nil || d.ModulePath() != ":lib" {
		t.Errorf("FindModuleMatch = %v", d)
	}
	if d := s.FindModuleMatch(app, ":other", main); d != nil {
		t.Errorf("FindModuleMatch(:other) = %v, want nil", d)
	}
}

func TestResolveModuleByPath(t *testing.T) {
	s := mustParse(t)
	if ref := s.ResolveModuleByPath(":lib"); ref == nil {
		t.Error(":lib should resolve")
	}
	if ref := s.ResolveModuleByPath(":missing"); ref != nil {
		t.Errorf(":missing = %v, want untyped nil", ref)
	}
}

func TestMetadata(t *testing.T) {
	s := mustParse(t)
	specs, err := s.ReadTransitiveSpecs(context.Background(), coord.MustParse("com.example:util:3.2.1"))
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 1 || specs[0].String() != "com.example:core:1.0" {
		t.Errorf("specs = %v", specs)
	}
	specs, _ = s.ReadTransitiveSpecs(context.Background(), coord.MustParse("x:y:1"))
	if len(specs) != 0 {
		t.Errorf("unknown coordinate specs = %v", specs)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad module path", "[[modules]]\npath = \"app\"\n"},
		{"duplicate module", "[[modules]]\npath = \":a\"\n[[modules]]\npath = \":a\"\n"},
		{"unknown key", "[[modules]]\npath = \":a\"\ncolour = \"red\"\n"},
		{"two targets", "[[modules]]\npath = \":a\"\n[[modules.declarations]]\nconfiguration = \"api\"\ncoordinate = \"g:n:1\"\nmodule = \":b\"\n"},
		{"no target", "[[modules]]\npath = \":a\"\n[[modules.declarations]]\nconfiguration = \"api\"\n"},
		{"catalog without catalog", "[[modules]]\npath = \":a\"\n[[modules.declarations]]\nconfiguration = \"api\"\ncatalog = \"libs.x\"\n"},
		{"bad metadata", "[[metadata]]\ncoordinate = \"nope\"\ndependencies = []\n"},
		{"duplicate variant", "[[modules]]\npath = \":a\"\n[[modules.variants]]\nname = \"debug\"\n[[modules.variants]]\nname = \"debug\"\n"},
		{"not toml", "[[modules"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), FormatTOML)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidSnapshot) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidSnapshot)
			}
		})
	}
}

func TestParseYAMLAndJSON(t *testing.T) {
	yamlDoc := `
modules:
  - path: ":app"
    variants:
      - name: release
        artifacts:
          - name: main
            libraries: ["g:n:1.0"]
    declarations:
      - configuration: implementation
        coordinate: "g:n:1.+"
`
	jsonDoc := `{"modules":[{"path":":app","variants":[{"name":"release","artifacts":[{"name":"main","libraries":["g:n:1.0"]}]}],"declarations":[{"configuration":"implementation","coordinate":"g:n:1.+"}]}]}`

	for _, tc := range []struct {
		format Format
		doc    string
	}{{FormatYAML, yamlDoc}, {FormatJSON, jsonDoc}} {
		t.Run(string(tc.format), func(t *testing.T) {
			s, err := Parse([]byte(tc.doc), tc.format)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			app, ok := s.Module(":app")
			if !ok {
				t.Fatal(":app missing")
			}
			if got := len(s.Declarations(app)); got != 1 {
				t.Errorf("len(Declarations) = %d", got)
			}
		})
	}
}

func TestAddDeclaration(t *testing.T) {
	s := mustParse(t)
	app, _ := s.Module(":app")

	decls, err := s.AddDeclaration(":app", "implementation", "com.example:extra:1.0")
	if err != nil {
		t.Fatalf("AddDeclaration: %v", err)
	}
	if len(decls) != 1 || decls[0].CoordinateText() != "com.example:extra:1.0" {
		t.Fatalf("decls = %v", decls)
	}
	main := project.PredicateFor(project.GradleConfigurations{}, project.Container{Variant: "debug", Artifact: project.ArtifactMain})
	if got := s.FindLibraryMatches(app, "com.example:extra", main); len(got) != 1 || got[0] != decls[0] {
		t.Errorf("added statement not indexed: %v", got)
	}

	if _, err := s.AddDeclaration(":nope", "implementation", "g:n:1"); !errors.Is(err, errors.ErrCodeModuleNotFound) {
		t.Errorf("unknown module err = %v", err)
	}
	if _, err := s.AddDeclaration(":app", "implementation", "bad coordinate"); err == nil {
		t.Error("malformed coordinate should fail")
	}

	decls, err = s.AddDeclaration(":app", "implementation", "libs.bundles.network")
	if err != nil || len(decls) != 2 {
		t.Errorf("bundle AddDeclaration = %v, %v", decls, err)
	}
}

func TestContainersFor(t *testing.T) {
	s := mustParse(t)
	app, _ := s.Module(":app")
	cfg := project.GradleConfigurations{}

	if got := ContainersFor(app, "implementation", cfg); len(got) != 2 {
		t.Errorf("implementation = %v", got)
	}
	got := ContainersFor(app, "testImplementation", cfg)
	if len(got) != 1 || got[0].Artifact != project.ArtifactUnitTest {
		t.Errorf("testImplementation = %v", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := mustParse(t)
	if _, err := s.AddDeclaration(":lib", "api", "g:n:2.0"); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	for _, name := range []string{"snap.toml", "snap.yaml", "snap.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := s.Save(path); err != nil {
				t.Fatalf("Save: %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			lib, _ := loaded.Module(":lib")
			if got := len(loaded.Declarations(lib)); got != 1 {
				t.Errorf("lib declarations = %d, want 1", got)
			}
		})
	}
}

func TestLoadCatalogFile(t *testing.T) {
	dir := t.TempDir()
	catalog := "[libraries]\nutil = \"com.example:util:3.+\"\n"
	if err := os.WriteFile(filepath.Join(dir, "libs.versions.toml"), []byte(catalog), 0644); err != nil {
		t.Fatal(err)
	}
	doc := "catalog_file = \"libs.versions.toml\"\n[[modules]]\npath = \":app\"\n[[modules.declarations]]\nconfiguration = \"api\"\ncatalog = \"libs.util\"\n"
	path := filepath.Join(dir, "snapshot.toml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	app, _ := s.Module(":app")
	decls := s.Declarations(app)
	if len(decls) != 1 || decls[0].CoordinateText() != "com.example:util:3.+" {
		t.Errorf("decls = %v", decls)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDeclarationString(t *testing.T) {
	s := mustParse(t)
	app, _ := s.Module(":app")
	var buf bytes.Buffer
	for _, d := range s.Declarations(app) {
		buf.WriteString(d.(*Declaration).String())
		buf.WriteByte('\n')
	}
	want := "implementation(\"com.example:util:3.+\")\n" +
		"implementation(project(\":lib\"))\n" +
		"testImplementation(libs.junit)\n" +
		"implementation(libs.bundles.network)\n" +
		"implementation(libs.bundles.network)\n"
	if got := buf.String(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}
