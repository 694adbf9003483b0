package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/depsync/internal/config"
	"github.com/matzehuels/depsync/pkg/errors"
	dsio "github.com/matzehuels/depsync/pkg/io"
	"github.com/matzehuels/depsync/pkg/report"
	"github.com/matzehuels/depsync/pkg/source/snapshot"
	"github.com/matzehuels/depsync/pkg/version"
)

const testSnapshot = `
[[modules]]
path = ":app"
  [[modules.variants]]
  name = "debug"
    [[modules.variants.artifacts]]
    name = "main"
    libraries = ["com.example:util:3.2.1", "com.example:core:1.0"]
    modules = [{ path = ":lib", variant = "debug" }]
  [[modules.declarations]]
  configuration = "implementation"
  coordinate = "com.example:util:3.0.+"
  [[modules.declarations]]
  configuration = "implementation"
  module = ":lib"

[[modules]]
path = ":lib"
  [[modules.variants]]
  name = "debug"
    [[modules.variants.artifacts]]
    name = "main"

[[metadata]]
coordinate = "com.example:util:3.2.1"
dependencies = ["com.example:core:1.0"]
`

// newTestCLI returns a CLI whose caches, reports and local repositories all
// live under a temp dir, plus the path of a freshly written snapshot.
func newTestCLI(t *testing.T) (*CLI, string) {
	t.Helper()
	dir := t.TempDir()
	env := map[string]string{
		"DEPSYNC_CACHE_DIR":  filepath.Join(dir, "cache"),
		"DEPSYNC_MAVEN_REPO": filepath.Join(dir, "m2"),
	}
	path := filepath.Join(dir, "snapshot.toml")
	if err := os.WriteFile(path, []byte(testSnapshot), 0644); err != nil {
		t.Fatal(err)
	}
	return &CLI{
		Logger: newLogger(io.Discard, LogInfo),
		Config: config.FromEnv(func(k string) string { return env[k] }),
		out:    io.Discard,
	}, path
}

func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNodeStatus(t *testing.T) {
	tests := []struct {
		node report.Node
		want string
	}{
		{report.Node{Dangling: true, Declared: true}, "dangling"},
		{report.Node{Promoted: true, Declared: true, Resolved: true}, "promoted"},
		{report.Node{Declared: true, Resolved: true}, "declared"},
		{report.Node{Declared: true}, "unresolved"},
		{report.Node{Resolved: true}, "transitive"},
	}
	for _, tt := range tests {
		if got := nodeStatus(tt.node); got != tt.want {
			t.Errorf("nodeStatus(%+v) = %q, want %q", tt.node, got, tt.want)
		}
	}
}

func TestRenderNodeTable(t *testing.T) {
	out := renderNodeTable([]report.Node{
		{Key: "com.example:util:3.0.+", Declared: true, Promoted: true, DeclaredVersion: "3.0.+", ResolvedVersion: "3.2.1"},
		{Key: ":lib", Kind: "module", Declared: true, Resolved: true, Statements: []string{"implementation :lib"}},
	})
	for _, want := range []string{"Dependency", "com.example:util:3.0.+", "promoted", "3.2.1", "implementation :lib"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestReconcileCommandJSON(t *testing.T) {
	c, path := newTestCLI(t)
	out, err := execute(t, c, "reconcile", path, "--json", "--no-cache")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	var got struct {
		Module string        `json:"module"`
		Nodes  []report.Node `json:"nodes"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.Module != ":app" {
		t.Errorf("module = %q, want :app", got.Module)
	}
	byKey := map[string]report.Node{}
	for _, n := range got.Nodes {
		byKey[n.Key] = n
	}
	if n := byKey["com.example:util:3.0.+"]; !n.Promoted || n.ResolvedVersion != "3.2.1" {
		t.Errorf("declared util = %+v, want promoted to 3.2.1", n)
	}
	if n, ok := byKey[":lib"]; !ok || n.Dangling {
		t.Errorf(":lib = %+v, %v", n, ok)
	}
	if n := byKey["com.example:util:3.2.1"]; len(n.Transitive) != 1 || n.Transitive[0] != "com.example:core:1.0" {
		t.Errorf("util transitive = %v", n.Transitive)
	}
}

func TestReconcileCommandUnknownModule(t *testing.T) {
	c, path := newTestCLI(t)
	if _, err := execute(t, c, "reconcile", path, "--module", ":nope", "--no-cache"); err == nil {
		t.Error("expected error for unknown module")
	}
}

func TestGraphCommandJSON(t *testing.T) {
	c, path := newTestCLI(t)
	out := filepath.Join(t.TempDir(), "graph.json")
	if _, err := execute(t, c, "graph", path, "-f", "json", "-o", out, "--no-cache"); err != nil {
		t.Fatalf("graph: %v", err)
	}

	g, err := dsio.ImportJSON(out)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if _, ok := g.Node(":app"); !ok {
		t.Error("graph should contain the :app root")
	}
	if g.EdgeCount() == 0 {
		t.Error("graph has no edges")
	}
}

func TestGraphCommandUnknownFormat(t *testing.T) {
	c, path := newTestCLI(t)
	if _, err := execute(t, c, "graph", path, "-f", "gif", "--no-cache"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDeclareCommandSave(t *testing.T) {
	c, path := newTestCLI(t)
	if _, err := execute(t, c, "declare", path, ":app", "implementation", "com.example:extra:2.0", "--save", "--no-cache"); err != nil {
		t.Fatalf("declare: %v", err)
	}

	s, err := snapshot.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	app, _ := s.Module(":app")
	found := false
	for _, d := range s.Declarations(app) {
		if d.CoordinateText() == "com.example:extra:2.0" && d.Configuration() == "implementation" {
			found = true
		}
	}
	if !found {
		t.Error("saved snapshot is missing the new declaration")
	}
}

func TestDeclareCommandNoContainer(t *testing.T) {
	c, path := newTestCLI(t)
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = execute(t, c, "declare", path, ":app", "releaseImplementation", "com.example:extra:2.0", "--save", "--no-cache")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("declare err = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("refused declaration changed the snapshot")
	}
}

func TestReportSaveDeduplicates(t *testing.T) {
	c, path := newTestCLI(t)
	for range 2 {
		if _, err := execute(t, c, "report", "save", path); err != nil {
			t.Fatalf("report save: %v", err)
		}
	}

	store, err := report.NewFileStore(c.Config.ReportDir())
	if err != nil {
		t.Fatal(err)
	}
	reports, err := store.List(context.Background(), report.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1 for an unchanged snapshot", len(reports))
	}

	if _, err := execute(t, c, "report", "save", path, "--force"); err != nil {
		t.Fatalf("report save --force: %v", err)
	}
	reports, _ = store.List(context.Background(), report.Filter{})
	if len(reports) != 2 {
		t.Errorf("got %d reports after --force, want 2", len(reports))
	}
}

func TestCachePathCommand(t *testing.T) {
	c, _ := newTestCLI(t)
	out, err := execute(t, c, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != c.Config.HTTPCacheDir() {
		t.Errorf("cache path = %q, want %q", out, c.Config.HTTPCacheDir())
	}
}

func TestNodeListModel(t *testing.T) {
	nodes := []report.Node{
		{Key: "com.example:util:3.0.+", Declared: true, Promoted: true, Message: "promoted to 3.2.1"},
		{Key: "com.example:util:3.2.1", Resolved: true, Transitive: []string{"com.example:core:1.0"}},
		{Key: ":lib", Declared: true, Resolved: true},
	}
	m := NewNodeListModel(":app", nodes)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(NodeListModel)
	if m.Cursor != 1 {
		t.Fatalf("cursor = %d after down, want 1", m.Cursor)
	}
	if view := m.View(); !strings.Contains(view, "com.example:core:1.0") {
		t.Errorf("detail pane should list transitive deps:\n%s", view)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	m = next.(NodeListModel)
	if !m.DeclaredOnly || len(m.Nodes) != 2 || m.Cursor != 0 {
		t.Errorf("after toggle: declaredOnly=%v nodes=%d cursor=%d", m.DeclaredOnly, len(m.Nodes), m.Cursor)
	}

	for range 5 {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(NodeListModel)
	}
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, should stop at last node", m.Cursor)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestShowCommand(t *testing.T) {
	c, path := newTestCLI(t)
	if _, err := execute(t, c, "show", path, "com.example:util", "--no-cache"); err != nil {
		t.Errorf("show family: %v", err)
	}
	if _, err := execute(t, c, "show", path, ":lib", "--no-cache"); err != nil {
		t.Errorf("show module: %v", err)
	}
	_, err := execute(t, c, "show", path, "com.example:missing", "--no-cache")
	if err == nil || !strings.Contains(err.Error(), "has no dependency") {
		t.Errorf("show missing = %v, want not-found error", err)
	}
}

func TestFreshness(t *testing.T) {
	tests := []struct {
		resolved, latest string
		want             string
	}{
		{"1.4.0", "1.4.0", "up to date"},
		{"1.4.0", "2.0.0", "a newer release is available"},
		{"2.1.0", "2.0.0", "resolved version is ahead of the latest release"},
		{"1.4.0", "not-a-version", "versions are not comparable"},
	}
	for _, tt := range tests {
		if got := freshness(version.Relate(tt.resolved, tt.latest)); got != tt.want {
			t.Errorf("freshness(%s, %s) = %q, want %q", tt.resolved, tt.latest, got, tt.want)
		}
	}
}
