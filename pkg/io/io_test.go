package io

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/depsync/pkg/dag"
)

func sampleGraph(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New(dag.Metadata{"module": ":app"})
	nodes := []dag.Node{
		{ID: ":app", Kind: dag.NodeKindRoot},
		{ID: "g:util:3.0.+", Meta: dag.Metadata{"promoted": true}},
		{ID: "g:util:3.2.1"},
		{ID: ":lib", Kind: dag.NodeKindModule},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	edges := []dag.Edge{
		{From: ":app", To: "g:util:3.0.+"},
		{From: "g:util:3.0.+", To: "g:util:3.2.1", Meta: dag.Metadata{"promotion": true}},
		{From: ":app", To: ":lib"},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestRoundTrip(t *testing.T) {
	g := sampleGraph(t)

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if got.NodeCount() != 4 || got.EdgeCount() != 3 {
		t.Fatalf("got %d nodes, %d edges", got.NodeCount(), got.EdgeCount())
	}
	if got.Meta()["module"] != ":app" {
		t.Errorf("graph meta = %v", got.Meta())
	}
	root, _ := got.Node(":app")
	if !root.IsRoot() {
		t.Error(":app should be the root")
	}
	lib, _ := got.Node(":lib")
	if lib.Kind != dag.NodeKindModule {
		t.Errorf(":lib kind = %v", lib.Kind)
	}
	declared, _ := got.Node("g:util:3.0.+")
	if declared.Meta["promoted"] != true {
		t.Errorf("declared meta = %v", declared.Meta)
	}
	for _, e := range got.Edges() {
		if e.To == "g:util:3.2.1" && e.Meta["promotion"] != true {
			t.Errorf("promotion edge meta = %v", e.Meta)
		}
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := ExportJSON(sampleGraph(t), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	g, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if g.NodeCount() != 4 {
		t.Errorf("NodeCount = %d", g.NodeCount())
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"duplicate node", `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`, dag.ErrDuplicateNodeID},
		{"empty id", `{"nodes":[{"id":""}],"edges":[]}`, dag.ErrInvalidNodeID},
		{"unknown source", `{"nodes":[{"id":"a"}],"edges":[{"from":"x","to":"a"}]}`, dag.ErrUnknownSourceNode},
		{"unknown target", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"x"}]}`, dag.ErrUnknownTargetNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := ReadJSON(strings.NewReader("{")); err == nil {
		t.Error("malformed JSON should fail")
	}
}

func TestReadJSONAcceptsCycles(t *testing.T) {
	input := `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"from":"a","to":"b"},{"from":"b","to":"a"}]}`
	g, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !errors.Is(g.Validate(), dag.ErrGraphHasCycle) {
		t.Error("Validate should report the cycle")
	}
}
