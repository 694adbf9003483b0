package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/depsync/pkg/dag"
)

var kindFromString = map[string]dag.NodeKind{
	"module": dag.NodeKindModule,
	"root":   dag.NodeKindRoot,
}

// ReadJSON decodes a JSON graph from r into a DAG.
//
// Each node must have an "id"; each edge must reference known node IDs.
// Unknown kinds are read as libraries. ReadJSON returns an error for
// malformed JSON, duplicate IDs and unknown edge endpoints; errors wrap the
// dag sentinels so errors.Is works. Cycles are accepted since package
// metadata can contain them; call dag.Validate when that matters.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*dag.DAG, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := dag.New(data.Meta)
	for _, n := range data.Nodes {
		if err := g.AddNode(dag.Node{ID: n.ID, Kind: kindFromString[n.Kind], Meta: n.Meta}); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To, Meta: e.Meta}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded DAG.
func ImportJSON(path string) (*dag.DAG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
