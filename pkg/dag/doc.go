// Package dag provides the directed graph used to export a reconciled module.
//
// # Overview
//
// A [DAG] holds one [Node] per reconciled dependency plus a root node for the
// module itself. Edges point from a dependent to its dependency: the root to
// every declared dependency, and each library to the libraries its package
// metadata lists. Node and edge order follow insertion order so JSON and DOT
// exports are stable across runs.
//
// # Building a Graph
//
//	g := dag.New(nil)
//	_ = g.AddNode(dag.Node{ID: ":app", Kind: dag.NodeKindRoot})
//	_ = g.AddNode(dag.Node{ID: "com.example:lib:1.0"})
//	_ = g.AddEdge(dag.Edge{From: ":app", To: "com.example:lib:1.0"})
//
// AddNode rejects empty and duplicate IDs; AddEdge rejects unknown endpoints
// and ignores repeated edges.
//
// # Metadata
//
// [Metadata] maps carry export attributes such as "version", "promoted" or
// "containers". They are never nil once a node is added.
package dag
