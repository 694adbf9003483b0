package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	// Cycles are detected using depth-first search with white/gray/black
	// coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the graph,
// such as versions, promotion flags or container lists. Metadata maps are
// never nil once a node or edge has been added.
type Metadata map[string]any

// NodeKind distinguishes the module root from library and module-dependency
// nodes.
type NodeKind int

const (
	// NodeKindLibrary is an external library dependency.
	NodeKindLibrary NodeKind = iota
	// NodeKindModule is a dependency on another project module.
	NodeKindModule
	// NodeKindRoot is the module whose dependencies the graph describes.
	NodeKindRoot
)

// String returns the lower-case kind name.
func (k NodeKind) String() string {
	switch k {
	case NodeKindModule:
		return "module"
	case NodeKindRoot:
		return "root"
	default:
		return "library"
	}
}

// Node is a vertex of the dependency graph.
type Node struct {
	ID   string   // Unique identifier (coordinate text or module path)
	Kind NodeKind // Library, module dependency or root
	Meta Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// IsRoot reports whether the node is the graph's root module.
func (n Node) IsRoot() bool { return n.Kind == NodeKindRoot }

// Edge is a directed "depends on" connection.
type Edge struct {
	From string   // Source node ID
	To   string   // Target node ID
	Meta Metadata // Arbitrary key-value metadata (never nil after AddEdge)
}

// DAG is a directed dependency graph. Node and edge iteration follows
// insertion order so exports are deterministic.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent use without external synchronization.
type DAG struct {
	nodes    map[string]*Node
	order    []*Node
	edges    []Edge
	edgeSet  map[[2]string]bool
	outgoing map[string][]string // nodeID -> children IDs
	incoming map[string][]string // nodeID -> parent IDs
	meta     Metadata
}

// New creates an empty DAG with optional graph-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		edgeSet:  make(map[[2]string]bool),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Adding the same
// edge twice is a no-op.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	key := [2]string{e.From, e.To}
	if d.edgeSet[key] {
		return nil
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edgeSet[key] = true
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// RemoveEdge deletes the edge from -> to. It reports whether the edge existed.
func (d *DAG) RemoveEdge(from, to string) bool {
	key := [2]string{from, to}
	if !d.edgeSet[key] {
		return false
	}
	delete(d.edgeSet, key)
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	d.outgoing[from] = slices.DeleteFunc(d.outgoing[from], func(id string) bool { return id == to })
	d.incoming[to] = slices.DeleteFunc(d.incoming[to], func(id string) bool { return id == from })
	return true
}

// Nodes returns all nodes in insertion order. The returned pointers refer to
// the graph's nodes.
func (d *DAG) Nodes() []*Node { return slices.Clone(d.order) }

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the IDs of nodes that this node has edges to.
// The returned slice should not be modified.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the IDs of nodes that have edges to this node.
// The returned slice should not be modified.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// Node returns the node with the given ID and true, or nil and false if not found.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Sources returns nodes with no incoming edges, in insertion order.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, n := range d.order {
		if len(d.incoming[n.ID]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges, in insertion order.
func (d *DAG) Sinks() []*Node {
	var sinks []*Node
	for _, n := range d.order {
		if len(d.outgoing[n.ID]) == 0 {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// Validate returns ErrGraphHasCycle if the graph contains a directed cycle.
// Package metadata occasionally declares mutual dependencies, so exporters
// call Validate only when a consumer requires acyclicity.
func (d *DAG) Validate() error {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(d.nodes))

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		for _, c := range d.outgoing[id] {
			switch color[c] {
			case gray:
				return true
			case white:
				if visit(c) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	for _, n := range d.order {
		if color[n.ID] == white && visit(n.ID) {
			return ErrGraphHasCycle
		}
	}
	return nil
}
