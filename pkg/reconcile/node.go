package reconcile

import (
	"slices"
	"strings"

	"github.com/matzehuels/depsync/pkg/coord"
	"github.com/matzehuels/depsync/pkg/project"
)

// Kind discriminates library nodes from module nodes.
type Kind int

const (
	// KindLibrary is an external library keyed by coordinate text.
	KindLibrary Kind = iota
	// KindModule is a dependency on another project module keyed by path.
	KindModule
)

func (k Kind) String() string {
	if k == KindModule {
		return "module"
	}
	return "library"
}

// Node is a canonical reconciled dependency. Fields that do not apply to the
// node's Kind are zero.
type Node struct {
	kind Kind

	// library
	coordinate coord.Coordinate
	promotedTo *coord.Coordinate // resolved coordinate that replaced the request
	promoted   bool
	resolved   bool // visited by the walker, not only declared
	specs      []coord.Coordinate

	// module
	path           string
	target         project.TargetRef
	targetVariants []string

	statements []project.DeclaredDependency
	containers ContainerSet
}

func newLibraryNode(c coord.Coordinate) *Node {
	return &Node{kind: KindLibrary, coordinate: c}
}

func newModuleNode(path string, target project.TargetRef) *Node {
	return &Node{kind: KindModule, path: path, target: target}
}

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Key returns the identity key: coordinate text for libraries, the module
// path for modules.
func (n *Node) Key() string {
	if n.kind == KindModule {
		return n.path
	}
	return n.coordinate.String()
}

// ValueText returns the text a presentation layer shows for the node.
func (n *Node) ValueText() string {
	switch n.kind {
	case KindModule:
		return n.path
	default:
		return n.coordinate.Full()
	}
}

// Coordinate returns the library coordinate the node is keyed by.
func (n *Node) Coordinate() coord.Coordinate { return n.coordinate }

// Path returns the module path of a module node.
func (n *Node) Path() string { return n.path }

// Target returns the resolved project module, or nil for a dangling
// reference.
func (n *Node) Target() project.TargetRef { return n.target }

// IsDangling reports whether a module node references no project module.
func (n *Node) IsDangling() bool { return n.kind == KindModule && n.target == nil }

// TargetVariants returns the target-module variants selected by the resolver.
func (n *Node) TargetVariants() []string { return slices.Clone(n.targetVariants) }

// Statements returns the bound declared statements.
func (n *Node) Statements() []project.DeclaredDependency { return slices.Clone(n.statements) }

// IsDeclared reports whether at least one declared statement is bound.
func (n *Node) IsDeclared() bool { return len(n.statements) > 0 }

// IsResolved reports whether the resolver produced this node in at least one
// container. Nodes that only represent a promoted request are not resolved.
func (n *Node) IsResolved() bool { return n.resolved || n.kind == KindModule }

// Containers returns the containers that reference the node.
func (n *Node) Containers() []project.Container { return n.containers.Items() }

// ContainerCount returns the number of containers.
func (n *Node) ContainerCount() int { return n.containers.Len() }

// IsPromoted reports whether the resolver replaced the requested version.
func (n *Node) IsPromoted() bool { return n.promoted }

// DeclaredVersion returns the version text of the first bound statement that
// requests one.
func (n *Node) DeclaredVersion() (string, bool) {
	for _, d := range n.statements {
		if v, ok := d.VersionText(); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// ResolvedVersion returns the version the resolver picked. For a promoted
// node it is the version that replaced the request.
func (n *Node) ResolvedVersion() (string, bool) {
	if n.kind != KindLibrary {
		return "", false
	}
	if n.promotedTo != nil {
		return n.promotedTo.Version, n.promotedTo.Version != ""
	}
	if !n.resolved {
		return "", false
	}
	return n.coordinate.Version, n.coordinate.Version != ""
}

// PromotedTo returns the resolved coordinate of a promoted node.
func (n *Node) PromotedTo() (coord.Coordinate, bool) {
	if n.promotedTo == nil {
		return coord.Coordinate{}, false
	}
	return *n.promotedTo, true
}

// TransitiveSpecs returns the coordinates listed in the library's package
// metadata.
func (n *Node) TransitiveSpecs() []coord.Coordinate { return slices.Clone(n.specs) }

// bind attaches a declared statement. Statements accumulate and are
// compared by handle identity.
func (n *Node) bind(d project.DeclaredDependency) bool {
	if d == nil || slices.Contains(n.statements, d) {
		return false
	}
	n.statements = append(n.statements, d)
	return true
}

func (n *Node) addTargetVariant(v string) {
	if v != "" && !slices.Contains(n.targetVariants, v) {
		n.targetVariants = append(n.targetVariants, v)
	}
}

// metadataCoordinate is the coordinate whose package metadata describes the
// node's dependencies.
func (n *Node) metadataCoordinate() (coord.Coordinate, bool) {
	c := n.coordinate
	if n.promotedTo != nil {
		c = *n.promotedTo
	}
	if !c.HasVersion() || strings.Contains(c.Version, "+") {
		return coord.Coordinate{}, false
	}
	return c, true
}
